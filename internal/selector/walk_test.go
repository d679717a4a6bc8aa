package selector

import "testing"

func TestWalkParentsAndIndex(t *testing.T) {
	list := MustParse(".a :value(Btn), Item")
	type visit struct {
		kind    Kind
		value   string
		index   int
		parents int
	}
	var got []visit
	Walk(list, func(n *Node, index int, _ []*Node, parents []*Node) WalkAction {
		got = append(got, visit{n.Kind, n.Value, index, len(parents)})
		return WalkContinue
	})
	want := []visit{
		{KindSelector, "", 0, 0},
		{KindClass, "a", 0, 1},
		{KindCombinator, Descendant, 1, 1},
		{KindPseudoClass, "value", 2, 1},
		{KindSelector, "", 0, 2},
		{KindType, "Btn", 0, 3},
		{KindSelector, "", 1, 0},
		{KindType, "Item", 0, 1},
	}
	if len(got) != len(want) {
		t.Fatalf("unexpected visits: %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("visit %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestWalkSkipAndStop(t *testing.T) {
	list := MustParse(":is(.a) .b .c")
	var seen []string
	stopped := Walk(list, func(n *Node, _ int, _ []*Node, _ []*Node) WalkAction {
		switch {
		case n.Kind == KindPseudoClass:
			return WalkSkip
		case n.Kind == KindClass:
			seen = append(seen, n.Value)
			if n.Value == "b" {
				return WalkStop
			}
		}
		return WalkContinue
	})
	if !stopped {
		t.Fatalf("expected walk to report stop")
	}
	if len(seen) != 1 || seen[0] != "b" {
		t.Fatalf("unexpected visits %v", seen)
	}
}

func TestCloneKeepsEmptyArgs(t *testing.T) {
	list := MustParse("li:nth-child(odd) .a")
	cp := Clone(list)
	cp[0].Nodes[3].Value = "b"
	if list[0].Nodes[3].Value != "a" {
		t.Fatalf("clone shares nodes")
	}
	if nth := cp[0].Nodes[1]; nth.Nodes == nil || !nth.IsFunctional() {
		t.Fatalf("clone lost functional marker")
	}
}
