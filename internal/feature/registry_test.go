package feature

import (
	"testing"

	"stcss/internal/meta"
	"stcss/internal/selector"
)

type probe struct {
	Base
	name  string
	calls *[]string
}

func (p probe) Name() string { return p.name }

func (p probe) AnalyzeInit(*meta.Meta) {
	*p.calls = append(*p.calls, p.name)
}

func TestRegistryOrderAndDispatch(t *testing.T) {
	var calls []string
	r := NewRegistry()
	a := probe{name: "a", calls: &calls}
	b := probe{name: "b", calls: &calls}
	c := probe{name: "c", calls: &calls}
	r.Register(a, selector.KindType, selector.KindClass)
	r.Register(b)
	r.Register(c, selector.KindClass)

	if got := r.ForKind(selector.KindClass); len(got) != 2 || got[0].Name() != "a" || got[1].Name() != "c" {
		t.Fatalf("unexpected class dispatch %v", got)
	}
	if got := r.ForKind(selector.KindID); len(got) != 0 {
		t.Fatalf("unexpected id dispatch %v", got)
	}
	r.Init(nil)
	if len(calls) != 3 || calls[0] != "a" || calls[1] != "b" || calls[2] != "c" {
		t.Fatalf("init order %v", calls)
	}
}

func TestRegistryDuplicatePanics(t *testing.T) {
	var calls []string
	r := NewRegistry()
	r.Register(probe{name: "x", calls: &calls})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate registration")
		}
	}()
	r.Register(probe{name: "x", calls: &calls})
}

func TestScopeContextReplacement(t *testing.T) {
	sc := &ScopeContext{}
	if _, ok := sc.TakeReplacement(); ok {
		t.Fatalf("no replacement expected")
	}
	sc.ReplaceCurrent()
	nodes, ok := sc.TakeReplacement()
	if !ok || len(nodes) != 0 {
		t.Fatalf("empty replacement should remove the node")
	}
	sc.SetCurrentAnchor(Anchor{Name: "Btn"})
	saved := sc.CurrentAnchor()
	sc.ResetAnchor()
	if sc.CurrentAnchor() != nil {
		t.Fatalf("anchor not reset")
	}
	sc.RestoreAnchor(saved)
	if sc.CurrentAnchor().Name != "Btn" {
		t.Fatalf("anchor not restored")
	}
}
