package dag

import (
	"testing"

	"stcss/internal/diag"
	"stcss/internal/project"
	"stcss/internal/source"
)

func idsToNames(idx SheetIndex, ids []SheetID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.Name(id)
	}
	return out
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildIndexIncludesImports(t *testing.T) {
	metas := []project.SheetMeta{
		{
			Path: "/p/main.st.css",
			Imports: []project.ImportMeta{
				{Path: "/p/theme.st.css"},
				{Path: "/p/button.st.css"},
			},
		},
		{Path: "/p/button.st.css"},
	}

	idx := BuildIndex(metas)

	want := []string{"/p/button.st.css", "/p/main.st.css", "/p/theme.st.css"}
	if !equalNames(idx.IDToName, want) {
		t.Fatalf("IDToName = %v, want %v", idx.IDToName, want)
	}
	for i, name := range want {
		if id, ok := idx.Lookup(name); !ok || int(id) != i {
			t.Fatalf("Lookup(%q) = %v, want %d", name, id, i)
		}
	}
	if _, ok := idx.Lookup("/p/other.st.css"); ok {
		t.Fatal("unknown path must not resolve")
	}
	if idx.Len() != 3 || idx.Name(SheetID(7)) != "" {
		t.Fatalf("Len = %d, Name(7) = %q", idx.Len(), idx.Name(SheetID(7)))
	}
}

func TestBuildGraphSkipsMissingAndReportsSelfImport(t *testing.T) {
	selfSpan := source.Span{File: 1, Start: 3, End: 9}
	app := project.SheetMeta{
		Path: "app",
		Imports: []project.ImportMeta{
			{Path: "core"},
			{Path: "missing"},
			{Path: "app", Span: selfSpan},
			{Path: "core"},
		},
	}
	core := project.SheetMeta{Path: "core"}

	bag := diag.NewBag(10)
	idx := BuildIndex([]project.SheetMeta{app, core})
	g, _ := BuildGraph(idx, []SheetNode{
		{Meta: app, Reporter: &diag.BagReporter{Bag: bag}},
		{Meta: core},
	})

	appID, coreID, missingID := idx.NameToID["app"], idx.NameToID["core"], idx.NameToID["missing"]
	deps := g.Edges[int(appID)]
	if len(deps) != 2 || deps[0] != coreID || deps[1] != missingID {
		t.Fatalf("app deps = %v", deps)
	}
	if g.Present[int(missingID)] || g.Indeg[int(coreID)] != 1 {
		t.Fatalf("present=%v indeg=%v", g.Present, g.Indeg)
	}
	if bag.Len() != 1 {
		t.Fatalf("diagnostics = %d, want 1", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.ImpSelfImport || d.Primary != selfSpan {
		t.Fatalf("diag = %+v", d)
	}
}

func TestToposortKahnBatches(t *testing.T) {
	metas := []project.SheetMeta{
		{Path: "b", Imports: []project.ImportMeta{{Path: "c"}}},
		{Path: "a"},
		{Path: "c"},
	}
	nodes := make([]SheetNode, len(metas))
	for i, m := range metas {
		nodes[i] = SheetNode{Meta: m}
	}

	idx := BuildIndex(metas)
	g, _ := BuildGraph(idx, nodes)
	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatal("expected acyclic graph")
	}
	if got := idsToNames(idx, topo.Order); !equalNames(got, []string{"a", "b", "c"}) {
		t.Fatalf("order = %v", got)
	}
	if len(topo.Batches) != 2 {
		t.Fatalf("batches = %v", topo.Batches)
	}
	if got := idsToNames(idx, topo.Batches[0]); !equalNames(got, []string{"a", "b"}) {
		t.Fatalf("batch 0 = %v", got)
	}
	if got := idsToNames(idx, topo.DependenciesFirst()); !equalNames(got, []string{"c", "b", "a"}) {
		t.Fatalf("dependencies first = %v", got)
	}
}

func TestReportCycles(t *testing.T) {
	spanAB := source.Span{File: 1, Start: 0, End: 4}
	spanBA := source.Span{File: 2, Start: 0, End: 4}

	a := project.SheetMeta{Path: "a", Imports: []project.ImportMeta{{Path: "b", Span: spanAB}}}
	b := project.SheetMeta{Path: "b", Imports: []project.ImportMeta{{Path: "a", Span: spanBA}, {Path: "c"}}}
	c := project.SheetMeta{Path: "c"}

	bagA, bagB, bagC := diag.NewBag(10), diag.NewBag(10), diag.NewBag(10)
	idx := BuildIndex([]project.SheetMeta{a, b, c})
	g, slots := BuildGraph(idx, []SheetNode{
		{Meta: a, Reporter: &diag.BagReporter{Bag: bagA}},
		{Meta: b, Reporter: &diag.BagReporter{Bag: bagB}},
		{Meta: c, Reporter: &diag.BagReporter{Bag: bagC}},
	})

	topo := ToposortKahn(g)
	if !topo.Cyclic {
		t.Fatal("expected cycle")
	}
	if got := idsToNames(idx, topo.Cycles); !equalNames(got, []string{"a", "b"}) {
		t.Fatalf("cycles = %v, want [a b]", got)
	}

	ReportCycles(idx, slots, topo)

	if bagA.Len() != 1 || bagA.Items()[0].Code != diag.ImpCycle || bagA.Items()[0].Primary != spanAB {
		t.Fatalf("a diagnostics = %v", bagA.Items())
	}
	if bagB.Len() != 1 || bagB.Items()[0].Primary != spanBA {
		t.Fatalf("b diagnostics = %v", bagB.Items())
	}
	if bagC.Len() != 0 {
		t.Fatalf("c must not be reported: %v", bagC.Items())
	}
	if msg := bagA.Items()[0].Message; msg != "stylesheet participates in an import cycle: a -> b" {
		t.Fatalf("message = %q", msg)
	}
}
