package resolve

import (
	"testing"
	"time"

	"stcss/internal/diag"
	"stcss/internal/meta"
	"stcss/internal/source"
	"stcss/internal/symbols"
)

type world struct {
	fs    *source.FileSet
	metas map[string]*meta.Meta
}

func newWorld() *world {
	return &world{fs: source.NewFileSetWithBase("/p"), metas: make(map[string]*meta.Meta)}
}

func (w *world) add(path string) *meta.Meta {
	id := w.fs.Add(path, nil, time.Time{}, source.FileVirtual)
	m := meta.New(w.fs.Get(id), meta.Options{BaseDir: "/p"})
	m.Symbols.Add(symbols.AddOptions{Symbol: &symbols.ClassSymbol{Name: symbols.RootClass}})
	w.metas[path] = m
	return m
}

func (w *world) lookup(path string) (*meta.Meta, bool) {
	m, ok := w.metas[path]
	return m, ok
}

func addImport(m *meta.Meta, imp *symbols.ImportSymbol) {
	m.Symbols.Add(symbols.AddOptions{Symbol: imp})
}

func TestDefaultImportResolvesToRoot(t *testing.T) {
	w := newWorld()
	button := w.add("/p/button.st.css")
	page := w.add("/p/page.st.css")
	imp := &symbols.ImportSymbol{Name: "Button", From: "/p/button.st.css", Imported: symbols.RootClass, Default: true}
	addImport(page, imp)
	elem := &symbols.ElementSymbol{Name: "Button", Alias: imp}
	page.Symbols.Add(symbols.AddOptions{Symbol: elem, SafeRedeclare: true})

	parts := New(w.lookup).Parts(page)
	chain := parts.Element["Button"]
	if len(chain) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(chain))
	}
	if chain[0].Kind != CandidateLocal || chain[0].Symbol != elem {
		t.Fatalf("chain must start with the local symbol: %+v", chain[0])
	}
	origin, ok := OriginDefinition(chain)
	if !ok || origin.Meta != button || origin.Symbol.SymbolName() != symbols.RootClass || origin.Kind != CandidateExternal {
		t.Fatalf("unexpected origin %+v", origin)
	}
	if got := ScopedName(origin); got != button.Scoped("root") {
		t.Fatalf("unexpected scoped name %q", got)
	}
}

func TestReexportIsFollowedNotAppended(t *testing.T) {
	w := newWorld()
	base := w.add("/p/base.st.css")
	base.Symbols.Add(symbols.AddOptions{Symbol: &symbols.ClassSymbol{Name: "label"}})
	mid := w.add("/p/mid.st.css")
	addImport(mid, &symbols.ImportSymbol{Name: "label", From: "/p/base.st.css", Imported: "label"})
	top := w.add("/p/top.st.css")
	imp := &symbols.ImportSymbol{Name: "label", From: "/p/mid.st.css", Imported: "label"}
	addImport(top, imp)
	top.Symbols.Add(symbols.AddOptions{Symbol: &symbols.ClassSymbol{Name: "label", Alias: imp}, SafeRedeclare: true})

	chain := New(w.lookup).Parts(top).Class["label"]
	if len(chain) != 2 || chain[1].Meta != base {
		t.Fatalf("expected local + base candidates, got %+v", chain)
	}
}

func TestCycleStops(t *testing.T) {
	w := newWorld()
	a := w.add("/p/a.st.css")
	b := w.add("/p/b.st.css")
	impA := &symbols.ImportSymbol{Name: "x", From: "/p/b.st.css", Imported: "x"}
	impB := &symbols.ImportSymbol{Name: "x", From: "/p/a.st.css", Imported: "x"}
	a.Symbols.Add(symbols.AddOptions{Symbol: &symbols.ClassSymbol{Name: "x", Alias: impA}})
	b.Symbols.Add(symbols.AddOptions{Symbol: &symbols.ClassSymbol{Name: "x", Alias: impB}})

	chain := New(w.lookup).Parts(a).Class["x"]
	if len(chain) != 2 {
		t.Fatalf("cycle must terminate after one hop, got %d candidates", len(chain))
	}
}

func TestPartsMemoized(t *testing.T) {
	w := newWorld()
	m := w.add("/p/a.st.css")
	r := New(w.lookup)
	if r.Parts(m) != r.Parts(m) {
		t.Fatalf("parts should be computed once")
	}
	p := r.Parts(m)
	r.Forget(m)
	if r.Parts(m) == p {
		t.Fatalf("Forget should drop memoized parts")
	}
}

func TestReportIssues(t *testing.T) {
	w := newWorld()
	w.add("/p/lib.st.css")
	m := w.add("/p/app.st.css")
	addImport(m, &symbols.ImportSymbol{Name: "Missing", Request: "./nope.st.css", From: "/p/nope.st.css", Default: true})
	addImport(m, &symbols.ImportSymbol{Name: "ghost", Request: "./lib.st.css", From: "/p/lib.st.css", Imported: "ghost"})

	if n := New(w.lookup).ReportIssues(m); n != 2 {
		t.Fatalf("expected 2 issues, got %d", n)
	}
	items := m.Bag.Items()
	if items[0].Code != diag.ImpUnknownFile || items[1].Code != diag.ImpUnknownSymbol {
		t.Fatalf("unexpected codes %s %s", items[0].Code.ID(), items[1].Code.ID())
	}
	if items[1].Severity != diag.SevWarning {
		t.Fatalf("unknown symbol should be a warning")
	}
}

func TestExports(t *testing.T) {
	w := newWorld()
	lib := w.add("/p/lib.st.css")
	lib.Symbols.Add(symbols.AddOptions{Symbol: &symbols.ClassSymbol{Name: "btn"}})
	m := w.add("/p/app.st.css")
	imp := &symbols.ImportSymbol{Name: "btn", From: "/p/lib.st.css", Imported: "btn"}
	addImport(m, imp)
	m.Symbols.Add(symbols.AddOptions{Symbol: &symbols.ClassSymbol{Name: "btn", Alias: imp}, SafeRedeclare: true})
	m.Symbols.Add(symbols.AddOptions{Symbol: &symbols.ClassSymbol{Name: "app", Global: "app-shell"}})

	got := New(w.lookup).Exports(m)
	want := []Export{
		{Name: "app", Scoped: "app-shell"},
		{Name: "btn", Scoped: lib.Scoped("btn"), From: lib.RelPath},
		{Name: "root", Scoped: m.Scoped("root")},
	}
	if len(got) != len(want) {
		t.Fatalf("unexpected exports %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("export %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}
