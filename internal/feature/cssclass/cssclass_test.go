package cssclass_test

import (
	"strings"
	"testing"

	"stcss/internal/diag"
	"stcss/internal/feature/cssclass"
	"stcss/internal/selector"
	"stcss/internal/symbols"
	"stcss/internal/testkit"
)

func TestRootDeclaredAtInit(t *testing.T) {
	m := testkit.NewProject(map[string]string{"a.st.css": ""}).Meta("a.st.css")
	root := cssclass.Get(m, symbols.RootClass)
	if root == nil {
		t.Fatalf("root class missing")
	}
	if sym, _ := m.Symbols.Get(symbols.RootClass); sym != root {
		t.Fatalf("root not registered in the symbol table")
	}
}

func TestClassesDeclaredInOrder(t *testing.T) {
	m := testkit.NewProject(map[string]string{"a.st.css": ".b .a, .b:hover {}"}).Meta("a.st.css")
	var names []string
	for _, sym := range m.Symbols.All() {
		names = append(names, sym.SymbolName())
	}
	if got := strings.Join(names, ","); got != "root,b,a" {
		t.Fatalf("unexpected declaration order %s", got)
	}
}

func TestClassAliasesNamedImport(t *testing.T) {
	p := testkit.NewProject(map[string]string{
		"lib.st.css": ".btn { color: red }",
		"app.st.css": "@st-import [btn] from \"./lib.st.css\";\n.root .btn {}",
	})
	m := p.Meta("app.st.css")
	if m.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics %v", m.Bag.Items())
	}
	sym := cssclass.Get(m, "btn")
	if sym == nil || sym.Alias == nil || sym.Alias.Imported != "btn" {
		t.Fatalf("class should alias the import: %+v", sym)
	}
	want := "." + m.Scoped("root") + " ." + p.Meta("lib.st.css").Scoped("btn") + " {}\n"
	if got := p.Transform("app.st.css"); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestStGlobal(t *testing.T) {
	p := testkit.NewProject(map[string]string{
		"a.st.css": ".app { -st-global: \".app-shell\"; color: red }\n.app Type {}",
	})
	m := p.Meta("a.st.css")
	if sym := cssclass.Get(m, "app"); sym == nil || sym.Global != "app-shell" {
		t.Fatalf("class not marked global: %+v", sym)
	}
	if cssclass.IsScoped(m, "app") {
		t.Fatalf("global class must not count as scoped")
	}
	if n := p.Count("a.st.css", diag.ScpUnscopedType); n != 1 {
		t.Fatalf("a global class does not scope a type, got %v", p.Codes("a.st.css"))
	}
	want := ".app-shell {\n  color: red;\n}\n\n.app-shell Type {}\n"
	if got := p.Transform("a.st.css"); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestStGlobalInvalid(t *testing.T) {
	p := testkit.NewProject(map[string]string{
		"compound.st.css": ".a .b { -st-global: \".x\" }",
		"value.st.css":    ".a { -st-global: \"div\" }",
	})
	for _, name := range []string{"compound.st.css", "value.st.css"} {
		if n := p.Count(name, diag.SymInvalidGlobal); n != 1 {
			t.Errorf("%s: expected one invalid -st-global, got %v", name, p.Codes(name))
		}
	}
}

func TestGlobalPseudoUnwrapped(t *testing.T) {
	p := testkit.NewProject(map[string]string{
		"a.st.css": ".root :global(.x) {}\n.root :global(.y, .z) {}",
	})
	m := p.Meta("a.st.css")
	if cssclass.Get(m, "x") != nil {
		t.Fatalf(":global contents must not be declared")
	}
	root := "." + m.Scoped("root")
	want := root + " .x {}\n\n" + root + " :is(.y, .z) {}\n"
	if got := p.Transform("a.st.css"); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestFunctionalClassRejected(t *testing.T) {
	p := testkit.NewProject(map[string]string{"a.st.css": ".a(x) {}"})
	items := p.Meta("a.st.css").Bag.Items()
	if len(items) != 1 || items[0].Code != diag.SelInvalidFunctional || items[0].Message != `"a" class is not functional` {
		t.Fatalf("unexpected diagnostics %v", items)
	}
}

func TestScopedNodeAfter(t *testing.T) {
	p := testkit.NewProject(map[string]string{"a.st.css": ".g { -st-global: \".g\" }"})
	m := p.Meta("a.st.css")
	cases := []struct {
		sel  string
		want bool
	}{
		{"Type .local", true},
		{"Type > span .local", true},
		{"Type :global(.x)", false},
		{"Type .g", false},
		{"Type", false},
	}
	for _, tc := range cases {
		nodes := selector.MustParse(tc.sel)[0].Nodes
		if got := cssclass.ScopedNodeAfter(m, nodes, 0); got != tc.want {
			t.Errorf("ScopedNodeAfter(%q) = %v, want %v", tc.sel, got, tc.want)
		}
	}
	// другая альтернатива через запятую не учитывается
	list := selector.MustParse("Type, .local")
	if cssclass.ScopedNodeAfter(m, list[0].Nodes, 0) {
		t.Fatalf("comma alternatives must not scope each other")
	}
}
