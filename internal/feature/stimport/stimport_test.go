package stimport_test

import (
	"testing"

	"stcss/internal/diag"
	"stcss/internal/feature/stimport"
	"stcss/internal/symbols"
	"stcss/internal/testkit"
)

func TestImportForms(t *testing.T) {
	p := testkit.NewProject(map[string]string{
		"ui/page.st.css": `@st-import Gallery, [item, icon as glyph] from "../lib/gallery.st.css";
@st-import Button from './button.st.css';`,
	})
	m := p.Meta("ui/page.st.css")
	imports := stimport.Imports(m)
	if len(imports) != 2 {
		t.Fatalf("expected 2 imports, got %d", len(imports))
	}
	if imports[0].From != "/proj/lib/gallery.st.css" || imports[1].From != "/proj/ui/button.st.css" {
		t.Fatalf("unexpected resolved paths %q %q", imports[0].From, imports[1].From)
	}
	if imports[1].Request != "./button.st.css" {
		t.Fatalf("request not kept verbatim: %q", imports[1].Request)
	}

	gallery, ok := symbols.Lookup[*symbols.ImportSymbol](m.Symbols, "Gallery")
	if !ok || !gallery.Default || gallery.Imported != symbols.RootClass {
		t.Fatalf("unexpected default import %+v", gallery)
	}
	glyph, ok := symbols.Lookup[*symbols.ImportSymbol](m.Symbols, "glyph")
	if !ok || glyph.Default || glyph.Imported != "icon" {
		t.Fatalf("unexpected renamed import %+v", glyph)
	}
	if _, ok := m.Symbols.Get("icon"); ok {
		t.Fatalf("renamed import must not bind the original name")
	}
	if len(imports[0].Symbols) != 3 {
		t.Fatalf("expected 3 symbols on the first import, got %d", len(imports[0].Symbols))
	}
	// импорты не попадают в результат
	if got := p.Transform("ui/page.st.css"); got != "" {
		t.Fatalf("directives must not reach the output, got %q", got)
	}
}

func TestImportErrors(t *testing.T) {
	cases := []struct {
		params string
		code   diag.Code
	}{
		{`Button "./b.st.css"`, diag.ImpInvalidFormat},
		{`Button from ./b.st.css`, diag.ImpInvalidFormat},
		{`[a, from "./b.st.css"`, diag.ImpInvalidFormat},
		{`from "./b.st.css"`, diag.ImpInvalidFormat},
		{`[a as] from "./b.st.css"`, diag.ImpInvalidFormat},
		{`A from "./b.st.css" extra`, diag.ImpInvalidFormat},
	}
	for _, tc := range cases {
		t.Run(tc.params, func(t *testing.T) {
			p := testkit.NewProject(map[string]string{"a.st.css": "@st-import " + tc.params + ";"})
			codes := p.Codes("a.st.css")
			if len(codes) != 1 || codes[0] != tc.code {
				t.Fatalf("expected %s, got %v", tc.code.ID(), codes)
			}
		})
	}
}

func TestImportNotTopLevel(t *testing.T) {
	p := testkit.NewProject(map[string]string{
		"a.st.css": "@media screen { @st-import A from \"./b.st.css\"; }",
	})
	if n := p.Count("a.st.css", diag.ImpNotTopLevel); n != 1 {
		t.Fatalf("expected a nested import warning, got %v", p.Codes("a.st.css"))
	}
	if len(stimport.Imports(p.Meta("a.st.css"))) != 0 {
		t.Fatalf("nested import must be ignored")
	}
}

func TestDuplicateImportName(t *testing.T) {
	p := testkit.NewProject(map[string]string{
		"a.st.css": "@st-import A from \"./b.st.css\";\n@st-import [A] from \"./c.st.css\";",
	})
	if n := p.Count("a.st.css", diag.SymRedeclare); n != 1 {
		t.Fatalf("expected a redeclare warning, got %v", p.Codes("a.st.css"))
	}
	imp, _ := symbols.Lookup[*symbols.ImportSymbol](p.Meta("a.st.css").Symbols, "A")
	if !imp.Default {
		t.Fatalf("first binding must be kept")
	}
}

func TestResolveRequest(t *testing.T) {
	cases := []struct{ importer, request, want string }{
		{"/p/a/x.st.css", "./y.st.css", "/p/a/y.st.css"},
		{"/p/a/x.st.css", "../b/y.st.css", "/p/b/y.st.css"},
		{"/p/a/x.st.css", "/abs/y.st.css", "/abs/y.st.css"},
	}
	for _, tc := range cases {
		if got := stimport.ResolveRequest(tc.importer, tc.request); got != tc.want {
			t.Errorf("ResolveRequest(%q, %q) = %q, want %q", tc.importer, tc.request, got, tc.want)
		}
	}
}
