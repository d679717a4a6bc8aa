package transform_test

import (
	"strings"
	"testing"

	"stcss/internal/selector"
	"stcss/internal/testkit"
	"stcss/internal/transform"
)

func TestStScopePrefixesNestedRules(t *testing.T) {
	p := testkit.NewProject(map[string]string{
		"a.st.css": "@st-scope .root {\n  .a { color: red }\n  Type, > .b {}\n}",
	})
	m := p.Meta("a.st.css")
	root := "." + m.Scoped("root")
	want := root + " ." + m.Scoped("a") + " {\n  color: red;\n}\n\n" +
		root + " Type, " + root + " > ." + m.Scoped("b") + " {}\n"
	if got := p.Transform("a.st.css"); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestAtRulesKept(t *testing.T) {
	p := testkit.NewProject(map[string]string{
		"a.st.css": `@namespace "Gallery";
@namespace svg url(http://www.w3.org/2000/svg);
@media (min-width: 10px) { .item { color: red } }
@keyframes spin { from { opacity: 0 } }`,
	})
	m := p.Meta("a.st.css")
	if !strings.HasPrefix(m.Namespace, "Gallery") {
		t.Fatalf("namespace directive ignored: %s", m.Namespace)
	}
	want := `@namespace svg url(http://www.w3.org/2000/svg);

@media (min-width: 10px) {
  .` + m.Scoped("item") + ` {
    color: red;
  }
}

@keyframes spin {
  from { opacity: 0 }
}
`
	if got := p.Transform("a.st.css"); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestFunctionalArgumentsTransformed(t *testing.T) {
	p := testkit.NewProject(map[string]string{
		"a.st.css": ".root:not(.a, .b) li:nth-child(2n+1) {}",
	})
	m := p.Meta("a.st.css")
	want := "." + m.Scoped("root") + ":not(." + m.Scoped("a") + ", ." + m.Scoped("b") + ") li:nth-child(2n+1) {}\n"
	if got := p.Transform("a.st.css"); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestTransformLeavesSourceIntact(t *testing.T) {
	p := testkit.NewProject(map[string]string{"a.st.css": ".root .a {}"})
	m := p.Meta("a.st.css")
	first := p.Transform("a.st.css")
	if m.Sheet.Nodes[0].Params != ".root .a" {
		t.Fatalf("source tree mutated: %q", m.Sheet.Nodes[0].Params)
	}
	if second := p.Transform("a.st.css"); second != first {
		t.Fatalf("transform is not repeatable:\n%s\n%s", first, second)
	}
}

func TestSelectorHelper(t *testing.T) {
	p := testkit.NewProject(map[string]string{"a.st.css": ".btn {}"})
	m := p.Meta("a.st.css")
	got := transform.Selector(m, p.Registry, p.Resolver, selector.MustParse(".btn:hover"))
	if want := "." + m.Scoped("btn") + ":hover"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
