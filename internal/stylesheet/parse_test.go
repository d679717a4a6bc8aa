package stylesheet

import (
	"testing"

	"stcss/internal/diag"
)

func parseWithBag(t *testing.T, src string) (*Sheet, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(64)
	sheet := ParseString(src, &diag.BagReporter{Bag: bag})
	return sheet, bag
}

func TestParseRulesAndDecls(t *testing.T) {
	src := ".root { color: red; margin : 0 auto }\nButton:hover{display:none !important;}"
	sheet, bag := parseWithBag(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(sheet.Nodes) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(sheet.Nodes))
	}
	root := sheet.Nodes[0]
	if root.Kind != KindRule || root.Params != ".root" {
		t.Fatalf("unexpected first rule: %+v", root)
	}
	if got := src[root.ParamsSpan.Start:root.ParamsSpan.End]; got != ".root" {
		t.Fatalf("selector span covers %q", got)
	}
	if len(root.Nodes) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(root.Nodes))
	}
	if d := root.Nodes[1]; d.Name != "margin" || d.Params != "0 auto" {
		t.Fatalf("unexpected decl: %q: %q", d.Name, d.Params)
	}
	d := sheet.Nodes[1].Nodes[0]
	if d.Name != "display" || d.Params != "none" || !d.Important {
		t.Fatalf("important not split: %+v", d)
	}
	if got := src[d.ParamsSpan.Start:d.ParamsSpan.End]; got != "none !important" {
		t.Fatalf("value span covers %q", got)
	}
}

func TestParseAtRules(t *testing.T) {
	src := `@namespace "Btn";
@st-import Base from "./base.st.css";
@media (min-width: 10px) {
  .a { color: red }
  @supports (display: grid) { .b { display: grid } }
}
@font-face { font-family: X; src: url(x.woff) }
@keyframes spin { from { transform: rotate(0) } to { transform: rotate(1turn) } }
`
	sheet, bag := parseWithBag(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(sheet.Nodes) != 5 {
		t.Fatalf("expected 5 top-level nodes, got %d", len(sheet.Nodes))
	}
	ns := sheet.Nodes[0]
	if ns.Kind != KindAtRule || ns.Name != "namespace" || ns.Params != `"Btn"` || ns.Block {
		t.Fatalf("unexpected namespace node: %+v", ns)
	}
	if imp := sheet.Nodes[1]; imp.Name != "st-import" || imp.Params != `Base from "./base.st.css"` {
		t.Fatalf("unexpected import node: %+v", imp)
	}
	media := sheet.Nodes[2]
	if media.Params != "(min-width: 10px)" || len(media.Nodes) != 2 {
		t.Fatalf("unexpected media node: %+v", media)
	}
	if sup := media.Nodes[1]; sup.Name != "supports" || len(sup.Nodes) != 1 || sup.Nodes[0].Params != ".b" {
		t.Fatalf("nested supports not parsed: %+v", sup)
	}
	if ff := sheet.Nodes[3]; len(ff.Nodes) != 2 || ff.Nodes[1].Params != "url(x.woff)" {
		t.Fatalf("font-face decls not parsed: %+v", ff)
	}
	kf := sheet.Nodes[4]
	if kf.Raw == "" || len(kf.Nodes) != 0 {
		t.Fatalf("keyframes should keep a raw body: %+v", kf)
	}
}

func TestParseCommentsKept(t *testing.T) {
	sheet, _ := parseWithBag(t, "/* head */\n.a { /* in */ color: red }")
	if len(sheet.Nodes) != 2 || sheet.Nodes[0].Kind != KindComment {
		t.Fatalf("top comment lost: %+v", sheet.Nodes)
	}
	if n := sheet.Nodes[1].Nodes; len(n) != 2 || n[0].Params != "/* in */" {
		t.Fatalf("inner comment lost: %+v", n)
	}
}

func TestParseRecoversFromErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code diag.Code
		ok   int
	}{
		{"unclosed", ".a { color: red", diag.CssUnclosedBlock, 1},
		{"stray brace", "} .a { color: red }", diag.CssUnexpectedToken, 1},
		{"missing selector", "{ color: red } .b {}", diag.CssMissingSelector, 2},
		{"missing colon", ".a { color red; top: 0 }", diag.CssMissingColon, 1},
		{"no block", ".a .b", diag.CssUnexpectedToken, 0},
		{"semicolon", ".a; .b { }", diag.CssUnexpectedToken, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sheet, bag := parseWithBag(t, tc.src)
			if bag.Len() == 0 {
				t.Fatalf("expected a diagnostic")
			}
			if got := bag.Items()[0].Code; got != tc.code {
				t.Fatalf("expected %s, got %s", tc.code.ID(), got.ID())
			}
			rules := 0
			for _, n := range sheet.Nodes {
				if n.Kind == KindRule {
					rules++
				}
			}
			if rules != tc.ok {
				t.Fatalf("expected %d surviving rules, got %d", tc.ok, rules)
			}
		})
	}
}

func TestMissingColonKeepsFollowingDecl(t *testing.T) {
	sheet, _ := parseWithBag(t, ".a { color red; top: 0 }")
	decls := sheet.Nodes[0].Nodes
	if len(decls) != 1 || decls[0].Name != "top" {
		t.Fatalf("expected only top decl, got %+v", decls)
	}
}

func TestWalkParents(t *testing.T) {
	sheet, _ := parseWithBag(t, "@media x { .a { color: red } } .b {}")
	var seen []string
	Walk(sheet.Nodes, func(n *Node, parents []*Node) bool {
		if n.Kind == KindRule {
			seen = append(seen, n.Params)
			if n.Params == ".a" && (len(parents) != 1 || parents[0].Name != "media") {
				t.Fatalf("unexpected parents for .a: %v", parents)
			}
		}
		return n.Kind != KindRule
	})
	if len(seen) != 2 || seen[0] != ".a" || seen[1] != ".b" {
		t.Fatalf("unexpected walk order: %v", seen)
	}
}

func TestCloneIsDeep(t *testing.T) {
	sheet, _ := parseWithBag(t, ".a { color: red }")
	cp := sheet.Nodes[0].Clone()
	cp.Nodes[0].Params = "blue"
	if sheet.Nodes[0].Nodes[0].Params != "red" {
		t.Fatalf("clone shares children")
	}
}

func TestTokenizeOffsetsContiguous(t *testing.T) {
	src := ".a:hover > b::before{x:url( y ) }/*c*/"
	toks := Tokenize(src)
	off := 0
	for _, tok := range toks {
		if tok.Start != off {
			t.Fatalf("gap before %q at %d (expected %d)", tok.Text, tok.Start, off)
		}
		off = tok.End
	}
	if !toks[len(toks)-1].IsEOF() || off != len(src) {
		t.Fatalf("tokens do not cover the source: end=%d len=%d", off, len(src))
	}
}
