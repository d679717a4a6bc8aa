// Package transform runs the transform pass: it copies the stylesheet tree,
// rewrites every selector through the feature hooks and prints the result.
package transform

import (
	"strconv"
	"strings"

	"stcss/internal/analyze"
	"stcss/internal/feature"
	"stcss/internal/feature/stimport"
	"stcss/internal/meta"
	"stcss/internal/resolve"
	"stcss/internal/selector"
	"stcss/internal/stylesheet"
)

// directivePrefix marks compile-time declarations that never reach the output.
const directivePrefix = "-st-"

type transformer struct {
	m   *meta.Meta
	reg *feature.Registry
	sc  *feature.ScopeContext
}

// Transform compiles an analyzed m into CSS text. Other Metas reachable
// through r are only read.
func Transform(m *meta.Meta, reg *feature.Registry, r *resolve.Resolver) string {
	return stylesheet.String(Tree(m, reg, r), stylesheet.PrintOptions{})
}

// Tree returns the output stylesheet tree of m without printing it.
func Tree(m *meta.Meta, reg *feature.Registry, r *resolve.Resolver) []*stylesheet.Node {
	t := &transformer{m: m, reg: reg, sc: feature.NewScopeContext(m, r)}
	return t.nodes(m.Sheet.Nodes, nil)
}

// Selector transforms a standalone selector in the context of m; used by tools.
func Selector(m *meta.Meta, reg *feature.Registry, r *resolve.Resolver, list []*selector.Node) string {
	t := &transformer{m: m, reg: reg, sc: feature.NewScopeContext(m, r)}
	list = selector.Clone(list)
	t.list(list)
	return selector.Stringify(list)
}

func (t *transformer) nodes(list []*stylesheet.Node, scope []*selector.Node) []*stylesheet.Node {
	out := make([]*stylesheet.Node, 0, len(list))
	for _, n := range list {
		switch n.Kind {
		case stylesheet.KindComment:
			out = append(out, n.Clone())
		case stylesheet.KindDecl:
			if strings.HasPrefix(n.Name, directivePrefix) {
				continue
			}
			out = append(out, n.Clone())
		case stylesheet.KindRule:
			cp := *n
			cp.Params = t.ruleSelector(n, scope)
			cp.Nodes = t.nodes(n.Nodes, nil)
			out = append(out, &cp)
		case stylesheet.KindAtRule:
			switch {
			case n.Name == stimport.AtRule, isStNamespace(n):
				continue
			case n.Name == analyze.ScopeAtRule:
				inner := selector.Clone(analyze.Selectors(t.m, n))
				t.list(inner)
				out = append(out, t.nodes(n.Nodes, prefix(scope, inner))...)
				continue
			}
			cp := *n
			if n.Nodes != nil {
				cp.Nodes = t.nodes(n.Nodes, scope)
			}
			out = append(out, &cp)
		}
	}
	return out
}

// isStNamespace matches `@namespace "Name";`; namespace rules with a url stay.
func isStNamespace(n *stylesheet.Node) bool {
	if n.Name != "namespace" {
		return false
	}
	v := strings.TrimSpace(n.Params)
	if _, err := strconv.Unquote(v); err == nil {
		return true
	}
	return len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\''
}

func (t *transformer) ruleSelector(rule *stylesheet.Node, scope []*selector.Node) string {
	list := selector.Clone(analyze.Selectors(t.m, rule))
	t.list(list)
	return selector.Stringify(prefix(scope, list))
}

func (t *transformer) list(list []*selector.Node) {
	for _, sel := range list {
		t.sc.ResetAnchor()
		sel.Nodes = t.chain(sel.Nodes)
	}
}

func (t *transformer) chain(nodes []*selector.Node) []*selector.Node {
	out := make([]*selector.Node, 0, len(nodes))
	for _, n := range nodes {
		for _, f := range t.reg.ForKind(n.Kind) {
			f.TransformSelectorNode(t.sc, n)
			if t.sc.HasReplacement() {
				break
			}
		}
		if repl, ok := t.sc.TakeReplacement(); ok {
			out = append(out, repl...)
			continue
		}
		if n.IsFunctional() && n.Raw == "" {
			saved := t.sc.CurrentAnchor()
			for _, arg := range n.Nodes {
				t.sc.RestoreAnchor(saved)
				arg.Nodes = t.chain(arg.Nodes)
			}
			t.sc.RestoreAnchor(saved)
		}
		out = append(out, n)
	}
	return out
}

// prefix places every scope alternative before every alternative of list.
func prefix(scope, list []*selector.Node) []*selector.Node {
	if len(scope) == 0 {
		return list
	}
	out := make([]*selector.Node, 0, len(scope)*len(list))
	for _, s := range scope {
		for _, l := range list {
			nodes := make([]*selector.Node, 0, len(s.Nodes)+1+len(l.Nodes))
			nodes = append(nodes, selector.Clone(s.Nodes)...)
			if len(l.Nodes) == 0 || l.Nodes[0].Kind != selector.KindCombinator {
				nodes = append(nodes, &selector.Node{Kind: selector.KindCombinator, Value: selector.Descendant})
			}
			nodes = append(nodes, selector.Clone(l.Nodes)...)
			out = append(out, &selector.Node{Kind: selector.KindSelector, Nodes: nodes, Span: l.Span})
		}
	}
	return out
}
