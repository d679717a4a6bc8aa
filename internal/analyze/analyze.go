// Package analyze runs the analyze pass: it initializes every feature on a
// Meta, hands at-rules and declarations to the features that handle them and
// walks every selector, dispatching nodes by kind and tracking whether each
// top-level chain is locally scoped.
package analyze

import (
	"stcss/internal/feature"
	"stcss/internal/meta"
	"stcss/internal/record"
	"stcss/internal/selector"
	"stcss/internal/stylesheet"
)

// ScopeAtRule is the explicit scoping directive.
const ScopeAtRule = "st-scope"

var selectorsKey = record.NewKey[map[*stylesheet.Node][]*selector.Node]("analyze-selectors")

type analyzer struct {
	m         *meta.Meta
	reg       *feature.Registry
	selectors map[*stylesheet.Node][]*selector.Node
}

// Analyze runs the analyze pass of reg over m. It must run exactly once per Meta.
func Analyze(m *meta.Meta, reg *feature.Registry) {
	reg.Init(m)
	a := &analyzer{
		m:         m,
		reg:       reg,
		selectors: make(map[*stylesheet.Node][]*selector.Node),
	}
	record.Set(m.Data, selectorsKey, a.selectors)

	// импорты объявляются раньше классов и типов, которые на них ссылаются
	stylesheet.Walk(m.Sheet.Nodes, func(n *stylesheet.Node, parents []*stylesheet.Node) bool {
		if n.Kind == stylesheet.KindAtRule {
			a.atRule(n, parents)
		}
		return true
	})
	a.nodes(m.Sheet.Nodes, false)
}

// Selectors returns the parsed selector list of a rule or @st-scope node.
// Nodes the pass never saw are parsed on demand without diagnostics.
func Selectors(m *meta.Meta, node *stylesheet.Node) []*selector.Node {
	if cache, ok := record.Get(m.Data, selectorsKey); ok {
		if list, ok := cache[node]; ok {
			return list
		}
	}
	return selector.Parse(node.Params, node.ParamsSpan, nil)
}

func (a *analyzer) atRule(n *stylesheet.Node, parents []*stylesheet.Node) {
	for _, f := range a.reg.Features() {
		if h, ok := f.(feature.AtRuleAnalyzer); ok {
			h.AnalyzeAtRule(a.m, n, parents)
		}
	}
}

func (a *analyzer) nodes(list []*stylesheet.Node, inScope bool) {
	for _, n := range list {
		switch n.Kind {
		case stylesheet.KindRule:
			a.selector(n, inScope)
			a.decls(n)
		case stylesheet.KindAtRule:
			if n.Name == ScopeAtRule {
				a.selector(n, inScope)
				a.nodes(n.Nodes, true)
				continue
			}
			a.nodes(n.Nodes, inScope)
		}
	}
}

func (a *analyzer) decls(rule *stylesheet.Node) {
	for _, d := range rule.Nodes {
		if d.Kind != stylesheet.KindDecl {
			continue
		}
		for _, f := range a.reg.Features() {
			if h, ok := f.(feature.DeclAnalyzer); ok {
				h.AnalyzeDecl(a.m, rule, d)
			}
		}
	}
}

func (a *analyzer) selector(rule *stylesheet.Node, inScope bool) {
	list := selector.Parse(rule.Params, rule.ParamsSpan, a.m.Reporter)
	a.selectors[rule] = list

	locallyScoped := false
	selector.Walk(list, func(n *selector.Node, index int, siblings, parents []*selector.Node) selector.WalkAction {
		if n.Kind == selector.KindSelector {
			if len(parents) == 0 {
				locallyScoped = false
			}
			return selector.WalkContinue
		}
		ctx := &feature.NodeContext{
			Meta:     a.m,
			Rule:     rule,
			Node:     n,
			Index:    index,
			Siblings: siblings,
			Parents:  parents,
			InScope:  inScope,
		}
		action := selector.WalkContinue
		features := a.reg.ForKind(n.Kind)
		for _, f := range features {
			action = max(action, f.AnalyzeSelectorNode(ctx))
		}
		if ctx.TopLevel() {
			for _, f := range features {
				if v, ok := f.(feature.ScopeValidator); ok {
					locallyScoped = v.ValidateScoping(ctx, locallyScoped)
				}
			}
		}
		return action
	})
}
