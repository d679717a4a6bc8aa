// Package pseudoelement resolves `::name` against the current anchor: when
// the anchor is a component whose stylesheet declares class `name`, the
// pseudo-element becomes a descendant selector of that class.
package pseudoelement

import (
	"stcss/internal/feature"
	"stcss/internal/feature/cssclass"
	"stcss/internal/resolve"
	"stcss/internal/selector"
	"stcss/internal/symbols"
)

// Feature implements the pseudo-element hooks.
type Feature struct {
	feature.Base
}

// New returns the pseudo-element feature.
func New() *Feature {
	return &Feature{}
}

func (*Feature) Name() string { return "pseudo-element" }

func (*Feature) TransformSelectorNode(sc *feature.ScopeContext, node *selector.Node) {
	anchor := sc.CurrentAnchor()
	if anchor == nil || node.IsFunctional() {
		return
	}
	origin, ok := resolve.OriginDefinition(anchor.Resolved)
	if !ok || origin.Symbol.Kind() != symbols.KindClass {
		return
	}
	if cssclass.Get(origin.Meta, node.Value) == nil {
		// нативный псевдоэлемент (::before) остаётся как есть
		return
	}
	chain := sc.Resolver.Parts(origin.Meta).Class[node.Value]
	part, ok := resolve.OriginDefinition(chain)
	if !ok {
		return
	}
	cls := &selector.Node{Kind: selector.KindClass, Value: node.Value, Span: node.Span}
	cssclass.NamespaceClass(part.Meta, part.Symbol, cls)
	sc.SetCurrentAnchor(feature.Anchor{Name: node.Value, Kind: symbols.KindClass, Resolved: chain})
	sc.ReplaceCurrent(
		&selector.Node{Kind: selector.KindCombinator, Value: selector.Descendant, Span: node.Span},
		cls,
	)
}
