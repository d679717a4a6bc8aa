// Package csstype is the type/element feature: it declares component-root
// type selectors as element symbols, namespaces them when they resolve across
// files and validates that bare type selectors do not leak document-wide.
package csstype

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"stcss/internal/diag"
	"stcss/internal/feature"
	"stcss/internal/feature/cssclass"
	"stcss/internal/meta"
	"stcss/internal/record"
	"stcss/internal/resolve"
	"stcss/internal/selector"
	"stcss/internal/source"
	"stcss/internal/stylesheet"
	"stcss/internal/symbols"
)

// valueToken is the only type name allowed with call syntax, and only as the
// direct argument of a pseudo-class: `:state(value(x))`.
// TODO: drop once custom states stop accepting value(...) arguments.
const valueToken = "value"

var dataKey = record.NewKey[map[string]*symbols.ElementSymbol]("css-type")

// Feature implements the type hooks.
type Feature struct {
	feature.Base
}

// New returns the type feature.
func New() *Feature {
	return &Feature{}
}

func (*Feature) Name() string { return "css-type" }

func (*Feature) AnalyzeInit(m *meta.Meta) {
	record.Set(m.Data, dataKey, make(map[string]*symbols.ElementSymbol))
}

func (*Feature) AnalyzeSelectorNode(ctx *feature.NodeContext) selector.WalkAction {
	n := ctx.Node
	if n.IsFunctional() && !allowedFunctional(n, ctx.Parents) {
		diag.ReportError(ctx.Meta.Reporter, diag.SelInvalidFunctional, n.Span,
			fmt.Sprintf("%q type is not functional", n.Value)).
			WithWord(n.String()).
			Emit()
	}
	AddType(ctx.Meta, n.Value, n.Span)
	return selector.WalkContinue
}

func allowedFunctional(n *selector.Node, parents []*selector.Node) bool {
	if len(parents) < 2 || n.Value != valueToken {
		return false
	}
	return parents[len(parents)-2].Kind == selector.KindPseudoClass
}

// ValidateScoping applies ValidateTypeScoping to top-level type nodes.
func (*Feature) ValidateScoping(ctx *feature.NodeContext, locallyScoped bool) bool {
	if ctx.Node.Kind != selector.KindType {
		return locallyScoped
	}
	return ValidateTypeScoping(ctx.Meta, ScopingInput{
		LocallyScoped: locallyScoped,
		InScope:       ctx.InScope,
		Node:          ctx.Node,
		Nodes:         ctx.Siblings,
		Index:         ctx.Index,
		Rule:          ctx.Rule,
	})
}

func (*Feature) TransformSelectorNode(sc *feature.ScopeContext, node *selector.Node) {
	resolved := sc.Parts.Element[node.Value]
	if len(resolved) == 0 {
		// нативные элементы (div, span) резолвятся сами в себя
		resolved = []resolve.Candidate{{
			Kind:   resolve.CandidateLocal,
			Meta:   sc.Meta,
			Symbol: &symbols.ElementSymbol{Name: node.Value},
		}}
	}
	sc.SetCurrentAnchor(feature.Anchor{Name: node.Value, Kind: symbols.KindElement, Resolved: resolved})
	if len(resolved) > 1 {
		origin, _ := resolve.OriginDefinition(resolved)
		cssclass.NamespaceClass(origin.Meta, origin.Symbol, node)
	}
}

// IsComponentRoot reports names that may be declared as elements: the first
// rune is an upper-case letter.
func IsComponentRoot(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return r != utf8.RuneError && unicode.IsUpper(r)
}

// AddType declares name as an element of m. It is idempotent per name and
// returns nil for names that are not component roots. A name that already
// exists as an import is aliased instead of reported as a duplicate.
func AddType(m *meta.Meta, name string, span source.Span) *symbols.ElementSymbol {
	types := record.MustGet(m.Data, dataKey)
	if sym, ok := types[name]; ok {
		return sym
	}
	if !IsComponentRoot(name) {
		return nil
	}
	alias, _ := symbols.Lookup[*symbols.ImportSymbol](m.Symbols, name)
	sym := &symbols.ElementSymbol{Name: name, Alias: alias, Span: span}
	// слот хранит элемент даже если таблица отклонила дубликат
	types[name] = sym
	m.Symbols.Add(symbols.AddOptions{Symbol: sym, Span: span, SafeRedeclare: alias != nil})
	return sym
}

// Get returns the element declared as name, or nil.
func Get(m *meta.Meta, name string) *symbols.ElementSymbol {
	return record.MustGet(m.Data, dataKey)[name]
}

// All returns the element slot of m. The map must not be modified.
func All(m *meta.Meta) map[string]*symbols.ElementSymbol {
	return record.MustGet(m.Data, dataKey)
}

// ScopingInput is the argument of ValidateTypeScoping.
type ScopingInput struct {
	LocallyScoped bool
	InScope       bool
	Node          *selector.Node
	Nodes         []*selector.Node
	Index         int
	Rule          *stylesheet.Node
}

// ValidateTypeScoping reports whether the type selector in.Node is safe. A
// chain already scoped, or a rule inside @st-scope, is safe as is. Otherwise a
// scoped class later in the chain makes it safe retroactively; without one an
// unscoped-type warning is reported and false returned. The tree is not modified.
func ValidateTypeScoping(m *meta.Meta, in ScopingInput) bool {
	if in.LocallyScoped || in.InScope {
		return true
	}
	if cssclass.ScopedNodeAfter(m, in.Nodes, in.Index) {
		return true
	}
	diag.ReportWarning(m.Reporter, diag.ScpUnscopedType, in.Node.Span,
		fmt.Sprintf("unscoped type selector %q will affect all elements of the same type in the document", in.Node.Value)).
		WithWord(in.Node.Value).
		Emit()
	return false
}
