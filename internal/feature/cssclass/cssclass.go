// Package cssclass declares class symbols and rewrites class selectors into
// namespaced tokens.
package cssclass

import (
	"fmt"
	"strconv"
	"strings"

	"stcss/internal/diag"
	"stcss/internal/feature"
	"stcss/internal/meta"
	"stcss/internal/record"
	"stcss/internal/resolve"
	"stcss/internal/selector"
	"stcss/internal/source"
	"stcss/internal/stylesheet"
	"stcss/internal/symbols"
)

const globalDecl = "-st-global"

var dataKey = record.NewKey[map[string]*symbols.ClassSymbol]("css-class")

// Feature implements the class hooks.
type Feature struct {
	feature.Base
}

// New returns the class feature.
func New() *Feature {
	return &Feature{}
}

func (*Feature) Name() string { return "css-class" }

func (*Feature) AnalyzeInit(m *meta.Meta) {
	record.Set(m.Data, dataKey, make(map[string]*symbols.ClassSymbol))
	AddClass(m, symbols.RootClass, source.Span{File: m.FileID()})
}

func (*Feature) AnalyzeSelectorNode(ctx *feature.NodeContext) selector.WalkAction {
	n := ctx.Node
	switch n.Kind {
	case selector.KindPseudoClass:
		// содержимое :global() не объявляется и не считается локальным
		if IsGlobalPseudo(n) {
			return selector.WalkSkip
		}
	case selector.KindClass:
		if n.IsFunctional() {
			diag.ReportError(ctx.Meta.Reporter, diag.SelInvalidFunctional, n.Span,
				fmt.Sprintf("%q class is not functional", n.Value)).
				WithWord(n.String()).
				Emit()
		}
		AddClass(ctx.Meta, n.Value, n.Span)
	}
	return selector.WalkContinue
}

// ValidateScoping marks the chain locally scoped once a scoped class appears.
func (*Feature) ValidateScoping(ctx *feature.NodeContext, locallyScoped bool) bool {
	if ctx.Node.Kind == selector.KindClass && IsScoped(ctx.Meta, ctx.Node.Value) {
		return true
	}
	return locallyScoped
}

// AnalyzeDecl handles `-st-global: ".name"` inside a single-class rule.
func (*Feature) AnalyzeDecl(m *meta.Meta, rule, decl *stylesheet.Node) {
	if decl.Name != globalDecl {
		return
	}
	owner := singleClass(rule.Params)
	if owner == "" {
		diag.ReportError(m.Reporter, diag.SymInvalidGlobal, decl.Span,
			globalDecl+" is only allowed in a rule with a single class selector").
			WithWord(decl.Name).
			Emit()
		return
	}
	value := decl.Params
	if unq, err := strconv.Unquote(value); err == nil {
		value = unq
	} else {
		value = strings.Trim(value, "'")
	}
	target := singleClass(value)
	if target == "" {
		diag.ReportError(m.Reporter, diag.SymInvalidGlobal, decl.ParamsSpan,
			fmt.Sprintf("%s expects a single class selector, got %q", globalDecl, value)).
			WithWord(decl.Params).
			Emit()
		return
	}
	if sym := Get(m, owner); sym != nil {
		sym.Global = target
	}
}

func (*Feature) TransformSelectorNode(sc *feature.ScopeContext, node *selector.Node) {
	switch node.Kind {
	case selector.KindPseudoClass:
		if !IsGlobalPseudo(node) {
			return
		}
		if len(node.Nodes) == 1 {
			sc.ReplaceCurrent(node.Nodes[0].Nodes...)
			return
		}
		sc.ReplaceCurrent(&selector.Node{Kind: selector.KindPseudoClass, Value: "is", Nodes: node.Nodes, Span: node.Span})
	case selector.KindClass:
		resolved := sc.Parts.Class[node.Value]
		if len(resolved) == 0 {
			resolved = []resolve.Candidate{{
				Kind:   resolve.CandidateLocal,
				Meta:   sc.Meta,
				Symbol: &symbols.ClassSymbol{Name: node.Value},
			}}
		}
		sc.SetCurrentAnchor(feature.Anchor{Name: node.Value, Kind: symbols.KindClass, Resolved: resolved})
		origin, _ := resolve.OriginDefinition(resolved)
		NamespaceClass(origin.Meta, origin.Symbol, node)
	}
}

// AddClass declares name on m, returning the existing symbol when already declared.
// A class named like an existing import aliases it.
func AddClass(m *meta.Meta, name string, span source.Span) *symbols.ClassSymbol {
	classes := record.MustGet(m.Data, dataKey)
	if sym, ok := classes[name]; ok {
		return sym
	}
	alias, _ := symbols.Lookup[*symbols.ImportSymbol](m.Symbols, name)
	sym := &symbols.ClassSymbol{Name: name, Alias: alias, Span: span}
	classes[name] = sym
	m.Symbols.Add(symbols.AddOptions{Symbol: sym, Span: span, SafeRedeclare: alias != nil})
	return sym
}

// Get returns the class declared as name, or nil.
func Get(m *meta.Meta, name string) *symbols.ClassSymbol {
	return record.MustGet(m.Data, dataKey)[name]
}

// All returns the class slot of m. The map must not be modified.
func All(m *meta.Meta) map[string]*symbols.ClassSymbol {
	return record.MustGet(m.Data, dataKey)
}

// IsScoped reports whether class name compiles to a namespaced token in m.
// Classes not declared yet count as scoped: analysis declares them as local
// classes (or import aliases) when it reaches them.
func IsScoped(m *meta.Meta, name string) bool {
	sym := Get(m, name)
	return sym == nil || sym.Global == ""
}

// IsGlobalPseudo reports a :global(...) node.
func IsGlobalPseudo(n *selector.Node) bool {
	return n.Kind == selector.KindPseudoClass && n.Value == "global" && n.IsFunctional()
}

// ScopedNodeAfter reports whether a scoped class follows index in the same
// chain. Combinators are crossed; :global() contents and other comma
// alternatives are not part of nodes and never count.
func ScopedNodeAfter(m *meta.Meta, nodes []*selector.Node, index int) bool {
	for _, n := range nodes[index+1:] {
		if n.Kind == selector.KindClass && IsScoped(m, n.Value) {
			return true
		}
	}
	return false
}

// NamespaceClass rewrites node into the output class of sym as defined in defMeta.
func NamespaceClass(defMeta *meta.Meta, sym symbols.Symbol, node *selector.Node) {
	node.Kind = selector.KindClass
	node.Value = resolve.ScopedName(resolve.Candidate{Meta: defMeta, Symbol: sym})
	node.Nodes = nil
	node.Raw = ""
}

func singleClass(text string) string {
	list := selector.Parse(text, source.Span{}, nil)
	if len(list) != 1 || len(list[0].Nodes) != 1 {
		return ""
	}
	n := list[0].Nodes[0]
	if n.Kind != selector.KindClass || n.IsFunctional() {
		return ""
	}
	return n.Value
}
