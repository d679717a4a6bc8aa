package selector

import (
	"stcss/internal/source"
)

// Kind is the type of a selector AST node.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindSelector
	KindType
	KindClass
	KindID
	KindAttribute
	KindPseudoClass
	KindPseudoElement
	KindCombinator
	KindUniversal
	KindNesting
)

var kindNames = [...]string{
	KindInvalid:       "invalid",
	KindSelector:      "selector",
	KindType:          "type",
	KindClass:         "class",
	KindID:            "id",
	KindAttribute:     "attribute",
	KindPseudoClass:   "pseudo_class",
	KindPseudoElement: "pseudo_element",
	KindCombinator:    "combinator",
	KindUniversal:     "universal",
	KindNesting:       "nesting",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindInvalid]
}

// Combinator values.
const (
	Descendant = " "
	Child      = ">"
	Adjacent   = "+"
	Sibling    = "~"
)

// Node is one selector AST node.
//
// A KindSelector node holds one comma-separated alternative; its Nodes are the
// compound items and combinators in source order. Any other node with a
// non-nil Nodes slice is functional: Nodes are the selector arguments, or
// empty with Raw set when the argument is not a selector (nth-child, lang).
type Node struct {
	Kind  Kind
	Value string
	Nodes []*Node
	Raw   string
	Span  source.Span
}

// IsFunctional reports whether n was written with an argument list.
func (n *Node) IsFunctional() bool {
	return n.Kind != KindSelector && n.Nodes != nil
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := *n
	if n.Nodes != nil {
		cp.Nodes = Clone(n.Nodes)
	}
	return &cp
}

// Clone deep-copies a node list, keeping empty argument lists non-nil.
func Clone(list []*Node) []*Node {
	out := make([]*Node, len(list))
	for i, n := range list {
		out[i] = n.Clone()
	}
	return out
}
