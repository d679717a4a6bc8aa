package stylesheet

import (
	"stcss/internal/source"
)

// Kind is the type of a stylesheet node.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindRule
	KindAtRule
	KindDecl
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindRule:
		return "rule"
	case KindAtRule:
		return "atrule"
	case KindDecl:
		return "decl"
	case KindComment:
		return "comment"
	default:
		return "invalid"
	}
}

// Node is one entry of the stylesheet tree.
//
//	rule:    Params = selector text, Nodes = declarations
//	atrule:  Name = "media", Params = prelude, Nodes or Raw = block body
//	decl:    Name = property, Params = value
//	comment: Params = full comment text
type Node struct {
	Kind       Kind
	Name       string
	Params     string
	ParamsSpan source.Span
	Span       source.Span
	Nodes      []*Node
	Block      bool
	Raw        string
	Important  bool
}

// Sheet is a parsed stylesheet.
type Sheet struct {
	File  source.FileID
	Nodes []*Node
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := *n
	if n.Nodes != nil {
		cp.Nodes = make([]*Node, len(n.Nodes))
		for i, child := range n.Nodes {
			cp.Nodes[i] = child.Clone()
		}
	}
	return &cp
}

// Walk visits nodes depth-first; fn receives the chain of enclosing at-rules and rules.
// Returning false skips the children of the visited node.
func Walk(nodes []*Node, fn func(n *Node, parents []*Node) bool) {
	walk(nodes, nil, fn)
}

func walk(nodes []*Node, parents []*Node, fn func(n *Node, parents []*Node) bool) {
	for _, n := range nodes {
		if !fn(n, parents) {
			continue
		}
		if len(n.Nodes) > 0 {
			walk(n.Nodes, append(parents[:len(parents):len(parents)], n), fn)
		}
	}
}
