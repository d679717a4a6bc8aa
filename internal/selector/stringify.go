package selector

import "strings"

// Stringify renders a selector list back to CSS.
func Stringify(list []*Node) string {
	var b strings.Builder
	writeList(&b, list)
	return b.String()
}

// String renders a single node.
func (n *Node) String() string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeList(b *strings.Builder, list []*Node) {
	for i, n := range list {
		if i > 0 {
			b.WriteString(", ")
		}
		writeNode(b, n)
	}
}

func writeNode(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindSelector:
		for i, child := range n.Nodes {
			if i == 0 && child.Kind == KindCombinator && child.Value != Descendant {
				// относительный селектор, например :has(> .a)
				b.WriteString(child.Value)
				b.WriteByte(' ')
				continue
			}
			writeNode(b, child)
		}
		return
	case KindCombinator:
		if n.Value == Descendant {
			b.WriteByte(' ')
		} else {
			b.WriteByte(' ')
			b.WriteString(n.Value)
			b.WriteByte(' ')
		}
		return
	case KindClass:
		b.WriteByte('.')
	case KindID:
		b.WriteByte('#')
	case KindPseudoClass:
		b.WriteByte(':')
	case KindPseudoElement:
		b.WriteString("::")
	case KindAttribute:
		b.WriteByte('[')
		b.WriteString(n.Value)
		b.WriteByte(']')
		return
	case KindUniversal:
		b.WriteByte('*')
		return
	case KindNesting:
		b.WriteByte('&')
		return
	}
	b.WriteString(n.Value)
	if n.Nodes != nil {
		b.WriteByte('(')
		if n.Raw != "" {
			b.WriteString(n.Raw)
		} else {
			writeList(b, n.Nodes)
		}
		b.WriteByte(')')
	}
}
