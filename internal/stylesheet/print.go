package stylesheet

import (
	"io"
	"strings"
)

// PrintOptions controls Print output.
type PrintOptions struct {
	// Indent per nesting level; defaults to two spaces.
	Indent string
}

// Print writes nodes as CSS text to w.
func Print(w io.Writer, nodes []*Node, opts PrintOptions) error {
	_, err := io.WriteString(w, String(nodes, opts))
	return err
}

// String renders nodes as CSS text. Top-level blocks are separated by a blank line.
func String(nodes []*Node, opts PrintOptions) string {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	var b strings.Builder
	pr := printer{b: &b, indent: opts.Indent}
	pr.list(nodes, 0, true)
	return b.String()
}

type printer struct {
	b      *strings.Builder
	indent string
}

func (pr *printer) pad(depth int) {
	for range depth {
		pr.b.WriteString(pr.indent)
	}
}

func (pr *printer) list(nodes []*Node, depth int, top bool) {
	for i, n := range nodes {
		if top && i > 0 && (n.Block || nodes[i-1].Block) {
			pr.b.WriteByte('\n')
		}
		pr.node(n, depth)
	}
}

func (pr *printer) node(n *Node, depth int) {
	pr.pad(depth)
	switch n.Kind {
	case KindComment:
		pr.b.WriteString(n.Params)
		pr.b.WriteByte('\n')
	case KindDecl:
		pr.b.WriteString(n.Name)
		pr.b.WriteString(": ")
		pr.b.WriteString(n.Params)
		if n.Important {
			pr.b.WriteString(" !important")
		}
		pr.b.WriteString(";\n")
	case KindRule:
		pr.b.WriteString(n.Params)
		pr.block(n, depth)
	case KindAtRule:
		pr.b.WriteByte('@')
		pr.b.WriteString(n.Name)
		if n.Params != "" {
			pr.b.WriteByte(' ')
			pr.b.WriteString(n.Params)
		}
		if !n.Block {
			pr.b.WriteString(";\n")
			return
		}
		if n.Raw != "" || len(n.Nodes) == 0 {
			pr.raw(n, depth)
			return
		}
		pr.block(n, depth)
	}
}

func (pr *printer) block(n *Node, depth int) {
	if len(n.Nodes) == 0 {
		pr.b.WriteString(" {}\n")
		return
	}
	pr.b.WriteString(" {\n")
	pr.list(n.Nodes, depth+1, false)
	pr.pad(depth)
	pr.b.WriteString("}\n")
}

// raw печатает тело как есть, переотступив каждую строку.
func (pr *printer) raw(n *Node, depth int) {
	if n.Raw == "" {
		pr.b.WriteString(" {}\n")
		return
	}
	pr.b.WriteString(" {\n")
	for line := range strings.SplitSeq(n.Raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pr.pad(depth + 1)
		pr.b.WriteString(line)
		pr.b.WriteByte('\n')
	}
	pr.pad(depth)
	pr.b.WriteString("}\n")
}
