package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"stcss/internal/selector"
	"stcss/internal/source"
	"stcss/internal/stylesheet"
)

// CheckSheetSpans runs a minimal set of span invariants on a parsed sheet:
// 1) every node span points into sf and lies within its content
// 2) every child span is contained in its parent span
// 3) a params span is contained in its node span
func CheckSheetSpans(sheet *stylesheet.Sheet, sf *source.File) error {
	if sheet == nil || sf == nil {
		return fmt.Errorf("nil sheet or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	whole := source.Span{File: sf.ID, Start: 0, End: lenContent}
	return checkNodes(sheet.Nodes, whole)
}

func checkNodes(nodes []*stylesheet.Node, parent source.Span) error {
	for _, n := range nodes {
		sp := n.Span
		if sp.File != parent.File {
			return fmt.Errorf("%s span file mismatch: got=%d want=%d", n.Kind, sp.File, parent.File)
		}
		if sp.End < sp.Start {
			return fmt.Errorf("%s span is inverted: %v", n.Kind, sp)
		}
		if !parent.Contains(sp) {
			return fmt.Errorf("%s span %v is outside parent span %v", n.Kind, sp, parent)
		}
		if n.Kind != stylesheet.KindComment && !sp.Contains(n.ParamsSpan) && !n.ParamsSpan.Empty() {
			return fmt.Errorf("%s params span %v is outside node span %v", n.Kind, n.ParamsSpan, sp)
		}
		if err := checkNodes(n.Nodes, sp); err != nil {
			return err
		}
	}
	return nil
}

// CheckSelectorSpans verifies that every selector node lies within base.
func CheckSelectorSpans(list []*selector.Node, base source.Span) error {
	var err error
	selector.Walk(list, func(n *selector.Node, _ int, _ []*selector.Node, _ []*selector.Node) selector.WalkAction {
		if !base.Contains(n.Span) {
			err = fmt.Errorf("%s %q span %v is outside %v", n.Kind, n.Value, n.Span, base)
			return selector.WalkStop
		}
		return selector.WalkContinue
	})
	return err
}
