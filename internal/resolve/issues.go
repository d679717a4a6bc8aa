package resolve

import (
	"fmt"

	"stcss/internal/diag"
	"stcss/internal/meta"
	"stcss/internal/symbols"
)

// ReportIssues reports imports of m that do not resolve: a missing target file
// (ImpUnknownFile) or a named import the target does not declare
// (ImpUnknownSymbol). Diagnostics go to m's own reporter.
func (r *Resolver) ReportIssues(m *meta.Meta) int {
	n := 0
	for _, sym := range m.Symbols.All() {
		imp, ok := sym.(*symbols.ImportSymbol)
		if !ok {
			continue
		}
		target, ok := r.lookup(imp.From)
		if !ok {
			diag.ReportError(m.Reporter, diag.ImpUnknownFile, imp.Span,
				fmt.Sprintf("cannot resolve import %q", imp.Request)).
				WithWord(imp.Request).
				Emit()
			n++
			continue
		}
		if _, ok := r.imported(target, imp); !ok {
			diag.ReportWarning(m.Reporter, diag.ImpUnknownSymbol, imp.Span,
				fmt.Sprintf("%q is not exported by %q", imp.Imported, imp.Request)).
				WithWord(imp.Name).
				Emit()
			n++
		}
	}
	return n
}
