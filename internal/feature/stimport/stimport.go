// Package stimport handles `@st-import` declarations:
//
//	@st-import Button from "./button.st.css";
//	@st-import [label, icon as glyph] from "./parts.st.css";
//	@st-import Gallery, [item] from "./gallery.st.css";
//
// Every local name becomes an import symbol; resolution is lazy.
package stimport

import (
	"path/filepath"

	"stcss/internal/diag"
	"stcss/internal/feature"
	"stcss/internal/meta"
	"stcss/internal/record"
	"stcss/internal/source"
	"stcss/internal/stylesheet"
	"stcss/internal/symbols"
)

// AtRule is the directive name without '@'.
const AtRule = "st-import"

// Import is one @st-import directive.
type Import struct {
	Request string
	From    string
	Span    source.Span
	Symbols []*symbols.ImportSymbol
}

var dataKey = record.NewKey[[]*Import]("st-import")

// Feature implements the import hooks.
type Feature struct {
	feature.Base
}

// New returns the import feature.
func New() *Feature {
	return &Feature{}
}

func (*Feature) Name() string { return "st-import" }

func (*Feature) AnalyzeInit(m *meta.Meta) {
	record.Set(m.Data, dataKey, []*Import(nil))
}

func (*Feature) AnalyzeAtRule(m *meta.Meta, node *stylesheet.Node, parents []*stylesheet.Node) {
	if node.Name != AtRule {
		return
	}
	if len(parents) > 0 {
		diag.ReportWarning(m.Reporter, diag.ImpNotTopLevel, node.Span,
			"@st-import must be declared at the top level").
			WithWord("@" + AtRule).
			Emit()
		return
	}
	decl, err := parseParams(node.Params)
	if err != nil {
		diag.ReportError(m.Reporter, diag.ImpInvalidFormat, node.Span,
			"invalid @st-import: "+err.Error()).
			WithWord(node.Params).
			Emit()
		return
	}
	imp := &Import{
		Request: decl.request,
		From:    ResolveRequest(m.Path, decl.request),
		Span:    node.Span,
	}
	add := func(local, imported string, isDefault bool) {
		sym := &symbols.ImportSymbol{
			Name:     local,
			Request:  imp.Request,
			From:     imp.From,
			Imported: imported,
			Default:  isDefault,
			Span:     node.Span,
		}
		if m.Symbols.Add(symbols.AddOptions{Symbol: sym, Span: node.Span}) {
			imp.Symbols = append(imp.Symbols, sym)
		}
	}
	if decl.defaultName != "" {
		add(decl.defaultName, symbols.RootClass, true)
	}
	for _, n := range decl.named {
		add(n.local, n.imported, false)
	}
	record.Set(m.Data, dataKey, append(record.MustGet(m.Data, dataKey), imp))
}

// Imports lists the @st-import directives of m in source order.
func Imports(m *meta.Meta) []*Import {
	return record.MustGet(m.Data, dataKey)
}

// ResolveRequest turns a request into a normalized path. Relative requests
// resolve against the importing file's directory.
func ResolveRequest(importer, request string) string {
	p := filepath.FromSlash(request)
	if !filepath.IsAbs(p) {
		p = filepath.Join(filepath.Dir(filepath.FromSlash(importer)), p)
	}
	return source.NormalizePath(p)
}
