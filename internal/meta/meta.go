// Package meta holds the per-stylesheet compilation unit shared by every
// feature: the parsed sheet, the symbol table, feature-private storage and
// collected diagnostics.
package meta

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strconv"
	"strings"

	"stcss/internal/diag"
	"stcss/internal/record"
	"stcss/internal/source"
	"stcss/internal/stylesheet"
	"stcss/internal/symbols"
)

// Extension is the source extension of scoped stylesheets.
const Extension = ".st.css"

// DefaultMaxDiagnostics bounds the per-file bag when Options leave it unset.
const DefaultMaxDiagnostics = 256

// Options configures New.
type Options struct {
	// BaseDir is the project root; namespaces hash the path relative to it.
	BaseDir        string
	MaxDiagnostics int
}

// Meta is the compilation unit of one stylesheet.
//
// During analysis a Meta is owned by a single goroutine. After analysis it is
// read-only for everyone except its own transform.
type Meta struct {
	Path      string
	RelPath   string
	Source    *source.File
	Namespace string
	Sheet     *stylesheet.Sheet
	Symbols   *symbols.Table
	Data      *record.Record
	Bag       *diag.Bag
	Reporter  diag.Reporter

	limit  int
	sealed []*diag.Diagnostic
}

// New parses file and returns its Meta. Parse diagnostics land in the Meta's bag.
func New(file *source.File, opts Options) *Meta {
	limit := opts.MaxDiagnostics
	if limit <= 0 {
		limit = DefaultMaxDiagnostics
	}
	bag := diag.NewBag(limit)
	m := &Meta{
		Path:   file.Path,
		Source: file,
		Data:   record.New(),
		Bag:    bag,
		limit:  limit,
	}
	m.Reporter = &diag.BagReporter{Bag: bag}
	m.Symbols = symbols.NewTable(m.Reporter)
	m.RelPath = file.Path
	if opts.BaseDir != "" {
		if rel, err := source.RelativePath(file.Path, opts.BaseDir); err == nil {
			m.RelPath = rel
		}
	}
	m.Sheet = stylesheet.Parse(file, m.Reporter)
	m.Namespace = DeriveNamespace(m.RelPath, declaredNamespace(m.Sheet))
	return m
}

// FileID returns the id of the backing source file.
func (m *Meta) FileID() source.FileID {
	return m.Source.ID
}

// Seal records the diagnostics reported so far as the analysis result.
func (m *Meta) Seal() {
	m.sealed = slices.Clone(m.Bag.Items())
}

// ResetDiagnostics starts a fresh bag holding only the sealed analysis
// diagnostics. Cross-file checks rerun against it on every compile.
func (m *Meta) ResetDiagnostics() {
	bag := diag.NewBag(m.limit)
	for _, d := range m.sealed {
		bag.Add(d)
	}
	m.Bag = bag
	m.Reporter = &diag.BagReporter{Bag: bag}
}

// Scoped maps a local name to its globally unique output token.
func (m *Meta) Scoped(name string) string {
	return m.Namespace + "__" + name
}

// DeriveNamespace builds the namespace for a stylesheet at relPath. declared is
// the value of a top-level @namespace, if any. The result is stable for a given
// path and differs between paths even when base names collide.
func DeriveNamespace(relPath, declared string) string {
	relPath = strings.ReplaceAll(relPath, "\\", "/")
	base := declared
	if base == "" {
		base = source.BaseName(relPath)
		base = strings.TrimSuffix(base, Extension)
		base = strings.TrimSuffix(base, ".css")
	}
	sum := sha256.Sum256([]byte(relPath))
	return sanitize(base) + hex.EncodeToString(sum[:4])
}

// sanitize оставляет только символы, допустимые в имени класса.
func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" || (out[0] >= '0' && out[0] <= '9') || out[0] == '-' {
		out = "s" + out
	}
	return out
}

func declaredNamespace(sheet *stylesheet.Sheet) string {
	var ns string
	for _, n := range sheet.Nodes {
		if n.Kind != stylesheet.KindAtRule || n.Name != "namespace" {
			continue
		}
		// @namespace prefix url(...) is plain CSS, not a stylesheet name
		v := strings.TrimSpace(n.Params)
		if unq, err := strconv.Unquote(v); err == nil {
			ns = unq
		} else if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
			ns = v[1 : len(v)-1]
		}
	}
	return ns
}
