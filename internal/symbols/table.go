package symbols

import (
	"fmt"

	"stcss/internal/diag"
	"stcss/internal/source"
)

// Table is the single canonical name -> symbol mapping of one stylesheet.
// All kinds share one namespace, so an import and a class with the same name collide.
type Table struct {
	byName   map[string]Symbol
	spans    map[string]source.Span
	order    []string
	reporter diag.Reporter
}

// NewTable creates an empty table reporting duplicates to r (nil silences them).
func NewTable(r diag.Reporter) *Table {
	return &Table{
		byName:   make(map[string]Symbol),
		spans:    make(map[string]source.Span),
		reporter: r,
	}
}

// AddOptions describes one registration.
type AddOptions struct {
	Symbol Symbol
	// Span is where the declaration sits; used for the duplicate diagnostic.
	Span source.Span
	// SafeRedeclare lets the new symbol replace an existing binding silently.
	SafeRedeclare bool
}

// Add registers opts.Symbol under its name and reports whether it became the binding.
// An existing binding is kept, with a SymRedeclare warning, unless SafeRedeclare is set.
func (t *Table) Add(opts AddOptions) bool {
	if opts.Symbol == nil {
		return false
	}
	name := opts.Symbol.SymbolName()
	if _, exists := t.byName[name]; exists {
		if !opts.SafeRedeclare {
			t.reportRedeclare(name, opts.Span)
			return false
		}
		t.byName[name] = opts.Symbol
		t.spans[name] = opts.Span
		return true
	}
	t.byName[name] = opts.Symbol
	t.spans[name] = opts.Span
	t.order = append(t.order, name)
	return true
}

// Get returns the binding for name.
func (t *Table) Get(name string) (Symbol, bool) {
	sym, ok := t.byName[name]
	return sym, ok
}

// Lookup returns the binding for name when it has the requested variant.
func Lookup[T Symbol](t *Table, name string) (T, bool) {
	var zero T
	sym, ok := t.byName[name]
	if !ok {
		return zero, false
	}
	typed, ok := sym.(T)
	return typed, ok
}

// Span returns the declaration span recorded for name.
func (t *Table) Span(name string) source.Span {
	return t.spans[name]
}

// All returns the symbols in first-declaration order.
func (t *Table) All() []Symbol {
	out := make([]Symbol, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.byName[name])
	}
	return out
}

// Map returns a read-only name -> symbol projection.
func (t *Table) Map() map[string]Symbol {
	out := make(map[string]Symbol, len(t.byName))
	for name, sym := range t.byName {
		out[name] = sym
	}
	return out
}

func (t *Table) Len() int {
	return len(t.byName)
}

func (t *Table) reportRedeclare(name string, span source.Span) {
	if t.reporter == nil {
		return
	}
	b := diag.ReportWarning(t.reporter, diag.SymRedeclare, span, fmt.Sprintf("redeclare symbol %q", name)).
		WithWord(name)
	if prev := t.spans[name]; prev != (source.Span{}) {
		b.WithNote(prev, "previous declaration here")
	}
	b.Emit()
}
