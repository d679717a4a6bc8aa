// Package resolve turns local names into ordered candidate chains that span
// the import graph.
//
// A chain starts with the symbol declared in the stylesheet itself and follows
// import aliases outward. The last candidate is the origin definition: the
// most specific override, used for namespacing.
package resolve

import (
	"sync"

	"stcss/internal/meta"
	"stcss/internal/symbols"
)

// CandidateKind tells whether a candidate comes from the stylesheet being
// resolved or from one it imports.
type CandidateKind uint8

const (
	CandidateLocal CandidateKind = iota + 1
	CandidateExternal
)

func (k CandidateKind) String() string {
	switch k {
	case CandidateLocal:
		return "local"
	case CandidateExternal:
		return "external"
	default:
		return "invalid"
	}
}

// Candidate is one possible origin of a name.
type Candidate struct {
	Kind   CandidateKind
	Meta   *meta.Meta
	Symbol symbols.Symbol
}

// MetaParts maps local names to candidate chains, per symbol kind.
type MetaParts struct {
	Class   map[string][]Candidate
	Element map[string][]Candidate
}

// Lookup finds an analyzed stylesheet by normalized path.
type Lookup func(path string) (*meta.Meta, bool)

// Resolver computes and memoizes MetaParts. Safe for concurrent use once every
// Meta reachable through lookup has finished analysis.
type Resolver struct {
	lookup Lookup

	mu    sync.Mutex
	parts map[*meta.Meta]*MetaParts
}

// New creates a resolver over lookup.
func New(lookup Lookup) *Resolver {
	if lookup == nil {
		lookup = func(string) (*meta.Meta, bool) { return nil, false }
	}
	return &Resolver{
		lookup: lookup,
		parts:  make(map[*meta.Meta]*MetaParts),
	}
}

// Parts returns the candidate chains for every class and element of m.
func (r *Resolver) Parts(m *meta.Meta) *MetaParts {
	r.mu.Lock()
	p, ok := r.parts[m]
	r.mu.Unlock()
	if ok {
		return p
	}

	p = r.build(m)

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.parts[m]; ok {
		return prev
	}
	r.parts[m] = p
	return p
}

// Forget drops memoized parts of m (used when a stylesheet is re-analyzed).
func (r *Resolver) Forget(m *meta.Meta) {
	r.mu.Lock()
	delete(r.parts, m)
	r.mu.Unlock()
}

func (r *Resolver) build(m *meta.Meta) *MetaParts {
	p := &MetaParts{
		Class:   make(map[string][]Candidate),
		Element: make(map[string][]Candidate),
	}
	for _, sym := range m.Symbols.All() {
		switch sym.Kind() {
		case symbols.KindClass:
			p.Class[sym.SymbolName()] = r.Chain(m, sym)
		case symbols.KindElement:
			p.Element[sym.SymbolName()] = r.Chain(m, sym)
		}
	}
	return p
}

type visitKey struct {
	meta *meta.Meta
	name string
}

// Chain resolves sym, declared in m, into its candidate list.
func (r *Resolver) Chain(m *meta.Meta, sym symbols.Symbol) []Candidate {
	out := []Candidate{{Kind: CandidateLocal, Meta: m, Symbol: sym}}
	visited := map[visitKey]bool{{m, sym.SymbolName()}: true}
	imp := symbols.AliasOf(sym)
	for imp != nil {
		target, ok := r.lookup(imp.From)
		if !ok {
			break
		}
		next, ok := r.imported(target, imp)
		if !ok {
			break
		}
		key := visitKey{target, next.SymbolName()}
		if visited[key] {
			break
		}
		visited[key] = true
		// реэкспорт: идём дальше, не добавляя кандидата
		if next.Kind() != symbols.KindImport {
			out = append(out, Candidate{Kind: CandidateExternal, Meta: target, Symbol: next})
		}
		imp = symbols.AliasOf(next)
	}
	return out
}

// imported returns the symbol an import points at inside target.
func (r *Resolver) imported(target *meta.Meta, imp *symbols.ImportSymbol) (symbols.Symbol, bool) {
	if imp.Default {
		return target.Symbols.Get(symbols.RootClass)
	}
	return target.Symbols.Get(imp.Imported)
}

// OriginDefinition picks the last candidate: later entries override earlier ones.
func OriginDefinition(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	return candidates[len(candidates)-1], true
}

// ScopedName is the output class token for a resolved candidate.
func ScopedName(c Candidate) string {
	if cls, ok := c.Symbol.(*symbols.ClassSymbol); ok && cls.Global != "" {
		return cls.Global
	}
	return c.Meta.Scoped(c.Symbol.SymbolName())
}
