package resolve

import (
	"slices"
	"strings"

	"stcss/internal/meta"
)

// Export is one entry of a stylesheet's public class map.
type Export struct {
	Name   string `json:"name" yaml:"name"`
	Scoped string `json:"scoped" yaml:"scoped"`
	From   string `json:"from,omitempty" yaml:"from,omitempty"`
}

// Exports lists every class of m with the token it compiles to, sorted by name.
func (r *Resolver) Exports(m *meta.Meta) []Export {
	parts := r.Parts(m)
	out := make([]Export, 0, len(parts.Class))
	for name, chain := range parts.Class {
		origin, ok := OriginDefinition(chain)
		if !ok {
			continue
		}
		e := Export{Name: name, Scoped: ScopedName(origin)}
		if origin.Meta != m {
			e.From = origin.Meta.RelPath
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Export) int { return strings.Compare(a.Name, b.Name) })
	return out
}
