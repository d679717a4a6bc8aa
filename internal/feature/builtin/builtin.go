// Package builtin assembles the standard feature registry.
package builtin

import (
	"stcss/internal/feature"
	"stcss/internal/feature/cssclass"
	"stcss/internal/feature/csstype"
	"stcss/internal/feature/pseudoelement"
	"stcss/internal/feature/stimport"
	"stcss/internal/selector"
)

// Registry returns a registry with every built-in feature. Imports register
// first so that classes and types declared later can alias them.
func Registry() *feature.Registry {
	r := feature.NewRegistry()
	r.Register(stimport.New())
	r.Register(cssclass.New(), selector.KindClass, selector.KindPseudoClass)
	r.Register(csstype.New(), selector.KindType)
	r.Register(pseudoelement.New(), selector.KindPseudoElement)
	return r
}
