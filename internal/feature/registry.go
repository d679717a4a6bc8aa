package feature

import (
	"fmt"

	"stcss/internal/meta"
	"stcss/internal/selector"
)

// Registry is the node-kind dispatch table. Build it once at startup and share
// it read-only across compilations.
type Registry struct {
	features []Feature
	byKind   map[selector.Kind][]Feature
	names    map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byKind: make(map[selector.Kind][]Feature),
		names:  make(map[string]struct{}),
	}
}

// Register adds f and subscribes it to kinds. Features without kinds still get
// AnalyzeInit (at-rule features such as imports). Registering the same name
// twice panics.
func (r *Registry) Register(f Feature, kinds ...selector.Kind) {
	if _, dup := r.names[f.Name()]; dup {
		panic(fmt.Sprintf("feature: %q registered twice", f.Name()))
	}
	r.names[f.Name()] = struct{}{}
	r.features = append(r.features, f)
	for _, k := range kinds {
		r.byKind[k] = append(r.byKind[k], f)
	}
}

// Features returns all features in registration order.
func (r *Registry) Features() []Feature {
	return r.features
}

// ForKind returns the features subscribed to k in registration order.
func (r *Registry) ForKind(k selector.Kind) []Feature {
	return r.byKind[k]
}

// Init runs AnalyzeInit of every feature on m.
func (r *Registry) Init(m *meta.Meta) {
	for _, f := range r.features {
		f.AnalyzeInit(m)
	}
}
