package feature

import (
	"stcss/internal/meta"
	"stcss/internal/resolve"
	"stcss/internal/selector"
	"stcss/internal/stylesheet"
	"stcss/internal/symbols"
)

// NodeContext describes where an analyzed node sits.
type NodeContext struct {
	Meta     *meta.Meta
	Rule     *stylesheet.Node
	Node     *selector.Node
	Index    int
	Siblings []*selector.Node
	Parents  []*selector.Node
	// InScope is set for rules nested in @st-scope.
	InScope bool
}

// TopLevel reports whether the node is an item of a top-level selector chain.
func (c *NodeContext) TopLevel() bool {
	return len(c.Parents) == 1
}

// Anchor is the most recently resolved node of the chain being transformed.
type Anchor struct {
	Name     string
	Kind     symbols.Kind
	Resolved []resolve.Candidate
}

// ScopeContext is the mutable transform-time state of one output selector.
type ScopeContext struct {
	// Meta is the stylesheet being transformed (the origin meta).
	Meta     *meta.Meta
	Parts    *resolve.MetaParts
	Resolver *resolve.Resolver

	anchor      *Anchor
	replacement []*selector.Node
	replaced    bool
}

// NewScopeContext prepares a context for transforming selectors of m.
func NewScopeContext(m *meta.Meta, r *resolve.Resolver) *ScopeContext {
	return &ScopeContext{Meta: m, Parts: r.Parts(m), Resolver: r}
}

// SetCurrentAnchor records the node later siblings and descendants refer to.
func (sc *ScopeContext) SetCurrentAnchor(a Anchor) {
	sc.anchor = &a
}

// CurrentAnchor returns the current anchor, or nil at the start of a chain.
func (sc *ScopeContext) CurrentAnchor() *Anchor {
	return sc.anchor
}

// ResetAnchor clears the anchor; called at each comma alternative.
func (sc *ScopeContext) ResetAnchor() {
	sc.anchor = nil
}

// RestoreAnchor puts back an anchor saved before descending into arguments.
func (sc *ScopeContext) RestoreAnchor(a *Anchor) {
	sc.anchor = a
}

// ReplaceCurrent asks the driver to splice nodes in place of the node being
// transformed. An empty call removes the node.
func (sc *ScopeContext) ReplaceCurrent(nodes ...*selector.Node) {
	sc.replacement = nodes
	sc.replaced = true
}

// HasReplacement reports a pending replacement.
func (sc *ScopeContext) HasReplacement() bool {
	return sc.replaced
}

// TakeReplacement returns and clears a pending replacement.
func (sc *ScopeContext) TakeReplacement() ([]*selector.Node, bool) {
	nodes, ok := sc.replacement, sc.replaced
	sc.replacement, sc.replaced = nil, false
	return nodes, ok
}
