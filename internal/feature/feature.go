// Package feature defines the hook contract every selector feature
// implements and the dispatch table that routes selector nodes to features.
//
// A feature owns a private slot in meta.Meta.Data, fills it in AnalyzeInit,
// declares symbols from AnalyzeSelectorNode and rewrites nodes from
// TransformSelectorNode. The analyze and transform drivers invoke hooks in
// one depth-first, sibling-order walk; registration order decides the order
// among features interested in the same node kind.
package feature

import (
	"stcss/internal/meta"
	"stcss/internal/selector"
	"stcss/internal/stylesheet"
)

// Feature is the hook set of one selector feature.
type Feature interface {
	Name() string
	// AnalyzeInit runs once per Meta before any other hook of this feature.
	AnalyzeInit(m *meta.Meta)
	// AnalyzeSelectorNode runs for every node of a registered kind.
	AnalyzeSelectorNode(ctx *NodeContext) selector.WalkAction
	// TransformSelectorNode runs on the output copy of every node of a registered kind.
	TransformSelectorNode(sc *ScopeContext, node *selector.Node)
}

// Base provides no-op hooks; embed it and override what the feature needs.
type Base struct{}

func (Base) AnalyzeInit(*meta.Meta) {}

func (Base) AnalyzeSelectorNode(*NodeContext) selector.WalkAction {
	return selector.WalkContinue
}

func (Base) TransformSelectorNode(*ScopeContext, *selector.Node) {}

// ScopeValidator is implemented by features that decide whether a top-level
// chain node makes its selector safe. It receives the running locallyScoped
// flag and returns the updated one.
type ScopeValidator interface {
	ValidateScoping(ctx *NodeContext, locallyScoped bool) bool
}

// AtRuleAnalyzer is implemented by features that handle at-rules. It is called
// for every at-rule with the chain of enclosing at-rules and rules.
type AtRuleAnalyzer interface {
	AnalyzeAtRule(m *meta.Meta, node *stylesheet.Node, parents []*stylesheet.Node)
}

// DeclAnalyzer is implemented by features that read rule declarations.
type DeclAnalyzer interface {
	AnalyzeDecl(m *meta.Meta, rule, decl *stylesheet.Node)
}
