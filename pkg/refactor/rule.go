// Package refactor defines the rewrite rule contract and the traverser that
// offers syntax tree nodes to registered rules.
package refactor

import (
	"context"

	"github.com/Sumatoshi-tech/phpshift/pkg/phpast/pkg/node"
)

// Rule rewrites nodes of the types it declares.
//
// Refactor returns the replacement node, or nil when the node is left as is.
// A non-nil error leaves the node untouched; errors wrapped with Fatal abort
// the whole run.
type Rule interface {
	Name() string
	Description() string
	NodeTypes() []node.Type
	Refactor(ctx context.Context, n *node.Node) (*node.Node, error)
}

// Configurable is implemented by rules that accept settings.
type Configurable interface {
	ListConfigurationOptions() []ConfigurationOption
	Configure(facts map[string]any) error
}
