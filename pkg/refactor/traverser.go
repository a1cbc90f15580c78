package refactor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Sumatoshi-tech/phpshift/pkg/phpast/pkg/node"
)

// Rewrite records one node replacement.
type Rewrite struct {
	Rule        string
	Original    *node.Node
	Replacement *node.Node
}

// Diagnostic records a rule failure that left its node untouched.
type Diagnostic struct {
	Rule string
	Node *node.Node
	Err  error
}

// Report summarizes one traversal.
type Report struct {
	Rewrites    []Rewrite
	Diagnostics []Diagnostic
}

// Changed reports whether any node was replaced.
func (r Report) Changed() bool {
	return len(r.Rewrites) > 0
}

// TraverserOption configures a Traverser.
type TraverserOption func(*Traverser)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) TraverserOption {
	return func(t *Traverser) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Traverser offers nodes to registered rules in a pre-order walk.
// It holds no per-tree state and may be reused across trees,
// but a single tree must not be traversed concurrently.
type Traverser struct {
	logger        *slog.Logger
	registrations []registration
}

// registration binds a rule to the node types it is offered; nil types means every node.
type registration struct {
	rule  Rule
	types map[node.Type]struct{}
}

// NewTraverser creates a Traverser with no rules.
func NewTraverser(opts ...TraverserOption) *Traverser {
	traverser := &Traverser{
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(traverser)
	}

	return traverser
}

// RegisterRule registers a rule for the node types it declares.
// A rule declaring no types is offered every node.
func (t *Traverser) RegisterRule(rule Rule) error {
	if rule == nil {
		return ErrNilRule
	}

	t.register(rule, rule.NodeTypes()...)

	return nil
}

// RegisterHook registers a rule for one specific node type, ignoring the types it declares.
func (t *Traverser) RegisterHook(nodeType node.Type, rule Rule) error {
	if rule == nil {
		return ErrNilRule
	}

	t.register(rule, nodeType)

	return nil
}

func (t *Traverser) register(rule Rule, nodeTypes ...node.Type) {
	reg := registration{rule: rule}

	if len(nodeTypes) > 0 {
		reg.types = make(map[node.Type]struct{}, len(nodeTypes))

		for _, nodeType := range nodeTypes {
			reg.types[nodeType] = struct{}{}
		}
	}

	t.registrations = append(t.registrations, reg)
}

// Traverse walks root and returns the possibly replaced root.
// Replacements are put into their parent slot; their children are walked but
// the replacement itself is not offered to rules again.
// A fatal rule error stops the walk and is returned together with the partial report;
// replacements made before it stay in place and the caller should discard the tree.
func (t *Traverser) Traverse(ctx context.Context, root *node.Node) (*node.Node, Report, error) {
	var report Report

	if root == nil {
		return nil, report, nil
	}

	result, err := t.traverseRecursive(ctx, root, &report)
	if err != nil {
		return root, report, err
	}

	return result, report, nil
}

func (t *Traverser) traverseRecursive(ctx context.Context, current *node.Node, report *Report) (*node.Node, error) {
	replacement, err := t.offer(ctx, current, report)
	if err != nil {
		return nil, err
	}

	for idx, child := range replacement.Children {
		if child == nil {
			continue
		}

		updated, childErr := t.traverseRecursive(ctx, child, report)
		if childErr != nil {
			return nil, childErr
		}

		if updated != child {
			replacement.Children[idx] = updated
		}
	}

	return replacement, nil
}

func (t *Traverser) offer(ctx context.Context, current *node.Node, report *Report) (*node.Node, error) {
	for _, rule := range t.rulesFor(current.Type) {
		replacement, err := rule.Refactor(ctx, current)
		if err != nil {
			if IsFatal(err) {
				return nil, fmt.Errorf("rule %s: %w", rule.Name(), err)
			}

			t.logger.WarnContext(ctx, "rule failed, node left unchanged",
				"rule", rule.Name(), "node_type", string(current.Type), "error", err)

			report.Diagnostics = append(report.Diagnostics, Diagnostic{Rule: rule.Name(), Node: current, Err: err})

			continue
		}

		if replacement != nil {
			report.Rewrites = append(report.Rewrites, Rewrite{
				Rule:        rule.Name(),
				Original:    current,
				Replacement: replacement,
			})

			return replacement, nil
		}
	}

	return current, nil
}

func (t *Traverser) rulesFor(nodeType node.Type) []Rule {
	var rules []Rule

	for _, reg := range t.registrations {
		if reg.types == nil {
			rules = append(rules, reg.rule)

			continue
		}

		if _, ok := reg.types[nodeType]; ok {
			rules = append(rules, reg.rule)
		}
	}

	return rules
}
