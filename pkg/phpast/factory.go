// Package phpast provides constructors, shape accessors and naming helpers for
// PHP syntax trees built from pkg/phpast/pkg/node.
package phpast

import (
	"strings"

	"github.com/Sumatoshi-tech/phpshift/pkg/phpast/pkg/node"
)

// NewVariable creates a variable reference. The name is given without "$".
func NewVariable(name string) *node.Node {
	return node.NewNodeWithToken(node.Variable, strings.TrimPrefix(name, "$"))
}

// NewString creates a string literal.
func NewString(value string) *node.Node {
	return node.NewNodeWithToken(node.String, value)
}

// NewArgument wraps an expression as a positional call argument.
func NewArgument(value *node.Node) *node.Node {
	return node.NewBuilder().WithType(node.Argument).WithChildren(value).Build()
}

// NewMethodCall creates receiver->method(args...). Args must be Argument nodes.
func NewMethodCall(receiver *node.Node, method string, args ...*node.Node) *node.Node {
	return node.NewBuilder().
		WithType(node.MethodCall).
		WithToken(method).
		WithChildren(receiver).
		WithChildren(args...).
		Build()
}

// NewExpressionStatement wraps an expression as a statement.
func NewExpressionStatement(expr *node.Node) *node.Node {
	return node.NewBuilder().WithType(node.ExpressionStatement).WithChildren(expr).Build()
}

// NewParameter creates a parameter typed with a fully-qualified class name.
// The written type keeps a leading "\" and the resolved type does not.
func NewParameter(name, className string) *node.Node {
	resolved := strings.TrimPrefix(className, `\`)

	builder := node.NewBuilder().WithType(node.Parameter).WithToken(strings.TrimPrefix(name, "$"))

	if resolved != "" {
		builder.WithProp(node.PropType, `\`+resolved).WithProp(node.PropResolvedType, resolved)
	}

	return builder.Build()
}

// NewBlock creates a statement block.
func NewBlock(stmts ...*node.Node) *node.Node {
	return node.NewBuilder().WithType(node.Block).WithChildren(stmts...).Build()
}

// NewClosure creates a closure with the given parameters and body block.
// A nil body yields an empty block.
func NewClosure(params []*node.Node, body *node.Node) *node.Node {
	if body == nil {
		body = NewBlock()
	}

	return node.NewBuilder().
		WithType(node.Closure).
		WithChildren(params...).
		WithChildren(body).
		Build()
}
