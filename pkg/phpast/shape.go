package phpast

import (
	"github.com/Sumatoshi-tech/phpshift/pkg/phpast/pkg/node"
)

// ClosureParams returns the Parameter children of a closure or arrow function.
func ClosureParams(closure *node.Node) []*node.Node {
	if closure == nil {
		return nil
	}

	var params []*node.Node

	for _, child := range closure.Children {
		if child.Is(node.Parameter) {
			params = append(params, child)
		}
	}

	return params
}

// ClosureBody returns the body block of a closure, or nil when it has none.
func ClosureBody(closure *node.Node) *node.Node {
	if !closure.Is(node.Closure) || len(closure.Children) == 0 {
		return nil
	}

	if body := closure.Children[len(closure.Children)-1]; body.Is(node.Block) {
		return body
	}

	return nil
}

// CallReceiver returns the object a method is called on.
func CallReceiver(call *node.Node) *node.Node {
	if !call.Is(node.MethodCall) {
		return nil
	}

	return call.Child(0)
}

// CallArgs returns the Argument children of a method, static or function call.
func CallArgs(call *node.Node) []*node.Node {
	switch {
	case call.Is(node.MethodCall) && len(call.Children) > 0:
		return call.Children[1:]
	case call.HasAnyType(node.StaticCall, node.FuncCall):
		return call.Children
	default:
		return nil
	}
}

// ArgValue returns the expression passed by an argument.
func ArgValue(arg *node.Node) *node.Node {
	return arg.Child(0)
}

// ArgName returns the parameter name of a named argument, or "" when positional.
func ArgName(arg *node.Node) string {
	return arg.Prop(node.PropName)
}

// IsSpread reports whether an argument or array item unpacks its value.
func IsSpread(n *node.Node) bool {
	return n.Flag(node.PropSpread)
}

// ArrayItems returns the items of an array literal.
func ArrayItems(array *node.Node) []*node.Node {
	if !array.Is(node.Array) {
		return nil
	}

	return array.Children
}

// IsKeyed reports whether an array item carries an explicit key.
func IsKeyed(item *node.Node) bool {
	return item.Flag(node.PropKeyed)
}

// ItemKey returns the key expression of an array item, or nil when implicit.
func ItemKey(item *node.Node) *node.Node {
	if !IsKeyed(item) {
		return nil
	}

	return item.Child(0)
}

// ItemValue returns the value expression of an array item.
func ItemValue(item *node.Node) *node.Node {
	if IsKeyed(item) {
		return item.Child(1)
	}

	return item.Child(0)
}

// IsStatic reports whether a closure is declared static.
func IsStatic(closure *node.Node) bool {
	return closure.Flag(node.PropStatic)
}
