package node

import (
	"strings"
)

// Source renders n as compact single-line PHP-like text.
// It is the diagnostic form used in logs and assertions; layout of real output
// files belongs to the host printer.
func Source(targetNode *Node) string {
	var buf strings.Builder

	writeSource(&buf, targetNode)

	return buf.String()
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// QuoteString renders value as a single-quoted PHP string literal.
func QuoteString(value string) string {
	return "'" + stringEscaper.Replace(value) + "'"
}

//nolint:cyclop,gocyclo // one arm per node type.
func writeSource(buf *strings.Builder, targetNode *Node) {
	if targetNode == nil {
		return
	}

	switch targetNode.Type {
	case File:
		writeJoined(buf, targetNode.Children, " ")
	case Closure:
		writeClosure(buf, targetNode)
	case ArrowFunction:
		writeArrowFunction(buf, targetNode)
	case Parameter:
		writeParameter(buf, targetNode)
	case Block:
		writeBlock(buf, targetNode)
	case ExpressionStatement:
		writeSource(buf, targetNode.Child(0))
		buf.WriteString(";")
	case Return:
		buf.WriteString("return")

		if value := targetNode.Child(0); value != nil {
			buf.WriteString(" ")
			writeSource(buf, value)
		}

		buf.WriteString(";")
	case MethodCall:
		writeSource(buf, targetNode.Child(0))
		buf.WriteString("->")
		buf.WriteString(targetNode.Token)
		writeArgs(buf, callArgs(targetNode))
	case StaticCall, FuncCall:
		buf.WriteString(targetNode.Token)
		writeArgs(buf, targetNode.Children)
	case Argument:
		writeArgument(buf, targetNode)
	case Variable:
		buf.WriteString("$")
		buf.WriteString(targetNode.Token)
	case Array:
		buf.WriteString("[")
		writeJoined(buf, targetNode.Children, ", ")
		buf.WriteString("]")
	case ArrayItem:
		writeArrayItem(buf, targetNode)
	case String:
		buf.WriteString(QuoteString(targetNode.Token))
	case Bool:
		buf.WriteString(strings.ToLower(targetNode.Token))
	case Null:
		buf.WriteString("null")
	case UnaryOp:
		buf.WriteString(targetNode.Token)
		writeSource(buf, targetNode.Child(0))
	case BinaryOp:
		writeSource(buf, targetNode.Child(0))
		buf.WriteString(" ")
		buf.WriteString(targetNode.Token)
		buf.WriteString(" ")
		writeSource(buf, targetNode.Child(1))
	default:
		buf.WriteString(targetNode.Token)
	}
}

func writeJoined(buf *strings.Builder, nodes []*Node, sep string) {
	for idx, child := range nodes {
		if idx > 0 {
			buf.WriteString(sep)
		}

		writeSource(buf, child)
	}
}

func writeFunctionHead(buf *strings.Builder, targetNode *Node, keyword string) []*Node {
	if targetNode.Flag(PropStatic) {
		buf.WriteString("static ")
	}

	buf.WriteString(keyword)
	buf.WriteString(" ")

	if targetNode.Flag(PropByRef) {
		buf.WriteString("&")
	}

	params := make([]*Node, 0, len(targetNode.Children))
	var rest []*Node

	for _, child := range targetNode.Children {
		if child.Is(Parameter) {
			params = append(params, child)

			continue
		}

		rest = append(rest, child)
	}

	buf.WriteString("(")
	writeJoined(buf, params, ", ")
	buf.WriteString(")")

	if uses := targetNode.Prop(PropUses); uses != "" {
		buf.WriteString(" use (")

		for idx, name := range strings.Split(uses, ",") {
			if idx > 0 {
				buf.WriteString(", ")
			}

			buf.WriteString("$")
			buf.WriteString(strings.TrimSpace(name))
		}

		buf.WriteString(")")
	}

	if returnType := targetNode.Prop(PropReturnType); returnType != "" {
		buf.WriteString(": ")
		buf.WriteString(returnType)
	}

	return rest
}

func writeClosure(buf *strings.Builder, targetNode *Node) {
	rest := writeFunctionHead(buf, targetNode, "function")

	buf.WriteString(" ")

	if len(rest) == 0 {
		buf.WriteString("{}")

		return
	}

	writeSource(buf, rest[len(rest)-1])
}

func writeArrowFunction(buf *strings.Builder, targetNode *Node) {
	rest := writeFunctionHead(buf, targetNode, "fn")

	buf.WriteString(" => ")

	if len(rest) > 0 {
		writeSource(buf, rest[len(rest)-1])
	}
}

func writeBlock(buf *strings.Builder, targetNode *Node) {
	if len(targetNode.Children) == 0 {
		buf.WriteString("{}")

		return
	}

	buf.WriteString("{ ")
	writeJoined(buf, targetNode.Children, " ")
	buf.WriteString(" }")
}

func writeParameter(buf *strings.Builder, targetNode *Node) {
	if paramType := targetNode.Prop(PropType); paramType != "" {
		buf.WriteString(paramType)
		buf.WriteString(" ")
	}

	if targetNode.Flag(PropByRef) {
		buf.WriteString("&")
	}

	if targetNode.Flag(PropVariadic) {
		buf.WriteString("...")
	}

	buf.WriteString("$")
	buf.WriteString(targetNode.Token)

	if def := targetNode.Child(0); def != nil {
		buf.WriteString(" = ")
		writeSource(buf, def)
	}
}

func callArgs(call *Node) []*Node {
	if len(call.Children) == 0 {
		return nil
	}

	return call.Children[1:]
}

func writeArgs(buf *strings.Builder, args []*Node) {
	buf.WriteString("(")
	writeJoined(buf, args, ", ")
	buf.WriteString(")")
}

func writeArgument(buf *strings.Builder, targetNode *Node) {
	if name := targetNode.Prop(PropName); name != "" {
		buf.WriteString(name)
		buf.WriteString(": ")
	}

	if targetNode.Flag(PropSpread) {
		buf.WriteString("...")
	}

	writeSource(buf, targetNode.Child(0))
}

func writeArrayItem(buf *strings.Builder, targetNode *Node) {
	if targetNode.Flag(PropSpread) {
		buf.WriteString("...")
	}

	value := targetNode.Child(0)

	if targetNode.Flag(PropKeyed) {
		writeSource(buf, targetNode.Child(0))
		buf.WriteString(" => ")

		value = targetNode.Child(1)
	}

	if targetNode.Flag(PropByRef) {
		buf.WriteString("&")
	}

	writeSource(buf, value)
}
