// Package node defines the PHP syntax tree that rules read and rewrite.
// Hosts convert their parser output into Nodes; rules never see source text.
package node

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// PHP node type constants. The comment on each constant documents its child layout.
const (
	// File holds top-level statements as children.
	File Type = "File"
	// Closure holds Parameter children followed by exactly one Block.
	// Props: static, by_ref, return_type, uses (comma-separated names without "$").
	Closure Type = "Closure"
	// ArrowFunction holds Parameter children followed by one body expression.
	ArrowFunction Type = "ArrowFunction"
	// Parameter has the name without "$" as Token and an optional default value child.
	// Props: type, resolved_type, variadic, by_ref.
	Parameter Type = "Parameter"
	// Block holds statements as children.
	Block Type = "Block"
	// ExpressionStatement holds exactly one expression child.
	ExpressionStatement Type = "ExpressionStatement"
	// Return holds an optional expression child.
	Return Type = "Return"
	// MethodCall has the method name as Token; children are the receiver, then Arguments.
	MethodCall Type = "MethodCall"
	// StaticCall has "Class::method" as Token; children are Arguments.
	StaticCall Type = "StaticCall"
	// FuncCall has the function name as Token; children are Arguments.
	FuncCall Type = "FuncCall"
	// Argument holds one value child. Props: name, spread.
	Argument Type = "Argument"
	// Variable has the name without "$" as Token.
	Variable Type = "Variable"
	// Array holds ArrayItem children.
	Array Type = "Array"
	// ArrayItem holds [key, value] when keyed, else [value]. Props: keyed, spread, by_ref.
	ArrayItem Type = "ArrayItem"
	// String has the unquoted, unescaped value as Token.
	String Type = "String"
	// Int has the literal as written as Token.
	Int Type = "Int"
	// Float has the literal as written as Token.
	Float Type = "Float"
	// Bool has "true" or "false" as Token.
	Bool Type = "Bool"
	// Null has no token.
	Null Type = "Null"
	// ClassConstFetch has "Class::NAME" as Token. Props: class, name.
	ClassConstFetch Type = "ClassConstFetch"
	// ConstFetch has the constant name as Token.
	ConstFetch Type = "ConstFetch"
	// UnaryOp has the operator as Token and one operand child.
	UnaryOp Type = "UnaryOp"
	// BinaryOp has the operator as Token and two operand children.
	BinaryOp Type = "BinaryOp"
	// Name has a type or class name as Token.
	Name Type = "Name"
	// Raw has the source text of an expression the host did not map as Token.
	Raw Type = "Raw"
)

// Property keys used across node types.
const (
	PropStatic       = "static"
	PropByRef        = "by_ref"
	PropReturnType   = "return_type"
	PropUses         = "uses"
	PropType         = "type"
	PropResolvedType = "resolved_type"
	PropVariadic     = "variadic"
	PropName         = "name"
	PropSpread       = "spread"
	PropKeyed        = "keyed"
	PropClass        = "class"

	propTrue = "true"
)

// Type names a node variant.
type Type string

// Positions locates a node in the host's source file. Lines and columns are
// 1-based; offsets are 0-based byte offsets.
type Positions struct {
	StartLine   uint `json:"start_line,omitempty"`
	StartCol    uint `json:"start_col,omitempty"`
	StartOffset uint `json:"start_offset,omitempty"`
	EndLine     uint `json:"end_line,omitempty"`
	EndCol      uint `json:"end_col,omitempty"`
	EndOffset   uint `json:"end_offset,omitempty"`
}

// Node is one element of the tree. The meaning of Token, Props and the
// child layout depend on Type; see the Type constants.
// Pos is set by the host and is nil on synthesized nodes.
type Node struct {
	Token    string            `json:"token,omitempty"`
	Type     Type              `json:"type,omitempty"`
	Pos      *Positions        `json:"pos,omitempty"`
	Props    map[string]string `json:"props,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// NodeBuilder assembles a Node step by step.
type NodeBuilder struct {
	node Node
}

// NewBuilder returns an empty builder.
func NewBuilder() *NodeBuilder {
	return &NodeBuilder{}
}

// WithType sets the node type.
func (builder *NodeBuilder) WithType(nodeType Type) *NodeBuilder {
	builder.node.Type = nodeType

	return builder
}

// WithToken sets the node token.
func (builder *NodeBuilder) WithToken(token string) *NodeBuilder {
	builder.node.Token = token

	return builder
}

// WithProp sets a single property.
func (builder *NodeBuilder) WithProp(key, value string) *NodeBuilder {
	builder.node.SetProp(key, value)

	return builder
}

// WithChildren appends children.
func (builder *NodeBuilder) WithChildren(children ...*Node) *NodeBuilder {
	builder.node.Children = append(builder.node.Children, children...)

	return builder
}

// Build returns a copy of the node built so far.
func (builder *NodeBuilder) Build() *Node {
	built := builder.node

	return &built
}

// New creates a Node from its parts. props is used as is.
func New(nodeType Type, token string, pos *Positions, props map[string]string, children ...*Node) *Node {
	return &Node{Type: nodeType, Token: token, Pos: pos, Props: props, Children: children}
}

// NewNodeWithToken creates a childless Node.
func NewNodeWithToken(nodeType Type, token string) *Node {
	return &Node{Type: nodeType, Token: token}
}

// Prop returns the property value for key, or "" when absent.
func (targetNode *Node) Prop(key string) string {
	if targetNode == nil {
		return ""
	}

	return targetNode.Props[key]
}

// Flag reports whether the boolean property key is set to "true".
func (targetNode *Node) Flag(key string) bool {
	return targetNode.Prop(key) == propTrue
}

// SetProp sets a property, allocating the map on first use.
func (targetNode *Node) SetProp(key, value string) {
	if targetNode.Props == nil {
		targetNode.Props = make(map[string]string)
	}

	targetNode.Props[key] = value
}

// SetFlag sets the boolean property key to "true".
func (targetNode *Node) SetFlag(key string) {
	targetNode.SetProp(key, propTrue)
}

// Is reports whether the node is non-nil and of the given type.
func (targetNode *Node) Is(nodeType Type) bool {
	return targetNode != nil && targetNode.Type == nodeType
}

// HasAnyType reports whether the node is non-nil and one of nodeTypes.
func (targetNode *Node) HasAnyType(nodeTypes ...Type) bool {
	return targetNode != nil && slices.Contains(nodeTypes, targetNode.Type)
}

// Child returns the child at index, or nil when out of range.
func (targetNode *Node) Child(index int) *Node {
	if targetNode == nil || index < 0 || index >= len(targetNode.Children) {
		return nil
	}

	return targetNode.Children[index]
}

// AddChild appends child.
func (targetNode *Node) AddChild(child *Node) {
	targetNode.Children = append(targetNode.Children, child)
}

// VisitPreOrder calls fn on the node and then on each subtree, left to right.
// Nil children are skipped.
func (targetNode *Node) VisitPreOrder(fn func(*Node)) {
	if targetNode == nil {
		return
	}

	fn(targetNode)

	for _, child := range targetNode.Children {
		child.VisitPreOrder(fn)
	}
}

// Clone returns a deep copy of the subtree rooted at n.
func (targetNode *Node) Clone() *Node {
	if targetNode == nil {
		return nil
	}

	nodeCopy := &Node{
		Type:  targetNode.Type,
		Token: targetNode.Token,
		Props: maps.Clone(targetNode.Props),
	}

	if targetNode.Pos != nil {
		pos := *targetNode.Pos
		nodeCopy.Pos = &pos
	}

	if len(targetNode.Children) > 0 {
		nodeCopy.Children = make([]*Node, len(targetNode.Children))

		for idx, child := range targetNode.Children {
			nodeCopy.Children[idx] = child.Clone()
		}
	}

	return nodeCopy
}

// Equal reports whether two subtrees have the same types, tokens, props and children.
// Positions are ignored.
func Equal(left, right *Node) bool {
	if left == nil || right == nil {
		return left == right
	}

	if left.Type != right.Type || left.Token != right.Token {
		return false
	}

	if len(left.Props) != len(right.Props) || !maps.Equal(left.Props, right.Props) {
		return false
	}

	return slices.EqualFunc(left.Children, right.Children, Equal)
}

// String renders the node for debugging as Type(token){props}[children],
// omitting empty parts.
func (targetNode *Node) String() string {
	if targetNode == nil {
		return "nil"
	}

	var buf strings.Builder

	buf.WriteString(string(targetNode.Type))

	if targetNode.Token != "" {
		fmt.Fprintf(&buf, "(%s)", targetNode.Token)
	}

	if len(targetNode.Props) > 0 {
		pairs := make([]string, 0, len(targetNode.Props))

		for _, key := range slices.Sorted(maps.Keys(targetNode.Props)) {
			pairs = append(pairs, key+"="+targetNode.Props[key])
		}

		fmt.Fprintf(&buf, "{%s}", strings.Join(pairs, ","))
	}

	if len(targetNode.Children) > 0 {
		fmt.Fprintf(&buf, "[%d]", len(targetNode.Children))
	}

	return buf.String()
}
