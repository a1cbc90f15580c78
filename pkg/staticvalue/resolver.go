package staticvalue

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/phpshift/pkg/phpast/pkg/node"
)

// Reasons attached to Unknown values.
const (
	ReasonNilNode       = "missing expression"
	ReasonDynamic       = "expression is not a compile-time constant"
	ReasonBadLiteral    = "malformed literal"
	ReasonSpread        = "array spread is resolved at runtime"
	ReasonDynamicKey    = "array key is not a compile-time string or integer"
	ReasonOperator      = "operator cannot be folded"
	ReasonClassConstant = "class constant requires symbol resolution"
)

// Resolve returns the compile-time value of n, or an Unknown value describing
// why it cannot be known. It never modifies n.
//
//nolint:cyclop // one arm per literal kind.
func Resolve(n *node.Node) Value {
	if n == nil {
		return Unknown(ReasonNilNode, nil)
	}

	switch n.Type {
	case node.String:
		return String(n.Token)
	case node.Int:
		return resolveInt(n)
	case node.Float:
		return resolveFloat(n)
	case node.Bool:
		return Bool(strings.EqualFold(n.Token, "true"))
	case node.Null:
		return Null()
	case node.ConstFetch:
		return resolveConst(n)
	case node.UnaryOp:
		return resolveUnary(n)
	case node.BinaryOp:
		return resolveBinary(n)
	case node.Array:
		return resolveArray(n)
	case node.ClassConstFetch:
		return Unknown(ReasonClassConstant, n)
	default:
		return Unknown(ReasonDynamic, n)
	}
}

func resolveInt(n *node.Node) Value {
	parsed, err := strconv.ParseInt(n.Token, 0, 64)
	if err == nil {
		return Int(parsed)
	}

	// Integer literals past int64 overflow to float in PHP.
	if errors.Is(err, strconv.ErrRange) {
		if unsigned, uerr := strconv.ParseUint(n.Token, 0, 64); uerr == nil {
			return Float(float64(unsigned))
		}

		return Float(math.Inf(1))
	}

	return Unknown(ReasonBadLiteral, n)
}

func resolveFloat(n *node.Node) Value {
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(n.Token, "_", ""), 64)
	if err != nil {
		return Unknown(ReasonBadLiteral, n)
	}

	return Float(parsed)
}

func resolveConst(n *node.Node) Value {
	name := strings.TrimPrefix(n.Token, `\`)

	switch {
	case strings.EqualFold(name, "true"):
		return Bool(true)
	case strings.EqualFold(name, "false"):
		return Bool(false)
	case strings.EqualFold(name, "null"):
		return Null()
	default:
		return Unknown(ReasonDynamic, n)
	}
}

func resolveUnary(n *node.Node) Value {
	operand := Resolve(n.Child(0))
	if !operand.Known() {
		return operand
	}

	switch {
	case n.Token == "-" && operand.Kind() == KindInt:
		if operand.AsInt() == math.MinInt64 {
			return Float(-float64(operand.AsInt()))
		}

		return Int(-operand.AsInt())
	case n.Token == "-" && operand.Kind() == KindFloat:
		return Float(-operand.AsFloat())
	case n.Token == "+" && (operand.Kind() == KindInt || operand.Kind() == KindFloat):
		return operand
	default:
		return Unknown(ReasonOperator, n)
	}
}

func resolveBinary(n *node.Node) Value {
	if n.Token != "." {
		return Unknown(ReasonOperator, n)
	}

	left := Resolve(n.Child(0))
	if !left.Known() {
		return left
	}

	right := Resolve(n.Child(1))
	if !right.Known() {
		return right
	}

	leftStr, leftOK := left.ScalarString()
	rightStr, rightOK := right.ScalarString()

	if !leftOK || !rightOK {
		return Unknown(ReasonOperator, n)
	}

	return String(leftStr + rightStr)
}

func resolveArray(n *node.Node) Value {
	keyed := false

	for _, item := range n.Children {
		if item.Flag(node.PropSpread) {
			return Unknown(ReasonSpread, item)
		}

		if item.Flag(node.PropKeyed) {
			keyed = true
		}
	}

	if !keyed {
		items := make([]Value, 0, len(n.Children))

		for _, item := range n.Children {
			items = append(items, Resolve(item.Child(0)))
		}

		return Value{kind: KindList, list: items}
	}

	entries := NewOrderedMap()

	var next int64

	for _, item := range n.Children {
		var key Key

		value := item.Child(0)

		if item.Flag(node.PropKeyed) {
			resolved, ok := ResolveKey(item.Child(0))
			if !ok {
				return Unknown(ReasonDynamicKey, item.Child(0))
			}

			key = resolved
			value = item.Child(1)
		} else {
			key = IntKey(next)
		}

		if key.IsInt() && key.Int() >= next && key.Int() < math.MaxInt64 {
			next = key.Int() + 1
		}

		entries.Set(key, Resolve(value))
	}

	return MapOf(entries)
}

// int64KeyLimit is 2^63; float keys must truncate into [-2^63, 2^63).
const int64KeyLimit = float64(1 << 63)

// ResolveKey resolves an array key expression the way PHP stores it.
// Strings holding canonical integers become integer keys, bools become 0 or 1,
// null becomes the empty string, and floats are truncated. Floats that do not
// fit an int64 are rejected.
func ResolveKey(n *node.Node) (Key, bool) {
	value := Resolve(n)

	switch value.Kind() {
	case KindString:
		return NormalizeKey(value.AsString()), true
	case KindInt:
		return IntKey(value.AsInt()), true
	case KindBool:
		if value.AsBool() {
			return IntKey(1), true
		}

		return IntKey(0), true
	case KindNull:
		return StringKey(""), true
	case KindFloat:
		f := value.AsFloat()
		if math.IsNaN(f) || f < -int64KeyLimit || f >= int64KeyLimit {
			return Key{}, false
		}

		return IntKey(int64(f)), true
	default:
		return Key{}, false
	}
}
