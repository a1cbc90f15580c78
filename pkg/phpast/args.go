package phpast

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/phpshift/pkg/phpast/pkg/node"
	"github.com/Sumatoshi-tech/phpshift/pkg/staticvalue"
)

// Sentinel errors for literal construction.
var (
	ErrUnsupportedValue = errors.New("value cannot be expressed as a PHP literal")
	ErrUnknownValue     = errors.New("value is not statically known")
)

// CreateArgs builds positional Argument nodes from Go values.
// Supported: nil, bool, string, integers up to 32 bits unsigned, int64, floats,
// []any, staticvalue.Value (for ordered maps) and *node.Node, which is passed through.
func CreateArgs(values ...any) ([]*node.Node, error) {
	args := make([]*node.Node, 0, len(values))

	for idx, value := range values {
		expr, err := exprNode(value)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", idx, err)
		}

		args = append(args, NewArgument(expr))
	}

	return args, nil
}

// ValueNode builds the literal expression for a resolved value.
func ValueNode(value staticvalue.Value) (*node.Node, error) {
	switch value.Kind() {
	case staticvalue.KindNull:
		return node.NewNodeWithToken(node.Null, ""), nil
	case staticvalue.KindBool:
		return node.NewNodeWithToken(node.Bool, strconv.FormatBool(value.AsBool())), nil
	case staticvalue.KindString:
		return NewString(value.AsString()), nil
	case staticvalue.KindInt:
		return node.NewNodeWithToken(node.Int, strconv.FormatInt(value.AsInt(), 10)), nil
	case staticvalue.KindFloat:
		return floatNode(value.AsFloat())
	case staticvalue.KindList, staticvalue.KindMap:
		return arrayNode(value)
	case staticvalue.KindUnknown:
		return nil, fmt.Errorf("%w: %s", ErrUnknownValue, value.Reason())
	default:
		return nil, fmt.Errorf("%w: kind %s", ErrUnsupportedValue, value.Kind())
	}
}

func arrayNode(value staticvalue.Value) (*node.Node, error) {
	array := node.NewBuilder().WithType(node.Array).Build()

	for key, item := range value.Entries() {
		itemValue, err := ValueNode(item)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", key, err)
		}

		if value.Kind() == staticvalue.KindList {
			array.AddChild(node.NewBuilder().WithType(node.ArrayItem).WithChildren(itemValue).Build())

			continue
		}

		array.AddChild(node.NewBuilder().
			WithType(node.ArrayItem).
			WithProp(node.PropKeyed, "true").
			WithChildren(keyNode(key), itemValue).
			Build())
	}

	return array, nil
}

func floatNode(f float64) (*node.Node, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedValue, f)
	}

	literal := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(literal, ".e") {
		literal += ".0"
	}

	return node.NewNodeWithToken(node.Float, literal), nil
}

func keyNode(key staticvalue.Key) *node.Node {
	if key.IsInt() {
		return node.NewNodeWithToken(node.Int, strconv.FormatInt(key.Int(), 10))
	}

	return NewString(key.Str())
}

//nolint:cyclop,gocyclo // one arm per Go kind.
func exprNode(value any) (*node.Node, error) {
	switch typed := value.(type) {
	case nil:
		return ValueNode(staticvalue.Null())
	case *node.Node:
		if typed == nil {
			return nil, fmt.Errorf("%w: nil node", ErrUnsupportedValue)
		}

		return typed, nil
	case staticvalue.Value:
		return ValueNode(typed)
	case bool:
		return ValueNode(staticvalue.Bool(typed))
	case string:
		return ValueNode(staticvalue.String(typed))
	case int:
		return ValueNode(staticvalue.Int(int64(typed)))
	case int8:
		return ValueNode(staticvalue.Int(int64(typed)))
	case int16:
		return ValueNode(staticvalue.Int(int64(typed)))
	case int32:
		return ValueNode(staticvalue.Int(int64(typed)))
	case int64:
		return ValueNode(staticvalue.Int(typed))
	case uint8:
		return ValueNode(staticvalue.Int(int64(typed)))
	case uint16:
		return ValueNode(staticvalue.Int(int64(typed)))
	case uint32:
		return ValueNode(staticvalue.Int(int64(typed)))
	case float32:
		return ValueNode(staticvalue.Float(float64(typed)))
	case float64:
		return ValueNode(staticvalue.Float(typed))
	case []any:
		return listNode(typed)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
	}
}

func listNode(values []any) (*node.Node, error) {
	array := node.NewBuilder().WithType(node.Array).Build()

	for idx, value := range values {
		expr, err := exprNode(value)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", idx, err)
		}

		array.AddChild(node.NewBuilder().WithType(node.ArrayItem).WithChildren(expr).Build())
	}

	return array, nil
}
