// Package staticvalue resolves PHP expression nodes to compile-time values
// when their value is knowable without executing code.
package staticvalue

import (
	"iter"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/phpshift/pkg/phpast/pkg/node"
)

// Kind identifies the variant held by a Value.
type Kind int

// Value kinds.
const (
	KindUnknown Kind = iota
	KindNull
	KindBool
	KindString
	KindInt
	KindFloat
	KindMap
	KindList
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindNull:    "null",
	KindBool:    "bool",
	KindString:  "string",
	KindInt:     "int",
	KindFloat:   "float",
	KindMap:     "map",
	KindList:    "list",
}

// String returns the kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindNames[k]
}

// Value is an immutable compile-time value. The zero Value is Unknown.
type Value struct {
	kind   Kind
	flag   bool
	str    string
	num    int64
	frac   float64
	list   []Value
	dict   *OrderedMap
	origin *node.Node
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, flag: v} }

// String returns a string value.
func String(v string) Value { return Value{kind: KindString, str: v} }

// Int returns an integer value.
func Int(v int64) Value { return Value{kind: KindInt, num: v} }

// Float returns a floating point value.
func Float(v float64) Value { return Value{kind: KindFloat, frac: v} }

// List returns an ordered sequence of values.
func List(items ...Value) Value {
	return Value{kind: KindList, list: slices.Clone(items)}
}

// MapOf returns a map value backed by m. The caller must not modify m afterwards.
func MapOf(m *OrderedMap) Value {
	if m == nil {
		m = NewOrderedMap()
	}

	return Value{kind: KindMap, dict: m}
}

// Unknown returns an unresolvable value. Origin is the node that could not be resolved.
func Unknown(reason string, origin *node.Node) Value {
	return Value{kind: KindUnknown, str: reason, origin: origin}
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// Known reports whether v is anything but Unknown. Nested unknowns are not inspected.
func (v Value) Known() bool { return v.kind != KindUnknown }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload.
func (v Value) AsBool() bool { return v.flag }

// AsString returns the string payload.
func (v Value) AsString() string {
	if v.kind != KindString {
		return ""
	}

	return v.str
}

// AsInt returns the integer payload.
func (v Value) AsInt() int64 { return v.num }

// AsFloat returns the float payload.
func (v Value) AsFloat() float64 { return v.frac }

// Items returns the elements of a list value.
func (v Value) Items() []Value { return slices.Clone(v.list) }

// Map returns the entries of a map value, or nil for other kinds.
func (v Value) Map() *OrderedMap { return v.dict }

// Len returns the number of elements of a list or map value.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return v.dict.Len()
	default:
		return 0
	}
}

// Reason describes why an Unknown value could not be resolved.
func (v Value) Reason() string {
	if v.kind != KindUnknown {
		return ""
	}

	return v.str
}

// Origin returns the node an Unknown value was produced from.
func (v Value) Origin() *node.Node { return v.origin }

// Entries yields the key/value pairs of a map or list value in order.
// List positions are yielded as integer keys.
func (v Value) Entries() iter.Seq2[Key, Value] {
	return func(yield func(Key, Value) bool) {
		switch v.kind {
		case KindList:
			for idx, item := range v.list {
				if !yield(IntKey(int64(idx)), item) {
					return
				}
			}
		case KindMap:
			for key, item := range v.dict.All() {
				if !yield(key, item) {
					return
				}
			}
		default:
		}
	}
}

// FirstUnknown returns the first Unknown found in v, depth-first in source order,
// together with the key path leading to it.
func (v Value) FirstUnknown() (Value, []Key, bool) {
	if v.kind == KindUnknown {
		return v, nil, true
	}

	for key, item := range v.Entries() {
		if found, path, ok := item.FirstUnknown(); ok {
			return found, append([]Key{key}, path...), true
		}
	}

	return Value{}, nil, false
}

// ScalarString converts a scalar to its PHP string form.
// It reports false for unknowns and compound values.
func (v Value) ScalarString() (string, bool) {
	switch v.kind {
	case KindNull:
		return "", true
	case KindBool:
		if v.flag {
			return "1", true
		}

		return "", true
	case KindString:
		return v.str, true
	case KindInt:
		return strconv.FormatInt(v.num, 10), true
	case KindFloat:
		return formatFloat(v.frac), true
	default:
		return "", false
	}
}

// String renders v for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindUnknown:
		return "unknown(" + v.str + ")"
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindString:
		return node.QuoteString(v.str)
	case KindInt, KindFloat:
		s, _ := v.ScalarString()

		return s
	default:
		return v.compoundString()
	}
}

func (v Value) compoundString() string {
	var buf strings.Builder

	buf.WriteString("[")

	idx := 0

	for key, item := range v.Entries() {
		if idx > 0 {
			buf.WriteString(", ")
		}

		if v.kind == KindMap {
			buf.WriteString(key.String())
			buf.WriteString(" => ")
		}

		buf.WriteString(item.String())

		idx++
	}

	buf.WriteString("]")

	return buf.String()
}

// PHP switches to exponent notation outside this decimal exponent range.
const (
	minPlainExponent = -4
	maxPlainExponent = 15
)

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	case math.IsNaN(f):
		return "NAN"
	case f == 0:
		return "0"
	}

	mantissa, exponent, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")

	exp, err := strconv.Atoi(exponent)
	if err == nil && exp >= minPlainExponent && exp < maxPlainExponent {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}

	sign := "+"
	if exp < 0 {
		sign = "-"
		exp = -exp
	}

	return mantissa + "E" + sign + strconv.Itoa(exp)
}
