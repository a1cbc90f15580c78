package staticvalue

import (
	"iter"
	"slices"
	"strconv"
)

// Key is a PHP array key: either a string or an integer.
type Key struct {
	str   string
	num   int64
	isInt bool
}

// StringKey returns a string key. Use NormalizeKey to apply PHP numeric-string folding.
func StringKey(s string) Key { return Key{str: s} }

// IntKey returns an integer key.
func IntKey(n int64) Key { return Key{num: n, isInt: true} }

// NormalizeKey returns the key PHP would store for the string s:
// canonical decimal integers become integer keys.
func NormalizeKey(s string) Key {
	if n, ok := canonicalInt(s); ok {
		return IntKey(n)
	}

	return StringKey(s)
}

// IsInt reports whether k is an integer key.
func (k Key) IsInt() bool { return k.isInt }

// Int returns the integer payload.
func (k Key) Int() int64 { return k.num }

// Str returns the string payload, or "" for integer keys.
func (k Key) Str() string { return k.str }

// String renders k the way PHP would print it inside an array literal.
func (k Key) String() string {
	if k.isInt {
		return strconv.FormatInt(k.num, 10)
	}

	return "'" + k.str + "'"
}

func canonicalInt(s string) (int64, bool) {
	if s == "" || s == "-0" {
		return 0, false
	}

	digits := s
	if digits[0] == '-' {
		digits = digits[1:]
	}

	if digits == "" || (len(digits) > 1 && digits[0] == '0') {
		return 0, false
	}

	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}

	return n, true
}

// OrderedMap is an insertion-ordered map of array keys to values.
type OrderedMap struct {
	keys   []Key
	values map[Key]Value
}

// NewOrderedMap creates an empty map.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[Key]Value)}
}

// Set stores value under key. An existing key keeps its position and is overwritten.
func (m *OrderedMap) Set(key Key, value Value) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}

	m.values[key] = value
}

// Get returns the value stored under key.
func (m *OrderedMap) Get(key Key) (Value, bool) {
	if m == nil {
		return Value{}, false
	}

	value, ok := m.values[key]

	return value, ok
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []Key {
	if m == nil {
		return nil
	}

	return slices.Clone(m.keys)
}

// All yields entries in insertion order.
func (m *OrderedMap) All() iter.Seq2[Key, Value] {
	return func(yield func(Key, Value) bool) {
		if m == nil {
			return
		}

		for _, key := range m.keys {
			if !yield(key, m.values[key]) {
				return
			}
		}
	}
}
