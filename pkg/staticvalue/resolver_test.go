package staticvalue_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/phpshift/pkg/phpast/pkg/node"
	"github.com/Sumatoshi-tech/phpshift/pkg/staticvalue"
)

func str(s string) *node.Node { return node.NewNodeWithToken(node.String, s) }

func lit(t node.Type, token string) *node.Node { return node.NewNodeWithToken(t, token) }

func item(value *node.Node) *node.Node { return node.New(node.ArrayItem, "", nil, nil, value) }

func keyedItem(key, value *node.Node) *node.Node {
	return node.New(node.ArrayItem, "", nil, map[string]string{node.PropKeyed: "true"}, key, value)
}

func array(items ...*node.Node) *node.Node { return node.New(node.Array, "", nil, nil, items...) }

func TestResolveScalars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   *node.Node
		want staticvalue.Value
	}{
		{"string", str("^/x/"), staticvalue.String("^/x/")},
		{"decimal int", lit(node.Int, "42"), staticvalue.Int(42)},
		{"hex int", lit(node.Int, "0x1F"), staticvalue.Int(31)},
		{"binary int", lit(node.Int, "0b101"), staticvalue.Int(5)},
		{"octal int", lit(node.Int, "0o17"), staticvalue.Int(15)},
		{"legacy octal int", lit(node.Int, "017"), staticvalue.Int(15)},
		{"separated int", lit(node.Int, "1_000_000"), staticvalue.Int(1000000)},
		{"overflowing int", lit(node.Int, "9223372036854775808"), staticvalue.Float(9223372036854775808)},
		{"float", lit(node.Float, "1.5"), staticvalue.Float(1.5)},
		{"separated float", lit(node.Float, "1_000.25"), staticvalue.Float(1000.25)},
		{"bool upper", lit(node.Bool, "TRUE"), staticvalue.Bool(true)},
		{"bool false", lit(node.Bool, "false"), staticvalue.Bool(false)},
		{"null", lit(node.Null, ""), staticvalue.Null()},
		{"const true", lit(node.ConstFetch, `\True`), staticvalue.Bool(true)},
		{"const null", lit(node.ConstFetch, "NULL"), staticvalue.Null()},
		{"negative int", node.New(node.UnaryOp, "-", nil, nil, lit(node.Int, "3")), staticvalue.Int(-3)},
		{"positive float", node.New(node.UnaryOp, "+", nil, nil, lit(node.Float, "2.5")), staticvalue.Float(2.5)},
		{"concat", node.New(node.BinaryOp, ".", nil, nil, str("a"), lit(node.Int, "1")), staticvalue.String("a1")},
		{"concat bool", node.New(node.BinaryOp, ".", nil, nil, lit(node.Bool, "true"), lit(node.Null, "")),
			staticvalue.String("1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, staticvalue.Resolve(tt.in))
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	t.Parallel()

	variable := lit(node.Variable, "env")
	classConst := lit(node.ClassConstFetch, `App\User::class`)

	tests := []struct {
		name   string
		in     *node.Node
		reason string
		origin *node.Node
	}{
		{"nil", nil, staticvalue.ReasonNilNode, nil},
		{"variable", variable, staticvalue.ReasonDynamic, variable},
		{"class constant", classConst, staticvalue.ReasonClassConstant, classConst},
		{"bad int", lit(node.Int, "08"), staticvalue.ReasonBadLiteral, nil},
		{"constant", lit(node.ConstFetch, "PHP_EOL"), staticvalue.ReasonDynamic, nil},
		{"concat with variable", node.New(node.BinaryOp, ".", nil, nil, str("a"), variable),
			staticvalue.ReasonDynamic, variable},
		{"arithmetic", node.New(node.BinaryOp, "+", nil, nil, lit(node.Int, "1"), lit(node.Int, "2")),
			staticvalue.ReasonOperator, nil},
		{"negated string", node.New(node.UnaryOp, "-", nil, nil, str("a")), staticvalue.ReasonOperator, nil},
		{"concat array", node.New(node.BinaryOp, ".", nil, nil, str("a"), array()), staticvalue.ReasonOperator, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := staticvalue.Resolve(tt.in)

			require.False(t, got.Known())
			assert.Equal(t, staticvalue.KindUnknown, got.Kind())
			assert.Equal(t, tt.reason, got.Reason())

			if tt.origin != nil {
				assert.Same(t, tt.origin, got.Origin())
			}
		})
	}
}

func TestResolveListArray(t *testing.T) {
	t.Parallel()

	got := staticvalue.Resolve(array(item(str("ROLE_USER")), item(lit(node.Int, "7"))))

	require.Equal(t, staticvalue.KindList, got.Kind())
	assert.Equal(t, []staticvalue.Value{staticvalue.String("ROLE_USER"), staticvalue.Int(7)}, got.Items())
	assert.Equal(t, 2, got.Len())

	empty := staticvalue.Resolve(array())

	assert.Equal(t, staticvalue.KindList, empty.Kind())
	assert.Equal(t, 0, empty.Len())
}

func TestResolveMapArray(t *testing.T) {
	t.Parallel()

	got := staticvalue.Resolve(array(
		keyedItem(str("pattern"), str("^/x/")),
		item(str("auto")),
		keyedItem(str("5"), lit(node.Bool, "false")),
		item(lit(node.Null, "")),
		keyedItem(str("pattern"), str("^/y/")),
	))

	require.Equal(t, staticvalue.KindMap, got.Kind())

	entries := got.Map()

	assert.Equal(t, []staticvalue.Key{
		staticvalue.StringKey("pattern"),
		staticvalue.IntKey(0),
		staticvalue.IntKey(5),
		staticvalue.IntKey(6),
	}, entries.Keys())

	pattern, ok := entries.Get(staticvalue.StringKey("pattern"))
	require.True(t, ok)
	assert.Equal(t, staticvalue.String("^/y/"), pattern, "later duplicate key overwrites in place")

	null, ok := entries.Get(staticvalue.IntKey(6))
	require.True(t, ok)
	assert.True(t, null.IsNull())
}

func TestResolveArrayWithUnknownParts(t *testing.T) {
	t.Parallel()

	t.Run("unknown value stays nested", func(t *testing.T) {
		t.Parallel()

		variable := lit(node.Variable, "dsn")
		got := staticvalue.Resolve(array(
			keyedItem(str("main"), array(keyedItem(str("url"), variable))),
		))

		require.Equal(t, staticvalue.KindMap, got.Kind())

		found, path, ok := got.FirstUnknown()
		require.True(t, ok)
		assert.Same(t, variable, found.Origin())
		assert.Equal(t, []staticvalue.Key{staticvalue.StringKey("main"), staticvalue.StringKey("url")}, path)
	})

	t.Run("dynamic key makes array unknown", func(t *testing.T) {
		t.Parallel()

		key := lit(node.ClassConstFetch, `App\User::class`)
		got := staticvalue.Resolve(array(keyedItem(key, str("auto"))))

		assert.False(t, got.Known())
		assert.Equal(t, staticvalue.ReasonDynamicKey, got.Reason())
		assert.Same(t, key, got.Origin())
	})

	t.Run("spread makes array unknown", func(t *testing.T) {
		t.Parallel()

		spread := node.New(node.ArrayItem, "", nil, map[string]string{node.PropSpread: "true"}, lit(node.Variable, "x"))
		got := staticvalue.Resolve(array(item(str("a")), spread))

		assert.Equal(t, staticvalue.ReasonSpread, got.Reason())
	})

	t.Run("fully known has no unknown", func(t *testing.T) {
		t.Parallel()

		_, _, ok := staticvalue.Resolve(array(item(str("a")))).FirstUnknown()
		assert.False(t, ok)
	})
}

func TestResolveKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   *node.Node
		want staticvalue.Key
		ok   bool
	}{
		{"string", str("dev"), staticvalue.StringKey("dev"), true},
		{"numeric string", str("12"), staticvalue.IntKey(12), true},
		{"negative numeric string", str("-3"), staticvalue.IntKey(-3), true},
		{"leading zero stays string", str("012"), staticvalue.StringKey("012"), true},
		{"plus sign stays string", str("+1"), staticvalue.StringKey("+1"), true},
		{"int", lit(node.Int, "3"), staticvalue.IntKey(3), true},
		{"bool", lit(node.Bool, "true"), staticvalue.IntKey(1), true},
		{"null", lit(node.Null, ""), staticvalue.StringKey(""), true},
		{"float truncates", lit(node.Float, "2.7"), staticvalue.IntKey(2), true},
		{"negative float truncates", lit(node.Float, "-1e18"), staticvalue.IntKey(-1e18), true},
		{"float above int64", lit(node.Float, "1e19"), staticvalue.Key{}, false},
		{"float at 2^63", lit(node.Float, "9223372036854775808.0"), staticvalue.Key{}, false},
		{"float below int64", lit(node.Float, "-9.3e18"), staticvalue.Key{}, false},
		{"variable", lit(node.Variable, "k"), staticvalue.Key{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := staticvalue.ResolveKey(tt.in)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDoesNotMutate(t *testing.T) {
	t.Parallel()

	in := array(keyedItem(str("a"), array(item(lit(node.Int, "1")))))
	snapshot := in.Clone()

	staticvalue.Resolve(in)

	assert.True(t, node.Equal(snapshot, in))
}

func TestScalarString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   staticvalue.Value
		want string
	}{
		{staticvalue.Float(1.0), "1"},
		{staticvalue.Float(0.1), "0.1"},
		{staticvalue.Float(-2.5), "-2.5"},
		{staticvalue.Float(1e20), "1.0E+20"},
		{staticvalue.Float(1.5e-7), "1.5E-7"},
		{staticvalue.Float(math.Inf(-1)), "-INF"},
		{staticvalue.Int(-9), "-9"},
		{staticvalue.Bool(false), ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			got, ok := tt.in.ScalarString()

			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := staticvalue.List().ScalarString()
	assert.False(t, ok)
}
