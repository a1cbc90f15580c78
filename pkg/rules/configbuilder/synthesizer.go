package configbuilder

import (
	"fmt"
	"strconv"

	"github.com/Sumatoshi-tech/phpshift/pkg/phpast"
	"github.com/Sumatoshi-tech/phpshift/pkg/phpast/pkg/node"
	"github.com/Sumatoshi-tech/phpshift/pkg/staticvalue"
)

// UnresolvedPolicy decides what happens to values that are not statically known.
type UnresolvedPolicy int

const (
	// AbortOnUnresolved fails the whole rewrite with an UnresolvableValueError.
	AbortOnUnresolved UnresolvedPolicy = iota
	// SkipUnresolved drops the innermost key holding an unknown value.
	SkipUnresolved
)

const (
	policyAbort = "abort"
	policySkip  = "skip"
)

// ParseUnresolvedPolicy parses "abort" or "skip".
func ParseUnresolvedPolicy(name string) (UnresolvedPolicy, error) {
	switch name {
	case policyAbort:
		return AbortOnUnresolved, nil
	case policySkip:
		return SkipUnresolved, nil
	default:
		return AbortOnUnresolved, fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidPolicy, name, policyAbort, policySkip)
	}
}

func (p UnresolvedPolicy) String() string {
	switch p {
	case AbortOnUnresolved:
		return policyAbort
	case SkipUnresolved:
		return policySkip
	default:
		return "UnresolvedPolicy(" + strconv.Itoa(int(p)) + ")"
	}
}

// collectionKey enumerates the top-level keys whose value is a collection of named items.
type collectionKey int

const (
	collectionNone collectionKey = iota
	collectionProviders
	collectionFirewalls
	collectionAccessControl
	collectionPasswordHashers
)

func classifyKey(key string) collectionKey {
	switch key {
	case "providers":
		return collectionProviders
	case "firewalls":
		return collectionFirewalls
	case "access_control":
		return collectionAccessControl
	case "password_hashers":
		return collectionPasswordHashers
	default:
		return collectionNone
	}
}

// method returns the builder method for a top-level key of this kind.
func (c collectionKey) method(key string) string {
	switch c {
	case collectionProviders:
		return "provider"
	case collectionFirewalls:
		return "firewall"
	case collectionAccessControl:
		return "accessControl"
	case collectionPasswordHashers:
		return "passwordHasher"
	case collectionNone:
		fallthrough
	default:
		return phpast.UnderscoreToCamelCase(key)
	}
}

// Synthesizer turns an extension configuration array into builder call statements.
type Synthesizer struct {
	// Handlers are tried, in order, before generic synthesis of their key.
	Handlers []Handler
	// Policy decides how unknown values are treated.
	Policy UnresolvedPolicy
	// OnSkip, when set, is called for every value dropped under SkipUnresolved.
	OnSkip func(path []string, reason string)
}

// Synthesize returns one ExpressionStatement per builder call, in the order
// the keys appear in configArray. Every statement calls into a fresh copy of target.
// configArray is never modified.
func (s Synthesizer) Synthesize(configArray, target *node.Node) ([]*node.Node, error) {
	entries, err := s.topLevel(configArray)
	if err != nil {
		return nil, err
	}

	var stmts []*node.Node

	for key, value := range entries.All() {
		name := key.Str()
		kind := classifyKey(name)
		method := kind.method(name)

		if handled := s.handle(name, configArray, target, method); len(handled) > 0 {
			stmts = append(stmts, handled...)

			continue
		}

		path := []string{name}

		settled, keep, err := s.settle(path, value)
		if err != nil {
			return nil, err
		}

		if !keep {
			continue
		}

		var emitted []*node.Node

		if kind == collectionNone {
			emitted, err = simpleCall(path, method, settled, target)
		} else {
			emitted, err = splitMany(path, method, settled, target)
		}

		if err != nil {
			return nil, err
		}

		stmts = append(stmts, emitted...)
	}

	return stmts, nil
}

// topLevel resolves the configuration array entry by entry. Keys must be strings;
// a later duplicate overwrites the earlier value in the earlier position.
func (s Synthesizer) topLevel(configArray *node.Node) (*staticvalue.OrderedMap, error) {
	if !configArray.Is(node.Array) {
		return nil, fmt.Errorf("%w: configuration is not an array literal", ErrMalformedConfig)
	}

	entries := staticvalue.NewOrderedMap()

	for idx, item := range phpast.ArrayItems(configArray) {
		if phpast.IsSpread(item) {
			if err := s.unresolved(nil, staticvalue.ReasonSpread, item); err != nil {
				return nil, err
			}

			continue
		}

		if !phpast.IsKeyed(item) {
			return nil, fmt.Errorf("%w: item %d has no key", ErrMalformedConfig, idx)
		}

		key, ok := staticvalue.ResolveKey(phpast.ItemKey(item))
		if !ok {
			if err := s.unresolved(nil, staticvalue.ReasonDynamicKey, phpast.ItemKey(item)); err != nil {
				return nil, err
			}

			continue
		}

		if key.IsInt() {
			return nil, fmt.Errorf("%w: top-level key %d is not a string", ErrMalformedConfig, key.Int())
		}

		entries.Set(key, staticvalue.Resolve(phpast.ItemValue(item)))
	}

	return entries, nil
}

func (s Synthesizer) handle(key string, configArray, target *node.Node, method string) []*node.Node {
	for _, handler := range s.Handlers {
		if handler.Key() != key {
			continue
		}

		if stmts := handler.Handle(configArray, target, method); len(stmts) > 0 {
			return stmts
		}
	}

	return nil
}

// unresolved applies the policy to a value that cannot be resolved at path.
// It returns nil when the value is to be dropped.
func (s Synthesizer) unresolved(path []string, reason string, origin *node.Node) error {
	if s.Policy == SkipUnresolved {
		if s.OnSkip != nil {
			s.OnSkip(path, reason)
		}

		return nil
	}

	return &UnresolvableValueError{Path: path, Reason: reason, Node: origin}
}

// settle applies the policy to every unknown inside value.
// It reports false when nothing of value is left to emit.
func (s Synthesizer) settle(path []string, value staticvalue.Value) (staticvalue.Value, bool, error) {
	unknown, subpath, found := value.FirstUnknown()
	if !found {
		return value, true, nil
	}

	if s.Policy != SkipUnresolved {
		full := append(append([]string{}, path...), pathSegments(subpath)...)

		return staticvalue.Value{}, false, s.unresolved(full, unknown.Reason(), unknown.Origin())
	}

	pruned, keep := s.prune(path, value)

	return pruned, keep, nil
}

func (s Synthesizer) prune(path []string, value staticvalue.Value) (staticvalue.Value, bool) {
	switch value.Kind() {
	case staticvalue.KindUnknown:
		_ = s.unresolved(path, value.Reason(), value.Origin())

		return staticvalue.Value{}, false
	case staticvalue.KindMap:
		kept := staticvalue.NewOrderedMap()

		for key, item := range value.Entries() {
			if pruned, keep := s.prune(childPath(path, key), item); keep {
				kept.Set(key, pruned)
			}
		}

		return staticvalue.MapOf(kept), kept.Len() > 0 || value.Len() == 0
	case staticvalue.KindList:
		var kept []staticvalue.Value

		for key, item := range value.Entries() {
			if pruned, keep := s.prune(childPath(path, key), item); keep {
				kept = append(kept, pruned)
			}
		}

		return staticvalue.List(kept...), len(kept) > 0 || value.Len() == 0
	default:
		return value, true
	}
}

// simpleCall emits target->method(value), or nothing for null.
func simpleCall(path []string, method string, value staticvalue.Value, target *node.Node) ([]*node.Node, error) {
	if value.IsNull() {
		return nil, nil
	}

	arg, err := literal(path, value)
	if err != nil {
		return nil, err
	}

	call := phpast.NewMethodCall(target.Clone(), method, phpast.NewArgument(arg))

	return []*node.Node{phpast.NewExpressionStatement(call)}, nil
}

// splitMany emits one chain per collection item: target->method(name)->option(value)...
// List positions call target->method() without a name.
func splitMany(path []string, method string, value staticvalue.Value, target *node.Node) ([]*node.Node, error) {
	switch value.Kind() {
	case staticvalue.KindNull:
		return nil, nil
	case staticvalue.KindMap, staticvalue.KindList:
	default:
		return nil, fmt.Errorf("%w: %s must be an array of items, got %s",
			ErrMalformedConfig, formatPath(path), value.Kind())
	}

	var stmts []*node.Node

	for key, item := range value.Entries() {
		itemPath := childPath(path, key)

		chain, keep, err := itemChain(itemPath,
			phpast.NewMethodCall(target.Clone(), method, itemName(value, key)...), item)
		if err != nil {
			return nil, err
		}

		if keep {
			stmts = append(stmts, phpast.NewExpressionStatement(chain))
		}
	}

	return stmts, nil
}

// itemName is the argument naming a collection item: none for list positions,
// the key itself for map entries, including integer keys.
func itemName(collection staticvalue.Value, key staticvalue.Key) []*node.Node {
	switch {
	case collection.Kind() == staticvalue.KindList:
		return nil
	case key.IsInt():
		return []*node.Node{phpast.NewArgument(node.NewNodeWithToken(node.Int, strconv.FormatInt(key.Int(), 10)))}
	default:
		return []*node.Node{phpast.NewArgument(phpast.NewString(key.Str()))}
	}
}

// itemChain appends ->camel(option)(value) to child for every non-null option of item.
func itemChain(path []string, child *node.Node, item staticvalue.Value) (*node.Node, bool, error) {
	switch item.Kind() {
	case staticvalue.KindNull:
		return nil, false, nil
	case staticvalue.KindMap:
	case staticvalue.KindList:
		if item.Len() == 0 {
			return child, true, nil
		}

		return nil, false, fmt.Errorf("%w: %s must be a map of options, got a list", ErrMalformedConfig, formatPath(path))
	default:
		return nil, false, fmt.Errorf("%w: %s must be a map of options, got %s",
			ErrMalformedConfig, formatPath(path), item.Kind())
	}

	chain := child

	for key, option := range item.Entries() {
		if key.IsInt() {
			return nil, false, fmt.Errorf("%w: %s has unnamed option %d", ErrMalformedConfig, formatPath(path), key.Int())
		}

		if option.IsNull() {
			continue
		}

		arg, err := literal(childPath(path, key), option)
		if err != nil {
			return nil, false, err
		}

		chain = phpast.NewMethodCall(chain, phpast.UnderscoreToCamelCase(key.Str()), phpast.NewArgument(arg))
	}

	return chain, true, nil
}

func literal(path []string, value staticvalue.Value) (*node.Node, error) {
	expr, err := phpast.ValueNode(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedConfig, formatPath(path), err)
	}

	return expr, nil
}

func childPath(path []string, key staticvalue.Key) []string {
	return append(append(make([]string, 0, len(path)+1), path...), pathSegment(key))
}

func pathSegments(keys []staticvalue.Key) []string {
	segments := make([]string, 0, len(keys))

	for _, key := range keys {
		segments = append(segments, pathSegment(key))
	}

	return segments
}

func pathSegment(key staticvalue.Key) string {
	if key.IsInt() {
		return strconv.FormatInt(key.Int(), 10)
	}

	return key.Str()
}
