package configbuilder

import (
	"github.com/Sumatoshi-tech/phpshift/pkg/phpast"
	"github.com/Sumatoshi-tech/phpshift/pkg/phpast/pkg/node"
	"github.com/Sumatoshi-tech/phpshift/pkg/staticvalue"
)

// Handler synthesizes the builder calls of one top-level key whose mapping
// does not follow the generic rules. Handle reads the original configuration
// array, never modifies it, and returns nil when it does not apply, in which
// case generic synthesis runs for the key.
type Handler interface {
	Key() string
	Handle(configArray, target *node.Node, mainMethod string) []*node.Node
}

// DefaultHandlers returns the built-in handlers in the order they are tried.
func DefaultHandlers() []Handler {
	return []Handler{
		AccessDecisionManagerHandler{},
		RoleHierarchyHandler{},
		PasswordHashersHandler{},
	}
}

// AccessDecisionManagerHandler maps access_decision_manager.
// An options array becomes one chain on the child builder, any other
// expression is passed to accessDecisionManager() as is.
type AccessDecisionManagerHandler struct{}

// Key implements Handler.
func (AccessDecisionManagerHandler) Key() string { return "access_decision_manager" }

// Handle implements Handler.
func (h AccessDecisionManagerHandler) Handle(configArray, target *node.Node, mainMethod string) []*node.Node {
	value := lastValue(configArray, h.Key())
	if value == nil || isNullLiteral(value) {
		return nil
	}

	if !value.Is(node.Array) {
		call := phpast.NewMethodCall(target.Clone(), mainMethod, phpast.NewArgument(value.Clone()))

		return []*node.Node{phpast.NewExpressionStatement(call)}
	}

	entries, ok := keyedEntries(value)
	if !ok || len(entries) == 0 {
		return nil
	}

	chain, ok := optionChain(phpast.NewMethodCall(target.Clone(), mainMethod), entries)
	if !ok {
		return nil
	}

	return []*node.Node{phpast.NewExpressionStatement(chain)}
}

// RoleHierarchyHandler maps role_hierarchy to one roleHierarchy(role, reachable) call per role.
type RoleHierarchyHandler struct{}

// Key implements Handler.
func (RoleHierarchyHandler) Key() string { return "role_hierarchy" }

// Handle implements Handler.
func (h RoleHierarchyHandler) Handle(configArray, target *node.Node, mainMethod string) []*node.Node {
	entries, ok := keyedEntries(lastValue(configArray, h.Key()))
	if !ok {
		return nil
	}

	var stmts []*node.Node

	for _, entry := range entries {
		if isNullLiteral(entry.value) {
			continue
		}

		call := phpast.NewMethodCall(target.Clone(), mainMethod,
			phpast.NewArgument(entry.keyNode.Clone()),
			phpast.NewArgument(entry.value.Clone()),
		)
		stmts = append(stmts, phpast.NewExpressionStatement(call))
	}

	return stmts
}

// PasswordHashersHandler maps password_hashers, whose keys are usually class
// constants. A scalar hasher config sets the algorithm; an options array becomes
// a chain on the child builder.
type PasswordHashersHandler struct{}

// Key implements Handler.
func (PasswordHashersHandler) Key() string { return "password_hashers" }

// Handle implements Handler.
func (h PasswordHashersHandler) Handle(configArray, target *node.Node, mainMethod string) []*node.Node {
	entries, ok := keyedEntries(lastValue(configArray, h.Key()))
	if !ok {
		return nil
	}

	var stmts []*node.Node

	for _, entry := range entries {
		if isNullLiteral(entry.value) {
			continue
		}

		child := phpast.NewMethodCall(target.Clone(), mainMethod, phpast.NewArgument(entry.keyNode.Clone()))

		if !entry.value.Is(node.Array) {
			call := phpast.NewMethodCall(child, "algorithm", phpast.NewArgument(entry.value.Clone()))
			stmts = append(stmts, phpast.NewExpressionStatement(call))

			continue
		}

		options, ok := keyedEntries(entry.value)
		if !ok {
			return nil
		}

		chain, ok := optionChain(child, options)
		if !ok {
			return nil
		}

		stmts = append(stmts, phpast.NewExpressionStatement(chain))
	}

	return stmts
}

type keyedEntry struct {
	key     staticvalue.Key
	known   bool
	keyNode *node.Node
	value   *node.Node
}

// keyedEntries lists the items of an array literal with explicit keys.
// A resolvable key seen twice keeps its first position and its last value.
// It reports false for non-arrays and for arrays with spread or unkeyed items.
func keyedEntries(array *node.Node) ([]keyedEntry, bool) {
	if !array.Is(node.Array) {
		return nil, false
	}

	items := phpast.ArrayItems(array)
	entries := make([]keyedEntry, 0, len(items))
	index := make(map[staticvalue.Key]int, len(items))

	for _, item := range items {
		if phpast.IsSpread(item) || !phpast.IsKeyed(item) {
			return nil, false
		}

		keyNode := phpast.ItemKey(item)
		key, known := staticvalue.ResolveKey(keyNode)

		if known {
			if pos, seen := index[key]; seen {
				entries[pos].value = phpast.ItemValue(item)

				continue
			}

			index[key] = len(entries)
		}

		entries = append(entries, keyedEntry{key: key, known: known, keyNode: keyNode, value: phpast.ItemValue(item)})
	}

	return entries, true
}

// optionChain appends ->camel(option)(expr) to call for every entry.
// It reports false when an option name is not a resolvable string.
func optionChain(call *node.Node, entries []keyedEntry) (*node.Node, bool) {
	for _, entry := range entries {
		if !entry.known || entry.key.IsInt() {
			return nil, false
		}

		if isNullLiteral(entry.value) {
			continue
		}

		call = phpast.NewMethodCall(call, phpast.UnderscoreToCamelCase(entry.key.Str()),
			phpast.NewArgument(entry.value.Clone()))
	}

	return call, true
}

// lastValue returns the value of the last top-level item keyed by key.
func lastValue(configArray *node.Node, key string) *node.Node {
	want := staticvalue.NormalizeKey(key)

	var value *node.Node

	for _, item := range phpast.ArrayItems(configArray) {
		if !phpast.IsKeyed(item) {
			continue
		}

		if got, ok := staticvalue.ResolveKey(phpast.ItemKey(item)); ok && got == want {
			value = phpast.ItemValue(item)
		}
	}

	return value
}

func isNullLiteral(n *node.Node) bool {
	return n != nil && staticvalue.Resolve(n).IsNull()
}
