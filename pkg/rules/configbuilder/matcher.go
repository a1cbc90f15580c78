package configbuilder

import (
	"slices"

	"github.com/Sumatoshi-tech/phpshift/pkg/phpast"
	"github.com/Sumatoshi-tech/phpshift/pkg/phpast/pkg/node"
	"github.com/Sumatoshi-tech/phpshift/pkg/staticvalue"
)

// Parameter names of ContainerConfigurator::extension().
const (
	argNamespace = "namespace"
	argConfig    = "config"
	argPrepend   = "prepend"
)

var registrationParams = [...]string{argNamespace, argConfig, argPrepend}

// ExtensionKeyAndConfig is the extension key and configuration array of one registration.
type ExtensionKeyAndConfig struct {
	// Key is the extension key literal, e.g. "security".
	Key string
	// ConfigArray is the array literal passed as configuration. It belongs to the
	// original tree and must not be modified.
	ConfigArray *node.Node
}

// Matcher extracts the registration arguments from a detected closure.
type Matcher struct{}

// Match returns the key and configuration array of the closure's single
// extension() call. It reports false when the body holds more than one call,
// when arguments cannot be bound, when prepend is anything but literal false,
// when the key is not a plain string literal, or when the config is not an array literal.
func (Matcher) Match(closure *node.Node) (ExtensionKeyAndConfig, bool) {
	params := phpast.ClosureParams(closure)
	body := phpast.ClosureBody(closure)

	if len(params) != 1 || body == nil || len(body.Children) != 1 {
		return ExtensionKeyAndConfig{}, false
	}

	call := registrationCall(body.Children[0], params[0].Token)
	if call == nil {
		return ExtensionKeyAndConfig{}, false
	}

	bound, ok := bindArgs(phpast.CallArgs(call))
	if !ok {
		return ExtensionKeyAndConfig{}, false
	}

	if prepend, present := bound[argPrepend]; present {
		if value := staticvalue.Resolve(prepend); value.Kind() != staticvalue.KindBool || value.AsBool() {
			return ExtensionKeyAndConfig{}, false
		}
	}

	namespace, config := bound[argNamespace], bound[argConfig]

	if !namespace.Is(node.String) || !config.Is(node.Array) {
		return ExtensionKeyAndConfig{}, false
	}

	return ExtensionKeyAndConfig{Key: namespace.Token, ConfigArray: config}, true
}

// bindArgs binds call arguments to extension() parameters the way PHP does:
// positional arguments first, then named ones, each parameter at most once.
func bindArgs(args []*node.Node) (map[string]*node.Node, bool) {
	bound := make(map[string]*node.Node, len(registrationParams))
	named := false

	for idx, arg := range args {
		if phpast.IsSpread(arg) {
			return nil, false
		}

		name := phpast.ArgName(arg)

		switch {
		case name == "" && named:
			return nil, false
		case name == "":
			if idx >= len(registrationParams) {
				return nil, false
			}

			name = registrationParams[idx]
		default:
			named = true

			if !slices.Contains(registrationParams[:], name) {
				return nil, false
			}
		}

		if _, dup := bound[name]; dup {
			return nil, false
		}

		bound[name] = phpast.ArgValue(arg)
	}

	return bound, true
}
