// Package configbuilder rewrites closures that register extension configuration
// through ContainerConfigurator::extension() into closures that use the
// generated, typed config builder of that extension.
package configbuilder

import (
	"strings"

	"github.com/Sumatoshi-tech/phpshift/pkg/phpast"
	"github.com/Sumatoshi-tech/phpshift/pkg/phpast/pkg/node"
)

// DefaultConfiguratorType is the generic container configurator class.
const DefaultConfiguratorType = `Symfony\Component\DependencyInjection\Loader\Configurator\ContainerConfigurator`

const registrationMethod = "extension"

// Detector recognizes closures in the legacy registration shape.
type Detector struct {
	// ConfiguratorType is the fully-qualified class of the configurator parameter.
	// Empty means DefaultConfiguratorType.
	ConfiguratorType string
}

// Detect reports whether n is a closure taking exactly one configurator parameter
// whose body only calls extension() on that parameter. It never modifies n.
func (d Detector) Detect(n *node.Node) bool {
	param, ok := d.configuratorParam(n)
	if !ok {
		return false
	}

	body := phpast.ClosureBody(n)
	if body == nil || len(body.Children) == 0 {
		return false
	}

	for _, stmt := range body.Children {
		if registrationCall(stmt, param.Token) == nil {
			return false
		}
	}

	return true
}

func (d Detector) configuratorParam(n *node.Node) (*node.Node, bool) {
	if !n.Is(node.Closure) {
		return nil, false
	}

	params := phpast.ClosureParams(n)
	if len(params) != 1 {
		return nil, false
	}

	param := params[0]
	if param.Flag(node.PropVariadic) || param.Flag(node.PropByRef) {
		return nil, false
	}

	want := d.ConfiguratorType
	if want == "" {
		want = DefaultConfiguratorType
	}

	if !strings.EqualFold(parameterType(param), strings.TrimPrefix(want, `\`)) {
		return nil, false
	}

	return param, true
}

// parameterType prefers the host-resolved type over the type as written.
func parameterType(param *node.Node) string {
	typeName := param.Prop(node.PropResolvedType)
	if typeName == "" {
		typeName = param.Prop(node.PropType)
	}

	return strings.TrimPrefix(typeName, `\`)
}

// registrationCall returns the extension() call of stmt when stmt is exactly
// `$variable->extension(...)`, or nil otherwise.
func registrationCall(stmt *node.Node, variable string) *node.Node {
	if !stmt.Is(node.ExpressionStatement) {
		return nil
	}

	call := stmt.Child(0)
	if !call.Is(node.MethodCall) || !strings.EqualFold(call.Token, registrationMethod) {
		return nil
	}

	receiver := phpast.CallReceiver(call)
	if !receiver.Is(node.Variable) || receiver.Token != variable {
		return nil
	}

	return call
}
