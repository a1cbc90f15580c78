package configbuilder_test

import (
	"strconv"

	"github.com/Sumatoshi-tech/phpshift/pkg/phpast"
	"github.com/Sumatoshi-tech/phpshift/pkg/phpast/pkg/node"
	"github.com/Sumatoshi-tech/phpshift/pkg/rules/configbuilder"
)

const (
	configuratorVar = "containerConfigurator"
	securityClass   = `Symfony\Config\SecurityConfig`
)

func str(value string) *node.Node { return phpast.NewString(value) }

func boolean(value bool) *node.Node {
	return node.NewNodeWithToken(node.Bool, strconv.FormatBool(value))
}

func null() *node.Node { return node.NewNodeWithToken(node.Null, "") }

func integer(literal string) *node.Node { return node.NewNodeWithToken(node.Int, literal) }

func variable(name string) *node.Node { return phpast.NewVariable(name) }

func classConst(class string) *node.Node {
	return node.New(node.ClassConstFetch, class+"::class", nil,
		map[string]string{node.PropClass: class, node.PropName: "class"})
}

func array(items ...*node.Node) *node.Node {
	return node.NewBuilder().WithType(node.Array).WithChildren(items...).Build()
}

func keyed(key, value *node.Node) *node.Node {
	return node.NewBuilder().
		WithType(node.ArrayItem).
		WithProp(node.PropKeyed, "true").
		WithChildren(key, value).
		Build()
}

func pair(key string, value *node.Node) *node.Node { return keyed(str(key), value) }

func item(value *node.Node) *node.Node {
	return node.NewBuilder().WithType(node.ArrayItem).WithChildren(value).Build()
}

func spread(value *node.Node) *node.Node {
	spreadItem := item(value)
	spreadItem.SetFlag(node.PropSpread)

	return spreadItem
}

func arg(value *node.Node) *node.Node { return phpast.NewArgument(value) }

func namedArg(name string, value *node.Node) *node.Node {
	argument := phpast.NewArgument(value)
	argument.SetProp(node.PropName, name)

	return argument
}

func extensionCall(receiver string, args ...*node.Node) *node.Node {
	return phpast.NewExpressionStatement(phpast.NewMethodCall(variable(receiver), "extension", args...))
}

// legacyClosure builds `static function (ContainerConfigurator $containerConfigurator) { stmts }`.
func legacyClosure(stmts ...*node.Node) *node.Node {
	param := phpast.NewParameter(configuratorVar, configbuilder.DefaultConfiguratorType)
	closure := phpast.NewClosure([]*node.Node{param}, phpast.NewBlock(stmts...))
	closure.SetFlag(node.PropStatic)

	return closure
}

func registration(key string, config *node.Node) *node.Node {
	return legacyClosure(extensionCall(configuratorVar, arg(str(key)), arg(config)))
}

func render(stmts []*node.Node) []string {
	sources := make([]string, 0, len(stmts))

	for _, stmt := range stmts {
		sources = append(sources, node.Source(stmt))
	}

	return sources
}
