package configbuilder

import (
	"strings"

	"github.com/Sumatoshi-tech/phpshift/pkg/phpast"
	"github.com/Sumatoshi-tech/phpshift/pkg/phpast/pkg/node"
)

// ConfigVariableName returns the parameter name used for a builder class,
// e.g. "securityConfig" for Symfony\Config\SecurityConfig.
func ConfigVariableName(targetClass string) string {
	return phpast.VariableName(strings.TrimPrefix(targetClass, `\`))
}

// Rewrite builds the replacement closure: one parameter of targetClass, the given
// statements as body, and the static, by-reference and return type modifiers and
// position of original. Captured variables are dropped. original is not modified.
func Rewrite(targetClass string, original *node.Node, stmts []*node.Node) *node.Node {
	param := phpast.NewParameter(ConfigVariableName(targetClass), targetClass)
	closure := phpast.NewClosure([]*node.Node{param}, phpast.NewBlock(stmts...))

	for _, prop := range [...]string{node.PropStatic, node.PropByRef, node.PropReturnType} {
		if value := original.Prop(prop); value != "" {
			closure.SetProp(prop, value)
		}
	}

	if original != nil && original.Pos != nil {
		pos := *original.Pos
		closure.Pos = &pos
	}

	return closure
}
