package configbuilder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/phpshift/pkg/phpast"
	"github.com/Sumatoshi-tech/phpshift/pkg/phpast/pkg/node"
	"github.com/Sumatoshi-tech/phpshift/pkg/rules/configbuilder"
)

func TestConfigVariableName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "securityConfig", configbuilder.ConfigVariableName(securityClass))
	assert.Equal(t, "twigConfig", configbuilder.ConfigVariableName(`\Symfony\Config\TwigConfig`))
	assert.Equal(t, "acmeBlogConfig", configbuilder.ConfigVariableName(`Acme\Config\AcmeBlogConfig`))
}

func TestRewrite(t *testing.T) {
	t.Parallel()

	original := registration("security", array(pair("erase_credentials", boolean(true))))
	original.SetProp(node.PropReturnType, "void")
	original.SetProp(node.PropUses, "container")
	original.Pos = &node.Positions{StartLine: 3, StartCol: 8, EndLine: 5, EndCol: 2}
	snapshot := original.Clone()

	stmt := phpast.NewExpressionStatement(
		phpast.NewMethodCall(variable("securityConfig"), "eraseCredentials", arg(boolean(true))))

	rewritten := configbuilder.Rewrite(securityClass, original, []*node.Node{stmt})

	assert.Equal(t,
		`static function (\Symfony\Config\SecurityConfig $securityConfig): void { $securityConfig->eraseCredentials(true); }`,
		node.Source(rewritten))

	params := phpast.ClosureParams(rewritten)
	require.Len(t, params, 1)
	assert.Equal(t, securityClass, params[0].Prop(node.PropResolvedType))
	assert.Empty(t, rewritten.Prop(node.PropUses))

	require.NotNil(t, rewritten.Pos)
	assert.Equal(t, *original.Pos, *rewritten.Pos)
	assert.NotSame(t, original.Pos, rewritten.Pos)

	assert.True(t, node.Equal(snapshot, original), "original closure is not modified")
}

func TestRewrite_KeepsModifiers(t *testing.T) {
	t.Parallel()

	plain := legacyClosure()
	delete(plain.Props, node.PropStatic)

	assert.Equal(t, `function (\Symfony\Config\TwigConfig $twigConfig) {}`,
		node.Source(configbuilder.Rewrite(`Symfony\Config\TwigConfig`, plain, nil)))

	byRef := legacyClosure()
	byRef.SetFlag(node.PropByRef)

	assert.Equal(t, `static function &(\Symfony\Config\TwigConfig $twigConfig) {}`,
		node.Source(configbuilder.Rewrite(`Symfony\Config\TwigConfig`, byRef, nil)))
}
