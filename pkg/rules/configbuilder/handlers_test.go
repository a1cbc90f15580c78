package configbuilder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/phpshift/pkg/phpast/pkg/node"
	"github.com/Sumatoshi-tech/phpshift/pkg/rules/configbuilder"
)

func TestDefaultHandlers(t *testing.T) {
	t.Parallel()

	keys := make([]string, 0, 3)

	for _, handler := range configbuilder.DefaultHandlers() {
		keys = append(keys, handler.Key())
	}

	assert.Equal(t, []string{"access_decision_manager", "role_hierarchy", "password_hashers"}, keys)
}

func TestAccessDecisionManagerHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config *node.Node
		want   []string
	}{
		{
			name: "options become one chain",
			config: array(pair("access_decision_manager", array(
				pair("strategy", str("unanimous")),
				pair("allow_if_all_abstain", boolean(false)),
				pair("service", null()),
			))),
			want: []string{"$securityConfig->accessDecisionManager()->strategy('unanimous')->allowIfAllAbstain(false);"},
		},
		{
			name:   "expression is passed through",
			config: array(pair("access_decision_manager", variable("manager"))),
			want:   []string{"$securityConfig->accessDecisionManager($manager);"},
		},
		{
			name: "last occurrence wins",
			config: array(
				pair("access_decision_manager", array(pair("strategy", str("affirmative")))),
				pair("access_decision_manager", array(pair("strategy", str("priority")))),
			),
			want: []string{"$securityConfig->accessDecisionManager()->strategy('priority');"},
		},
		{"null", array(pair("access_decision_manager", null())), nil},
		{"list", array(pair("access_decision_manager", array(item(str("unanimous"))))), nil},
		{"empty array", array(pair("access_decision_manager", array())), nil},
		{"dynamic option name", array(pair("access_decision_manager", array(keyed(variable("k"), str("x"))))), nil},
		{"absent", array(pair("firewalls", array())), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := configbuilder.AccessDecisionManagerHandler{}.Handle(tt.config, variable("securityConfig"), "accessDecisionManager")
			assertStatements(t, tt.want, got)
		})
	}
}

func TestRoleHierarchyHandler(t *testing.T) {
	t.Parallel()

	config := array(pair("role_hierarchy", array(
		pair("ROLE_ADMIN", str("ROLE_USER")),
		pair("ROLE_SUPER_ADMIN", array(item(str("ROLE_ADMIN")), item(str("ROLE_ALLOWED_TO_SWITCH")))),
		pair("ROLE_GUEST", null()),
		keyed(classConst(`App\Security\Roles`), variable("roles")),
	)))

	got := configbuilder.RoleHierarchyHandler{}.Handle(config, variable("securityConfig"), "roleHierarchy")

	assertStatements(t, []string{
		"$securityConfig->roleHierarchy('ROLE_ADMIN', 'ROLE_USER');",
		"$securityConfig->roleHierarchy('ROLE_SUPER_ADMIN', ['ROLE_ADMIN', 'ROLE_ALLOWED_TO_SWITCH']);",
		`$securityConfig->roleHierarchy(App\Security\Roles::class, $roles);`,
	}, got)

	assert.Nil(t, configbuilder.RoleHierarchyHandler{}.Handle(
		array(pair("role_hierarchy", variable("roles"))), variable("securityConfig"), "roleHierarchy"))
	assert.Nil(t, configbuilder.RoleHierarchyHandler{}.Handle(
		array(pair("role_hierarchy", array(item(str("ROLE_ADMIN"))))), variable("securityConfig"), "roleHierarchy"))
}

func TestPasswordHashersHandler(t *testing.T) {
	t.Parallel()

	const userInterface = `Symfony\Component\Security\Core\User\PasswordAuthenticatedUserInterface`

	tests := []struct {
		name   string
		config *node.Node
		want   []string
	}{
		{
			name: "class keys with scalar and array configs",
			config: array(pair("password_hashers", array(
				keyed(classConst(`App\Entity\User`), str("auto")),
				keyed(classConst(userInterface), array(
					pair("algorithm", str("auto")),
					pair("cost", integer("15")),
					pair("migrate_from", null()),
				)),
				pair("legacy", null()),
			))),
			want: []string{
				`$securityConfig->passwordHasher(App\Entity\User::class)->algorithm('auto');`,
				`$securityConfig->passwordHasher(` + userInterface + `::class)->algorithm('auto')->cost(15);`,
			},
		},
		{
			name: "string keys are kept as written",
			config: array(pair("password_hashers", array(
				pair("plain", array(pair("algorithm", str("plaintext")))),
			))),
			want: []string{"$securityConfig->passwordHasher('plain')->algorithm('plaintext');"},
		},
		{
			name: "list hasher config",
			config: array(pair("password_hashers", array(
				pair("plain", str("plaintext")),
				keyed(classConst(`App\Entity\User`), array(item(str("auto")))),
			))),
			want: nil,
		},
		{"list value", array(pair("password_hashers", array(item(str("auto"))))), nil},
		{"scalar value", array(pair("password_hashers", str("auto"))), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := configbuilder.PasswordHashersHandler{}.Handle(tt.config, variable("securityConfig"), "passwordHasher")
			assertStatements(t, tt.want, got)
		})
	}
}

func TestHandlers_DoNotModifyConfig(t *testing.T) {
	t.Parallel()

	config := array(
		pair("access_decision_manager", array(pair("strategy", str("unanimous")))),
		pair("role_hierarchy", array(pair("ROLE_ADMIN", str("ROLE_USER")))),
		pair("password_hashers", array(keyed(classConst(`App\Entity\User`), str("auto")))),
	)
	snapshot := config.Clone()

	for _, handler := range configbuilder.DefaultHandlers() {
		stmts := handler.Handle(config, variable("securityConfig"), "method")
		assert.Len(t, stmts, 1, handler.Key())

		stmts[0].VisitPreOrder(func(n *node.Node) {
			config.VisitPreOrder(func(original *node.Node) {
				assert.NotSame(t, original, n, "handlers copy argument expressions")
			})
		})
	}

	assert.True(t, node.Equal(snapshot, config))
}

func TestSynthesize_HandlersTakePrecedence(t *testing.T) {
	t.Parallel()

	config := array(
		pair("role_hierarchy", array(pair("ROLE_ADMIN", str("ROLE_USER")))),
		pair("access_decision_manager", array(item(str("unanimous")))),
		pair("password_hashers", array(keyed(classConst(`App\Entity\User`), str("auto")))),
	)

	synth := configbuilder.Synthesizer{Handlers: configbuilder.DefaultHandlers()}

	assert.Equal(t, []string{
		"$securityConfig->roleHierarchy('ROLE_ADMIN', 'ROLE_USER');",
		"$securityConfig->accessDecisionManager(['unanimous']);",
		`$securityConfig->passwordHasher(App\Entity\User::class)->algorithm('auto');`,
	}, synthesize(t, synth, config))
}

func assertStatements(t *testing.T, want []string, got []*node.Node) {
	t.Helper()

	if want == nil {
		assert.Empty(t, got)

		return
	}

	assert.Equal(t, want, render(got))
}
