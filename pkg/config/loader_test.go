package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/phpshift/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".phpshift.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, config.DefaultConfigBuilderEnabled, cfg.Rules.ConfigBuilder.Enabled)
	assert.Equal(t, config.DefaultConfigBuilderUnresolved, cfg.Rules.ConfigBuilder.Unresolved)
	assert.Empty(t, cfg.Rules.ConfigBuilder.ConfiguratorType)
	assert.Empty(t, cfg.Rules.ConfigBuilder.Extensions)
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, config.DefaultLogFormat, cfg.Logging.Format)
	assert.Equal(t, config.DefaultOTLPEndpoint, cfg.Observability.OTLPEndpoint)
	assert.Equal(t, config.DefaultOTLPInsecure, cfg.Observability.OTLPInsecure)
	assert.InDelta(t, config.DefaultSampleRatio, cfg.Observability.SampleRatio, 0.0001)
	assert.Equal(t, config.DefaultDebugTrace, cfg.Observability.DebugTrace)
}

func TestLoadConfig_ValidFileUnmarshals(t *testing.T) {
	t.Parallel()

	content := `rules:
  config_builder:
    enabled: true
    unresolved: skip
    configurator_type: 'App\DependencyInjection\Configurator'
    extensions:
      acme_blog: 'Acme\Config\AcmeBlogConfig'
logging:
  level: debug
  format: json
observability:
  otlp_endpoint: "localhost:4317"
  otlp_insecure: true
  otlp_headers: "api-key=secret"
  sample_ratio: 0.25
  debug_trace: true
  environment: ci
`

	cfg, err := config.LoadConfig(writeConfig(t, content))
	require.NoError(t, err)

	cb := cfg.Rules.ConfigBuilder

	assert.True(t, cb.Enabled)
	assert.Equal(t, "skip", cb.Unresolved)
	assert.Equal(t, `App\DependencyInjection\Configurator`, cb.ConfiguratorType)
	assert.Equal(t, map[string]string{"acme_blog": `Acme\Config\AcmeBlogConfig`}, cb.Extensions)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	obs := cfg.Observability

	assert.Equal(t, "localhost:4317", obs.OTLPEndpoint)
	assert.True(t, obs.OTLPInsecure)
	assert.Equal(t, "api-key=secret", obs.OTLPHeaders)
	assert.InDelta(t, 0.25, obs.SampleRatio, 0.0001)
	assert.True(t, obs.DebugTrace)
	assert.Equal(t, "ci", obs.Environment)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"log level", "logging:\n  level: loud\n", config.ErrInvalidLogLevel},
		{"log format", "logging:\n  format: xml\n", config.ErrInvalidLogFormat},
		{"unresolved policy", "rules:\n  config_builder:\n    unresolved: ignore\n", config.ErrInvalidUnresolved},
		{"sample ratio", "observability:\n  sample_ratio: 1.5\n", config.ErrInvalidSampleRatio},
		{"negative sample ratio", "observability:\n  sample_ratio: -0.1\n", config.ErrInvalidSampleRatio},
		{"extension class", "rules:\n  config_builder:\n    extensions:\n      acme: AcmeConfig\n", config.ErrInvalidExtensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "rules: [unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

//nolint:paralleltest // t.Setenv cannot be combined with t.Parallel.
func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("PHPSHIFT_LOGGING_LEVEL", "warn")
	t.Setenv("PHPSHIFT_RULES_CONFIG_BUILDER_UNRESOLVED", "skip")
	t.Setenv("PHPSHIFT_OBSERVABILITY_OTLP_ENDPOINT", "collector:4317")

	cfg, err := config.LoadConfig(writeConfig(t, "logging:\n  level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "skip", cfg.Rules.ConfigBuilder.Unresolved)
	assert.Equal(t, "collector:4317", cfg.Observability.OTLPEndpoint)
}
