package config

import (
	"fmt"
	"maps"
	"strings"

	"github.com/Sumatoshi-tech/phpshift/pkg/observability"
	"github.com/Sumatoshi-tech/phpshift/pkg/refactor"
	"github.com/Sumatoshi-tech/phpshift/pkg/rules/configbuilder"
)

// applyNonEmpty sets facts[key] = value when value is non-empty.
func applyNonEmpty(facts map[string]any, key, value string) {
	if value != "" {
		facts[key] = value
	}
}

// applyStringMap sets facts[key] to a copy of value when value has entries.
func applyStringMap(facts map[string]any, key string, value map[string]string) {
	if len(value) > 0 {
		facts[key] = maps.Clone(value)
	}
}

// ApplyToFacts merges config values into the rule facts map.
// Empty config values are skipped so the rule keeps its built-in default.
func (c *Config) ApplyToFacts(facts map[string]any) {
	cb := c.Rules.ConfigBuilder

	applyNonEmpty(facts, configbuilder.ConfigConfiguratorType, cb.ConfiguratorType)
	applyNonEmpty(facts, configbuilder.ConfigUnresolved, cb.Unresolved)
	applyStringMap(facts, configbuilder.ConfigExtensions, cb.Extensions)
}

// Telemetry converts the logging and observability sections into the
// settings observability.Init expects.
func (c *Config) Telemetry(serviceVersion string) (observability.Config, error) {
	level, err := c.Logging.SlogLevel()
	if err != nil {
		return observability.Config{}, err
	}

	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = serviceVersion
	cfg.Environment = c.Observability.Environment
	cfg.OTLPEndpoint = c.Observability.OTLPEndpoint
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(c.Observability.OTLPHeaders)
	cfg.OTLPInsecure = c.Observability.OTLPInsecure
	cfg.DebugTrace = c.Observability.DebugTrace
	cfg.SampleRatio = c.Observability.SampleRatio
	cfg.LogLevel = level
	cfg.LogJSON = strings.EqualFold(c.Logging.Format, LogFormatJSON)

	return cfg, nil
}

// BuildRules creates the enabled rules and configures them from c.
// opts are passed to every config-builder rule before configuration is applied.
func (c *Config) BuildRules(opts ...configbuilder.Option) ([]refactor.Rule, error) {
	if !c.Rules.ConfigBuilder.Enabled {
		return nil, nil
	}

	rule := configbuilder.NewRule(opts...)

	facts := make(map[string]any)
	c.ApplyToFacts(facts)

	if err := rule.Configure(facts); err != nil {
		return nil, fmt.Errorf("configure %s: %w", rule.Name(), err)
	}

	return []refactor.Rule{rule}, nil
}
