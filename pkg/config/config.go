// Package config provides YAML-based configuration for phpshift rules and
// their telemetry.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Sumatoshi-tech/phpshift/pkg/rules/configbuilder"
)

// Sentinel validation errors.
var (
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidUnresolved  = errors.New("invalid unresolved value policy")
	ErrInvalidSampleRatio = errors.New("sample ratio must be between 0 and 1")
	ErrInvalidExtensions  = errors.New("invalid extension key table")
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config is the top-level configuration struct for phpshift.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Rules         RulesConfig         `mapstructure:"rules"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// RulesConfig holds per-rule configuration.
type RulesConfig struct {
	ConfigBuilder ConfigBuilderConfig `mapstructure:"config_builder"`
}

// ConfigBuilderConfig holds config-builder rule settings.
type ConfigBuilderConfig struct {
	// Extensions maps extra extension keys to config builder classes.
	Extensions       map[string]string `mapstructure:"extensions"`
	ConfiguratorType string            `mapstructure:"configurator_type"`
	Unresolved       string            `mapstructure:"unresolved"`
	Enabled          bool              `mapstructure:"enabled"`
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ObservabilityConfig holds OpenTelemetry export settings.
type ObservabilityConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	Environment  string  `mapstructure:"environment"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	DebugTrace   bool    `mapstructure:"debug_trace"`
}

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	loggingErr := c.validateLogging()
	if loggingErr != nil {
		return loggingErr
	}

	rulesErr := c.validateRules()
	if rulesErr != nil {
		return rulesErr
	}

	if c.Observability.SampleRatio < 0 || c.Observability.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Observability.SampleRatio)
	}

	return nil
}

func (c *Config) validateLogging() error {
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", LogFormatText, LogFormatJSON:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}
}

func (c *Config) validateRules() error {
	cb := c.Rules.ConfigBuilder

	if cb.Unresolved != "" {
		if _, err := configbuilder.ParseUnresolvedPolicy(cb.Unresolved); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidUnresolved, cb.Unresolved)
		}
	}

	if len(cb.Extensions) > 0 {
		if _, err := configbuilder.NewKeyTable(cb.Extensions); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidExtensions, err)
		}
	}

	return nil
}

// SlogLevel parses the configured level. Empty means info.
func (lc LoggingConfig) SlogLevel() (slog.Level, error) {
	if lc.Level == "" {
		return slog.LevelInfo, nil
	}

	var level slog.Level

	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, lc.Level)
	}

	return level, nil
}
