package config

import "github.com/spf13/viper"

// Config-builder rule defaults.
const (
	DefaultConfigBuilderEnabled    = true
	DefaultConfigBuilderUnresolved = "abort"
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = LogFormatText
)

// Observability defaults.
const (
	DefaultOTLPEndpoint = ""
	DefaultOTLPInsecure = false
	DefaultSampleRatio  = 0.0
	DefaultDebugTrace   = false
)

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("rules.config_builder.enabled", DefaultConfigBuilderEnabled)
	viperCfg.SetDefault("rules.config_builder.configurator_type", "")
	viperCfg.SetDefault("rules.config_builder.unresolved", DefaultConfigBuilderUnresolved)
	viperCfg.SetDefault("rules.config_builder.extensions", map[string]string{})

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("observability.otlp_endpoint", DefaultOTLPEndpoint)
	viperCfg.SetDefault("observability.otlp_insecure", DefaultOTLPInsecure)
	viperCfg.SetDefault("observability.otlp_headers", "")
	viperCfg.SetDefault("observability.sample_ratio", DefaultSampleRatio)
	viperCfg.SetDefault("observability.debug_trace", DefaultDebugTrace)
	viperCfg.SetDefault("observability.environment", "")
}
