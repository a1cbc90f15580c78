// Package observability provides OpenTelemetry-based tracing, metrics, and
// structured logging for phpshift rules and the hosts that embed them.
package observability

import "log/slog"

// AppMode identifies how the rules are being run.
type AppMode string

const (
	// ModeEmbedded is the default: rules called in-process by a host refactoring engine.
	ModeEmbedded AppMode = "embedded"
	// ModeBatch is a host run over a whole codebase.
	ModeBatch AppMode = "batch"
)

const (
	defaultServiceName        = "phpshift"
	defaultShutdownTimeoutSec = 5
)

// Config describes the telemetry a host wants from phpshift.
type Config struct {
	// Resource attributes.
	ServiceName    string
	ServiceVersion string
	Environment    string
	Mode           AppMode

	// OTLPEndpoint is the gRPC collector address, e.g. "localhost:4317".
	// Empty installs no-op tracer and meter providers.
	OTLPEndpoint string
	OTLPHeaders  map[string]string
	OTLPInsecure bool

	// DebugTrace samples every trace and logs attributes removed by the
	// span attribute filter.
	DebugTrace bool

	// SampleRatio in [0, 1] applies when DebugTrace is off and
	// OTEL_TRACES_SAMPLER is unset. Zero samples every root span.
	SampleRatio float64

	LogLevel slog.Level
	LogJSON  bool

	// ShutdownTimeoutSec bounds Providers.Shutdown; non-positive means 5.
	ShutdownTimeoutSec int
}

// DefaultConfig returns the settings used when a host configures nothing.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeEmbedded,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
