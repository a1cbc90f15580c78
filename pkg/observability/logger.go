package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Log attribute keys added by TracingHandler.
const (
	LogKeyTraceID = "trace_id"
	LogKeySpanID  = "span_id"
	LogKeyService = "service"
	LogKeyEnv     = "env"
	LogKeyMode    = "mode"
)

// NewLogger builds the slog logger described by cfg, writing to out.
// Records carry service metadata and, inside a span, the trace and span ids.
func NewLogger(cfg Config, out io.Writer) *slog.Logger {
	return slog.New(NewTracingHandler(baseHandler(cfg, out), cfg.ServiceName, cfg.Environment, cfg.Mode))
}

func baseHandler(cfg Config, out io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	if cfg.LogJSON {
		return slog.NewJSONHandler(out, opts)
	}

	return slog.NewTextHandler(out, opts)
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// TracingHandler is an [slog.Handler] that stamps records with the active
// span's trace_id and span_id. Service metadata is bound to the inner handler
// once, so it stays at the top level of records logged inside groups.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps inner. Empty env and appMode are omitted.
func NewTracingHandler(inner slog.Handler, service, env string, appMode AppMode) *TracingHandler {
	metadata := []slog.Attr{slog.String(LogKeyService, service)}

	if appMode != "" {
		metadata = append(metadata, slog.String(LogKeyMode, string(appMode)))
	}

	if env != "" {
		metadata = append(metadata, slog.String(LogKeyEnv, env))
	}

	return &TracingHandler{inner: inner.WithAttrs(metadata)}
}

// Enabled implements [slog.Handler].
func (th *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return th.inner.Enabled(ctx, level)
}

// Handle implements [slog.Handler].
func (th *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record = record.Clone()
		record.AddAttrs(
			slog.String(LogKeyTraceID, sc.TraceID().String()),
			slog.String(LogKeySpanID, sc.SpanID().String()),
		)
	}

	if err := th.inner.Handle(ctx, record); err != nil {
		return fmt.Errorf("tracing handler: %w", err)
	}

	return nil
}

// WithAttrs implements [slog.Handler].
func (th *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: th.inner.WithAttrs(attrs)}
}

// WithGroup implements [slog.Handler].
func (th *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: th.inner.WithGroup(name)}
}
