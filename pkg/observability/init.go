package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName names the tracer and meter used by phpshift rules.
const InstrumentationName = "phpshift"

// Standard OTel sampler environment variables.
const (
	envTracesSampler    = "OTEL_TRACES_SAMPLER"
	envTracesSamplerArg = "OTEL_TRACES_SAMPLER_ARG"
)

// envSamplers maps OTEL_TRACES_SAMPLER values to samplers. The argument is the
// parsed OTEL_TRACES_SAMPLER_ARG ratio.
var envSamplers = map[string]func(ratio float64) sdktrace.Sampler{
	"always_on":  func(float64) sdktrace.Sampler { return sdktrace.AlwaysSample() },
	"always_off": func(float64) sdktrace.Sampler { return sdktrace.NeverSample() },
	"traceidratio": func(ratio float64) sdktrace.Sampler {
		return sdktrace.TraceIDRatioBased(ratio)
	},
	"parentbased_always_on": func(float64) sdktrace.Sampler {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	},
	"parentbased_always_off": func(float64) sdktrace.Sampler {
		return sdktrace.ParentBased(sdktrace.NeverSample())
	},
	"parentbased_traceidratio": func(ratio float64) sdktrace.Sampler {
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	},
}

// Providers holds the initialized observability providers.
type Providers struct {
	// Tracer is the named tracer for creating spans.
	Tracer trace.Tracer

	// Meter is the named meter for creating instruments.
	Meter metric.Meter

	// Logger is the context-aware structured logger.
	Logger *slog.Logger

	// Shutdown flushes all pending telemetry and releases resources.
	// Must be called before process exit.
	Shutdown func(ctx context.Context) error
}

type shutdownFunc func(ctx context.Context) error

// Init initializes OpenTelemetry tracing, metrics, and structured logging.
// Logs are written to stderr. When OTLPEndpoint is empty, no-op providers
// are installed and nothing is exported.
func Init(cfg Config) (Providers, error) {
	return InitWithWriter(cfg, os.Stderr)
}

// InitWithWriter is Init with an explicit log destination.
func InitWithWriter(cfg Config, logOut io.Writer) (Providers, error) {
	ctx := context.Background()

	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}

	var (
		tracerProvider trace.TracerProvider = nooptrace.NewTracerProvider()
		meterProvider  metric.MeterProvider = noopmetric.NewMeterProvider()
		closers        []shutdownFunc
	)

	if cfg.OTLPEndpoint != "" {
		res, err := resource.New(ctx, resource.WithAttributes(resourceAttributes(cfg)...))
		if err != nil {
			return Providers{}, fmt.Errorf("build otel resource: %w", err)
		}

		target := otlpTarget{endpoint: cfg.OTLPEndpoint, headers: cfg.OTLPHeaders, insecure: cfg.OTLPInsecure}

		var filterLogger *slog.Logger
		if cfg.DebugTrace {
			filterLogger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelWarn}))
		}

		tp, err := target.tracerProvider(ctx, res, selectSampler(cfg), filterLogger)
		if err != nil {
			return Providers{}, err
		}

		mp, err := target.meterProvider(ctx, res)
		if err != nil {
			return Providers{}, errors.Join(err, tp.Shutdown(ctx))
		}

		tracerProvider, meterProvider = tp, mp
		closers = append(closers, tp.Shutdown, mp.Shutdown)
	}

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return Providers{
		Tracer:   tracerProvider.Tracer(InstrumentationName),
		Meter:    meterProvider.Meter(InstrumentationName),
		Logger:   NewLogger(cfg, logOut),
		Shutdown: shutdownAll(cfg.ShutdownTimeoutSec, closers),
	}, nil
}

func resourceAttributes(cfg Config) []attribute.KeyValue {
	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}

	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}

	if cfg.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(cfg.Environment))
	}

	if cfg.Mode != "" {
		attrs = append(attrs, attribute.String("app.mode", string(cfg.Mode)))
	}

	return attrs
}

// shutdownAll runs every closer under one deadline and joins their errors.
func shutdownAll(timeoutSec int, closers []shutdownFunc) func(context.Context) error {
	if timeoutSec <= 0 {
		timeoutSec = defaultShutdownTimeoutSec
	}

	return func(ctx context.Context) error {
		deadlineCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
		defer cancel()

		errs := make([]error, 0, len(closers))
		for _, closer := range closers {
			errs = append(errs, closer(deadlineCtx))
		}

		return errors.Join(errs...)
	}
}

// otlpTarget is the collector both exporters send to.
type otlpTarget struct {
	headers  map[string]string
	endpoint string
	insecure bool
}

func (t otlpTarget) tracerProvider(
	ctx context.Context, res *resource.Resource, sampler sdktrace.Sampler, filterLogger *slog.Logger,
) (*sdktrace.TracerProvider, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(t.endpoint)}

	if t.insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	if len(t.headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(t.headers))
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewAttributeFilter(sdktrace.NewBatchSpanProcessor(exporter), filterLogger)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	), nil
}

func (t otlpTarget) meterProvider(ctx context.Context, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(t.endpoint)}

	if t.insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	if len(t.headers) > 0 {
		opts = append(opts, otlpmetricgrpc.WithHeaders(t.headers))
	}

	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	), nil
}

// selectSampler picks, in order: always-on for DebugTrace, the OTEL_TRACES_SAMPLER
// env var, the configured ratio, then parent-based always-on.
func selectSampler(cfg Config) sdktrace.Sampler {
	if cfg.DebugTrace {
		return sdktrace.AlwaysSample()
	}

	if name := os.Getenv(envTracesSampler); name != "" {
		if build, ok := envSamplers[name]; ok {
			return build(samplerRatio(os.Getenv(envTracesSamplerArg)))
		}
	}

	if cfg.SampleRatio > 0 {
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
	}

	return sdktrace.ParentBased(sdktrace.AlwaysSample())
}

// samplerRatio parses a sampler argument. Empty or invalid input means 1.
func samplerRatio(arg string) float64 {
	ratio, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 1
	}

	return ratio
}

// ParseOTLPHeaders parses "key=value,key=value" into a header map.
// Pairs without "=" or with an empty key are dropped; nil means no headers.
func ParseOTLPHeaders(raw string) map[string]string {
	var headers map[string]string

	for pair := range strings.SplitSeq(raw, ",") {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)

		if !found || key == "" {
			continue
		}

		if headers == nil {
			headers = make(map[string]string)
		}

		headers[key] = strings.TrimSpace(value)
	}

	return headers
}
