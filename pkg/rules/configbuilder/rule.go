package configbuilder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/phpshift/pkg/observability"
	"github.com/Sumatoshi-tech/phpshift/pkg/phpast"
	"github.com/Sumatoshi-tech/phpshift/pkg/phpast/pkg/node"
	"github.com/Sumatoshi-tech/phpshift/pkg/refactor"
)

// RuleName identifies the rule in logs, metrics and reports.
const RuleName = "config-builder"

// Configuration fact keys accepted by Configure.
const (
	// ConfigConfiguratorType is the FQCN of the generic configurator parameter.
	ConfigConfiguratorType = "ConfigBuilder.ConfiguratorType"
	// ConfigUnresolved is the unresolved value policy: "abort" or "skip".
	ConfigUnresolved = "ConfigBuilder.Unresolved"
	// ConfigExtensions holds extra extension key to builder class entries.
	ConfigExtensions = "ConfigBuilder.Extensions"
)

// Rule rewrites `static function (ContainerConfigurator $c) { $c->extension('key', [...]); }`
// into a closure taking the generated config builder of that extension.
type Rule struct {
	detector    Detector
	matcher     Matcher
	synthesizer Synthesizer
	table       KeyTable
	logger      *slog.Logger
	tracer      trace.Tracer
	metrics     *observability.RuleMetrics
}

// Option configures a Rule.
type Option func(*Rule)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Rule) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTracer sets the tracer. The default is the global tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Rule) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithMetrics sets the invocation metrics. Nil disables recording.
func WithMetrics(metrics *observability.RuleMetrics) Option {
	return func(r *Rule) {
		r.metrics = metrics
	}
}

// WithKeyTable replaces the extension key table.
func WithKeyTable(table KeyTable) Option {
	return func(r *Rule) {
		r.table = table
	}
}

// WithUnresolvedPolicy sets how statically unknown values are handled.
func WithUnresolvedPolicy(policy UnresolvedPolicy) Option {
	return func(r *Rule) {
		r.synthesizer.Policy = policy
	}
}

// WithConfiguratorType sets the FQCN of the configurator parameter to detect.
func WithConfiguratorType(fqcn string) Option {
	return func(r *Rule) {
		r.detector.ConfiguratorType = fqcn
	}
}

// WithHandlers replaces the special-case handler chain.
func WithHandlers(handlers ...Handler) Option {
	return func(r *Rule) {
		r.synthesizer.Handlers = handlers
	}
}

// NewRule creates the rule with the default key table and handlers.
func NewRule(opts ...Option) *Rule {
	rule := &Rule{
		detector:    Detector{ConfiguratorType: DefaultConfiguratorType},
		synthesizer: Synthesizer{Handlers: DefaultHandlers(), Policy: AbortOnUnresolved},
		table:       DefaultKeyTable(),
		logger:      observability.DiscardLogger(),
	}

	for _, opt := range opts {
		opt(rule)
	}

	if rule.tracer == nil {
		rule.tracer = otel.Tracer(observability.InstrumentationName)
	}

	return rule
}

// Name implements refactor.Rule.
func (r *Rule) Name() string { return RuleName }

// Description implements refactor.Rule.
func (r *Rule) Description() string {
	return "Replaces ContainerConfigurator::extension() array configuration with typed config builder calls."
}

// NodeTypes implements refactor.Rule.
func (r *Rule) NodeTypes() []node.Type { return []node.Type{node.Closure} }

// ListConfigurationOptions implements refactor.Configurable.
func (r *Rule) ListConfigurationOptions() []refactor.ConfigurationOption {
	return []refactor.ConfigurationOption{
		{
			Name:        ConfigConfiguratorType,
			Description: "Fully-qualified class of the configurator parameter the rule looks for.",
			Type:        refactor.StringConfigurationOption,
			Default:     DefaultConfiguratorType,
		},
		{
			Name:        ConfigUnresolved,
			Description: "What to do with values that are not statically known: abort the rewrite or skip the key.",
			Type:        refactor.StringConfigurationOption,
			Default:     AbortOnUnresolved.String(),
		},
		{
			Name:        ConfigExtensions,
			Description: "Extra extension keys mapped to their config builder classes.",
			Type:        refactor.StringMapConfigurationOption,
			Default:     map[string]string{},
		},
	}
}

// Configure implements refactor.Configurable.
func (r *Rule) Configure(facts map[string]any) error {
	if val, exists := facts[ConfigConfiguratorType].(string); exists && val != "" {
		r.detector.ConfiguratorType = val
	}

	if val, exists := facts[ConfigUnresolved].(string); exists && val != "" {
		policy, err := ParseUnresolvedPolicy(val)
		if err != nil {
			return fmt.Errorf("%s: %w", ConfigUnresolved, err)
		}

		r.synthesizer.Policy = policy
	}

	if raw, exists := facts[ConfigExtensions]; exists && raw != nil {
		extra, ok := raw.(map[string]string)
		if !ok {
			return fmt.Errorf("%w: %s must be map[string]string, got %T", ErrInvalidFact, ConfigExtensions, raw)
		}

		table, err := r.table.With(extra)
		if err != nil {
			return fmt.Errorf("%s: %w", ConfigExtensions, err)
		}

		r.table = table
	}

	return nil
}

// Refactor implements refactor.Rule. It returns nil when n is not a registration
// closure, a refactor.Fatal error when the extension key is not in the key table,
// and a plain error when the configuration cannot be translated.
func (r *Rule) Refactor(ctx context.Context, n *node.Node) (*node.Node, error) {
	ctx, span := r.tracer.Start(ctx, "phpshift.rule."+RuleName,
		trace.WithAttributes(attribute.String("rule.name", RuleName)))
	defer span.End()

	if !r.detector.Detect(n) {
		r.noMatch(ctx, "closure shape does not match")

		return nil, nil
	}

	match, ok := r.matcher.Match(n)
	if !ok {
		r.noMatch(ctx, "extension() arguments are not literal")

		return nil, nil
	}

	span.SetAttributes(attribute.String("extension.key", match.Key))

	targetClass, ok := r.table.Lookup(match.Key)
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnsupportedExtensionKey, match.Key)
		if suggestion, found := r.table.Suggest(match.Key); found {
			err = fmt.Errorf("%w (did you mean %q?)", err, suggestion)
		}

		observability.RecordSpanError(span, err, observability.ErrTypeUnsupported, observability.ErrSourceConfig)
		r.metrics.RecordInvocation(ctx, RuleName, observability.OutcomeUnsupported)
		r.logger.ErrorContext(ctx, "extension key has no config builder",
			"rule", RuleName, "extension", match.Key, "known", r.table.Keys())

		return nil, refactor.Fatal(err)
	}

	target := phpast.NewVariable(ConfigVariableName(targetClass))

	synthesizer := r.synthesizer
	synthesizer.OnSkip = func(path []string, reason string) {
		r.logger.WarnContext(ctx, "dropped value that is not statically known",
			"rule", RuleName, "extension", match.Key, "path", formatPath(path), "reason", reason)
	}

	stmts, err := synthesizer.Synthesize(match.ConfigArray, target)
	if err != nil {
		observability.RecordSpanError(span, err, errorType(err), observability.ErrSourceInput)
		r.metrics.RecordInvocation(ctx, RuleName, observability.OutcomeSkipped)
		r.logger.WarnContext(ctx, "closure left unchanged",
			"rule", RuleName, "extension", match.Key, "error", err)

		return nil, fmt.Errorf("%s %s: %w", RuleName, match.Key, err)
	}

	rewritten := Rewrite(targetClass, n, stmts)

	span.SetAttributes(attribute.Int("rule.statements", len(stmts)))
	r.metrics.RecordRewrite(ctx, RuleName, len(stmts))
	r.logger.InfoContext(ctx, "rewrote extension configuration",
		"rule", RuleName, "extension", match.Key, "class", targetClass, "statements", len(stmts))

	return rewritten, nil
}

func (r *Rule) noMatch(ctx context.Context, why string) {
	r.metrics.RecordInvocation(ctx, RuleName, observability.OutcomeNoMatch)
	r.logger.DebugContext(ctx, "no match", "rule", RuleName, "why", why)
}

func errorType(err error) string {
	switch {
	case errors.Is(err, ErrUnresolvableValue):
		return observability.ErrTypeUnresolvable
	case errors.Is(err, ErrMalformedConfig):
		return observability.ErrTypeMalformed
	default:
		return observability.ErrTypeInternal
	}
}
