package observability

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// spanAttributePolicy decides which span attributes leave the process.
// Denied prefixes win over allowed ones: source text can carry secrets
// copied out of configuration files.
type spanAttributePolicy struct {
	allowed []string
	denied  []string
	exact   []string
}

var defaultSpanAttributePolicy = spanAttributePolicy{
	allowed: []string{"phpshift.", "rule.", "extension.", "error.", "exception."},
	denied:  []string{"source.", "user."},
	exact:   []string{"error"},
}

func (p spanAttributePolicy) allows(key string) bool {
	hasPrefix := func(prefix string) bool { return strings.HasPrefix(key, prefix) }

	if slices.ContainsFunc(p.denied, hasPrefix) {
		return false
	}

	return slices.ContainsFunc(p.allowed, hasPrefix) || slices.Contains(p.exact, key)
}

// filteringProcessor hands ended spans to delegate with disallowed
// attributes removed.
type filteringProcessor struct {
	delegate sdktrace.SpanProcessor
	policy   spanAttributePolicy
	logger   *slog.Logger
}

// NewAttributeFilter returns a SpanProcessor that removes span attributes
// outside the phpshift allow-list before delegate sees them. When logger is
// non-nil every removed key is logged at warn level.
func NewAttributeFilter(delegate sdktrace.SpanProcessor, logger *slog.Logger) sdktrace.SpanProcessor {
	return &filteringProcessor{delegate: delegate, policy: defaultSpanAttributePolicy, logger: logger}
}

func (p *filteringProcessor) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	p.delegate.OnStart(parent, s)
}

func (p *filteringProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	p.delegate.OnEnd(&filteredSpan{ReadOnlySpan: s, attrs: p.keep(s.Attributes())})
}

func (p *filteringProcessor) Shutdown(ctx context.Context) error {
	if err := p.delegate.Shutdown(ctx); err != nil {
		return fmt.Errorf("attribute filter shutdown: %w", err)
	}

	return nil
}

func (p *filteringProcessor) ForceFlush(ctx context.Context) error {
	if err := p.delegate.ForceFlush(ctx); err != nil {
		return fmt.Errorf("attribute filter flush: %w", err)
	}

	return nil
}

func (p *filteringProcessor) keep(attrs []attribute.KeyValue) []attribute.KeyValue {
	kept := make([]attribute.KeyValue, 0, len(attrs))

	for _, kv := range attrs {
		if p.policy.allows(string(kv.Key)) {
			kept = append(kept, kv)

			continue
		}

		if p.logger != nil {
			p.logger.Warn("attribute blocked by filter", "key", string(kv.Key))
		}
	}

	return kept
}

// filteredSpan is a ReadOnlySpan whose attributes were already filtered.
type filteredSpan struct {
	sdktrace.ReadOnlySpan

	attrs []attribute.KeyValue
}

func (s *filteredSpan) Attributes() []attribute.KeyValue {
	return s.attrs
}
