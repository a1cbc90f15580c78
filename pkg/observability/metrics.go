package observability

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRuleInvocationsTotal = "phpshift.rule.invocations.total"
	metricRuleStatements       = "phpshift.rule.statements"

	attrRule    = "rule"
	attrOutcome = "outcome"
)

// Rule invocation outcomes.
const (
	OutcomeNoMatch     = "no_match"
	OutcomeRewritten   = "rewritten"
	OutcomeSkipped     = "skipped"
	OutcomeUnsupported = "unsupported"
)

// statementBucketBoundaries covers single-key configs up to large security files.
var statementBucketBoundaries = []float64{1, 2, 5, 10, 20, 50, 100, 250}

// RuleMetrics holds OTel instruments for rule invocations.
type RuleMetrics struct {
	invocations metric.Int64Counter
	statements  metric.Float64Histogram
}

// NewRuleMetrics creates rule metric instruments from the given meter.
func NewRuleMetrics(mt metric.Meter) (*RuleMetrics, error) {
	builder := newMetricBuilder(mt)

	invocations := builder.counter(metricRuleInvocationsTotal,
		"Rule invocations by outcome", "{invocation}")
	statements := builder.histogram(metricRuleStatements,
		"Statements emitted per rewritten node", "{statement}", statementBucketBoundaries...)

	if builder.err != nil {
		return nil, builder.err
	}

	return &RuleMetrics{invocations: invocations, statements: statements}, nil
}

// RecordInvocation counts one rule invocation with its outcome.
// Safe to call on a nil receiver (no-op).
func (rm *RuleMetrics) RecordInvocation(ctx context.Context, rule, outcome string) {
	if rm == nil {
		return
	}

	rm.invocations.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrRule, rule),
		attribute.String(attrOutcome, outcome),
	))
}

// RecordRewrite counts a successful rewrite and the number of statements it emitted.
// Safe to call on a nil receiver (no-op).
func (rm *RuleMetrics) RecordRewrite(ctx context.Context, rule string, statements int) {
	if rm == nil {
		return
	}

	rm.RecordInvocation(ctx, rule, OutcomeRewritten)
	rm.statements.Record(ctx, float64(statements), metric.WithAttributes(attribute.String(attrRule, rule)))
}

// metricBuilder accumulates OTel instrument creation errors,
// enabling batch construction with a single error check.
type metricBuilder struct {
	meter metric.Meter
	err   error
}

func newMetricBuilder(mt metric.Meter) *metricBuilder {
	return &metricBuilder{meter: mt}
}

func (b *metricBuilder) counter(name, desc, unit string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return c
}

func (b *metricBuilder) histogram(name, desc, unit string, bounds ...float64) metric.Float64Histogram {
	opts := []metric.Float64HistogramOption{
		metric.WithDescription(desc),
		metric.WithUnit(unit),
	}

	if len(bounds) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(bounds...))
	}

	h, err := b.meter.Float64Histogram(name, opts...)
	b.setErr(name, err)

	return h
}

func (b *metricBuilder) setErr(name string, err error) {
	if err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("create %s: %w", name, err))
	}
}
