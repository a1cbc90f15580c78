package observability

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Error classification values for the error.type span attribute.
const (
	ErrTypeUnsupported  = "unsupported"
	ErrTypeUnresolvable = "unresolvable"
	ErrTypeMalformed    = "malformed"
	ErrTypeInternal     = "internal"
)

// Error origin values for the error.source span attribute.
const (
	ErrSourceInput  = "input"
	ErrSourceConfig = "config"
)

// RecordSpanError marks the span as failed and attaches error.type and, when
// non-empty, error.source.
func RecordSpanError(span trace.Span, err error, errType, errSource string) {
	if span == nil || err == nil {
		return
	}

	attrs := []attribute.KeyValue{attribute.String("error.type", errType)}
	if errSource != "" {
		attrs = append(attrs, attribute.String("error.source", errSource))
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attrs...)
}
