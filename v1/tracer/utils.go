package tracer

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	traceSpan "go.opentelemetry.io/otel/trace"
)

// connectionBorrowedEvent is the span event name used for connection borrows.
const connectionBorrowedEvent = "db.connection.borrowed"

// StartSpan creates a new span with the given name and returns an updated context
// containing the span, along with the span itself.
//
// Example:
//
//	ctx, span := tracer.StartSpan(ctx, "load-order")
//	defer span.End()
//	order, err := orders.FindByID(ctx, id, database.Read)
func (t *Tracer) StartSpan(ctx context.Context, name string) (context.Context, traceSpan.Span) {
	return t.tracer.Tracer("github.com/Aleph-Alpha/datalayer").Start(ctx, name)
}

// RecordErrorOnSpan records an error on a span and sets its status to error.
func (t *Tracer) RecordErrorOnSpan(span traceSpan.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetAttributes adds attributes to a span. Values other than string, int, int64,
// float64 and bool are converted with fmt.Sprint.
func (t *Tracer) SetAttributes(span traceSpan.Span, attrs map[string]interface{}) {
	if len(attrs) == 0 {
		return
	}

	attributes := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		switch val := v.(type) {
		case string:
			attributes = append(attributes, attribute.String(k, val))
		case int:
			attributes = append(attributes, attribute.Int(k, val))
		case int64:
			attributes = append(attributes, attribute.Int64(k, val))
		case float64:
			attributes = append(attributes, attribute.Float64(k, val))
		case bool:
			attributes = append(attributes, attribute.Bool(k, val))
		default:
			attributes = append(attributes, attribute.String(k, fmt.Sprint(val)))
		}
	}

	span.SetAttributes(attributes...)
}

// RecordConnectionUsage adds a db.connection.borrowed event to the span in ctx.
// Nothing happens when ctx carries no recording span.
func (t *Tracer) RecordConnectionUsage(ctx context.Context, target string, elapsed time.Duration) {
	span := traceSpan.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(connectionBorrowedEvent, traceSpan.WithAttributes(
		attribute.String("db.target", target),
		attribute.Int64("db.borrowed_ms", elapsed.Milliseconds()),
	))
}

// Shutdown flushes pending spans and stops the provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.tracer == nil {
		t.logger.Warn("tracer was nil during shutdown", nil, nil)
		return nil
	}
	return t.tracer.Shutdown(ctx)
}
