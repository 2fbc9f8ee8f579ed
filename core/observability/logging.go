package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// TraceFields returns the trace and span ids of the active span, for log correlation.
// It returns nil outside a sampled span.
func TraceFields(ctx context.Context) map[string]string {
	if ctx == nil {
		return nil
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return nil
	}
	return map[string]string{
		AttrTraceID: spanCtx.TraceID().String(),
		AttrSpanID:  spanCtx.SpanID().String(),
	}
}
