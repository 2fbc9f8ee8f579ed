package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	sharedctx "github.com/diavgeia-watch/diavgeia/core/shared/context"
)

// Tracing wraps every request in a server span named "METHOD /path".
func Tracing(next http.Handler) http.Handler {
	return TracingWithOperationName("diavgeia.http")(next)
}

// TracingWithOperationName creates tracing middleware with a specific operation name
func TracingWithOperationName(operationName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(
			next,
			operationName,
			otelhttp.WithPropagators(otel.GetTextMapPropagator()),
			otelhttp.WithTracerProvider(otel.GetTracerProvider()),
			otelhttp.WithMeterProvider(otel.GetMeterProvider()),
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}
}

// RequestContext copies the chi request id into the shared request context
// so agent logs and outcomes can be correlated with access logs.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chimiddleware.GetReqID(r.Context())
		if id == "" {
			id = sharedctx.GenerateID()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(sharedctx.WithRequestID(r.Context(), id)))
	})
}
