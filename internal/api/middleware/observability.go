package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/observability"
)

// unmatchedRoute groups every request that falls through to the catch-all
// handler, keeping span names and metric labels low-cardinality.
const unmatchedRoute = "unmatched"

// ObservabilityMiddleware opens a span per request and records request
// metrics, both keyed by the mux pattern the request resolves to.
func ObservabilityMiddleware(metrics *observability.Metrics, mux *http.ServeMux) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := routeOf(mux, r)

			ctx, span := observability.StartSpan(r.Context(), route)
			defer span.End()

			attrs := []attribute.KeyValue{
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.user_agent", r.UserAgent()),
			}
			if requestID := observability.RequestIDFromContext(ctx); requestID != "" {
				attrs = append(attrs, attribute.String("http.request_id", requestID))
			}
			observability.SetSpanAttributes(span, attrs...)

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rw, r.WithContext(ctx))

			observability.RecordRequestMetric(ctx, metrics, r.Method, route, rw.statusCode, time.Since(start))
			observability.SetSpanAttributes(span, attribute.Int("http.status_code", rw.statusCode))
		})
	}
}

// routeOf resolves the registered pattern for r without serving it.
func routeOf(mux *http.ServeMux, r *http.Request) string {
	if mux == nil {
		return unmatchedRoute
	}
	_, pattern := mux.Handler(r)
	if pattern == "" || pattern == "/" {
		return unmatchedRoute
	}
	return pattern
}

// responseWriter captures the status code and keeps streaming and hijacking
// available to handlers behind it.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, fmt.Errorf("ResponseWriter does not support Hijack")
}
