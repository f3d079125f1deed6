package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskmgmt-api/internal/api/shared"
	"github.com/phrazzld/taskmgmt-api/internal/platform/logger"
)

// TraceMiddleware adds a trace ID to the request context. Loggers taken
// from the context afterwards carry it as request_id.
// This middleware should be applied early in the middleware chain to ensure
// that all subsequent handlers have access to the trace ID.
func TraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			ctx = logger.WithRequestID(ctx, traceID)

			logger.FromContextOrDefault(ctx, base).Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			w.Header().Set("X-Trace-ID", traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
