// file: internal/middleware/recovery.go
package middleware

import (
	"net/http"
	"runtime/debug"

	"wishlink/internal/response"
	"wishlink/internal/services"

	"go.uber.org/zap"
)

// Recovery converts panics into masked 500 responses instead of killing the
// connection.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					requestLogger := logger
					if ctxLogger, ok := r.Context().Value(LoggerKey).(*zap.Logger); ok {
						requestLogger = ctxLogger
					}

					requestLogger.Error("Panic recovered",
						zap.Any("panic", rec),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", debug.Stack()),
					)

					response.QuickError(w, r, services.NewInternalError("unexpected server error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
