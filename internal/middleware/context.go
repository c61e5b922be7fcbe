// file: internal/middleware/context.go
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// GetRequestLogger extracts the request-scoped logger from context
func GetRequestLogger(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// GetRequestStart extracts the request start time from context
func GetRequestStart(ctx context.Context) time.Time {
	if start, ok := ctx.Value(RequestStartKey).(time.Time); ok {
		return start
	}
	return time.Now()
}

// getClientIP extracts the real client IP address
func getClientIP(r *http.Request) string {
	// X-Forwarded-For can be "client, proxy1, proxy2"
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.IndexByte(xff, ','); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return r.RemoteAddr
}
