// file: internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"wishlink/internal/contextutils"
	"wishlink/internal/response"
	"wishlink/internal/services"

	"go.uber.org/zap"
)

// AuthMiddleware authenticates requests with bearer tokens
type AuthMiddleware struct {
	auth   services.AuthService
	logger *zap.Logger
}

// NewAuthMiddleware creates authentication middleware backed by the auth service
func NewAuthMiddleware(auth services.AuthService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, logger: logger}
}

// Authenticate resolves an optional bearer token into the request context.
// Requests without a token pass through anonymously.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.auth.ValidateToken(r.Context(), token)
		if err != nil {
			response.QuickError(w, r, err)
			return
		}

		ctx := contextutils.WithUserID(r.Context(), claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests that did not authenticate
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contextutils.GetUserID(r.Context()) == 0 {
			response.QuickError(w, r, services.NewUnauthorizedError("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from the Authorization header
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
