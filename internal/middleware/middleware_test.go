// file: internal/middleware/middleware_test.go
package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"wishlink/internal/contextutils"
	"wishlink/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAuthService struct {
	claims *services.TokenClaims
}

func (s *stubAuthService) Register(ctx context.Context, req *services.RegisterRequest) (*services.AuthResponse, error) {
	return nil, services.NewInternalError("not implemented")
}

func (s *stubAuthService) Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResponse, error) {
	return nil, services.NewInternalError("not implemented")
}

func (s *stubAuthService) ValidateToken(ctx context.Context, token string) (*services.TokenClaims, error) {
	if s.claims == nil {
		return nil, services.NewUnauthorizedError("invalid token")
	}
	return s.claims, nil
}

func TestRequestIDGeneratesCorrelationID(t *testing.T) {
	var seen string
	handler := RequestID(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = contextutils.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/wishes", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderXRequestID))
}

func TestRequestIDHonorsUpstreamHeader(t *testing.T) {
	var seen string
	handler := RequestID(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = contextutils.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishes", nil)
	req.Header.Set(HeaderXRequestID, "upstream-42")

	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "upstream-42", seen)
}

func TestAuthenticateStoresUserID(t *testing.T) {
	auth := NewAuthMiddleware(&stubAuthService{claims: &services.TokenClaims{UserID: 7, Email: "seeker@example.com"}}, zap.NewNop())

	var userID int64
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID = contextutils.GetUserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/7", nil)
	req.Header.Set("Authorization", "Bearer some-token")

	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, int64(7), userID)
}

func TestAuthenticateRejectsInvalidToken(t *testing.T) {
	auth := NewAuthMiddleware(&stubAuthService{}, zap.NewNop())

	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/7", nil)
	req.Header.Set("Authorization", "Bearer bad-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	auth := NewAuthMiddleware(&stubAuthService{}, zap.NewNop())

	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/wishes", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecoveryMasksPanics(t *testing.T) {
	handler := Recovery(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/wishes", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}
