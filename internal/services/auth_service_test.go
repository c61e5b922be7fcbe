// file: internal/services/auth_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerReq(email string) *RegisterRequest {
	return &RegisterRequest{
		CreateUserRequest: CreateUserRequest{
			Email:     email,
			FirstName: "Test",
		},
		Password: "a-strong-password",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	registered, err := env.authService.Register(ctx, registerReq("seeker@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.NotZero(t, registered.User.ID)

	signedIn, err := env.authService.Login(ctx, &LoginRequest{
		Email:    "seeker@example.com",
		Password: "a-strong-password",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, signedIn.User.ID)

	claims, err := env.authService.ValidateToken(ctx, signedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
	assert.Equal(t, "seeker@example.com", claims.Email)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	_, err := env.authService.Register(ctx, registerReq("seeker@example.com"))
	require.NoError(t, err)

	_, err = env.authService.Register(ctx, registerReq("seeker@example.com"))
	require.Error(t, err)
	assert.Equal(t, 409, GetServiceError(err).GetStatusCode())
}

func TestRegisterEnforcesInstituteInvariant(t *testing.T) {
	env := newTestEnv(nil)

	req := registerReq("institute@example.com")
	req.IsInstitute = true

	_, err := env.authService.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	_, err := env.authService.Register(ctx, registerReq("seeker@example.com"))
	require.NoError(t, err)

	_, err = env.authService.Login(ctx, &LoginRequest{
		Email:    "seeker@example.com",
		Password: "not-the-password",
	})
	require.Error(t, err)
	assert.Equal(t, 401, GetServiceError(err).GetStatusCode())
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	env := newTestEnv(nil)

	_, err := env.authService.ValidateToken(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.Equal(t, 401, GetServiceError(err).GetStatusCode())
}
