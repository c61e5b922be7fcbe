// file: internal/handlers/api/v1/auth/auth_controller.go
package auth

import (
	"encoding/json"
	"net/http"

	"wishlink/internal/response"
	"wishlink/internal/services"

	"go.uber.org/zap"
)

type AuthController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewAuthController creates a new auth controller
func NewAuthController(serviceCollection *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *AuthController {
	return &AuthController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// SignUp handles account registration with credentials
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	auth, err := c.serviceCollection.Auth.Register(r.Context(), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteCreated(w, r, auth)
}

// SignIn handles credential sign-in
func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	auth, err := c.serviceCollection.Auth.Login(r.Context(), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, auth)
}
