// file: internal/handlers/api/v1/users/users_controller.go
package users

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"wishlink/internal/response"
	"wishlink/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type UserController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewUserController creates a new user controller
func NewUserController(serviceCollection *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *UserController {
	return &UserController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// CreateUser handles account creation
func (c *UserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req services.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	user, err := c.serviceCollection.User.CreateUser(r.Context(), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteCreated(w, r, user)
}

// GetUser handles retrieving a user profile
func (c *UserController) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid user ID", err))
		return
	}

	user, err := c.serviceCollection.User.GetUserByID(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, user)
}

// UpdateUser handles partial profile updates
func (c *UserController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid user ID", err))
		return
	}

	var req services.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.UserID = userID

	user, err := c.serviceCollection.User.UpdateUser(r.Context(), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, user)
}

// UserExists reports whether an account exists for an email address
func (c *UserController) UserExists(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	exists, err := c.serviceCollection.User.UserExistsByEmail(r.Context(), email)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]bool{"exists": exists})
}

// GetUserSummary handles the per-user activity roll-up
func (c *UserController) GetUserSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid user ID", err))
		return
	}

	summary, err := c.serviceCollection.User.GetUserSummary(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, summary)
}

// pathID parses a positive integer path variable
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return id, nil
}
