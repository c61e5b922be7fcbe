// file: internal/services/interface.go
package services

import (
	"context"

	"wishlink/internal/models"
)

// ===============================
// CORE SERVICE INTERFACES
// ===============================

// UserService defines user account business logic
type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UserExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateUser(ctx context.Context, req *UpdateUserRequest) (*models.User, error)
	GetUserSummary(ctx context.Context, userID int64) (*models.UserSummary, error)
}

// AuthService defines authentication business logic
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
}

// WishService defines wish business logic
type WishService interface {
	CreateWish(ctx context.Context, req *CreateWishRequest) (*models.Wish, error)
	GetWishByID(ctx context.Context, id int64) (*models.Wish, error)
	ListWishes(ctx context.Context, page int) (*models.PaginatedResponse[*models.Wish], error)
	ListWishesByCategory(ctx context.Context, category string, page int) (*models.PaginatedResponse[*models.Wish], error)
	ListWishesByUser(ctx context.Context, userID int64, page int) (*models.PaginatedResponse[*models.Wish], error)
	ListWishesNearby(ctx context.Context, req *NearbyRequest) (*models.PaginatedResponse[*models.Wish], error)
	Categories(ctx context.Context) ([]string, error)
}

// SpeechService defines speech business logic, mirroring WishService
type SpeechService interface {
	CreateSpeech(ctx context.Context, req *CreateSpeechRequest) (*models.Speech, error)
	GetSpeechByID(ctx context.Context, id int64) (*models.Speech, error)
	ListSpeeches(ctx context.Context, page int) (*models.PaginatedResponse[*models.Speech], error)
	ListSpeechesByCategory(ctx context.Context, category string, page int) (*models.PaginatedResponse[*models.Speech], error)
	ListSpeechesByUser(ctx context.Context, userID int64, page int) (*models.PaginatedResponse[*models.Speech], error)
	ListSpeechesNearby(ctx context.Context, req *NearbyRequest) (*models.PaginatedResponse[*models.Speech], error)
	Categories(ctx context.Context) ([]string, error)
}

// StatusService drives the request lifecycle
type StatusService interface {
	EnsureStatus(ctx context.Context, kind models.RequestKind, requestID int64) (*models.StatusRecord, error)
	GetStatus(ctx context.Context, kind models.RequestKind, requestID int64) (*models.StatusRecord, error)
	Pick(ctx context.Context, req *PickRequest) (*models.StatusRecord, error)
	Complete(ctx context.Context, req *CompleteRequest) (*models.StatusRecord, error)
}

// FulfillmentService manages submissions against requests
type FulfillmentService interface {
	Submit(ctx context.Context, req *SubmitFulfillmentRequest) (*models.Fulfillment, error)
	GetFulfillmentByID(ctx context.Context, id int64) (*models.Fulfillment, error)
	ListForRequest(ctx context.Context, req *FulfillmentSearchRequest) ([]*models.Fulfillment, error)
	ListEvents(ctx context.Context, completedOnly bool, page int) (*models.PaginatedResponse[*models.Event], error)
	LatestFor(ctx context.Context, kind models.RequestKind, requestID int64) (*models.Event, error)
}
