// file: internal/services/types.go
package services

import (
	"time"

	"wishlink/internal/models"
)

// ===============================
// USER SERVICE TYPES
// ===============================

// CreateUserRequest carries a new account. Institute fields travel together;
// the service enforces the pairing.
type CreateUserRequest struct {
	Email      string  `json:"email" validate:"required,email,max=320"`
	FirstName  string  `json:"first_name" validate:"required,max=255"`
	GivenName  *string `json:"given_name,omitempty" validate:"omitempty,max=255"`
	FamilyName *string `json:"family_name,omitempty" validate:"omitempty,max=255"`
	PhoneNo    *string `json:"phone_no,omitempty" validate:"omitempty,e164"`
	Address    *string `json:"address,omitempty"`
	Location   *string `json:"location,omitempty" validate:"omitempty,max=255"`
	About      *string `json:"about,omitempty"`
	Link       *string `json:"link,omitempty" validate:"omitempty,url"`
	Picture    *string `json:"picture,omitempty" validate:"omitempty,url"`
	Locale     *string `json:"locale,omitempty" validate:"omitempty,max=50"`

	IsInstitute        bool    `json:"is_institute"`
	InstituteRegNumber *string `json:"institute_reg_number,omitempty" validate:"omitempty,max=255"`
	InstituteDetails   *string `json:"institute_details,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// UpdateUserRequest carries a partial profile update. Nil fields are left
// untouched.
type UpdateUserRequest struct {
	UserID int64 `json:"-" validate:"required,gt=0"`

	FirstName  *string `json:"first_name,omitempty" validate:"omitempty,max=255"`
	GivenName  *string `json:"given_name,omitempty" validate:"omitempty,max=255"`
	FamilyName *string `json:"family_name,omitempty" validate:"omitempty,max=255"`
	PhoneNo    *string `json:"phone_no,omitempty" validate:"omitempty,e164"`
	Address    *string `json:"address,omitempty"`
	Location   *string `json:"location,omitempty" validate:"omitempty,max=255"`
	About      *string `json:"about,omitempty"`
	Link       *string `json:"link,omitempty" validate:"omitempty,url"`
	Picture    *string `json:"picture,omitempty" validate:"omitempty,url"`
	Locale     *string `json:"locale,omitempty" validate:"omitempty,max=50"`

	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// ===============================
// AUTH SERVICE TYPES
// ===============================

// RegisterRequest is a CreateUserRequest plus credentials
type RegisterRequest struct {
	CreateUserRequest
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest carries sign-in credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned on successful registration or sign-in
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// TokenClaims is the validated identity carried by a bearer token
type TokenClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

// ===============================
// REQUEST SERVICE TYPES
// ===============================

// CreateWishRequest carries a new wish
type CreateWishRequest struct {
	Title       string   `json:"wish_title" validate:"required,max=255"`
	Description string   `json:"wish_description" validate:"required"`
	CreatedBy   int64    `json:"created_by" validate:"required,gt=0"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,max=255"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,max=255"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// CreateSpeechRequest carries a new speech
type CreateSpeechRequest struct {
	Title       string   `json:"speech_title" validate:"required,max=255"`
	Description string   `json:"speech_description" validate:"required"`
	CreatedBy   int64    `json:"created_by" validate:"required,gt=0"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,max=255"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,max=255"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	PlatformURL *string  `json:"platform_url,omitempty" validate:"omitempty,url"`
}

// NearbyRequest carries a radius query. RadiusKm nil means the configured
// default for the family.
type NearbyRequest struct {
	Latitude  float64  `json:"latitude" validate:"latitude"`
	Longitude float64  `json:"longitude" validate:"longitude"`
	RadiusKm  *float64 `json:"radius,omitempty" validate:"omitempty,gte=0"`
	Page      int      `json:"page"`
}

// ===============================
// STATUS SERVICE TYPES
// ===============================

// PickRequest records a user volunteering for a request
type PickRequest struct {
	Kind      models.RequestKind `json:"-" validate:"required"`
	RequestID int64              `json:"request_id" validate:"required,gt=0"`
	UserID    int64              `json:"user_id" validate:"required,gt=0"`
}

// CompleteRequest selects the winning fulfillment for a request
type CompleteRequest struct {
	Kind          models.RequestKind `json:"-" validate:"required"`
	RequestID     int64              `json:"request_id" validate:"required,gt=0"`
	FulfillmentID int64              `json:"fulfillment_id" validate:"required,gt=0"`
}

// ===============================
// FULFILLMENT SERVICE TYPES
// ===============================

// SubmitFulfillmentRequest carries a new submission. Exactly one of WishID
// and SpeechID must be set.
type SubmitFulfillmentRequest struct {
	WishID      *int64   `json:"wish_id,omitempty" validate:"omitempty,gt=0"`
	SpeechID    *int64   `json:"speech_id,omitempty" validate:"omitempty,gt=0"`
	UserID      int64    `json:"user_id" validate:"required,gt=0"`
	URLs        []string `json:"url" validate:"required,min=1,dive,url"`
	Description *string  `json:"description,omitempty"`
	Platform    *string  `json:"platform,omitempty" validate:"omitempty,max=255"`
}

// FulfillmentSearchRequest identifies one request by family
type FulfillmentSearchRequest struct {
	WishID   *int64 `json:"wish_id,omitempty" validate:"omitempty,gt=0"`
	SpeechID *int64 `json:"speech_id,omitempty" validate:"omitempty,gt=0"`
}

// Kind resolves the request family, or an empty kind when the payload does
// not name exactly one request.
func (r *FulfillmentSearchRequest) Kind() (models.RequestKind, int64, bool) {
	switch {
	case r.WishID != nil && r.SpeechID == nil:
		return models.KindWish, *r.WishID, true
	case r.SpeechID != nil && r.WishID == nil:
		return models.KindSpeech, *r.SpeechID, true
	}
	return "", 0, false
}

// ===============================
// SHARED CONSTANTS
// ===============================

// SeedCategories is the fixed category list merged into the distinct
// categories found in stored requests.
var SeedCategories = []string{
	"Education",
	"Personal",
	"Other",
	"Technology",
	"Finance",
	"Travel",
	"Environment",
	"Hobbies",
	"Entrepreneurship",
	"Spirituality and Religion",
	"Entertainment",
	"Literature",
	"Music",
	"Lifestyle",
}
