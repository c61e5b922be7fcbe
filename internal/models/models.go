// file: internal/models/models.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ===============================
// CORE ENTITIES
// ===============================

// User represents a seeker or an institute account
type User struct {
	// Primary fields
	ID    int64  `json:"id" db:"id"`
	Email string `json:"email" db:"email" validate:"required,email,max=320"`

	// Authentication
	PasswordHash  string `json:"-" db:"password_hash"`
	EmailVerified bool   `json:"is_mail_verified" db:"is_mail_verified"`

	// Profile information
	FirstName  string  `json:"first_name" db:"first_name" validate:"required,max=255"`
	GivenName  *string `json:"given_name,omitempty" db:"given_name" validate:"omitempty,max=255"`
	FamilyName *string `json:"family_name,omitempty" db:"family_name" validate:"omitempty,max=255"`
	PhoneNo    *string `json:"phone_no,omitempty" db:"phone_no" validate:"omitempty,e164"`
	Address    *string `json:"address,omitempty" db:"address"`
	Location   *string `json:"location,omitempty" db:"location" validate:"omitempty,max=255"`
	About      *string `json:"about,omitempty" db:"about"`
	Link       *string `json:"link,omitempty" db:"link" validate:"omitempty,url"`
	Picture    *string `json:"picture,omitempty" db:"picture" validate:"omitempty,url"`
	Locale     *string `json:"locale,omitempty" db:"locale" validate:"omitempty,max=50"`

	// Institute fields: reg number and details are mandatory when IsInstitute is set
	IsInstitute         bool    `json:"is_institute" db:"is_institute"`
	InstituteRegNumber  *string `json:"institute_reg_number,omitempty" db:"institute_reg_number" validate:"omitempty,max=255"`
	InstituteDetails    *string `json:"institute_details,omitempty" db:"institute_details"`

	// Geography
	Latitude  *float64 `json:"latitude,omitempty" db:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" db:"longitude" validate:"omitempty,longitude"`

	// Timestamps
	CreatedAt time.Time `json:"created_date" db:"created_at"`
}

// PublicProfile strips credentials and contact internals for embedding in
// request and fulfillment views.
func (u *User) PublicProfile() *UserProfile {
	if u == nil {
		return nil
	}
	return &UserProfile{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		GivenName:   u.GivenName,
		FamilyName:  u.FamilyName,
		IsInstitute: u.IsInstitute,
		Location:    u.Location,
		Picture:     u.Picture,
	}
}

// ValidateInstitute enforces the institute invariant before persistence.
func (u *User) ValidateInstitute() error {
	if !u.IsInstitute {
		return nil
	}
	if u.InstituteRegNumber == nil || *u.InstituteRegNumber == "" {
		return fmt.Errorf("institute registration number is required for institutes")
	}
	if u.InstituteDetails == nil || *u.InstituteDetails == "" {
		return fmt.Errorf("institute details are required for institutes")
	}
	return nil
}

// UserProfile is the public projection of a user joined into other entities
type UserProfile struct {
	ID          int64   `json:"id"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	GivenName   *string `json:"given_name,omitempty"`
	FamilyName  *string `json:"family_name,omitempty"`
	IsInstitute bool    `json:"is_institute"`
	Location    *string `json:"location,omitempty"`
	Picture     *string `json:"picture,omitempty"`
}

// RequestKind distinguishes the two parallel request families
type RequestKind string

const (
	KindWish   RequestKind = "wish"
	KindSpeech RequestKind = "speech"
)

// Valid reports whether the kind is one of the two known families.
func (k RequestKind) Valid() bool {
	return k == KindWish || k == KindSpeech
}

// Wish represents a request for help created by a seeker or institute
type Wish struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"wish_title" db:"title" validate:"required,max=255"`
	Description string `json:"wish_description" db:"description" validate:"required"`
	CreatedBy   int64  `json:"created_by" db:"created_by" validate:"required"`

	IsPicked   bool `json:"is_picked" db:"is_picked"`
	IsVerified bool `json:"is_verified" db:"is_verified"`

	Category  *string  `json:"category,omitempty" db:"category" validate:"omitempty,max=255"`
	Location  *string  `json:"location,omitempty" db:"location" validate:"omitempty,max=255"`
	Latitude  *float64 `json:"latitude,omitempty" db:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" db:"longitude" validate:"omitempty,longitude"`

	SelectedFulfillment *int64    `json:"selected_fulfillment,omitempty" db:"selected_fulfillment_id"`
	CreatedAt           time.Time `json:"created_date" db:"created_at"`

	// Joined fields (not in DB)
	Creator  *UserProfile   `json:"creator,omitempty" db:"-"`
	Status   *StatusRecord  `json:"status,omitempty" db:"-"`
	PickedBy []*UserProfile `json:"picked_by,omitempty" db:"-"`
}

// Coordinates returns the wish position, or ok=false when either axis is unset.
func (w *Wish) Coordinates() (lat, lon float64, ok bool) {
	if w.Latitude == nil || w.Longitude == nil {
		return 0, 0, false
	}
	return *w.Latitude, *w.Longitude, true
}

// Speech represents a speaking request; identical to a wish plus a platform URL
type Speech struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"speech_title" db:"title" validate:"required,max=255"`
	Description string `json:"speech_description" db:"description" validate:"required"`
	CreatedBy   int64  `json:"created_by" db:"created_by" validate:"required"`

	IsPicked   bool `json:"is_picked" db:"is_picked"`
	IsVerified bool `json:"is_verified" db:"is_verified"`

	Category    *string  `json:"category,omitempty" db:"category" validate:"omitempty,max=255"`
	Location    *string  `json:"location,omitempty" db:"location" validate:"omitempty,max=255"`
	Latitude    *float64 `json:"latitude,omitempty" db:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude,omitempty" db:"longitude" validate:"omitempty,longitude"`
	PlatformURL *string  `json:"platform_url,omitempty" db:"platform_url" validate:"omitempty,url"`

	SelectedFulfillment *int64    `json:"selected_fulfillment,omitempty" db:"selected_fulfillment_id"`
	CreatedAt           time.Time `json:"created_date" db:"created_at"`

	// Joined fields (not in DB)
	Creator  *UserProfile   `json:"creator,omitempty" db:"-"`
	Status   *StatusRecord  `json:"status,omitempty" db:"-"`
	PickedBy []*UserProfile `json:"picked_by,omitempty" db:"-"`
}

// Coordinates returns the speech position, or ok=false when either axis is unset.
func (s *Speech) Coordinates() (lat, lon float64, ok bool) {
	if s.Latitude == nil || s.Longitude == nil {
		return 0, 0, false
	}
	return *s.Latitude, *s.Longitude, true
}

// ===============================
// STATUS TRACKING
// ===============================

// Status is the lifecycle state of a request
type Status string

const (
	StatusCreated    Status = "Created"
	StatusInProgress Status = "In-Progress"
	StatusCompleted  Status = "Completed"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Scan implements sql.Scanner
func (s *Status) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*s = Status(v)
	case []byte:
		*s = Status(v)
	default:
		return fmt.Errorf("cannot scan %T into Status", value)
	}
	if !s.Valid() {
		return fmt.Errorf("unknown status value %q", *s)
	}
	return nil
}

// Value implements driver.Valuer
func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown status value %q", s)
	}
	return string(s), nil
}

// StatusRecord tracks the lifecycle of exactly one wish or speech
type StatusRecord struct {
	ID        int64     `json:"id" db:"id"`
	RequestID int64     `json:"request_id" db:"request_id"`
	Status    Status    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_date" db:"created_at"`

	// Joined fields (not in DB)
	Kind     RequestKind    `json:"kind,omitempty" db:"-"`
	PickedBy []*UserProfile `json:"picked_by,omitempty" db:"-"`
}

// ===============================
// FULFILLMENTS
// ===============================

// URLList stores the structured link payload of a fulfillment as JSONB
type URLList []string

// Scan implements sql.Scanner
func (u *URLList) Scan(value interface{}) error {
	if value == nil {
		*u = URLList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, u)
	case string:
		return json.Unmarshal([]byte(v), u)
	default:
		return fmt.Errorf("cannot scan %T into URLList", value)
	}
}

// Value implements driver.Valuer
func (u URLList) Value() (driver.Value, error) {
	if len(u) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(u)
}

// Fulfillment is proof of work submitted against exactly one wish or speech
type Fulfillment struct {
	ID          int64   `json:"id" db:"id"`
	WishID      *int64  `json:"wish_id,omitempty" db:"wish_id"`
	SpeechID    *int64  `json:"speech_id,omitempty" db:"speech_id"`
	UserID      int64   `json:"user_id" db:"user_id" validate:"required"`
	URLs        URLList `json:"url" db:"urls" validate:"required,min=1,dive,url"`
	Description *string `json:"description,omitempty" db:"description"`
	Platform    *string `json:"platform,omitempty" db:"platform" validate:"omitempty,max=255"`

	CreatedAt time.Time `json:"created_date" db:"created_at"`

	// Joined fields (not in DB)
	Submitter *UserProfile `json:"submitter,omitempty" db:"-"`
}

// Kind reports which request family the fulfillment references.
func (f *Fulfillment) Kind() RequestKind {
	if f.WishID != nil {
		return KindWish
	}
	return KindSpeech
}

// RequestID returns the referenced request's ID regardless of family.
func (f *Fulfillment) RequestID() int64 {
	if f.WishID != nil {
		return *f.WishID
	}
	if f.SpeechID != nil {
		return *f.SpeechID
	}
	return 0
}

// References reports whether the fulfillment points at the given request.
func (f *Fulfillment) References(kind RequestKind, requestID int64) bool {
	switch kind {
	case KindWish:
		return f.WishID != nil && *f.WishID == requestID
	case KindSpeech:
		return f.SpeechID != nil && *f.SpeechID == requestID
	}
	return false
}

// ===============================
// AGGREGATES
// ===============================

// UserSummary bundles everything a user created or fulfilled
type UserSummary struct {
	User              *UserProfile   `json:"user"`
	CreatedWishes     []*Wish        `json:"created_wishes"`
	CreatedSpeeches   []*Speech      `json:"created_speeches"`
	Fulfillments      []*Fulfillment `json:"fulfillments"`
	PickedWishCount   int            `json:"picked_wish_count"`
	PickedSpeechCount int            `json:"picked_speech_count"`
}

// Event is a fulfillment enriched with its request for the events feed
type Event struct {
	Fulfillment *Fulfillment `json:"fulfillment"`
	Kind        RequestKind  `json:"kind"`
	Wish        *Wish        `json:"wish,omitempty"`
	Speech      *Speech      `json:"speech,omitempty"`
	Completed   bool         `json:"completed"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// PaginationMeta contains pagination metadata
type PaginationMeta struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
}
