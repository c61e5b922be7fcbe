// file: internal/repositories/interfaces.go
package repositories

import (
	"context"
	"database/sql"

	"wishlink/internal/models"
)

// ===============================
// CORE REPOSITORY INTERFACES
// ===============================

// UserRepository defines the contract for seeker and institute account data
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	GetProfiles(ctx context.Context, ids []int64) (map[int64]*models.UserProfile, error)
}

// WishRepository defines the contract for wish data operations. List methods
// return deterministically ordered slices; pagination happens in the service
// layer.
type WishRepository interface {
	Create(ctx context.Context, tx *sql.Tx, wish *models.Wish) error
	GetByID(ctx context.Context, id int64) (*models.Wish, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*models.Wish, error)
	ListByCategory(ctx context.Context, category string) ([]*models.Wish, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Wish, error)
	ListWithCoordinates(ctx context.Context) ([]*models.Wish, error)
	Categories(ctx context.Context) ([]string, error)
	SetPicked(ctx context.Context, tx *sql.Tx, id int64, picked bool) error
	SetSelectedFulfillment(ctx context.Context, tx *sql.Tx, id, fulfillmentID int64) error
}

// SpeechRepository defines the contract for speech data operations, mirroring
// WishRepository
type SpeechRepository interface {
	Create(ctx context.Context, tx *sql.Tx, speech *models.Speech) error
	GetByID(ctx context.Context, id int64) (*models.Speech, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*models.Speech, error)
	ListByCategory(ctx context.Context, category string) ([]*models.Speech, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Speech, error)
	ListWithCoordinates(ctx context.Context) ([]*models.Speech, error)
	Categories(ctx context.Context) ([]string, error)
	SetPicked(ctx context.Context, tx *sql.Tx, id int64, picked bool) error
	SetSelectedFulfillment(ctx context.Context, tx *sql.Tx, id, fulfillmentID int64) error
}

// StatusRepository defines the contract for lifecycle records of both request
// families. Mutating methods take a transaction so pick and complete flows
// hold the row lock across their read-check-write sequence.
type StatusRepository interface {
	GetByRequest(ctx context.Context, kind models.RequestKind, requestID int64) (*models.StatusRecord, error)
	GetOrCreate(ctx context.Context, kind models.RequestKind, requestID int64) (*models.StatusRecord, error)
	GetOrCreateForUpdate(ctx context.Context, tx *sql.Tx, kind models.RequestKind, requestID int64) (*models.StatusRecord, error)
	HasPicked(ctx context.Context, tx *sql.Tx, kind models.RequestKind, statusID, userID int64) (bool, error)
	AddPick(ctx context.Context, tx *sql.Tx, kind models.RequestKind, statusID, userID int64) error
	SetStatus(ctx context.Context, tx *sql.Tx, kind models.RequestKind, statusID int64, status models.Status) error
	ListPickers(ctx context.Context, kind models.RequestKind, requestID int64) ([]*models.UserProfile, error)
	GetByRequestIDs(ctx context.Context, kind models.RequestKind, requestIDs []int64) (map[int64]*models.StatusRecord, error)
}

// FulfillmentRepository defines the contract for fulfillment submissions
type FulfillmentRepository interface {
	Create(ctx context.Context, fulfillment *models.Fulfillment) error
	GetByID(ctx context.Context, id int64) (*models.Fulfillment, error)
	ListByRequest(ctx context.Context, kind models.RequestKind, requestID int64) ([]*models.Fulfillment, error)
	FirstForRequest(ctx context.Context, kind models.RequestKind, requestID int64) (*models.Fulfillment, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Fulfillment, error)
	ListAll(ctx context.Context) ([]*models.Fulfillment, error)
}
