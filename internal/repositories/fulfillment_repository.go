// file: internal/repositories/fulfillment_repository.go
package repositories

import (
	"context"
	"fmt"

	"wishlink/internal/database"
	"wishlink/internal/models"

	"go.uber.org/zap"
)

// fulfillmentRepository implements FulfillmentRepository
type fulfillmentRepository struct {
	*BaseRepository
}

// NewFulfillmentRepository creates a new fulfillment repository
func NewFulfillmentRepository(db *database.Manager, logger *zap.Logger) FulfillmentRepository {
	return &fulfillmentRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const fulfillmentSelect = `
	SELECT
		f.id, f.wish_id, f.speech_id, f.user_id,
		f.urls, f.description, f.platform, f.created_at,
		u.id, u.email, u.first_name, u.given_name, u.family_name,
		u.is_institute, u.location, u.picture
	FROM fulfillments f
	JOIN users u ON u.id = f.user_id`

func scanFulfillment(rows interface{ Scan(...interface{}) error }) (*models.Fulfillment, error) {
	var f models.Fulfillment
	var submitter models.UserProfile
	err := rows.Scan(
		&f.ID, &f.WishID, &f.SpeechID, &f.UserID,
		&f.URLs, &f.Description, &f.Platform, &f.CreatedAt,
		&submitter.ID, &submitter.Email, &submitter.FirstName, &submitter.GivenName, &submitter.FamilyName,
		&submitter.IsInstitute, &submitter.Location, &submitter.Picture,
	)
	if err != nil {
		return nil, err
	}
	f.Submitter = &submitter
	return &f, nil
}

func (r *fulfillmentRepository) queryFulfillments(ctx context.Context, query string, args ...interface{}) ([]*models.Fulfillment, error) {
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list fulfillments: %w", err)
	}
	defer rows.Close()

	fulfillments := make([]*models.Fulfillment, 0)
	for rows.Next() {
		f, err := scanFulfillment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fulfillment: %w", err)
		}
		fulfillments = append(fulfillments, f)
	}

	return fulfillments, rows.Err()
}

func requestColumn(kind models.RequestKind) (string, error) {
	switch kind {
	case models.KindWish:
		return "f.wish_id", nil
	case models.KindSpeech:
		return "f.speech_id", nil
	default:
		return "", fmt.Errorf("unknown request kind %q", kind)
	}
}

// ===============================
// CRUD OPERATIONS
// ===============================

// Create inserts a new fulfillment and fills in the generated fields. Exactly
// one of WishID and SpeechID must be set; the database enforces the same.
func (r *fulfillmentRepository) Create(ctx context.Context, fulfillment *models.Fulfillment) error {
	query := `
		INSERT INTO fulfillments (wish_id, speech_id, user_id, urls, description, platform)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.QueryRowContext(
		ctx, query,
		fulfillment.WishID, fulfillment.SpeechID, fulfillment.UserID,
		fulfillment.URLs, fulfillment.Description, fulfillment.Platform,
	).Scan(&fulfillment.ID, &fulfillment.CreatedAt)

	if err != nil {
		r.GetLogger().Error("failed to create fulfillment",
			zap.Error(err),
			zap.Int64("user_id", fulfillment.UserID),
		)
		return fmt.Errorf("failed to create fulfillment: %w", err)
	}

	r.GetLogger().Info("fulfillment created",
		zap.Int64("fulfillment_id", fulfillment.ID),
		zap.String("kind", string(fulfillment.Kind())),
	)

	return nil
}

// GetByID retrieves a fulfillment by ID, returning nil when it does not exist
func (r *fulfillmentRepository) GetByID(ctx context.Context, id int64) (*models.Fulfillment, error) {
	f, err := scanFulfillment(r.QueryRowContext(ctx, fulfillmentSelect+` WHERE f.id = $1`, id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fulfillment by ID: %w", err)
	}
	return f, nil
}

// ===============================
// LISTING
// ===============================

// ListByRequest returns fulfillments submitted against a request, oldest first
func (r *fulfillmentRepository) ListByRequest(ctx context.Context, kind models.RequestKind, requestID int64) ([]*models.Fulfillment, error) {
	column, err := requestColumn(kind)
	if err != nil {
		return nil, err
	}
	return r.queryFulfillments(ctx,
		fulfillmentSelect+fmt.Sprintf(` WHERE %s = $1 ORDER BY f.created_at ASC, f.id ASC`, column),
		requestID,
	)
}

// FirstForRequest returns the earliest fulfillment for a request, or nil when
// none have been submitted
func (r *fulfillmentRepository) FirstForRequest(ctx context.Context, kind models.RequestKind, requestID int64) (*models.Fulfillment, error) {
	column, err := requestColumn(kind)
	if err != nil {
		return nil, err
	}

	f, err := scanFulfillment(r.QueryRowContext(ctx,
		fulfillmentSelect+fmt.Sprintf(` WHERE %s = $1 ORDER BY f.created_at ASC, f.id ASC LIMIT 1`, column),
		requestID,
	))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get first fulfillment: %w", err)
	}
	return f, nil
}

// ListByUser returns fulfillments submitted by a user, newest first
func (r *fulfillmentRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Fulfillment, error) {
	return r.queryFulfillments(ctx,
		fulfillmentSelect+` WHERE f.user_id = $1 ORDER BY f.created_at DESC, f.id DESC`,
		userID,
	)
}

// ListAll returns every fulfillment, newest first
func (r *fulfillmentRepository) ListAll(ctx context.Context) ([]*models.Fulfillment, error) {
	return r.queryFulfillments(ctx, fulfillmentSelect+` ORDER BY f.created_at DESC, f.id DESC`)
}
