// file: internal/repositories/speech_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"wishlink/internal/database"
	"wishlink/internal/models"

	"go.uber.org/zap"
)

// speechRepository implements SpeechRepository
type speechRepository struct {
	*BaseRepository
}

// NewSpeechRepository creates a new speech repository
func NewSpeechRepository(db *database.Manager, logger *zap.Logger) SpeechRepository {
	return &speechRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const speechSelect = `
	SELECT
		s.id, s.title, s.description, s.created_by,
		s.is_picked, s.is_verified, s.category, s.location,
		s.latitude, s.longitude, s.platform_url, s.selected_fulfillment_id, s.created_at,
		u.id, u.email, u.first_name, u.given_name, u.family_name,
		u.is_institute, u.location, u.picture
	FROM speeches s
	JOIN users u ON u.id = s.created_by`

func scanSpeech(rows interface{ Scan(...interface{}) error }) (*models.Speech, error) {
	var speech models.Speech
	var creator models.UserProfile
	err := rows.Scan(
		&speech.ID, &speech.Title, &speech.Description, &speech.CreatedBy,
		&speech.IsPicked, &speech.IsVerified, &speech.Category, &speech.Location,
		&speech.Latitude, &speech.Longitude, &speech.PlatformURL, &speech.SelectedFulfillment, &speech.CreatedAt,
		&creator.ID, &creator.Email, &creator.FirstName, &creator.GivenName, &creator.FamilyName,
		&creator.IsInstitute, &creator.Location, &creator.Picture,
	)
	if err != nil {
		return nil, err
	}
	speech.Creator = &creator
	return &speech, nil
}

func (r *speechRepository) querySpeeches(ctx context.Context, query string, args ...interface{}) ([]*models.Speech, error) {
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list speeches: %w", err)
	}
	defer rows.Close()

	speeches := make([]*models.Speech, 0)
	for rows.Next() {
		speech, err := scanSpeech(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan speech: %w", err)
		}
		speeches = append(speeches, speech)
	}

	return speeches, rows.Err()
}

// ===============================
// CRUD OPERATIONS
// ===============================

// Create inserts a new speech inside the caller's transaction so the status
// record lands atomically with it, and fills in the generated fields
func (r *speechRepository) Create(ctx context.Context, tx *sql.Tx, speech *models.Speech) error {
	query := `
		INSERT INTO speeches (
			title, description, created_by, category, location,
			latitude, longitude, platform_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_picked, is_verified, created_at`

	err := tx.QueryRowContext(
		ctx, query,
		speech.Title, speech.Description, speech.CreatedBy,
		speech.Category, speech.Location,
		speech.Latitude, speech.Longitude, speech.PlatformURL,
	).Scan(&speech.ID, &speech.IsPicked, &speech.IsVerified, &speech.CreatedAt)

	if err != nil {
		r.GetLogger().Error("failed to create speech",
			zap.Error(err),
			zap.Int64("created_by", speech.CreatedBy),
		)
		return fmt.Errorf("failed to create speech: %w", err)
	}

	r.GetLogger().Info("speech created",
		zap.Int64("speech_id", speech.ID),
		zap.Int64("created_by", speech.CreatedBy),
	)

	return nil
}

// GetByID retrieves a speech by ID, returning nil when it does not exist
func (r *speechRepository) GetByID(ctx context.Context, id int64) (*models.Speech, error) {
	speech, err := scanSpeech(r.QueryRowContext(ctx, speechSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get speech by ID: %w", err)
	}
	return speech, nil
}

// Exists checks whether a speech with the given ID exists
func (r *speechRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM speeches WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check speech existence: %w", err)
	}
	return exists, nil
}

// ===============================
// LISTING
// ===============================

// List returns all speeches, newest first
func (r *speechRepository) List(ctx context.Context) ([]*models.Speech, error) {
	return r.querySpeeches(ctx, speechSelect+` ORDER BY s.created_at DESC, s.id DESC`)
}

// ListByCategory returns speeches in a category, oldest first
func (r *speechRepository) ListByCategory(ctx context.Context, category string) ([]*models.Speech, error) {
	return r.querySpeeches(ctx,
		speechSelect+` WHERE LOWER(s.category) = LOWER($1) ORDER BY s.created_at ASC, s.id ASC`,
		category,
	)
}

// ListByUser returns speeches created by a user, newest first
func (r *speechRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Speech, error) {
	return r.querySpeeches(ctx,
		speechSelect+` WHERE s.created_by = $1 ORDER BY s.created_at DESC, s.id DESC`,
		userID,
	)
}

// ListWithCoordinates returns speeches that carry both coordinates, newest first
func (r *speechRepository) ListWithCoordinates(ctx context.Context) ([]*models.Speech, error) {
	return r.querySpeeches(ctx,
		speechSelect+` WHERE s.latitude IS NOT NULL AND s.longitude IS NOT NULL
		ORDER BY s.created_at DESC, s.id DESC`,
	)
}

// Categories returns the distinct non-empty speech categories
func (r *speechRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT DISTINCT category FROM speeches
		WHERE category IS NOT NULL AND category <> ''
		ORDER BY category ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list speech categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// ===============================
// LIFECYCLE MUTATIONS
// ===============================

// SetPicked updates the picked flag inside the caller's transaction
func (r *speechRepository) SetPicked(ctx context.Context, tx *sql.Tx, id int64, picked bool) error {
	if _, err := tx.ExecContext(ctx, `UPDATE speeches SET is_picked = $2 WHERE id = $1`, id, picked); err != nil {
		return fmt.Errorf("failed to mark speech picked: %w", err)
	}
	return nil
}

// SetSelectedFulfillment records the winning fulfillment inside the caller's
// transaction. Overwrites any previous selection.
func (r *speechRepository) SetSelectedFulfillment(ctx context.Context, tx *sql.Tx, id, fulfillmentID int64) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE speeches SET selected_fulfillment_id = $2 WHERE id = $1`,
		id, fulfillmentID,
	); err != nil {
		return fmt.Errorf("failed to set selected fulfillment: %w", err)
	}
	return nil
}
