// file: internal/repositories/wish_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"wishlink/internal/database"
	"wishlink/internal/models"

	"go.uber.org/zap"
)

// wishRepository implements WishRepository
type wishRepository struct {
	*BaseRepository
}

// NewWishRepository creates a new wish repository
func NewWishRepository(db *database.Manager, logger *zap.Logger) WishRepository {
	return &wishRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Every list query joins the creator profile so callers never need a second
// round trip per row.
const wishSelect = `
	SELECT
		w.id, w.title, w.description, w.created_by,
		w.is_picked, w.is_verified, w.category, w.location,
		w.latitude, w.longitude, w.selected_fulfillment_id, w.created_at,
		u.id, u.email, u.first_name, u.given_name, u.family_name,
		u.is_institute, u.location, u.picture
	FROM wishes w
	JOIN users u ON u.id = w.created_by`

func scanWish(rows interface{ Scan(...interface{}) error }) (*models.Wish, error) {
	var wish models.Wish
	var creator models.UserProfile
	err := rows.Scan(
		&wish.ID, &wish.Title, &wish.Description, &wish.CreatedBy,
		&wish.IsPicked, &wish.IsVerified, &wish.Category, &wish.Location,
		&wish.Latitude, &wish.Longitude, &wish.SelectedFulfillment, &wish.CreatedAt,
		&creator.ID, &creator.Email, &creator.FirstName, &creator.GivenName, &creator.FamilyName,
		&creator.IsInstitute, &creator.Location, &creator.Picture,
	)
	if err != nil {
		return nil, err
	}
	wish.Creator = &creator
	return &wish, nil
}

func (r *wishRepository) queryWishes(ctx context.Context, query string, args ...interface{}) ([]*models.Wish, error) {
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishes: %w", err)
	}
	defer rows.Close()

	wishes := make([]*models.Wish, 0)
	for rows.Next() {
		wish, err := scanWish(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wish: %w", err)
		}
		wishes = append(wishes, wish)
	}

	return wishes, rows.Err()
}

// ===============================
// CRUD OPERATIONS
// ===============================

// Create inserts a new wish inside the caller's transaction so the status
// record lands atomically with it, and fills in the generated fields
func (r *wishRepository) Create(ctx context.Context, tx *sql.Tx, wish *models.Wish) error {
	query := `
		INSERT INTO wishes (
			title, description, created_by, category, location, latitude, longitude
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_picked, is_verified, created_at`

	err := tx.QueryRowContext(
		ctx, query,
		wish.Title, wish.Description, wish.CreatedBy,
		wish.Category, wish.Location, wish.Latitude, wish.Longitude,
	).Scan(&wish.ID, &wish.IsPicked, &wish.IsVerified, &wish.CreatedAt)

	if err != nil {
		r.GetLogger().Error("failed to create wish",
			zap.Error(err),
			zap.Int64("created_by", wish.CreatedBy),
		)
		return fmt.Errorf("failed to create wish: %w", err)
	}

	r.GetLogger().Info("wish created",
		zap.Int64("wish_id", wish.ID),
		zap.Int64("created_by", wish.CreatedBy),
	)

	return nil
}

// GetByID retrieves a wish by ID, returning nil when it does not exist
func (r *wishRepository) GetByID(ctx context.Context, id int64) (*models.Wish, error) {
	wish, err := scanWish(r.QueryRowContext(ctx, wishSelect+` WHERE w.id = $1`, id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wish by ID: %w", err)
	}
	return wish, nil
}

// Exists checks whether a wish with the given ID exists
func (r *wishRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM wishes WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check wish existence: %w", err)
	}
	return exists, nil
}

// ===============================
// LISTING
// ===============================

// List returns all wishes, newest first
func (r *wishRepository) List(ctx context.Context) ([]*models.Wish, error) {
	return r.queryWishes(ctx, wishSelect+` ORDER BY w.created_at DESC, w.id DESC`)
}

// ListByCategory returns wishes in a category, oldest first
func (r *wishRepository) ListByCategory(ctx context.Context, category string) ([]*models.Wish, error) {
	return r.queryWishes(ctx,
		wishSelect+` WHERE LOWER(w.category) = LOWER($1) ORDER BY w.created_at ASC, w.id ASC`,
		category,
	)
}

// ListByUser returns wishes created by a user, newest first
func (r *wishRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Wish, error) {
	return r.queryWishes(ctx,
		wishSelect+` WHERE w.created_by = $1 ORDER BY w.created_at DESC, w.id DESC`,
		userID,
	)
}

// ListWithCoordinates returns wishes that carry both coordinates, newest first
func (r *wishRepository) ListWithCoordinates(ctx context.Context) ([]*models.Wish, error) {
	return r.queryWishes(ctx,
		wishSelect+` WHERE w.latitude IS NOT NULL AND w.longitude IS NOT NULL
		ORDER BY w.created_at DESC, w.id DESC`,
	)
}

// Categories returns the distinct non-empty wish categories
func (r *wishRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT DISTINCT category FROM wishes
		WHERE category IS NOT NULL AND category <> ''
		ORDER BY category ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list wish categories: %w", err)
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
func (r *wishRepository) SetPicked(ctx context.Context, tx *sql.Tx, id int64, picked bool) error {
	if _, err := tx.ExecContext(ctx, `UPDATE wishes SET is_picked = $2 WHERE id = $1`, id, picked); err != nil {
		return fmt.Errorf("failed to mark wish picked: %w", err)
	}
	return nil
}

// SetSelectedFulfillment records the winning fulfillment inside the caller's
// transaction. Overwrites any previous selection.
func (r *wishRepository) SetSelectedFulfillment(ctx context.Context, tx *sql.Tx, id, fulfillmentID int64) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE wishes SET selected_fulfillment_id = $2 WHERE id = $1`,
		id, fulfillmentID,
	); err != nil {
		return fmt.Errorf("failed to set selected fulfillment: %w", err)
	}
	return nil
}
