// file: internal/repositories/status_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"wishlink/internal/database"
	"wishlink/internal/models"

	"go.uber.org/zap"
)

// statusRepository implements StatusRepository over both request families.
// Table names come from a fixed switch on the kind, never from input.
type statusRepository struct {
	*BaseRepository
}

// NewStatusRepository creates a new status repository
func NewStatusRepository(db *database.Manager, logger *zap.Logger) StatusRepository {
	return &statusRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

func statusTables(kind models.RequestKind) (statusTable, pickTable string, err error) {
	switch kind {
	case models.KindWish:
		return "wish_statuses", "wish_status_picks", nil
	case models.KindSpeech:
		return "speech_statuses", "speech_status_picks", nil
	default:
		return "", "", fmt.Errorf("unknown request kind %q", kind)
	}
}

// ===============================
// LOOKUPS
// ===============================

// GetByRequest returns the status record for a request, or nil when none exists
func (r *statusRepository) GetByRequest(ctx context.Context, kind models.RequestKind, requestID int64) (*models.StatusRecord, error) {
	statusTable, _, err := statusTables(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`SELECT id, request_id, status, created_at FROM %s WHERE request_id = $1`,
		statusTable,
	)

	var record models.StatusRecord
	err = r.QueryRowContext(ctx, query, requestID).Scan(
		&record.ID, &record.RequestID, &record.Status, &record.CreatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get status record: %w", err)
	}

	record.Kind = kind
	return &record, nil
}

// GetOrCreate returns the status record for a request, creating it in the
// Created state on first access. Concurrent callers converge on one row via
// the unique request_id constraint.
func (r *statusRepository) GetOrCreate(ctx context.Context, kind models.RequestKind, requestID int64) (*models.StatusRecord, error) {
	statusTable, _, err := statusTables(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (request_id, status)
		VALUES ($1, $2)
		ON CONFLICT (request_id) DO UPDATE SET request_id = EXCLUDED.request_id
		RETURNING id, request_id, status, created_at`,
		statusTable,
	)

	var record models.StatusRecord
	err = r.QueryRowContext(ctx, query, requestID, models.StatusCreated).Scan(
		&record.ID, &record.RequestID, &record.Status, &record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create status record: %w", err)
	}

	record.Kind = kind
	return &record, nil
}

// GetOrCreateForUpdate locks the status row for the rest of the transaction.
// The insert path also ends holding the lock, so pick and complete checks stay
// serialized per request.
func (r *statusRepository) GetOrCreateForUpdate(ctx context.Context, tx *sql.Tx, kind models.RequestKind, requestID int64) (*models.StatusRecord, error) {
	statusTable, _, err := statusTables(kind)
	if err != nil {
		return nil, err
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (request_id, status)
		VALUES ($1, $2)
		ON CONFLICT (request_id) DO NOTHING`,
		statusTable,
	)
	if _, err := tx.ExecContext(ctx, insert, requestID, models.StatusCreated); err != nil {
		return nil, fmt.Errorf("failed to ensure status record: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, request_id, status, created_at FROM %s WHERE request_id = $1 FOR UPDATE`,
		statusTable,
	)

	var record models.StatusRecord
	err = tx.QueryRowContext(ctx, query, requestID).Scan(
		&record.ID, &record.RequestID, &record.Status, &record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to lock status record: %w", err)
	}

	record.Kind = kind
	return &record, nil
}

// ===============================
// PICK MEMBERSHIP
// ===============================

// HasPicked checks inside the transaction whether the user already picked
func (r *statusRepository) HasPicked(ctx context.Context, tx *sql.Tx, kind models.RequestKind, statusID, userID int64) (bool, error) {
	_, pickTable, err := statusTables(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(
		`SELECT EXISTS(SELECT 1 FROM %s WHERE status_id = $1 AND user_id = $2)`,
		pickTable,
	)

	var exists bool
	if err := tx.QueryRowContext(ctx, query, statusID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pick membership: %w", err)
	}
	return exists, nil
}

// AddPick records a user on the pick roster inside the transaction
func (r *statusRepository) AddPick(ctx context.Context, tx *sql.Tx, kind models.RequestKind, statusID, userID int64) error {
	_, pickTable, err := statusTables(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (status_id, user_id) VALUES ($1, $2)`, pickTable)
	if _, err := tx.ExecContext(ctx, query, statusID, userID); err != nil {
		return fmt.Errorf("failed to add pick: %w", err)
	}
	return nil
}

// SetStatus transitions the lifecycle state inside the transaction
func (r *statusRepository) SetStatus(ctx context.Context, tx *sql.Tx, kind models.RequestKind, statusID int64, status models.Status) error {
	statusTable, _, err := statusTables(kind)
	if err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("unknown status value %q", status)
	}

	query := fmt.Sprintf(`UPDATE %s SET status = $2 WHERE id = $1`, statusTable)
	if _, err := tx.ExecContext(ctx, query, statusID, status); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// ===============================
// ROSTERS AND BATCH LOOKUPS
// ===============================

// ListPickers returns the profiles of everyone who picked a request, oldest
// pick first
func (r *statusRepository) ListPickers(ctx context.Context, kind models.RequestKind, requestID int64) ([]*models.UserProfile, error) {
	statusTable, pickTable, err := statusTables(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT u.id, u.email, u.first_name, u.given_name, u.family_name,
			u.is_institute, u.location, u.picture
		FROM %s p
		JOIN %s s ON s.id = p.status_id
		JOIN users u ON u.id = p.user_id
		WHERE s.request_id = $1
		ORDER BY p.picked_at ASC`,
		pickTable, statusTable,
	)

	rows, err := r.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pickers: %w", err)
	}
	defer rows.Close()

	pickers := make([]*models.UserProfile, 0)
	for rows.Next() {
		var p models.UserProfile
		if err := rows.Scan(
			&p.ID, &p.Email, &p.FirstName, &p.GivenName, &p.FamilyName,
			&p.IsInstitute, &p.Location, &p.Picture,
		); err != nil {
			return nil, fmt.Errorf("failed to scan picker: %w", err)
		}
		pickers = append(pickers, &p)
	}

	return pickers, rows.Err()
}

// GetByRequestIDs loads status records for a set of requests in one query
func (r *statusRepository) GetByRequestIDs(ctx context.Context, kind models.RequestKind, requestIDs []int64) (map[int64]*models.StatusRecord, error) {
	records := make(map[int64]*models.StatusRecord, len(requestIDs))
	if len(requestIDs) == 0 {
		return records, nil
	}

	statusTable, _, err := statusTables(kind)
	if err != nil {
		return nil, err
	}

	placeholders := make([]string, len(requestIDs))
	args := make([]interface{}, len(requestIDs))
	for i, id := range requestIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(
		`SELECT id, request_id, status, created_at FROM %s WHERE request_id IN (%s)`,
		statusTable, strings.Join(placeholders, ", "),
	)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load status records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var record models.StatusRecord
		if err := rows.Scan(&record.ID, &record.RequestID, &record.Status, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status record: %w", err)
		}
		record.Kind = kind
		records[record.RequestID] = &record
	}

	return records, rows.Err()
}
