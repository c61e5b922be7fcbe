package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"wishlink/internal/database"

	"go.uber.org/zap"
)

// BaseRepository provides common database operations shared by all repositories
type BaseRepository struct {
	db     *database.Manager
	logger *zap.Logger
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *database.Manager, logger *zap.Logger) *BaseRepository {
	return &BaseRepository{
		db:     db,
		logger: logger,
	}
}

// ===============================
// CORE DATABASE OPERATIONS
// ===============================

// ExecContext executes a statement through the managed pool
func (r *BaseRepository) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return r.db.ExecContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows
func (r *BaseRepository) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, query, args...)
}

// QueryRowContext executes a query that returns a single row
func (r *BaseRepository) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return r.db.QueryRowContext(ctx, query, args...)
}

// BeginTx starts a new transaction
func (r *BaseRepository) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return r.db.BeginTx(ctx, opts)
}

// ===============================
// TRANSACTION HELPERS
// ===============================

// WithTransaction executes fn within a database transaction, rolling back
// on error or panic.
func (r *BaseRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error("failed to rollback transaction",
				zap.NamedError("rollback_error", rbErr),
				zap.Error(err),
			)
		}
		return err
	}

	return tx.Commit()
}

// ===============================
// UTILITY METHODS
// ===============================

// GetTotalCount executes a count query
func (r *BaseRepository) GetTotalCount(ctx context.Context, countQuery string, args ...interface{}) (int64, error) {
	var total int64
	err := r.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	return total, err
}

// IsNotFound checks if error is a "not found" error
func (r *BaseRepository) IsNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// HandleNotFound converts sql.ErrNoRows to nil for optional queries
func (r *BaseRepository) HandleNotFound(err error) error {
	if err == sql.ErrNoRows {
		return nil
	}
	return err
}

// GetDB returns the underlying database manager for advanced operations
func (r *BaseRepository) GetDB() *database.Manager {
	return r.db
}

// GetLogger returns the logger instance
func (r *BaseRepository) GetLogger() *zap.Logger {
	return r.logger
}
