// file: internal/repositories/collection.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wishlink/internal/database"

	"go.uber.org/zap"
)

// Collection holds all repository instances for dependency injection
type Collection struct {
	User        UserRepository
	Wish        WishRepository
	Speech      SpeechRepository
	Status      StatusRepository
	Fulfillment FulfillmentRepository

	// Database and logger for custom operations
	db     *database.Manager
	logger *zap.Logger
}

// NewCollection creates a new repository collection with all dependencies
func NewCollection(db *database.Manager, logger *zap.Logger) (*Collection, error) {
	if db == nil {
		return nil, fmt.Errorf("database manager is required")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	collection := &Collection{
		db:     db,
		logger: logger,
	}

	collection.User = NewUserRepository(db, logger)
	collection.Wish = NewWishRepository(db, logger)
	collection.Speech = NewSpeechRepository(db, logger)
	collection.Status = NewStatusRepository(db, logger)
	collection.Fulfillment = NewFulfillmentRepository(db, logger)

	logger.Info("repository collection initialized")

	return collection, nil
}

// ===============================
// TRANSACTION MANAGEMENT
// ===============================

// WithTransaction executes fn within a database transaction, rolling back on
// error or panic. Repositories whose mutating methods take *sql.Tx participate
// in the same transaction.
func (c *Collection) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
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
			c.logger.Error("failed to rollback transaction",
				zap.NamedError("rollback_error", rbErr),
				zap.Error(err),
			)
		}
		return err
	}

	return tx.Commit()
}

// ===============================
// HEALTH AND MONITORING
// ===============================

// HealthCheck gathers database and query performance health for the readiness
// endpoint
func (c *Collection) HealthCheck(ctx context.Context) map[string]interface{} {
	health := make(map[string]interface{})

	dbHealth := c.db.Health(ctx)
	health["database"] = map[string]interface{}{
		"status":        dbHealth.Status,
		"response_time": dbHealth.ResponseTime,
		"errors":        dbHealth.Errors,
	}

	metrics := c.db.Metrics()
	health["performance"] = map[string]interface{}{
		"query_count":        metrics.QueryCount,
		"error_count":        metrics.ErrorCount,
		"slow_query_count":   metrics.SlowQueryCount,
		"avg_query_duration": metrics.AvgQueryDuration,
	}

	health["checked_at"] = time.Now().UTC()

	return health
}

// GetDB returns the underlying database manager for advanced operations
func (c *Collection) GetDB() *database.Manager {
	return c.db
}

// GetLogger returns the logger instance
func (c *Collection) GetLogger() *zap.Logger {
	return c.logger
}

// Close closes all repository connections and cleans up resources
func (c *Collection) Close() error {
	c.logger.Info("closing repository collection")

	if c.db != nil {
		return c.db.Close()
	}

	return nil
}
