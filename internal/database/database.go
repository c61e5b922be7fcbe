package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	"wishlink/internal/config"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// DB is the global database manager instance
var DB *Manager

// initMutex prevents concurrent initialization
var initMutex sync.Mutex

// InitDB initializes the database manager, runs migrations and waits for
// the database to report healthy.
func InitDB(cfg *config.Config, logger *zap.Logger) error {
	initMutex.Lock()
	defer initMutex.Unlock()

	if DB != nil {
		logger.Info("database manager already initialized")
		return nil
	}

	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	manager, err := connectWithBackoff(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	DB = manager

	migrationsPath := determineMigrationsPath(cfg.Database.MigrationsPath)
	logger.Info("running database migrations", zap.String("path", migrationsPath))

	if err := manager.Migrate(migrationsPath); err != nil {
		DB = nil
		manager.Close()
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer cancel()

	if status := manager.Health(ctx); status.Status == StatusUnhealthy {
		DB = nil
		manager.Close()
		return fmt.Errorf("database unhealthy after migrations: %v", status.Errors)
	}

	manager.health.StartMonitoring()

	logger.Info("database initialized",
		zap.String("migrations_path", migrationsPath),
		zap.Int("open_connections", manager.Stats().OpenConnections),
	)

	return nil
}

// connectWithBackoff retries the initial connection with exponential backoff.
// Cold Postgres containers routinely refuse the first few attempts.
func connectWithBackoff(cfg *config.DatabaseConfig, logger *zap.Logger) (*Manager, error) {
	var manager *Manager

	operation := func() error {
		var err error
		manager, err = NewManager(cfg, logger)
		if err != nil {
			logger.Warn("database connection attempt failed", zap.Error(err))
		}
		return err
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), cfg.MaxConnectRetries)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return manager, nil
}

// determineMigrationsPath resolves the migrations directory with fallbacks
func determineMigrationsPath(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	paths := []string{
		"./migrations",
		"./internal/database/migrations",
		"../migrations",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "./migrations"
}

// GetDB returns the global manager
func GetDB() *Manager {
	return DB
}

// Close closes the global manager
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// Health reports the health of the global manager
func Health(ctx context.Context) *HealthStatus {
	if DB == nil {
		return &HealthStatus{
			Status:  StatusUnhealthy,
			Errors:  []string{"database not initialized"},
			Details: make(map[string]interface{}),
		}
	}
	return DB.Health(ctx)
}

// ExecuteTransaction runs fn inside a transaction on the global manager
func ExecuteTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	tx, err := DB.BeginTx(ctx, nil)
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
			return fmt.Errorf("transaction failed: %v, rollback failed: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
