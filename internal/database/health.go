package database

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Health check statuses
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
	StatusStarting  = "starting"
	StatusShutdown  = "shutdown"
)

// HealthStatus represents the current health status of the database
type HealthStatus struct {
	Status          string                 `json:"status"`
	Timestamp       time.Time              `json:"timestamp"`
	ResponseTime    time.Duration          `json:"response_time"`
	ConnectionCount int                    `json:"connection_count"`
	Errors          []string               `json:"errors,omitempty"`
	Details         map[string]interface{} `json:"details"`
}

// HealthChecker monitors database health on demand and in the background
type HealthChecker struct {
	manager *Manager
	logger  *zap.Logger

	mu        sync.RWMutex
	isActive  int32
	lastCheck time.Time
	status    *HealthStatus

	checkInterval   time.Duration
	timeoutDuration time.Duration
	criticalTables  []string

	stopCh  chan struct{}
	stopped chan struct{}
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(manager *Manager, logger *zap.Logger, checkInterval time.Duration) *HealthChecker {
	if checkInterval <= 0 {
		checkInterval = 30 * time.Second
	}

	return &HealthChecker{
		manager:         manager,
		logger:          logger,
		isActive:        1,
		checkInterval:   checkInterval,
		timeoutDuration: 10 * time.Second,
		criticalTables:  []string{"users", "wishes", "speeches", "fulfillments"},
		stopCh:          make(chan struct{}),
		stopped:         make(chan struct{}),
	}
}

// Check performs a health check of connectivity, pool state and table access.
func (hc *HealthChecker) Check(ctx context.Context) *HealthStatus {
	if atomic.LoadInt32(&hc.isActive) == 0 {
		return &HealthStatus{
			Status:    StatusShutdown,
			Timestamp: time.Now(),
			Errors:    []string{"health checker is shutdown"},
			Details:   make(map[string]interface{}),
		}
	}

	start := time.Now()
	status := &HealthStatus{
		Timestamp: start,
		Details:   make(map[string]interface{}),
		Errors:    make([]string, 0),
	}

	ctx, cancel := context.WithTimeout(ctx, hc.timeoutDuration)
	defer cancel()

	if err := hc.checkConnectivity(ctx, status); err != nil {
		status.Errors = append(status.Errors, fmt.Sprintf("connectivity: %v", err))
	}

	hc.checkConnectionPool(status)

	if err := hc.checkTableAccess(ctx, status); err != nil {
		status.Errors = append(status.Errors, fmt.Sprintf("table access: %v", err))
	}

	status.ResponseTime = time.Since(start)
	status.Status = hc.determineOverallStatus(status)

	hc.mu.Lock()
	hc.status = status
	hc.lastCheck = time.Now()
	hc.mu.Unlock()

	if status.Status != StatusHealthy {
		hc.logger.Warn("database health check not healthy",
			zap.String("status", status.Status),
			zap.Strings("errors", status.Errors),
			zap.Duration("response_time", status.ResponseTime),
		)
	}

	return status
}

func (hc *HealthChecker) checkConnectivity(ctx context.Context, status *HealthStatus) error {
	start := time.Now()
	err := hc.manager.DB().PingContext(ctx)
	pingDuration := time.Since(start)

	status.Details["ping_duration_ms"] = pingDuration.Milliseconds()
	status.Details["ping_success"] = err == nil

	if pingDuration > 500*time.Millisecond {
		status.Details["ping_warning"] = "slow ping response"
	}

	return err
}

func (hc *HealthChecker) checkConnectionPool(status *HealthStatus) {
	stats := hc.manager.DB().Stats()

	status.ConnectionCount = stats.OpenConnections
	status.Details["connection_pool"] = map[string]interface{}{
		"max_open":         stats.MaxOpenConnections,
		"open":             stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"wait_count":       stats.WaitCount,
		"wait_duration_ms": stats.WaitDuration.Milliseconds(),
	}

	if stats.MaxOpenConnections > 0 {
		utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections)
		if utilization > 0.8 {
			status.Details["connection_warning"] = "high connection utilization"
		}
	}
}

func (hc *HealthChecker) checkTableAccess(ctx context.Context, status *HealthStatus) error {
	accessible := make(map[string]bool, len(hc.criticalTables))

	for _, table := range hc.criticalTables {
		if atomic.LoadInt32(&hc.isActive) == 0 {
			return fmt.Errorf("database became inactive during table checks")
		}

		var exists bool
		err := hc.manager.DB().QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`,
			table,
		).Scan(&exists)

		accessible[table] = err == nil && exists

		if err != nil {
			status.Details["table_access"] = accessible
			return fmt.Errorf("cannot check table %s: %w", table, err)
		}
		if !exists {
			status.Details["table_access"] = accessible
			return fmt.Errorf("critical table %s is missing", table)
		}
	}

	status.Details["table_access"] = accessible
	return nil
}

func (hc *HealthChecker) determineOverallStatus(status *HealthStatus) string {
	if len(status.Errors) > 0 {
		return StatusUnhealthy
	}

	if status.ResponseTime > 1*time.Second {
		return StatusDegraded
	}

	for key := range status.Details {
		if key == "ping_warning" || key == "connection_warning" {
			return StatusDegraded
		}
	}

	return StatusHealthy
}

// StartMonitoring begins background health monitoring (call after DB is ready)
func (hc *HealthChecker) StartMonitoring() {
	if atomic.LoadInt32(&hc.isActive) == 1 {
		go hc.startPeriodicChecks()
		hc.logger.Info("background health monitoring started",
			zap.Duration("interval", hc.checkInterval))
	}
}

func (hc *HealthChecker) startPeriodicChecks() {
	defer close(hc.stopped)

	ticker := time.NewTicker(hc.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if atomic.LoadInt32(&hc.isActive) == 0 {
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), hc.timeoutDuration)
			status := hc.Check(ctx)
			cancel()

			hc.mu.RLock()
			previous := hc.status
			hc.mu.RUnlock()

			if previous != nil && previous.Status != status.Status {
				hc.logger.Info("database health status changed",
					zap.String("from", previous.Status),
					zap.String("to", status.Status),
				)
			}

		case <-hc.stopCh:
			return
		}
	}
}

// GetLastStatus returns the last cached health status
func (hc *HealthChecker) GetLastStatus() *HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	if hc.status == nil {
		return &HealthStatus{
			Status:    StatusStarting,
			Timestamp: time.Now(),
			Errors:    []string{"no health check performed yet"},
			Details:   make(map[string]interface{}),
		}
	}

	return hc.status
}

// IsHealthy returns true if the database is healthy
func (hc *HealthChecker) IsHealthy() bool {
	if atomic.LoadInt32(&hc.isActive) == 0 {
		return false
	}
	return hc.GetLastStatus().Status == StatusHealthy
}

// Stop stops the health checker
func (hc *HealthChecker) Stop() {
	if !atomic.CompareAndSwapInt32(&hc.isActive, 1, 0) {
		return
	}

	close(hc.stopCh)

	select {
	case <-hc.stopped:
	case <-time.After(5 * time.Second):
		hc.logger.Warn("health checker stop timeout")
	}
}
