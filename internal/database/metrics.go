package database

import (
	"database/sql"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Metrics collects database performance counters
type Metrics struct {
	db     *sql.DB
	logger *zap.Logger

	queryCount     int64
	queryDuration  int64 // nanoseconds
	errorCount     int64
	slowQueryCount int64

	execCount     int64
	selectCount   int64
	queryRowCount int64
	txCount       int64

	slowQueryThreshold time.Duration

	stopCh chan struct{}
}

// MetricsSnapshot provides a point-in-time view of metrics
type MetricsSnapshot struct {
	QueryCount       int64         `json:"query_count"`
	ErrorCount       int64         `json:"error_count"`
	SlowQueryCount   int64         `json:"slow_query_count"`
	AvgQueryDuration time.Duration `json:"avg_query_duration"`
	DBStats          sql.DBStats   `json:"db_stats"`
	Timestamp        time.Time     `json:"timestamp"`
}

// NewMetrics creates a new metrics collector
func NewMetrics(db *sql.DB, logger *zap.Logger, slowQueryThreshold time.Duration) *Metrics {
	if slowQueryThreshold <= 0 {
		slowQueryThreshold = 100 * time.Millisecond
	}

	m := &Metrics{
		db:                 db,
		logger:             logger,
		slowQueryThreshold: slowQueryThreshold,
		stopCh:             make(chan struct{}),
	}

	go m.logPeriodicSummary()

	return m
}

// RecordQuery records metrics for a database operation
func (m *Metrics) RecordQuery(queryType string, duration time.Duration, err error) {
	atomic.AddInt64(&m.queryCount, 1)
	atomic.AddInt64(&m.queryDuration, int64(duration))

	if err != nil {
		atomic.AddInt64(&m.errorCount, 1)
	}

	if duration > m.slowQueryThreshold {
		atomic.AddInt64(&m.slowQueryCount, 1)
	}

	switch queryType {
	case "exec":
		atomic.AddInt64(&m.execCount, 1)
	case "query":
		atomic.AddInt64(&m.selectCount, 1)
	case "query_row":
		atomic.AddInt64(&m.queryRowCount, 1)
	case "begin_tx":
		atomic.AddInt64(&m.txCount, 1)
	}
}

// Snapshot returns current metrics snapshot
func (m *Metrics) Snapshot() *MetricsSnapshot {
	queryCount := atomic.LoadInt64(&m.queryCount)
	totalDuration := atomic.LoadInt64(&m.queryDuration)

	var avgDuration time.Duration
	if queryCount > 0 {
		avgDuration = time.Duration(totalDuration / queryCount)
	}

	return &MetricsSnapshot{
		QueryCount:       queryCount,
		ErrorCount:       atomic.LoadInt64(&m.errorCount),
		SlowQueryCount:   atomic.LoadInt64(&m.slowQueryCount),
		AvgQueryDuration: avgDuration,
		DBStats:          m.db.Stats(),
		Timestamp:        time.Now(),
	}
}

func (m *Metrics) logPeriodicSummary() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			snapshot := m.Snapshot()
			m.logger.Info("database performance summary",
				zap.Int64("total_queries", snapshot.QueryCount),
				zap.Int64("errors", snapshot.ErrorCount),
				zap.Int64("slow_queries", snapshot.SlowQueryCount),
				zap.Duration("avg_query_duration", snapshot.AvgQueryDuration),
				zap.Int("open_connections", snapshot.DBStats.OpenConnections),
				zap.Int("idle_connections", snapshot.DBStats.Idle),
			)
		case <-m.stopCh:
			return
		}
	}
}

// Stop stops the metrics collection
func (m *Metrics) Stop() {
	close(m.stopCh)
}

// Reset resets all counters (useful for testing)
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.queryCount, 0)
	atomic.StoreInt64(&m.queryDuration, 0)
	atomic.StoreInt64(&m.errorCount, 0)
	atomic.StoreInt64(&m.slowQueryCount, 0)
	atomic.StoreInt64(&m.execCount, 0)
	atomic.StoreInt64(&m.selectCount, 0)
	atomic.StoreInt64(&m.queryRowCount, 0)
	atomic.StoreInt64(&m.txCount, 0)
}
