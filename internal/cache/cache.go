// internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ===============================
// CACHE INTERFACE
// ===============================

// Cache defines the caching interface shared by the memory and redis providers
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) bool
	DeletePattern(ctx context.Context, pattern string) error
	Clear(ctx context.Context) error
	Health(ctx context.Context) error
	Close() error
}

// Config holds cache configuration
type Config struct {
	Provider        string        `json:"provider"` // "memory" or "redis"
	TTL             time.Duration `json:"ttl"`
	MaxKeys         int           `json:"max_keys"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
	RedisURL        string        `json:"redis_url"`
	PoolSize        int           `json:"pool_size"`
}

// DefaultConfig returns a default cache configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:        "memory",
		TTL:             5 * time.Minute,
		MaxKeys:         10000,
		CleanupInterval: 5 * time.Minute,
		PoolSize:        10,
	}
}

// NewCache creates a cache instance based on configuration
func NewCache(config *Config, logger *zap.Logger) (Cache, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	switch strings.ToLower(config.Provider) {
	case "redis":
		return NewRedisCache(config, logger)
	case "memory", "":
		logger.Info("using in-memory cache")
		return NewMemoryCache(config, logger), nil
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", config.Provider)
	}
}

// ===============================
// MEMORY CACHE IMPLEMENTATION
// ===============================

type memoryCache struct {
	mu              sync.RWMutex
	items           map[string]*cacheItem
	maxKeys         int
	cleanupInterval time.Duration
	logger          *zap.Logger
	stopCh          chan struct{}
}

type cacheItem struct {
	Value      interface{}
	ExpiresAt  time.Time
	AccessedAt time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(config *Config, logger *zap.Logger) Cache {
	c := &memoryCache{
		items:           make(map[string]*cacheItem),
		maxKeys:         config.MaxKeys,
		cleanupInterval: config.CleanupInterval,
		logger:          logger,
		stopCh:          make(chan struct{}),
	}

	go c.cleanup()

	return c
}

func (c *memoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[key]
	if !exists {
		return nil, false
	}

	if time.Now().After(item.ExpiresAt) {
		delete(c.items, key)
		return nil, false
	}

	item.AccessedAt = time.Now()
	return item.Value, true
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) >= c.maxKeys {
		c.evictLRU()
	}

	now := time.Now()
	c.items[key] = &cacheItem{
		Value:      value,
		ExpiresAt:  now.Add(ttl),
		AccessedAt: now,
	}

	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) bool {
	_, found := c.Get(ctx, key)
	return found
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		if matchPattern(key, pattern) {
			delete(c.items, key)
		}
	}

	return nil
}

func (c *memoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*cacheItem)
	return nil
}

func (c *memoryCache) Health(ctx context.Context) error {
	testKey := "__health_check__"
	if err := c.Set(ctx, testKey, 1, time.Minute); err != nil {
		return fmt.Errorf("cache health check failed: %w", err)
	}
	if _, found := c.Get(ctx, testKey); !found {
		return fmt.Errorf("cache health check failed: unable to read back value")
	}
	return c.Delete(ctx, testKey)
}

func (c *memoryCache) Close() error {
	close(c.stopCh)
	return nil
}

func (c *memoryCache) cleanup() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-c.stopCh:
			return
		}
	}
}

func (c *memoryCache) cleanupExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, item := range c.items {
		if now.After(item.ExpiresAt) {
			delete(c.items, key)
			removed++
		}
	}

	if removed > 0 {
		c.logger.Debug("cleaned up expired cache items",
			zap.Int("expired_count", removed),
			zap.Int("remaining_count", len(c.items)),
		)
	}
}

// evictLRU evicts the least recently used item. Caller holds the lock.
func (c *memoryCache) evictLRU() {
	var oldestKey string
	var oldestTime time.Time

	for key, item := range c.items {
		if oldestKey == "" || item.AccessedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.AccessedAt
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}

// matchPattern performs simple wildcard pattern matching
func matchPattern(str, pattern string) bool {
	if pattern == "*" {
		return true
	}

	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(str, strings.TrimSuffix(pattern, "*"))
	}

	if strings.HasPrefix(pattern, "*") {
		return strings.HasSuffix(str, strings.TrimPrefix(pattern, "*"))
	}

	return str == pattern
}

// ===============================
// REDIS CACHE IMPLEMENTATION
// ===============================

type redisCache struct {
	client *redis.Client
	logger *zap.Logger
	config *Config
}

// NewRedisCache creates a new Redis-based cache
func NewRedisCache(config *Config, logger *zap.Logger) (Cache, error) {
	if config == nil {
		return nil, fmt.Errorf("cache config cannot be nil")
	}

	options, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if config.PoolSize > 0 {
		options.PoolSize = config.PoolSize
	}

	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("redis cache initialized", zap.String("addr", options.Addr))

	return &redisCache{client: client, logger: logger, config: config}, nil
}

func (r *redisCache) Get(ctx context.Context, key string) (interface{}, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	} else if err != nil {
		r.logger.Error("failed to get from redis", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var result interface{}
	if err := json.Unmarshal([]byte(val), &result); err == nil {
		return result, true
	}

	return val, true
}

func (r *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	var val string
	switch v := value.(type) {
	case string:
		val = v
	case []byte:
		val = string(v)
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal value: %w", err)
		}
		val = string(data)
	}

	if ttl <= 0 {
		ttl = r.config.TTL
	}

	return r.client.Set(ctx, key, val, ttl).Err()
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCache) Exists(ctx context.Context, key string) bool {
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("failed to check key existence", zap.String("key", key), zap.Error(err))
		return false
	}
	return exists > 0
}

func (r *redisCache) DeletePattern(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		// Delete in batches so a large keyspace does not block redis
		if len(keys) >= 1000 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}

	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}

	return nil
}

func (r *redisCache) Clear(ctx context.Context) error {
	return r.client.FlushDB(ctx).Err()
}

func (r *redisCache) Health(ctx context.Context) error {
	_, err := r.client.Ping(ctx).Result()
	return err
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
