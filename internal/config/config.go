package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Status   StatusConfig
	Geo      GeoConfig
	Logging  LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
	MaxHeaderBytes  int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL                 string
	MaxOpenConns        int
	MaxIdleConns        int
	ConnMaxLifetime     time.Duration
	ConnMaxIdleTime     time.Duration
	SlowQueryThreshold  time.Duration
	EnableQueryLogging  bool
	EnableMetrics       bool
	HealthCheckInterval time.Duration
	MigrationsPath      string
	ConnectTimeout      time.Duration
	MaxConnectRetries   uint64
}

// CacheConfig holds cache provider configuration
type CacheConfig struct {
	Provider   string // memory or redis
	RedisURL   string
	DefaultTTL time.Duration
	KeyPrefix  string
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret  string
	JWTExpiry  time.Duration
	JWTIssuer  string
	BCryptCost int
}

// StatusConfig controls request lifecycle behavior
type StatusConfig struct {
	// RequirePickBeforeComplete rejects completion of requests that were
	// never picked. Off by default: a completion may arrive for a request
	// fulfilled out of band.
	RequirePickBeforeComplete bool
}

// GeoConfig holds radius defaults for nearby queries
type GeoConfig struct {
	DefaultWishRadiusKm   float64
	DefaultSpeechRadiusKm float64
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Load loads configuration from environment variables with validation
func Load() (*Config, error) {
	env := getEnv("GO_ENV", "development")
	if env != "production" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
		} else {
			_ = godotenv.Load()
		}
	}

	config := &Config{
		Server:   loadServerConfig(env),
		Database: loadDatabaseConfig(env),
		Cache:    loadCacheConfig(env),
		Auth:     loadAuthConfig(),
		Status:   loadStatusConfig(),
		Geo:      loadGeoConfig(),
		Logging:  loadLoggingConfig(env),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadServerConfig(env string) ServerConfig {
	return ServerConfig{
		Port:            getEnv("PORT", "9000"),
		Host:            getEnv("SERVER_HOST", "0.0.0.0"),
		Environment:     env,
		ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
		GracefulTimeout: getDurationEnv("GRACEFUL_TIMEOUT", 30*time.Second),
		MaxHeaderBytes:  getIntEnv("MAX_HEADER_BYTES", 1<<20),
	}
}

func loadDatabaseConfig(env string) DatabaseConfig {
	var defaultMaxOpen, defaultMaxIdle int
	var defaultConnLifetime time.Duration

	switch env {
	case "production":
		defaultMaxOpen = 50
		defaultMaxIdle = 20
		defaultConnLifetime = 15 * time.Minute
	case "staging":
		defaultMaxOpen = 25
		defaultMaxIdle = 10
		defaultConnLifetime = 10 * time.Minute
	default: // development
		defaultMaxOpen = 10
		defaultMaxIdle = 5
		defaultConnLifetime = 5 * time.Minute
	}

	return DatabaseConfig{
		URL:                 os.Getenv("DATABASE_URL"),
		MaxOpenConns:        getIntEnv("DB_MAX_OPEN_CONNS", defaultMaxOpen),
		MaxIdleConns:        getIntEnv("DB_MAX_IDLE_CONNS", defaultMaxIdle),
		ConnMaxLifetime:     getDurationEnv("DB_CONN_MAX_LIFETIME", defaultConnLifetime),
		ConnMaxIdleTime:     getDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		SlowQueryThreshold:  getDurationEnv("DB_SLOW_QUERY_THRESHOLD", 100*time.Millisecond),
		EnableQueryLogging:  getBoolEnv("DB_ENABLE_QUERY_LOGGING", env == "development"),
		EnableMetrics:       getBoolEnv("DB_ENABLE_METRICS", true),
		HealthCheckInterval: getDurationEnv("DB_HEALTH_CHECK_INTERVAL", 30*time.Second),
		MigrationsPath:      getEnv("DB_MIGRATIONS_PATH", "./migrations"),
		ConnectTimeout:      getDurationEnv("DB_CONNECT_TIMEOUT", 10*time.Second),
		MaxConnectRetries:   uint64(getIntEnv("DB_MAX_CONNECT_RETRIES", 5)),
	}
}

func loadCacheConfig(env string) CacheConfig {
	provider := getEnv("CACHE_PROVIDER", "memory")
	if env == "production" && os.Getenv("REDIS_URL") != "" {
		provider = getEnv("CACHE_PROVIDER", "redis")
	}

	return CacheConfig{
		Provider:   provider,
		RedisURL:   os.Getenv("REDIS_URL"),
		DefaultTTL: getDurationEnv("CACHE_DEFAULT_TTL", 5*time.Minute),
		KeyPrefix:  getEnv("CACHE_KEY_PREFIX", "wishlink"),
	}
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTExpiry:  getDurationEnv("JWT_EXPIRY", 24*time.Hour),
		JWTIssuer:  getEnv("JWT_ISSUER", "wishlink"),
		BCryptCost: getIntEnv("BCRYPT_COST", 12),
	}
}

func loadStatusConfig() StatusConfig {
	return StatusConfig{
		RequirePickBeforeComplete: getBoolEnv("STATUS_REQUIRE_PICK_BEFORE_COMPLETE", false),
	}
}

func loadGeoConfig() GeoConfig {
	return GeoConfig{
		DefaultWishRadiusKm:   getFloat64Env("GEO_DEFAULT_WISH_RADIUS_KM", 10),
		DefaultSpeechRadiusKm: getFloat64Env("GEO_DEFAULT_SPEECH_RADIUS_KM", 20),
	}
}

func loadLoggingConfig(env string) LoggingConfig {
	return LoggingConfig{
		Level:  getEnv("LOG_LEVEL", getDefaultLogLevel(env)),
		Format: getEnv("LOG_FORMAT", getDefaultLogFormat(env)),
		Output: getEnv("LOG_OUTPUT", "stdout"),
	}
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	if err := c.Auth.Validate(c.Server.Environment); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}

	if err := c.Geo.Validate(); err != nil {
		return fmt.Errorf("geo config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (s *ServerConfig) Validate() error {
	if s.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if s.ReadTimeout <= 0 {
		return fmt.Errorf("ReadTimeout must be positive")
	}

	if s.WriteTimeout <= 0 {
		return fmt.Errorf("WriteTimeout must be positive")
	}

	return nil
}

// Validate validates database configuration
func (d *DatabaseConfig) Validate() error {
	if d.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if d.MaxOpenConns <= 0 {
		return fmt.Errorf("MaxOpenConns must be positive")
	}

	if d.MaxIdleConns < 0 {
		return fmt.Errorf("MaxIdleConns cannot be negative")
	}

	if d.MaxIdleConns > d.MaxOpenConns {
		return fmt.Errorf("MaxIdleConns cannot be greater than MaxOpenConns")
	}

	if d.ConnMaxLifetime <= 0 {
		return fmt.Errorf("ConnMaxLifetime must be positive")
	}

	if d.SlowQueryThreshold <= 0 {
		return fmt.Errorf("SlowQueryThreshold must be positive")
	}

	return nil
}

// Validate validates auth configuration
func (a *AuthConfig) Validate(env string) error {
	if env == "production" && a.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set for production")
	}

	if a.BCryptCost < 4 || a.BCryptCost > 31 {
		return fmt.Errorf("BCryptCost must be between 4 and 31")
	}

	if a.JWTExpiry <= 0 {
		return fmt.Errorf("JWTExpiry must be positive")
	}

	return nil
}

// Validate validates geo configuration
func (g *GeoConfig) Validate() error {
	if g.DefaultWishRadiusKm < 0 || g.DefaultSpeechRadiusKm < 0 {
		return fmt.Errorf("default radius cannot be negative")
	}
	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloat64Env(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getDefaultLogLevel(env string) string {
	switch env {
	case "production":
		return "info"
	default:
		return "debug"
	}
}

func getDefaultLogFormat(env string) string {
	switch env {
	case "production":
		return "json"
	default:
		return "console"
	}
}
