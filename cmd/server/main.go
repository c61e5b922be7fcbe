package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wishlink/internal/cache"
	"wishlink/internal/config"
	"wishlink/internal/database"
	"wishlink/internal/middleware"
	"wishlink/internal/repositories"
	"wishlink/internal/response"
	"wishlink/internal/router"
	"wishlink/internal/services"

	"go.uber.org/zap"
)

func main() {
	logger, err := initLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	logger.Info("Starting wishlink application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	if err := database.InitDB(cfg, logger); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	dbManager := database.GetDB()
	if dbManager == nil {
		logger.Fatal("Database connection is not initialized")
	}

	healthCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	healthStatus := database.Health(healthCtx)
	cancel()
	if healthStatus.Status != database.StatusHealthy {
		logger.Fatal("Database is not healthy",
			zap.String("status", healthStatus.Status),
			zap.Strings("errors", healthStatus.Errors),
		)
	}
	logger.Info("Database health check passed", zap.String("status", healthStatus.Status))

	cacheConfig := cache.DefaultConfig()
	cacheConfig.Provider = cfg.Cache.Provider
	cacheConfig.RedisURL = cfg.Cache.RedisURL
	if cfg.Cache.DefaultTTL > 0 {
		cacheConfig.TTL = cfg.Cache.DefaultTTL
	}
	cacheInstance, err := cache.NewCache(cacheConfig, logger)
	if err != nil {
		logger.Fatal("Failed to create cache", zap.Error(err))
	}

	repos, err := repositories.NewCollection(dbManager, logger)
	if err != nil {
		logger.Fatal("Failed to initialize repositories", zap.Error(err))
	}

	serviceCollection, err := services.NewServiceCollection(repos, cacheInstance, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	responseConfig := response.DefaultConfig()
	responseConfig.MaskInternalErrors = cfg.Server.Environment == "production"
	responseBuilder := response.NewBuilder(responseConfig, logger)

	authMiddleware := middleware.NewAuthMiddleware(serviceCollection.Auth, logger)

	handler := router.SetupRouter(
		serviceCollection,
		repos,
		authMiddleware,
		responseBuilder,
		&router.Config{CORSOrigin: os.Getenv("CORS_ORIGIN")},
		logger,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server",
			zap.String("address", server.Addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Shutting down application...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	} else {
		logger.Info("Server shutdown completed")
	}

	if err := serviceCollection.Close(); err != nil {
		logger.Error("Failed to close services", zap.Error(err))
	}

	if err := database.Close(); err != nil {
		logger.Error("Failed to close database connections", zap.Error(err))
	}

	logger.Info("Application shutdown completed")
}

// initLogger initializes the structured logger based on environment
func initLogger() (*zap.Logger, error) {
	env := os.Getenv("GO_ENV")
	var cfg zap.Config

	switch env {
	case "production":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "staging":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
