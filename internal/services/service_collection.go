// file: internal/services/service_collection.go
package services

import (
	"fmt"
	"sort"

	"wishlink/internal/cache"
	"wishlink/internal/config"
	"wishlink/internal/repositories"

	"go.uber.org/zap"
)

// ServiceCollection holds all service instances for dependency injection
type ServiceCollection struct {
	User        UserService
	Auth        AuthService
	Wish        WishService
	Speech      SpeechService
	Status      StatusService
	Fulfillment FulfillmentService

	repos  *repositories.Collection
	cache  cache.Cache
	logger *zap.Logger
}

// NewServiceCollection wires every service against the repository collection
func NewServiceCollection(
	repos *repositories.Collection,
	c cache.Cache,
	cfg *config.Config,
	logger *zap.Logger,
) (*ServiceCollection, error) {
	if repos == nil {
		return nil, fmt.Errorf("repository collection is required")
	}
	if c == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sc := &ServiceCollection{
		repos:  repos,
		cache:  c,
		logger: logger,
	}

	sc.User = NewUserService(repos.User, repos.Wish, repos.Speech, repos.Fulfillment, c, logger)
	sc.Auth = NewAuthService(repos.User, &cfg.Auth, logger)
	sc.Wish = NewWishService(repos.Wish, repos.User, repos.Status, repos, c, &cfg.Geo, logger)
	sc.Speech = NewSpeechService(repos.Speech, repos.User, repos.Status, repos, c, &cfg.Geo, logger)
	sc.Status = NewStatusService(repos.Status, repos.Wish, repos.Speech, repos.User, repos.Fulfillment, repos, c, &cfg.Status, logger)
	sc.Fulfillment = NewFulfillmentService(repos.Fulfillment, repos.Wish, repos.Speech, repos.User, repos.Status, logger)

	logger.Info("service collection initialized")

	return sc, nil
}

// Close releases resources held by the services
func (sc *ServiceCollection) Close() error {
	if sc.cache != nil {
		return sc.cache.Close()
	}
	return nil
}

// MergeCategories deduplicates category lists together with the fixed seed
// list and returns them sorted
func MergeCategories(lists ...[]string) []string {
	seen := make(map[string]struct{})
	merged := make([]string, 0)

	add := func(values []string) {
		for _, v := range values {
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			merged = append(merged, v)
		}
	}

	add(SeedCategories)
	for _, list := range lists {
		add(list)
	}

	sort.Strings(merged)
	return merged
}
