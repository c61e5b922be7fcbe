// file: internal/services/wish_service.go
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wishlink/internal/cache"
	"wishlink/internal/config"
	"wishlink/internal/geo"
	"wishlink/internal/models"
	"wishlink/internal/pagination"
	"wishlink/internal/repositories"
	"wishlink/internal/validation"

	"go.uber.org/zap"
)

// TxRunner executes a function inside one database transaction. Satisfied by
// *repositories.Collection.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error
}

// wishService implements WishService
type wishService struct {
	wishRepo   repositories.WishRepository
	userRepo   repositories.UserRepository
	statusRepo repositories.StatusRepository
	tx         TxRunner
	cache      cache.Cache
	geoCfg     *config.GeoConfig
	logger     *zap.Logger
}

// NewWishService creates a new wish service
func NewWishService(
	wishRepo repositories.WishRepository,
	userRepo repositories.UserRepository,
	statusRepo repositories.StatusRepository,
	tx TxRunner,
	c cache.Cache,
	geoCfg *config.GeoConfig,
	logger *zap.Logger,
) WishService {
	return &wishService{
		wishRepo:   wishRepo,
		userRepo:   userRepo,
		statusRepo: statusRepo,
		tx:         tx,
		cache:      c,
		geoCfg:     geoCfg,
		logger:     logger,
	}
}

// ===============================
// CRUD OPERATIONS
// ===============================

// CreateWish persists a wish and its Created status record in one transaction
func (s *wishService) CreateWish(ctx context.Context, req *CreateWishRequest) (*models.Wish, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid create wish request", err)
	}

	creator, err := s.userRepo.GetByID(ctx, req.CreatedBy)
	if err != nil {
		s.logger.Error("failed to load wish creator", zap.Error(err), zap.Int64("user_id", req.CreatedBy))
		return nil, NewInternalError("failed to create wish")
	}
	if creator == nil {
		return nil, EntityNotFoundError("user", req.CreatedBy)
	}

	wish := &models.Wish{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
		Category:    req.Category,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}

	err = s.tx.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := s.wishRepo.Create(ctx, tx, wish); err != nil {
			return err
		}
		status, err := s.statusRepo.GetOrCreateForUpdate(ctx, tx, models.KindWish, wish.ID)
		if err != nil {
			return err
		}
		wish.Status = status
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create wish", zap.Error(err), zap.Int64("user_id", req.CreatedBy))
		return nil, NewInternalError("failed to create wish")
	}

	wish.Creator = creator.PublicProfile()
	s.invalidateListings(ctx)

	return wish, nil
}

// GetWishByID returns a wish enriched with its status and pick roster
func (s *wishService) GetWishByID(ctx context.Context, id int64) (*models.Wish, error) {
	if id <= 0 {
		return nil, NewValidationError("invalid wish ID", nil)
	}

	cacheKey := fmt.Sprintf("wish:%d", id)
	if cached, found := s.cache.Get(ctx, cacheKey); found {
		if wish, ok := cached.(*models.Wish); ok {
			return wish, nil
		}
	}

	wish, err := s.wishRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get wish", zap.Error(err), zap.Int64("wish_id", id))
		return nil, NewInternalError("failed to retrieve wish")
	}
	if wish == nil {
		return nil, EntityNotFoundError("wish", id)
	}

	if err := s.enrich(ctx, wish); err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, wish, 5*time.Minute); err != nil {
		s.logger.Warn("failed to cache wish", zap.Error(err), zap.Int64("wish_id", id))
	}

	return wish, nil
}

// ===============================
// LISTINGS
// ===============================

// ListWishes returns all wishes, newest first, paginated
func (s *wishService) ListWishes(ctx context.Context, page int) (*models.PaginatedResponse[*models.Wish], error) {
	wishes, err := s.wishRepo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list wishes", zap.Error(err))
		return nil, NewInternalError("failed to list wishes")
	}
	if err := s.attachStatuses(ctx, wishes); err != nil {
		return nil, err
	}
	return pagination.Paginate(wishes, pagination.DefaultPageSize, page), nil
}

// ListWishesByCategory returns wishes in a category, oldest first, paginated
func (s *wishService) ListWishesByCategory(ctx context.Context, category string, page int) (*models.PaginatedResponse[*models.Wish], error) {
	if category == "" {
		return nil, NewValidationError("category is required", nil)
	}

	wishes, err := s.wishRepo.ListByCategory(ctx, category)
	if err != nil {
		s.logger.Error("failed to list wishes by category", zap.Error(err), zap.String("category", category))
		return nil, NewInternalError("failed to list wishes")
	}
	if err := s.attachStatuses(ctx, wishes); err != nil {
		return nil, err
	}
	return pagination.Paginate(wishes, pagination.DefaultPageSize, page), nil
}

// ListWishesByUser returns a user's wishes, newest first, paginated
func (s *wishService) ListWishesByUser(ctx context.Context, userID int64, page int) (*models.PaginatedResponse[*models.Wish], error) {
	if userID <= 0 {
		return nil, NewValidationError("invalid user ID", nil)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewInternalError("failed to list wishes")
	}
	if user == nil {
		return nil, EntityNotFoundError("user", userID)
	}

	wishes, err := s.wishRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list user wishes", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewInternalError("failed to list wishes")
	}
	if err := s.attachStatuses(ctx, wishes); err != nil {
		return nil, err
	}
	return pagination.Paginate(wishes, pagination.DefaultPageSize, page), nil
}

// ListWishesNearby returns wishes within a radius of a point, paginated
func (s *wishService) ListWishesNearby(ctx context.Context, req *NearbyRequest) (*models.PaginatedResponse[*models.Wish], error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid nearby query", err)
	}

	radius := s.geoCfg.DefaultWishRadiusKm
	if req.RadiusKm != nil {
		radius = *req.RadiusKm
	}

	wishes, err := s.wishRepo.ListWithCoordinates(ctx)
	if err != nil {
		s.logger.Error("failed to list wishes with coordinates", zap.Error(err))
		return nil, NewInternalError("failed to list wishes")
	}

	nearby := geo.FilterByRadius(wishes, req.Latitude, req.Longitude, radius)
	if err := s.attachStatuses(ctx, nearby); err != nil {
		return nil, err
	}
	return pagination.Paginate(nearby, pagination.DefaultPageSize, req.Page), nil
}

// Categories returns the distinct wish categories
func (s *wishService) Categories(ctx context.Context) ([]string, error) {
	if cached, found := s.cache.Get(ctx, "wish:categories"); found {
		if categories, ok := cached.([]string); ok {
			return categories, nil
		}
	}

	categories, err := s.wishRepo.Categories(ctx)
	if err != nil {
		s.logger.Error("failed to list wish categories", zap.Error(err))
		return nil, NewInternalError("failed to list categories")
	}

	if err := s.cache.Set(ctx, "wish:categories", categories, 10*time.Minute); err != nil {
		s.logger.Warn("failed to cache wish categories", zap.Error(err))
	}

	return categories, nil
}

// ===============================
// ENRICHMENT
// ===============================

func (s *wishService) enrich(ctx context.Context, wish *models.Wish) error {
	status, err := s.statusRepo.GetByRequest(ctx, models.KindWish, wish.ID)
	if err != nil {
		s.logger.Error("failed to load wish status", zap.Error(err), zap.Int64("wish_id", wish.ID))
		return NewInternalError("failed to retrieve wish")
	}
	wish.Status = status

	pickers, err := s.statusRepo.ListPickers(ctx, models.KindWish, wish.ID)
	if err != nil {
		s.logger.Error("failed to load wish pickers", zap.Error(err), zap.Int64("wish_id", wish.ID))
		return NewInternalError("failed to retrieve wish")
	}
	wish.PickedBy = pickers

	return nil
}

func (s *wishService) attachStatuses(ctx context.Context, wishes []*models.Wish) error {
	if len(wishes) == 0 {
		return nil
	}

	ids := make([]int64, len(wishes))
	for i, w := range wishes {
		ids[i] = w.ID
	}

	statuses, err := s.statusRepo.GetByRequestIDs(ctx, models.KindWish, ids)
	if err != nil {
		s.logger.Error("failed to load wish statuses", zap.Error(err))
		return NewInternalError("failed to list wishes")
	}

	for _, w := range wishes {
		w.Status = statuses[w.ID]
	}
	return nil
}

func (s *wishService) invalidateListings(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "wish:*"); err != nil {
		s.logger.Warn("failed to invalidate wish cache", zap.Error(err))
	}
}
