// file: internal/services/speech_service.go
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

// speechService implements SpeechService
type speechService struct {
	speechRepo repositories.SpeechRepository
	userRepo   repositories.UserRepository
	statusRepo repositories.StatusRepository
	tx         TxRunner
	cache      cache.Cache
	geoCfg     *config.GeoConfig
	logger     *zap.Logger
}

// NewSpeechService creates a new speech service
func NewSpeechService(
	speechRepo repositories.SpeechRepository,
	userRepo repositories.UserRepository,
	statusRepo repositories.StatusRepository,
	tx TxRunner,
	c cache.Cache,
	geoCfg *config.GeoConfig,
	logger *zap.Logger,
) SpeechService {
	return &speechService{
		speechRepo: speechRepo,
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

// CreateSpeech persists a speech and its Created status record in one
// transaction
func (s *speechService) CreateSpeech(ctx context.Context, req *CreateSpeechRequest) (*models.Speech, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid create speech request", err)
	}

	creator, err := s.userRepo.GetByID(ctx, req.CreatedBy)
	if err != nil {
		s.logger.Error("failed to load speech creator", zap.Error(err), zap.Int64("user_id", req.CreatedBy))
		return nil, NewInternalError("failed to create speech")
	}
	if creator == nil {
		return nil, EntityNotFoundError("user", req.CreatedBy)
	}

	speech := &models.Speech{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
		Category:    req.Category,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		PlatformURL: req.PlatformURL,
	}

	err = s.tx.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := s.speechRepo.Create(ctx, tx, speech); err != nil {
			return err
		}
		status, err := s.statusRepo.GetOrCreateForUpdate(ctx, tx, models.KindSpeech, speech.ID)
		if err != nil {
			return err
		}
		speech.Status = status
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create speech", zap.Error(err), zap.Int64("user_id", req.CreatedBy))
		return nil, NewInternalError("failed to create speech")
	}

	speech.Creator = creator.PublicProfile()
	s.invalidateListings(ctx)

	return speech, nil
}

// GetSpeechByID returns a speech enriched with its status and pick roster
func (s *speechService) GetSpeechByID(ctx context.Context, id int64) (*models.Speech, error) {
	if id <= 0 {
		return nil, NewValidationError("invalid speech ID", nil)
	}

	cacheKey := fmt.Sprintf("speech:%d", id)
	if cached, found := s.cache.Get(ctx, cacheKey); found {
		if speech, ok := cached.(*models.Speech); ok {
			return speech, nil
		}
	}

	speech, err := s.speechRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get speech", zap.Error(err), zap.Int64("speech_id", id))
		return nil, NewInternalError("failed to retrieve speech")
	}
	if speech == nil {
		return nil, EntityNotFoundError("speech", id)
	}

	if err := s.enrich(ctx, speech); err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, speech, 5*time.Minute); err != nil {
		s.logger.Warn("failed to cache speech", zap.Error(err), zap.Int64("speech_id", id))
	}

	return speech, nil
}

// ===============================
// LISTINGS
// ===============================

// ListSpeeches returns all speeches, newest first, paginated
func (s *speechService) ListSpeeches(ctx context.Context, page int) (*models.PaginatedResponse[*models.Speech], error) {
	speeches, err := s.speechRepo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list speeches", zap.Error(err))
		return nil, NewInternalError("failed to list speeches")
	}
	if err := s.attachStatuses(ctx, speeches); err != nil {
		return nil, err
	}
	return pagination.Paginate(speeches, pagination.DefaultPageSize, page), nil
}

// ListSpeechesByCategory returns speeches in a category, oldest first, paginated
func (s *speechService) ListSpeechesByCategory(ctx context.Context, category string, page int) (*models.PaginatedResponse[*models.Speech], error) {
	if category == "" {
		return nil, NewValidationError("category is required", nil)
	}

	speeches, err := s.speechRepo.ListByCategory(ctx, category)
	if err != nil {
		s.logger.Error("failed to list speeches by category", zap.Error(err), zap.String("category", category))
		return nil, NewInternalError("failed to list speeches")
	}
	if err := s.attachStatuses(ctx, speeches); err != nil {
		return nil, err
	}
	return pagination.Paginate(speeches, pagination.DefaultPageSize, page), nil
}

// ListSpeechesByUser returns a user's speeches, newest first, paginated
func (s *speechService) ListSpeechesByUser(ctx context.Context, userID int64, page int) (*models.PaginatedResponse[*models.Speech], error) {
	if userID <= 0 {
		return nil, NewValidationError("invalid user ID", nil)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewInternalError("failed to list speeches")
	}
	if user == nil {
		return nil, EntityNotFoundError("user", userID)
	}

	speeches, err := s.speechRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list user speeches", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewInternalError("failed to list speeches")
	}
	if err := s.attachStatuses(ctx, speeches); err != nil {
		return nil, err
	}
	return pagination.Paginate(speeches, pagination.DefaultPageSize, page), nil
}

// ListSpeechesNearby returns speeches within a radius of a point, paginated
func (s *speechService) ListSpeechesNearby(ctx context.Context, req *NearbyRequest) (*models.PaginatedResponse[*models.Speech], error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid nearby query", err)
	}

	radius := s.geoCfg.DefaultSpeechRadiusKm
	if req.RadiusKm != nil {
		radius = *req.RadiusKm
	}

	speeches, err := s.speechRepo.ListWithCoordinates(ctx)
	if err != nil {
		s.logger.Error("failed to list speeches with coordinates", zap.Error(err))
		return nil, NewInternalError("failed to list speeches")
	}

	nearby := geo.FilterByRadius(speeches, req.Latitude, req.Longitude, radius)
	if err := s.attachStatuses(ctx, nearby); err != nil {
		return nil, err
	}
	return pagination.Paginate(nearby, pagination.DefaultPageSize, req.Page), nil
}

// Categories returns the distinct speech categories
func (s *speechService) Categories(ctx context.Context) ([]string, error) {
	if cached, found := s.cache.Get(ctx, "speech:categories"); found {
		if categories, ok := cached.([]string); ok {
			return categories, nil
		}
	}

	categories, err := s.speechRepo.Categories(ctx)
	if err != nil {
		s.logger.Error("failed to list speech categories", zap.Error(err))
		return nil, NewInternalError("failed to list categories")
	}

	if err := s.cache.Set(ctx, "speech:categories", categories, 10*time.Minute); err != nil {
		s.logger.Warn("failed to cache speech categories", zap.Error(err))
	}

	return categories, nil
}

// ===============================
// ENRICHMENT
// ===============================

func (s *speechService) enrich(ctx context.Context, speech *models.Speech) error {
	status, err := s.statusRepo.GetByRequest(ctx, models.KindSpeech, speech.ID)
	if err != nil {
		s.logger.Error("failed to load speech status", zap.Error(err), zap.Int64("speech_id", speech.ID))
		return NewInternalError("failed to retrieve speech")
	}
	speech.Status = status

	pickers, err := s.statusRepo.ListPickers(ctx, models.KindSpeech, speech.ID)
	if err != nil {
		s.logger.Error("failed to load speech pickers", zap.Error(err), zap.Int64("speech_id", speech.ID))
		return NewInternalError("failed to retrieve speech")
	}
	speech.PickedBy = pickers

	return nil
}

func (s *speechService) attachStatuses(ctx context.Context, speeches []*models.Speech) error {
	if len(speeches) == 0 {
		return nil
	}

	ids := make([]int64, len(speeches))
	for i, sp := range speeches {
		ids[i] = sp.ID
	}

	statuses, err := s.statusRepo.GetByRequestIDs(ctx, models.KindSpeech, ids)
	if err != nil {
		s.logger.Error("failed to load speech statuses", zap.Error(err))
		return NewInternalError("failed to list speeches")
	}

	for _, sp := range speeches {
		sp.Status = statuses[sp.ID]
	}
	return nil
}

func (s *speechService) invalidateListings(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "speech:*"); err != nil {
		s.logger.Warn("failed to invalidate speech cache", zap.Error(err))
	}
}
