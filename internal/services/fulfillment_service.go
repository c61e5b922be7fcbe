// file: internal/services/fulfillment_service.go
package services

import (
	"context"

	"wishlink/internal/models"
	"wishlink/internal/pagination"
	"wishlink/internal/repositories"
	"wishlink/internal/validation"

	"go.uber.org/zap"
)

// fulfillmentService implements FulfillmentService
type fulfillmentService struct {
	fulfillmentRepo repositories.FulfillmentRepository
	wishRepo        repositories.WishRepository
	speechRepo      repositories.SpeechRepository
	userRepo        repositories.UserRepository
	statusRepo      repositories.StatusRepository
	logger          *zap.Logger
}

// NewFulfillmentService creates a new fulfillment service
func NewFulfillmentService(
	fulfillmentRepo repositories.FulfillmentRepository,
	wishRepo repositories.WishRepository,
	speechRepo repositories.SpeechRepository,
	userRepo repositories.UserRepository,
	statusRepo repositories.StatusRepository,
	logger *zap.Logger,
) FulfillmentService {
	return &fulfillmentService{
		fulfillmentRepo: fulfillmentRepo,
		wishRepo:        wishRepo,
		speechRepo:      speechRepo,
		userRepo:        userRepo,
		statusRepo:      statusRepo,
		logger:          logger,
	}
}

func (s *fulfillmentService) requestExists(ctx context.Context, kind models.RequestKind, requestID int64) (bool, error) {
	if kind == models.KindWish {
		return s.wishRepo.Exists(ctx, requestID)
	}
	return s.speechRepo.Exists(ctx, requestID)
}

// ===============================
// SUBMISSIONS
// ===============================

// Submit records proof of work against exactly one wish or speech. The status
// record is untouched; completion is a separate, explicit step.
func (s *fulfillmentService) Submit(ctx context.Context, req *SubmitFulfillmentRequest) (*models.Fulfillment, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid fulfillment request", err)
	}

	target := &FulfillmentSearchRequest{WishID: req.WishID, SpeechID: req.SpeechID}
	kind, requestID, ok := target.Kind()
	if !ok {
		return nil, NewValidationError("exactly one of wish_id and speech_id must be set", nil)
	}

	exists, err := s.requestExists(ctx, kind, requestID)
	if err != nil {
		s.logger.Error("failed to check request", zap.Error(err), zap.Int64("request_id", requestID))
		return nil, NewInternalError("failed to submit fulfillment")
	}
	if !exists {
		return nil, EntityNotFoundError(string(kind), requestID)
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		s.logger.Error("failed to load submitting user", zap.Error(err), zap.Int64("user_id", req.UserID))
		return nil, NewInternalError("failed to submit fulfillment")
	}
	if user == nil {
		return nil, EntityNotFoundError("user", req.UserID)
	}

	fulfillment := &models.Fulfillment{
		WishID:      req.WishID,
		SpeechID:    req.SpeechID,
		UserID:      req.UserID,
		URLs:        models.URLList(req.URLs),
		Description: req.Description,
		Platform:    req.Platform,
	}

	if err := s.fulfillmentRepo.Create(ctx, fulfillment); err != nil {
		s.logger.Error("failed to create fulfillment", zap.Error(err), zap.Int64("user_id", req.UserID))
		return nil, NewInternalError("failed to submit fulfillment")
	}

	fulfillment.Submitter = user.PublicProfile()
	return fulfillment, nil
}

// GetFulfillmentByID retrieves one submission
func (s *fulfillmentService) GetFulfillmentByID(ctx context.Context, id int64) (*models.Fulfillment, error) {
	if id <= 0 {
		return nil, NewValidationError("invalid fulfillment ID", nil)
	}

	fulfillment, err := s.fulfillmentRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get fulfillment", zap.Error(err), zap.Int64("fulfillment_id", id))
		return nil, NewInternalError("failed to retrieve fulfillment")
	}
	if fulfillment == nil {
		return nil, EntityNotFoundError("fulfillment", id)
	}

	return fulfillment, nil
}

// ListForRequest returns all submissions against one request, oldest first
func (s *fulfillmentService) ListForRequest(ctx context.Context, req *FulfillmentSearchRequest) ([]*models.Fulfillment, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid fulfillment search", err)
	}

	kind, requestID, ok := req.Kind()
	if !ok {
		return nil, NewValidationError("exactly one of wish_id and speech_id must be set", nil)
	}

	exists, err := s.requestExists(ctx, kind, requestID)
	if err != nil {
		s.logger.Error("failed to check request", zap.Error(err), zap.Int64("request_id", requestID))
		return nil, NewInternalError("failed to list fulfillments")
	}
	if !exists {
		return nil, EntityNotFoundError(string(kind), requestID)
	}

	fulfillments, err := s.fulfillmentRepo.ListByRequest(ctx, kind, requestID)
	if err != nil {
		s.logger.Error("failed to list fulfillments", zap.Error(err), zap.Int64("request_id", requestID))
		return nil, NewInternalError("failed to list fulfillments")
	}

	return fulfillments, nil
}

// ===============================
// EVENTS FEED
// ===============================

// ListEvents returns every fulfillment joined with its request, newest first,
// optionally only those whose request reached Completed
func (s *fulfillmentService) ListEvents(ctx context.Context, completedOnly bool, page int) (*models.PaginatedResponse[*models.Event], error) {
	fulfillments, err := s.fulfillmentRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list fulfillments", zap.Error(err))
		return nil, NewInternalError("failed to list events")
	}

	events := make([]*models.Event, 0, len(fulfillments))
	for _, f := range fulfillments {
		event, err := s.buildEvent(ctx, f)
		if err != nil {
			return nil, err
		}
		if completedOnly && !event.Completed {
			continue
		}
		events = append(events, event)
	}

	return pagination.Paginate(events, pagination.DefaultPageSize, page), nil
}

// LatestFor returns the earliest submission for a request with the full
// request view
func (s *fulfillmentService) LatestFor(ctx context.Context, kind models.RequestKind, requestID int64) (*models.Event, error) {
	if !kind.Valid() {
		return nil, NewValidationError("unknown request kind", nil)
	}

	exists, err := s.requestExists(ctx, kind, requestID)
	if err != nil {
		s.logger.Error("failed to check request", zap.Error(err), zap.Int64("request_id", requestID))
		return nil, NewInternalError("failed to retrieve event")
	}
	if !exists {
		return nil, EntityNotFoundError(string(kind), requestID)
	}

	fulfillment, err := s.fulfillmentRepo.FirstForRequest(ctx, kind, requestID)
	if err != nil {
		s.logger.Error("failed to get first fulfillment", zap.Error(err), zap.Int64("request_id", requestID))
		return nil, NewInternalError("failed to retrieve event")
	}
	if fulfillment == nil {
		return nil, NewNotFoundError("no fulfillments submitted for this request")
	}

	return s.buildEvent(ctx, fulfillment)
}

func (s *fulfillmentService) buildEvent(ctx context.Context, f *models.Fulfillment) (*models.Event, error) {
	event := &models.Event{
		Fulfillment: f,
		Kind:        f.Kind(),
	}

	status, err := s.statusRepo.GetByRequest(ctx, event.Kind, f.RequestID())
	if err != nil {
		s.logger.Error("failed to load event status", zap.Error(err), zap.Int64("fulfillment_id", f.ID))
		return nil, NewInternalError("failed to build event")
	}
	event.Completed = status != nil && status.Status == models.StatusCompleted

	switch event.Kind {
	case models.KindWish:
		wish, err := s.wishRepo.GetByID(ctx, *f.WishID)
		if err != nil {
			s.logger.Error("failed to load event wish", zap.Error(err), zap.Int64("wish_id", *f.WishID))
			return nil, NewInternalError("failed to build event")
		}
		if wish != nil {
			wish.Status = status
		}
		event.Wish = wish
	case models.KindSpeech:
		speech, err := s.speechRepo.GetByID(ctx, *f.SpeechID)
		if err != nil {
			s.logger.Error("failed to load event speech", zap.Error(err), zap.Int64("speech_id", *f.SpeechID))
			return nil, NewInternalError("failed to build event")
		}
		if speech != nil {
			speech.Status = status
		}
		event.Speech = speech
	}

	return event, nil
}
