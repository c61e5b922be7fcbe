// file: internal/services/status_service.go
package services

import (
	"context"
	"database/sql"

	"wishlink/internal/cache"
	"wishlink/internal/config"
	"wishlink/internal/models"
	"wishlink/internal/repositories"
	"wishlink/internal/validation"

	"go.uber.org/zap"
)

// statusService implements StatusService. Pick and Complete serialize per
// request by locking the status row for the whole read-check-write sequence.
type statusService struct {
	statusRepo      repositories.StatusRepository
	wishRepo        repositories.WishRepository
	speechRepo      repositories.SpeechRepository
	userRepo        repositories.UserRepository
	fulfillmentRepo repositories.FulfillmentRepository
	tx              TxRunner
	cache           cache.Cache
	cfg             *config.StatusConfig
	logger          *zap.Logger
}

// NewStatusService creates a new status service
func NewStatusService(
	statusRepo repositories.StatusRepository,
	wishRepo repositories.WishRepository,
	speechRepo repositories.SpeechRepository,
	userRepo repositories.UserRepository,
	fulfillmentRepo repositories.FulfillmentRepository,
	tx TxRunner,
	c cache.Cache,
	cfg *config.StatusConfig,
	logger *zap.Logger,
) StatusService {
	return &statusService{
		statusRepo:      statusRepo,
		wishRepo:        wishRepo,
		speechRepo:      speechRepo,
		userRepo:        userRepo,
		fulfillmentRepo: fulfillmentRepo,
		tx:              tx,
		cache:           c,
		cfg:             cfg,
		logger:          logger,
	}
}

func (s *statusService) requestExists(ctx context.Context, kind models.RequestKind, requestID int64) (bool, error) {
	switch kind {
	case models.KindWish:
		return s.wishRepo.Exists(ctx, requestID)
	case models.KindSpeech:
		return s.speechRepo.Exists(ctx, requestID)
	default:
		return false, NewValidationError("unknown request kind", nil)
	}
}

func (s *statusService) setRequestPicked(ctx context.Context, tx *sql.Tx, kind models.RequestKind, requestID int64) error {
	if kind == models.KindWish {
		return s.wishRepo.SetPicked(ctx, tx, requestID, true)
	}
	return s.speechRepo.SetPicked(ctx, tx, requestID, true)
}

func (s *statusService) setSelectedFulfillment(ctx context.Context, tx *sql.Tx, kind models.RequestKind, requestID, fulfillmentID int64) error {
	if kind == models.KindWish {
		return s.wishRepo.SetSelectedFulfillment(ctx, tx, requestID, fulfillmentID)
	}
	return s.speechRepo.SetSelectedFulfillment(ctx, tx, requestID, fulfillmentID)
}

func (s *statusService) invalidate(ctx context.Context, kind models.RequestKind) {
	pattern := "wish:*"
	if kind == models.KindSpeech {
		pattern = "speech:*"
	}
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		s.logger.Warn("failed to invalidate request cache", zap.Error(err))
	}
}

// ===============================
// LIFECYCLE OPERATIONS
// ===============================

// EnsureStatus get-or-creates the status record for a request. Idempotent.
func (s *statusService) EnsureStatus(ctx context.Context, kind models.RequestKind, requestID int64) (*models.StatusRecord, error) {
	if !kind.Valid() {
		return nil, NewValidationError("unknown request kind", nil)
	}
	if requestID <= 0 {
		return nil, NewValidationError("invalid request ID", nil)
	}

	exists, err := s.requestExists(ctx, kind, requestID)
	if err != nil {
		s.logger.Error("failed to check request", zap.Error(err), zap.Int64("request_id", requestID))
		return nil, NewInternalError("failed to ensure status")
	}
	if !exists {
		return nil, EntityNotFoundError(string(kind), requestID)
	}

	record, err := s.statusRepo.GetOrCreate(ctx, kind, requestID)
	if err != nil {
		s.logger.Error("failed to ensure status", zap.Error(err), zap.Int64("request_id", requestID))
		return nil, NewInternalError("failed to ensure status")
	}
	return record, nil
}

// GetStatus returns the status record with its pick roster
func (s *statusService) GetStatus(ctx context.Context, kind models.RequestKind, requestID int64) (*models.StatusRecord, error) {
	if !kind.Valid() {
		return nil, NewValidationError("unknown request kind", nil)
	}

	record, err := s.statusRepo.GetByRequest(ctx, kind, requestID)
	if err != nil {
		s.logger.Error("failed to get status", zap.Error(err), zap.Int64("request_id", requestID))
		return nil, NewInternalError("failed to retrieve status")
	}
	if record == nil {
		return nil, EntityNotFoundError("status", requestID)
	}

	pickers, err := s.statusRepo.ListPickers(ctx, kind, requestID)
	if err != nil {
		s.logger.Error("failed to list pickers", zap.Error(err), zap.Int64("request_id", requestID))
		return nil, NewInternalError("failed to retrieve status")
	}
	record.PickedBy = pickers

	return record, nil
}

// Pick adds a user to the pick roster and moves the request to In-Progress.
// The status row stays locked from the membership check through the writes,
// so two concurrent picks by the same user cannot both pass.
func (s *statusService) Pick(ctx context.Context, req *PickRequest) (*models.StatusRecord, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid pick request", err)
	}
	if !req.Kind.Valid() {
		return nil, NewValidationError("unknown request kind", nil)
	}

	exists, err := s.requestExists(ctx, req.Kind, req.RequestID)
	if err != nil {
		s.logger.Error("failed to check request", zap.Error(err), zap.Int64("request_id", req.RequestID))
		return nil, NewInternalError("failed to pick request")
	}
	if !exists {
		return nil, EntityNotFoundError(string(req.Kind), req.RequestID)
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		s.logger.Error("failed to load picking user", zap.Error(err), zap.Int64("user_id", req.UserID))
		return nil, NewInternalError("failed to pick request")
	}
	if user == nil {
		return nil, EntityNotFoundError("user", req.UserID)
	}

	var record *models.StatusRecord
	err = s.tx.WithTransaction(ctx, func(tx *sql.Tx) error {
		record, err = s.statusRepo.GetOrCreateForUpdate(ctx, tx, req.Kind, req.RequestID)
		if err != nil {
			return err
		}

		picked, err := s.statusRepo.HasPicked(ctx, tx, req.Kind, record.ID, req.UserID)
		if err != nil {
			return err
		}
		if picked {
			return NewBusinessError("user has already picked this request", CodeAlreadyPicked)
		}

		if err := s.statusRepo.AddPick(ctx, tx, req.Kind, record.ID, req.UserID); err != nil {
			return err
		}
		if err := s.statusRepo.SetStatus(ctx, tx, req.Kind, record.ID, models.StatusInProgress); err != nil {
			return err
		}
		return s.setRequestPicked(ctx, tx, req.Kind, req.RequestID)
	})
	if err != nil {
		if IsServiceError(err) {
			return nil, err
		}
		s.logger.Error("failed to pick request",
			zap.Error(err),
			zap.String("kind", string(req.Kind)),
			zap.Int64("request_id", req.RequestID),
			zap.Int64("user_id", req.UserID),
		)
		return nil, NewInternalError("failed to pick request")
	}

	record.Status = models.StatusInProgress
	s.invalidate(ctx, req.Kind)

	s.logger.Info("request picked",
		zap.String("kind", string(req.Kind)),
		zap.Int64("request_id", req.RequestID),
		zap.Int64("user_id", req.UserID),
	)

	return record, nil
}

// Complete selects the winning fulfillment and marks the request Completed.
// Re-completion overwrites the selection and re-asserts Completed.
func (s *statusService) Complete(ctx context.Context, req *CompleteRequest) (*models.StatusRecord, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid complete request", err)
	}
	if !req.Kind.Valid() {
		return nil, NewValidationError("unknown request kind", nil)
	}

	exists, err := s.requestExists(ctx, req.Kind, req.RequestID)
	if err != nil {
		s.logger.Error("failed to check request", zap.Error(err), zap.Int64("request_id", req.RequestID))
		return nil, NewInternalError("failed to complete request")
	}
	if !exists {
		return nil, EntityNotFoundError(string(req.Kind), req.RequestID)
	}

	fulfillment, err := s.fulfillmentRepo.GetByID(ctx, req.FulfillmentID)
	if err != nil {
		s.logger.Error("failed to load fulfillment", zap.Error(err), zap.Int64("fulfillment_id", req.FulfillmentID))
		return nil, NewInternalError("failed to complete request")
	}
	if fulfillment == nil {
		return nil, EntityNotFoundError("fulfillment", req.FulfillmentID)
	}
	if !fulfillment.References(req.Kind, req.RequestID) {
		return nil, NewBusinessError("fulfillment does not belong to this request", CodeFulfillmentMismatch)
	}

	var record *models.StatusRecord
	err = s.tx.WithTransaction(ctx, func(tx *sql.Tx) error {
		record, err = s.statusRepo.GetOrCreateForUpdate(ctx, tx, req.Kind, req.RequestID)
		if err != nil {
			return err
		}

		if s.cfg.RequirePickBeforeComplete && record.Status == models.StatusCreated {
			return NewBusinessError("request has not been picked", CodeRequestNotPicked)
		}

		if err := s.statusRepo.SetStatus(ctx, tx, req.Kind, record.ID, models.StatusCompleted); err != nil {
			return err
		}
		return s.setSelectedFulfillment(ctx, tx, req.Kind, req.RequestID, req.FulfillmentID)
	})
	if err != nil {
		if IsServiceError(err) {
			return nil, err
		}
		s.logger.Error("failed to complete request",
			zap.Error(err),
			zap.String("kind", string(req.Kind)),
			zap.Int64("request_id", req.RequestID),
			zap.Int64("fulfillment_id", req.FulfillmentID),
		)
		return nil, NewInternalError("failed to complete request")
	}

	record.Status = models.StatusCompleted
	s.invalidate(ctx, req.Kind)

	s.logger.Info("request completed",
		zap.String("kind", string(req.Kind)),
		zap.Int64("request_id", req.RequestID),
		zap.Int64("fulfillment_id", req.FulfillmentID),
	)

	return record, nil
}
