// file: internal/services/user_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"wishlink/internal/cache"
	"wishlink/internal/models"
	"wishlink/internal/repositories"
	"wishlink/internal/validation"

	"go.uber.org/zap"
)

// userService implements UserService
type userService struct {
	userRepo        repositories.UserRepository
	wishRepo        repositories.WishRepository
	speechRepo      repositories.SpeechRepository
	fulfillmentRepo repositories.FulfillmentRepository
	cache           cache.Cache
	logger          *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	wishRepo repositories.WishRepository,
	speechRepo repositories.SpeechRepository,
	fulfillmentRepo repositories.FulfillmentRepository,
	c cache.Cache,
	logger *zap.Logger,
) UserService {
	return &userService{
		userRepo:        userRepo,
		wishRepo:        wishRepo,
		speechRepo:      speechRepo,
		fulfillmentRepo: fulfillmentRepo,
		cache:           c,
		logger:          logger,
	}
}

// ===============================
// CORE CRUD OPERATIONS
// ===============================

// CreateUser creates a new account, enforcing the institute invariant
func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid create user request", err)
	}

	user := &models.User{
		Email:              req.Email,
		FirstName:          req.FirstName,
		GivenName:          req.GivenName,
		FamilyName:         req.FamilyName,
		PhoneNo:            req.PhoneNo,
		Address:            req.Address,
		Location:           req.Location,
		About:              req.About,
		Link:               req.Link,
		Picture:            req.Picture,
		Locale:             req.Locale,
		IsInstitute:        req.IsInstitute,
		InstituteRegNumber: req.InstituteRegNumber,
		InstituteDetails:   req.InstituteDetails,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
	}

	if err := user.ValidateInstitute(); err != nil {
		return nil, NewValidationError(err.Error(), nil)
	}

	if exists, err := s.userRepo.ExistsByEmail(ctx, req.Email); err != nil {
		s.logger.Error("failed to check email", zap.Error(err))
		return nil, NewInternalError("failed to create user")
	} else if exists {
		return nil, EntityAlreadyExistsError("user", "email", req.Email)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, NewInternalError("failed to create user")
	}

	return user, nil
}

// GetUserByID retrieves a user with caching
func (s *userService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, NewValidationError("invalid user ID", nil)
	}

	cacheKey := fmt.Sprintf("user:%d", id)
	if cached, found := s.cache.Get(ctx, cacheKey); found {
		if user, ok := cached.(*models.User); ok {
			return user, nil
		}
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get user", zap.Error(err), zap.Int64("user_id", id))
		return nil, NewInternalError("failed to retrieve user")
	}
	if user == nil {
		return nil, EntityNotFoundError("user", id)
	}

	if err := s.cache.Set(ctx, cacheKey, user, 15*time.Minute); err != nil {
		s.logger.Warn("failed to cache user", zap.Error(err), zap.Int64("user_id", id))
	}

	return user, nil
}

// UserExistsByEmail reports whether an account with the email exists
func (s *userService) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	if err := validation.ValidateVar(email, "required,email"); err != nil {
		return false, NewValidationError("invalid email", err)
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("failed to check user existence", zap.Error(err))
		return false, NewInternalError("failed to check user")
	}
	return exists, nil
}

// UpdateUser applies a partial profile update. The institute flag and its
// paired fields are not updatable here.
func (s *userService) UpdateUser(ctx context.Context, req *UpdateUserRequest) (*models.User, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid update user request", err)
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		s.logger.Error("failed to load user for update", zap.Error(err), zap.Int64("user_id", req.UserID))
		return nil, NewInternalError("failed to update user")
	}
	if user == nil {
		return nil, EntityNotFoundError("user", req.UserID)
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.GivenName != nil {
		user.GivenName = req.GivenName
	}
	if req.FamilyName != nil {
		user.FamilyName = req.FamilyName
	}
	if req.PhoneNo != nil {
		user.PhoneNo = req.PhoneNo
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.Location != nil {
		user.Location = req.Location
	}
	if req.About != nil {
		user.About = req.About
	}
	if req.Link != nil {
		user.Link = req.Link
	}
	if req.Picture != nil {
		user.Picture = req.Picture
	}
	if req.Locale != nil {
		user.Locale = req.Locale
	}
	if req.Latitude != nil {
		user.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		user.Longitude = req.Longitude
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("failed to update user", zap.Error(err), zap.Int64("user_id", req.UserID))
		return nil, NewInternalError("failed to update user")
	}

	if err := s.cache.Delete(ctx, fmt.Sprintf("user:%d", user.ID)); err != nil {
		s.logger.Warn("failed to invalidate user cache", zap.Error(err), zap.Int64("user_id", user.ID))
	}

	return user, nil
}

// ===============================
// AGGREGATES
// ===============================

// GetUserSummary bundles everything the user created or fulfilled
func (s *userService) GetUserSummary(ctx context.Context, userID int64) (*models.UserSummary, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	wishes, err := s.wishRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list user wishes", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewInternalError("failed to build user summary")
	}

	speeches, err := s.speechRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list user speeches", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewInternalError("failed to build user summary")
	}

	fulfillments, err := s.fulfillmentRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list user fulfillments", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewInternalError("failed to build user summary")
	}

	summary := &models.UserSummary{
		User:            user.PublicProfile(),
		CreatedWishes:   wishes,
		CreatedSpeeches: speeches,
		Fulfillments:    fulfillments,
	}
	for _, f := range fulfillments {
		switch f.Kind() {
		case models.KindWish:
			summary.PickedWishCount++
		case models.KindSpeech:
			summary.PickedSpeechCount++
		}
	}

	return summary, nil
}
