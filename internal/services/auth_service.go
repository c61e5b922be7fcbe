// file: internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"time"

	"wishlink/internal/config"
	"wishlink/internal/models"
	"wishlink/internal/repositories"
	"wishlink/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// authService implements AuthService with bcrypt password storage and JWT
// bearer tokens
type authService struct {
	userRepo repositories.UserRepository
	cfg      *config.AuthConfig
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, cfg *config.AuthConfig, logger *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
		logger:   logger,
	}
}

type authClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// ===============================
// REGISTRATION AND SIGN-IN
// ===============================

// Register creates an account with a hashed password and signs the user in
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid registration request", err)
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
		return nil, NewInternalError("failed to register")
	} else if exists {
		return nil, EntityAlreadyExistsError("user", "email", req.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BCryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, NewInternalError("failed to process password")
	}
	user.PasswordHash = string(hash)

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, NewInternalError("failed to register")
	}

	return s.issueToken(user)
}

// Login verifies credentials and issues a bearer token
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid login request", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error("failed to load user for login", zap.Error(err))
		return nil, NewInternalError("failed to sign in")
	}
	if user == nil || user.PasswordHash == "" {
		return nil, NewUnauthorizedError("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewUnauthorizedError("invalid email or password")
	}

	return s.issueToken(user)
}

// ===============================
// TOKENS
// ===============================

func (s *authService) issueToken(user *models.User) (*AuthResponse, error) {
	expiresAt := time.Now().Add(s.cfg.JWTExpiry)

	claims := &authClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.JWTIssuer,
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.logger.Error("failed to sign token", zap.Error(err))
		return nil, NewInternalError("failed to issue token")
	}

	return &AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// ValidateToken parses and verifies a bearer token
func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	claims := &authClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, NewUnauthorizedError("invalid or expired token")
	}

	return &TokenClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}
