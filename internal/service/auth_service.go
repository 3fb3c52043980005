package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/repository"
	"gridwatch/backend/internal/util"
	"gridwatch/backend/pkg/crypto"
	"gridwatch/backend/pkg/jwt"
	"gridwatch/backend/pkg/logger"
)

// AuthService handles authentication logic
type AuthService struct {
	userRepo   UserStore
	jwtManager *jwt.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserStore, jwtManager *jwt.JWTManager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

func errInvalidLogin() *util.AppError {
	return util.NewAppError(http.StatusUnauthorized, util.ErrCodeInvalidCredentials, "Invalid email or password")
}

func errTokenInvalid(message string) *util.AppError {
	return util.NewAppError(http.StatusUnauthorized, util.ErrCodeTokenInvalid, message)
}

// Register registers a new user
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.SafeUser, error) {
	if !crypto.ValidatePasswordStrength(req.Password) {
		return nil, util.ErrValidation("Password must be 8-72 characters")
	}

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, util.ErrInternalServer("Failed to hash password")
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: passwordHash,
		Status:       model.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, util.ErrConflict("Email already exists")
		}
		return nil, util.ErrInternalServer("Failed to create user")
	}

	logger.GetLogger().WithField("user_id", user.ID).Info("user registered")
	return user.ToSafeUser(), nil
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest, userAgent, ip string) (*model.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errInvalidLogin()
	}

	if !crypto.CheckPassword(req.Password, user.PasswordHash) {
		return nil, errInvalidLogin()
	}

	if !user.IsActive() {
		return nil, util.ErrForbidden("User account is inactive")
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, util.ErrInternalServer("Failed to generate access token")
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, util.ErrInternalServer("Failed to generate refresh token")
	}

	now := time.Now().UTC()
	session := &model.Session{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.jwtManager.RefreshTokenDuration()),
		CreatedAt:    now,
		LastUsedAt:   now,
		UserAgent:    userAgent,
		IP:           ip,
	}

	if err := s.userRepo.CreateSession(ctx, session); err != nil {
		return nil, util.ErrInternalServer("Failed to create session")
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.GetLogger().Warnf("Failed to update last login for user %s: %v", user.ID, err)
	}

	return &model.AuthResponse{
		User:         user.ToSafeUser(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessTokenDuration().Seconds()),
	}, nil
}

// RefreshToken issues a new access token for a valid refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*model.AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errTokenInvalid("Invalid refresh token")
	}

	blacklisted, err := s.userRepo.IsTokenBlacklisted(ctx, refreshToken)
	if err != nil {
		return nil, util.ErrInternalServer("Failed to check token status")
	}
	if blacklisted {
		return nil, errTokenInvalid("Token has been revoked")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, util.ErrNotFound("User not found")
	}
	if !user.IsActive() {
		return nil, util.ErrForbidden("User account is inactive")
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, util.ErrInternalServer("Failed to generate access token")
	}

	return &model.AuthResponse{
		User:         user.ToSafeUser(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessTokenDuration().Seconds()),
	}, nil
}

// Logout blacklists the access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if claims, err := s.jwtManager.ValidateToken(accessToken); err == nil {
		if err := s.userRepo.BlacklistToken(ctx, accessToken, s.jwtManager.RemainingTTL(claims)); err != nil {
			return util.ErrInternalServer("Failed to blacklist access token")
		}
	}

	if refreshToken == "" {
		return nil
	}
	refreshClaims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		// already unusable
		return nil
	}
	if err := s.userRepo.BlacklistToken(ctx, refreshToken, s.jwtManager.RemainingTTL(refreshClaims)); err != nil {
		return util.ErrInternalServer("Failed to blacklist refresh token")
	}
	return nil
}

// GetUserByID gets a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*model.SafeUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, util.ErrNotFound("User not found")
	}
	return user.ToSafeUser(), nil
}

// ValidateToken validates an access token and returns the user it belongs to
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, errTokenInvalid("Invalid token")
	}

	blacklisted, err := s.userRepo.IsTokenBlacklisted(ctx, token)
	if err != nil {
		return nil, util.ErrInternalServer("Failed to check token status")
	}
	if blacklisted {
		return nil, errTokenInvalid("Token has been revoked")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, errTokenInvalid("User no longer exists")
	}
	if !user.IsActive() {
		return nil, util.ErrForbidden("User account is inactive")
	}
	return user, nil
}
