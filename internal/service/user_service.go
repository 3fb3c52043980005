package service

import (
	"context"
	"strings"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/util"
	"gridwatch/backend/pkg/crypto"
	"gridwatch/backend/pkg/logger"
)

// UserService handles profile operations for the signed-in user
type UserService struct {
	userRepo UserStore
}

// NewUserService creates a new user service
func NewUserService(userRepo UserStore) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetProfile gets the current user's profile
func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.SafeUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, util.ErrNotFound("User not found")
	}
	return user.ToSafeUser(), nil
}

// UpdateProfile updates the current user's name
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.SafeUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, util.ErrNotFound("User not found")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, util.ErrValidation("Name cannot be empty")
	}
	user.Name = name

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, util.ErrInternalServer("Failed to update profile")
	}
	return user.ToSafeUser(), nil
}

// ChangePassword changes the current user's password and ends every other session
func (s *UserService) ChangePassword(ctx context.Context, userID string, req *model.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return util.ErrNotFound("User not found")
	}

	if !crypto.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		return util.ErrBadRequest("Current password is incorrect")
	}
	if !crypto.ValidatePasswordStrength(req.NewPassword) {
		return util.ErrValidation("Password must be 8-72 characters")
	}

	passwordHash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return util.ErrInternalServer("Failed to hash password")
	}

	user.PasswordHash = passwordHash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return util.ErrInternalServer("Failed to update password")
	}

	if err := s.userRepo.DeleteUserSessions(ctx, userID); err != nil {
		logger.GetLogger().Warnf("Failed to clear sessions for user %s: %v", userID, err)
	}
	return nil
}
