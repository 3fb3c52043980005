package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/repository"
	"gridwatch/backend/internal/util"
)

// SettingsService reads and updates per-user dashboard settings
type SettingsService struct {
	settingsRepo SettingsStore
	credRepo     CredentialStore
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo SettingsStore, credRepo CredentialStore) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		credRepo:     credRepo,
	}
}

// Get returns the stored settings, or the defaults for a user who never saved any
func (s *SettingsService) Get(ctx context.Context, userID string) (*model.SettingsResponse, error) {
	settings, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, settings)
}

// Update applies a partial update on top of the current settings
func (s *SettingsService) Update(ctx context.Context, userID string, req *model.UpdateSettingsRequest) (*model.SettingsResponse, error) {
	settings, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings.Apply(req)
	settings.Theme = strings.TrimSpace(settings.Theme)
	if settings.Theme == "" {
		settings.Theme = util.DefaultTheme
	}
	if settings.TipLevel < util.MinTipLevel || settings.TipLevel > util.MaxTipLevel {
		return nil, util.NewAppErrorWithDetails(http.StatusBadRequest, util.ErrCodeValidation, "tipLevel must be between 1 and 3", "tipLevel")
	}
	if settings.RefreshRate < util.MinRefreshRate {
		return nil, util.NewAppErrorWithDetails(http.StatusBadRequest, util.ErrCodeValidation, "refreshRate must be at least 10 seconds", "refreshRate")
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, util.ErrInternalServer("Failed to save settings")
	}
	return s.respond(ctx, settings)
}

// RefreshRate returns the user's refresh interval in seconds
func (s *SettingsService) RefreshRate(ctx context.Context, userID string) int {
	settings, err := s.load(ctx, userID)
	if err != nil {
		return util.DefaultRefreshRate
	}
	return settings.RefreshRate
}

func (s *SettingsService) load(ctx context.Context, userID string) (*model.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			return model.DefaultSettings(userID), nil
		}
		return nil, util.ErrInternalServer("Failed to load settings")
	}
	return settings, nil
}

func (s *SettingsService) respond(ctx context.Context, settings *model.Settings) (*model.SettingsResponse, error) {
	resp := &model.SettingsResponse{Settings: *settings}

	cred, err := s.credRepo.Get(ctx, settings.UserID)
	switch {
	case err == nil:
		resp.HasAPIKeys = true
		resp.MaskedAPIKey = cred.MaskedKey
	case !errors.Is(err, repository.ErrCredentialNotFound):
		return nil, util.ErrInternalServer("Failed to load API credentials")
	}
	return resp, nil
}
