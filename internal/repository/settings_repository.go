package repository

import (
	"context"
	"time"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/pkg/redis"
)

// SettingsRepository stores per-user settings
type SettingsRepository struct {
	redis *redis.Client
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(redisClient *redis.Client) *SettingsRepository {
	return &SettingsRepository{
		redis: redisClient,
	}
}

// Get returns ErrSettingsNotFound when the user never saved settings
func (r *SettingsRepository) Get(ctx context.Context, userID string) (*model.Settings, error) {
	var settings model.Settings
	if err := r.redis.GetJSON(ctx, redis.SettingsKey(userID), &settings); err != nil {
		if redis.IsNil(err) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	settings.UserID = userID
	return &settings, nil
}

// Save stores settings
func (r *SettingsRepository) Save(ctx context.Context, settings *model.Settings) error {
	settings.UpdatedAt = time.Now().UTC()
	return r.redis.SetJSON(ctx, redis.SettingsKey(settings.UserID), settings, 0)
}
