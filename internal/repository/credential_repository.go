package repository

import (
	"context"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/pkg/redis"
)

// CredentialRepository stores each user's encrypted exchange credentials
type CredentialRepository struct {
	redis *redis.Client
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(redisClient *redis.Client) *CredentialRepository {
	return &CredentialRepository{
		redis: redisClient,
	}
}

// Save creates or replaces the user's credentials
func (r *CredentialRepository) Save(ctx context.Context, cred *model.APICredential) error {
	return r.redis.SetJSON(ctx, redis.CredentialKey(cred.UserID), cred, 0)
}

// Get gets credentials by user ID
func (r *CredentialRepository) Get(ctx context.Context, userID string) (*model.APICredential, error) {
	var cred model.APICredential
	if err := r.redis.GetJSON(ctx, redis.CredentialKey(userID), &cred); err != nil {
		if redis.IsNil(err) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}
	return &cred, nil
}

// Delete deletes credentials
func (r *CredentialRepository) Delete(ctx context.Context, userID string) error {
	return r.redis.Del(ctx, redis.CredentialKey(userID))
}
