package repository

import (
	"context"
	"strings"
	"time"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/pkg/redis"
)

// UserRepository handles user and session data
type UserRepository struct {
	redis *redis.Client
}

// NewUserRepository creates a new user repository
func NewUserRepository(redisClient *redis.Client) *UserRepository {
	return &UserRepository{
		redis: redisClient,
	}
}

func emailIndex(email string) string {
	return redis.UserByEmailKey(strings.ToLower(strings.TrimSpace(email)))
}

// Create stores a new user. The email index is claimed first so two sign-ups cannot share an address.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	claimed, err := r.redis.SetNX(ctx, emailIndex(user.Email), user.ID, 0)
	if err != nil {
		return err
	}
	if !claimed {
		return ErrEmailTaken
	}

	if err := r.redis.SetJSON(ctx, redis.UserKey(user.ID), user, 0); err != nil {
		_ = r.redis.Del(ctx, emailIndex(user.Email))
		return err
	}
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	if err := r.redis.GetJSON(ctx, redis.UserKey(userID), &user); err != nil {
		if redis.IsNil(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail gets a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	userID, err := r.redis.Get(ctx, emailIndex(email))
	if err != nil {
		if redis.IsNil(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, userID)
}

// Update updates a user
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()
	return r.redis.SetJSON(ctx, redis.UserKey(user.ID), user, 0)
}

// UpdateLastLogin updates user's last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID string) error {
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	return r.Update(ctx, user)
}

// UpdateAPIKeyStatus updates user's API key flag
func (r *UserRepository) UpdateAPIKeyStatus(ctx context.Context, userID string, hasAPIKey bool) error {
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.HasAPIKey = hasAPIKey
	return r.Update(ctx, user)
}

// CreateSession creates a new session
func (r *UserRepository) CreateSession(ctx context.Context, session *model.Session) error {
	if err := r.redis.SetJSON(ctx, redis.SessionKey(session.ID), session, time.Until(session.ExpiresAt)); err != nil {
		return err
	}
	return r.redis.SAdd(ctx, redis.UserSessionsKey(session.UserID), session.ID)
}

// DeleteUserSessions deletes all sessions for a user
func (r *UserRepository) DeleteUserSessions(ctx context.Context, userID string) error {
	userSessionsKey := redis.UserSessionsKey(userID)

	sessionIDs, err := r.redis.SMembers(ctx, userSessionsKey)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(sessionIDs)+1)
	for _, id := range sessionIDs {
		keys = append(keys, redis.SessionKey(id))
	}
	keys = append(keys, userSessionsKey)
	return r.redis.Del(ctx, keys...)
}

// BlacklistToken adds a token to blacklist until it would have expired anyway
func (r *UserRepository) BlacklistToken(ctx context.Context, token string, expiration time.Duration) error {
	if expiration <= 0 {
		return nil
	}
	return r.redis.Set(ctx, redis.TokenBlacklistKey(token), "blacklisted", expiration)
}

// IsTokenBlacklisted checks if a token is blacklisted
func (r *UserRepository) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return r.redis.Exists(ctx, redis.TokenBlacklistKey(token))
}
