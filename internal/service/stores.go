package service

import (
	"context"
	"time"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/pkg/phemex"
)

// Storage contracts the services depend on. The repository package provides the
// Redis implementations.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, userID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateLastLogin(ctx context.Context, userID string) error
	UpdateAPIKeyStatus(ctx context.Context, userID string, hasAPIKey bool) error
	CreateSession(ctx context.Context, session *model.Session) error
	DeleteUserSessions(ctx context.Context, userID string) error
	BlacklistToken(ctx context.Context, token string, expiration time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

type CredentialStore interface {
	Save(ctx context.Context, cred *model.APICredential) error
	Get(ctx context.Context, userID string) (*model.APICredential, error)
	Delete(ctx context.Context, userID string) error
}

type SettingsStore interface {
	Get(ctx context.Context, userID string) (*model.Settings, error)
	Save(ctx context.Context, settings *model.Settings) error
}

type BotStore interface {
	Create(ctx context.Context, bot *model.GridBot) error
	GetOwned(ctx context.Context, userID, botID string) (*model.GridBot, error)
	Update(ctx context.Context, bot *model.GridBot) error
	Delete(ctx context.Context, bot *model.GridBot) error
	ListByUser(ctx context.Context, userID string) ([]model.GridBot, error)
}

// CredentialValidator checks a key pair against the exchange
type CredentialValidator interface {
	ValidateCredentials(ctx context.Context, creds phemex.Credentials) error
}
