package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/repository"
	"gridwatch/backend/pkg/phemex"
)

const testEncryptionKey = "0123456789abcdef0123456789abcdef"

type memUserStore struct {
	mu          sync.Mutex
	users       map[string]*model.User
	sessions    map[string]*model.Session
	blacklisted map[string]time.Duration
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		users:       map[string]*model.User{},
		sessions:    map[string]*model.Session{},
		blacklisted: map[string]time.Duration{},
	}
}

func (m *memUserStore) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrEmailTaken
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUserStore) GetByID(ctx context.Context, userID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUserStore) Update(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUserStore) UpdateLastLogin(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		now := time.Now().UTC()
		u.LastLoginAt = &now
	}
	return nil
}

func (m *memUserStore) UpdateAPIKeyStatus(ctx context.Context, userID string, hasAPIKey bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.HasAPIKey = hasAPIKey
	}
	return nil
}

func (m *memUserStore) CreateSession(ctx context.Context, session *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

func (m *memUserStore) DeleteUserSessions(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *memUserStore) BlacklistToken(ctx context.Context, token string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blacklisted[token] = expiration
	return nil
}

func (m *memUserStore) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blacklisted[token]
	return ok, nil
}

func (m *memUserStore) sessionCount(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sessions {
		if s.UserID == userID {
			n++
		}
	}
	return n
}

type memCredentialStore struct {
	mu    sync.Mutex
	creds map[string]*model.APICredential
}

func newMemCredentialStore() *memCredentialStore {
	return &memCredentialStore{creds: map[string]*model.APICredential{}}
}

func (m *memCredentialStore) Save(ctx context.Context, cred *model.APICredential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *cred
	m.creds[cred.UserID] = &cp
	return nil
}

func (m *memCredentialStore) Get(ctx context.Context, userID string) (*model.APICredential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.creds[userID]
	if !ok {
		return nil, repository.ErrCredentialNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCredentialStore) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.creds, userID)
	return nil
}

type memSettingsStore struct {
	mu       sync.Mutex
	settings map[string]*model.Settings
}

func newMemSettingsStore() *memSettingsStore {
	return &memSettingsStore{settings: map[string]*model.Settings{}}
}

func (m *memSettingsStore) Get(ctx context.Context, userID string) (*model.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.settings[userID]
	if !ok {
		return nil, repository.ErrSettingsNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSettingsStore) Save(ctx context.Context, settings *model.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *settings
	m.settings[settings.UserID] = &cp
	return nil
}

type memBotStore struct {
	mu   sync.Mutex
	bots map[string]*model.GridBot
}

func newMemBotStore() *memBotStore {
	return &memBotStore{bots: map[string]*model.GridBot{}}
}

func (m *memBotStore) Create(ctx context.Context, bot *model.GridBot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *bot
	m.bots[bot.ID] = &cp
	return nil
}

func (m *memBotStore) GetOwned(ctx context.Context, userID, botID string) (*model.GridBot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bots[botID]
	if !ok || b.UserID != userID {
		return nil, repository.ErrBotNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBotStore) Update(ctx context.Context, bot *model.GridBot) error {
	return m.Create(ctx, bot)
}

func (m *memBotStore) Delete(ctx context.Context, bot *model.GridBot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bots, bot.ID)
	return nil
}

func (m *memBotStore) ListByUser(ctx context.Context, userID string) ([]model.GridBot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.GridBot
	for _, b := range m.bots {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	repository.SortBotsNewestFirst(out)
	return out, nil
}

type fakeValidator struct {
	err   error
	calls []phemex.Credentials
}

func (f *fakeValidator) ValidateCredentials(ctx context.Context, creds phemex.Credentials) error {
	f.calls = append(f.calls, creds)
	return f.err
}

type fakeEngine struct {
	creds       *phemex.Credentials
	bots        []model.GridBot
	result      model.FleetResult
	demoMessage string
}

func (f *fakeEngine) Demo(message string) model.FleetResult {
	f.demoMessage = message
	return model.FleetResult{
		Mode:    model.FleetModeDemo,
		Bots:    []model.BotState{{ID: "bot-1"}, {ID: "bot-2"}},
		Message: message,
	}
}

func (f *fakeEngine) Reconstruct(ctx context.Context, creds *phemex.Credentials, bots []model.GridBot) model.FleetResult {
	f.creds = creds
	f.bots = bots
	if f.result.Mode != "" {
		return f.result
	}
	if creds == nil {
		return model.FleetResult{Mode: model.FleetModeDemo, Bots: []model.BotState{{ID: "bot-1"}}}
	}
	states := make([]model.BotState, 0, len(bots))
	for _, b := range bots {
		states = append(states, model.BotState{ID: b.ID, Pair: b.Pair})
	}
	return model.FleetResult{Mode: model.FleetModeLive, Bots: states}
}

// brokenBotStore fails every read with err
type brokenBotStore struct {
	*memBotStore
	err error
}

func (b brokenBotStore) ListByUser(ctx context.Context, userID string) ([]model.GridBot, error) {
	return nil, b.err
}

func (b brokenBotStore) GetOwned(ctx context.Context, userID, botID string) (*model.GridBot, error) {
	return nil, b.err
}

type fakeCredentialSource struct {
	creds *phemex.Credentials
	err   error
}

func (f fakeCredentialSource) Credentials(ctx context.Context, userID string) (*phemex.Credentials, error) {
	return f.creds, f.err
}
