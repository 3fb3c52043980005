package service

import (
	"context"
	"errors"
	"time"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/repository"
	"gridwatch/backend/internal/util"
	"gridwatch/backend/pkg/logger"
	"gridwatch/backend/pkg/phemex"
)

// FleetEngine turns a user's credentials and bots into a fleet result.
// *fleet.Orchestrator implements it.
type FleetEngine interface {
	Reconstruct(ctx context.Context, creds *phemex.Credentials, bots []model.GridBot) model.FleetResult
	Demo(message string) model.FleetResult
}

// CredentialSource yields a user's decrypted credentials, nil when none are usable
type CredentialSource interface {
	Credentials(ctx context.Context, userID string) (*phemex.Credentials, error)
}

// FleetService assembles the per-user inputs for the fleet engine
type FleetService struct {
	engine            FleetEngine
	credentials       CredentialSource
	botRepo           BotStore
	settingsRepo      SettingsStore
	minStreamInterval time.Duration
}

// NewFleetService creates a new fleet service
func NewFleetService(engine FleetEngine, credentials CredentialSource, botRepo BotStore, settingsRepo SettingsStore, minStreamInterval time.Duration) *FleetService {
	return &FleetService{
		engine:            engine,
		credentials:       credentials,
		botRepo:           botRepo,
		settingsRepo:      settingsRepo,
		minStreamInterval: minStreamInterval,
	}
}

// GetFleet reconstructs every bot of the user, or serves the demo fleet.
// A bot store failure also serves the demo fleet.
func (s *FleetService) GetFleet(ctx context.Context, userID string) (*model.FleetResult, error) {
	creds := s.loadCredentials(ctx, userID)

	var bots []model.GridBot
	if creds != nil {
		var err error
		bots, err = s.botRepo.ListByUser(ctx, userID)
		if err != nil {
			result := s.storeFailure(userID, err)
			return &result, nil
		}
	}

	result := s.engine.Reconstruct(ctx, creds, bots)
	return &result, nil
}

// GetFleetBot reconstructs a single bot. In demo mode botID names a demo bot.
func (s *FleetService) GetFleetBot(ctx context.Context, userID, botID string) (*model.FleetResult, error) {
	creds := s.loadCredentials(ctx, userID)

	var bots []model.GridBot
	if creds != nil {
		bot, err := s.botRepo.GetOwned(ctx, userID, botID)
		switch {
		case err == nil:
			bots = []model.GridBot{*bot}
		case !errors.Is(err, repository.ErrBotNotFound):
			return s.pick(s.storeFailure(userID, err), botID)
		}
	}

	return s.pick(s.engine.Reconstruct(ctx, creds, bots), botID)
}

// pick narrows result to botID. After a fleet failure an unknown id falls back to the first
// demo bot so the caller still gets bot data.
func (s *FleetService) pick(result model.FleetResult, botID string) (*model.FleetResult, error) {
	for _, state := range result.Bots {
		if state.ID == botID {
			result.Bots = []model.BotState{state}
			return &result, nil
		}
	}
	if result.Message == model.MessageFleetError && len(result.Bots) > 0 {
		result.Bots = result.Bots[:1]
		return &result, nil
	}
	return nil, errBotNotFound()
}

func (s *FleetService) storeFailure(userID string, err error) model.FleetResult {
	logger.GetLogger().WithField("user_id", userID).Error("failed to load bots, serving demo data", err)
	return s.engine.Demo(model.MessageFleetError)
}

// StreamInterval is how often the fleet stream pushes to userID
func (s *FleetService) StreamInterval(ctx context.Context, userID string) time.Duration {
	rate := util.DefaultRefreshRate
	if settings, err := s.settingsRepo.Get(ctx, userID); err == nil && settings.RefreshRate > 0 {
		rate = settings.RefreshRate
	}

	interval := time.Duration(rate) * time.Second
	if interval < s.minStreamInterval {
		interval = s.minStreamInterval
	}
	return interval
}

func (s *FleetService) loadCredentials(ctx context.Context, userID string) *phemex.Credentials {
	creds, err := s.credentials.Credentials(ctx, userID)
	if err != nil {
		// storage trouble reads as no credentials
		logger.GetLogger().WithField("user_id", userID).Warnf("failed to load credentials: %v", err)
		return nil
	}
	return creds
}
