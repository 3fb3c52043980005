package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/repository"
	"gridwatch/backend/internal/service/fleet"
	"gridwatch/backend/internal/util"
	"gridwatch/backend/pkg/logger"
)

// BotService manages grid bot configurations owned by a user
type BotService struct {
	botRepo BotStore
	now     func() time.Time
}

// NewBotService creates a new bot service
func NewBotService(botRepo BotStore) *BotService {
	return &BotService{
		botRepo: botRepo,
		now:     time.Now,
	}
}

func errBotNotFound() *util.AppError {
	return util.NewAppError(http.StatusNotFound, util.ErrCodeBotNotFound, "Bot not found")
}

// validationError maps a rejected configuration to a 400 naming the field
func validationError(err error) error {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return util.NewAppErrorWithDetails(http.StatusBadRequest, util.ErrCodeValidation, verr.Error(), verr.Field)
	}
	return util.ErrValidation(err.Error())
}

// Create stores a new bot configuration
func (s *BotService) Create(ctx context.Context, userID string, req *model.CreateBotRequest) (*model.GridBot, error) {
	bot, err := model.NewGridBot(userID, req)
	if err != nil {
		return nil, validationError(err)
	}

	now := s.now().UTC()
	bot.ID = uuid.New().String()
	bot.CreatedAt = now
	bot.UpdatedAt = now

	if err := s.botRepo.Create(ctx, bot); err != nil {
		return nil, util.ErrInternalServer("Failed to create bot")
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"user_id": userID,
		"bot_id":  bot.ID,
		"pair":    bot.Pair,
	}).Info("bot created")
	return bot, nil
}

// Get returns one bot owned by userID
func (s *BotService) Get(ctx context.Context, userID, botID string) (*model.GridBot, error) {
	bot, err := s.botRepo.GetOwned(ctx, userID, botID)
	if err != nil {
		if errors.Is(err, repository.ErrBotNotFound) {
			return nil, errBotNotFound()
		}
		return nil, util.ErrInternalServer("Failed to load bot")
	}
	return bot, nil
}

// List returns the user's bots, newest start first
func (s *BotService) List(ctx context.Context, userID string) ([]model.GridBot, error) {
	bots, err := s.botRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, util.ErrInternalServer("Failed to load bots")
	}
	if bots == nil {
		bots = []model.GridBot{}
	}
	return bots, nil
}

// Update merges a partial update and stores the result if it still validates
func (s *BotService) Update(ctx context.Context, userID, botID string, req *model.UpdateBotRequest) (*model.GridBot, error) {
	bot, err := s.Get(ctx, userID, botID)
	if err != nil {
		return nil, err
	}

	if err := bot.Apply(req); err != nil {
		return nil, validationError(err)
	}

	if err := s.botRepo.Update(ctx, bot); err != nil {
		return nil, util.ErrInternalServer("Failed to update bot")
	}
	return bot, nil
}

// Delete removes a bot configuration
func (s *BotService) Delete(ctx context.Context, userID, botID string) error {
	bot, err := s.Get(ctx, userID, botID)
	if err != nil {
		return err
	}

	if err := s.botRepo.Delete(ctx, bot); err != nil {
		return util.ErrInternalServer("Failed to delete bot")
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"user_id": userID,
		"bot_id":  botID,
	}).Info("bot deleted")
	return nil
}

// PreviewLadder derives the price ladder of a stored bot
func (s *BotService) PreviewLadder(ctx context.Context, userID, botID string) (*model.LadderPreview, error) {
	bot, err := s.Get(ctx, userID, botID)
	if err != nil {
		return nil, err
	}

	levels, err := fleet.Levels(bot)
	if err != nil {
		return nil, validationError(err)
	}

	return &model.LadderPreview{
		BotID:     bot.ID,
		Lower:     bot.LowerLimit,
		Upper:     bot.UpperLimit,
		GridCount: bot.GridCount,
		GridType:  bot.GridType,
		Levels:    levels,
	}, nil
}
