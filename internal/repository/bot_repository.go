package repository

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/pkg/redis"
)

// BotRepository handles grid bot configuration data
type BotRepository struct {
	redis *redis.Client
}

// NewBotRepository creates a new bot repository
func NewBotRepository(redisClient *redis.Client) *BotRepository {
	return &BotRepository{
		redis: redisClient,
	}
}

// Create stores a new bot and indexes it under its owner
func (r *BotRepository) Create(ctx context.Context, bot *model.GridBot) error {
	now := time.Now().UTC()
	bot.CreatedAt = now
	bot.UpdatedAt = now

	data, err := json.Marshal(bot)
	if err != nil {
		return err
	}

	pipe := r.redis.TxPipeline()
	pipe.Set(ctx, redis.BotKey(bot.ID), data, 0)
	pipe.SAdd(ctx, redis.UserBotsKey(bot.UserID), bot.ID)
	_, err = pipe.Exec(ctx)
	return err
}

// GetByID retrieves a bot by ID
func (r *BotRepository) GetByID(ctx context.Context, botID string) (*model.GridBot, error) {
	var bot model.GridBot
	if err := r.redis.GetJSON(ctx, redis.BotKey(botID), &bot); err != nil {
		if redis.IsNil(err) {
			return nil, ErrBotNotFound
		}
		return nil, err
	}
	return &bot, nil
}

// GetOwned retrieves a bot only if userID owns it
func (r *BotRepository) GetOwned(ctx context.Context, userID, botID string) (*model.GridBot, error) {
	bot, err := r.GetByID(ctx, botID)
	if err != nil {
		return nil, err
	}
	if bot.UserID != userID {
		return nil, ErrBotNotFound
	}
	return bot, nil
}

// Update replaces a bot configuration
func (r *BotRepository) Update(ctx context.Context, bot *model.GridBot) error {
	bot.UpdatedAt = time.Now().UTC()
	return r.redis.SetJSON(ctx, redis.BotKey(bot.ID), bot, 0)
}

// Delete deletes a bot configuration and its owner index entry
func (r *BotRepository) Delete(ctx context.Context, bot *model.GridBot) error {
	pipe := r.redis.TxPipeline()
	pipe.Del(ctx, redis.BotKey(bot.ID))
	pipe.SRem(ctx, redis.UserBotsKey(bot.UserID), bot.ID)
	_, err := pipe.Exec(ctx)
	return err
}

// ListByUser retrieves all bots for a user, most recently started first
func (r *BotRepository) ListByUser(ctx context.Context, userID string) ([]model.GridBot, error) {
	botIDs, err := r.redis.SMembers(ctx, redis.UserBotsKey(userID))
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(botIDs))
	for i, id := range botIDs {
		keys[i] = redis.BotKey(id)
	}

	bots := make([]model.GridBot, 0, len(keys))
	err = r.redis.MGetJSON(ctx, keys, func(data []byte) error {
		var bot model.GridBot
		if err := json.Unmarshal(data, &bot); err != nil {
			return err
		}
		bots = append(bots, bot)
		return nil
	})
	if err != nil {
		return nil, err
	}

	SortBotsNewestFirst(bots)
	return bots, nil
}

// SortBotsNewestFirst orders bots by startedAt descending, ties broken by ID for stable output
func SortBotsNewestFirst(bots []model.GridBot) {
	sort.SliceStable(bots, func(i, j int) bool {
		if !bots[i].StartedAt.Equal(bots[j].StartedAt) {
			return bots[i].StartedAt.After(bots[j].StartedAt)
		}
		return bots[i].ID < bots[j].ID
	})
}
