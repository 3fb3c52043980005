package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"gridwatch/backend/internal/config"
	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/repository"
	"gridwatch/backend/internal/service/fleet"
	"gridwatch/backend/pkg/crypto"
	"gridwatch/backend/pkg/redis"
)

// seed creates a demo account owning the three sample bot configurations
func main() {
	email := flag.String("email", "demo@gridwatch.local", "demo account email")
	password := flag.String("password", "demo-password", "demo account password")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	redis.InitKeys(cfg.Redis.Prefix)

	userRepo := repository.NewUserRepository(redisClient)
	botRepo := repository.NewBotRepository(redisClient)
	settingsRepo := repository.NewSettingsRepository(redisClient)

	passwordHash, err := crypto.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	ctx := context.Background()
	now := time.Now().UTC()

	user, err := userRepo.GetByEmail(ctx, *email)
	switch {
	case err == nil:
		fmt.Printf("User %s already exists, resetting password\n", *email)
		user.PasswordHash = passwordHash
		user.Status = model.StatusActive
		if err := userRepo.Update(ctx, user); err != nil {
			log.Fatalf("Failed to update user: %v", err)
		}
	case errors.Is(err, repository.ErrUserNotFound):
		user = &model.User{
			ID:           uuid.New().String(),
			Email:        *email,
			Name:         "Demo Trader",
			PasswordHash: passwordHash,
			Status:       model.StatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
		fmt.Printf("Created user %s\n", *email)
	default:
		log.Fatalf("Failed to look up user: %v", err)
	}

	if err := settingsRepo.Save(ctx, model.DefaultSettings(user.ID)); err != nil {
		log.Fatalf("Failed to save settings: %v", err)
	}

	existing, err := botRepo.ListByUser(ctx, user.ID)
	if err != nil {
		log.Fatalf("Failed to list bots: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("User already owns %d bots, skipping bot seed\n", len(existing))
		return
	}

	for _, bot := range fleet.DemoBots(now) {
		bot := bot
		bot.ID = uuid.New().String()
		bot.UserID = user.ID
		bot.CreatedAt = now
		bot.UpdatedAt = now
		if err := botRepo.Create(ctx, &bot); err != nil {
			log.Fatalf("Failed to create bot %s: %v", bot.DisplayPair, err)
		}
		fmt.Printf("Created bot %s (%s %.2f-%.2f x%d)\n", bot.DisplayPair, bot.GridType, bot.LowerLimit, bot.UpperLimit, bot.GridCount)
	}
}
