package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"gridwatch/backend/internal/config"
	"gridwatch/backend/internal/handler"
	"gridwatch/backend/internal/middleware"
	"gridwatch/backend/internal/repository"
	"gridwatch/backend/internal/service"
	"gridwatch/backend/internal/service/fleet"
	"gridwatch/backend/pkg/jwt"
	"gridwatch/backend/pkg/logger"
	"gridwatch/backend/pkg/phemex"
	"gridwatch/backend/pkg/redis"
)

func main() {
	// .env is optional outside development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.GetLogger()

	log.Info("Starting gridwatch backend...")
	log.Infof("Environment: %s", cfg.Server.Env)

	redisClient, err := redis.New(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	redis.InitKeys(cfg.Redis.Prefix)
	log.Info("Redis connected")

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	jwtManager := jwt.NewJWTManager(cfg.JWT.Secret, "gridwatch", cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)
	exchange := phemex.NewClient(cfg.Phemex.ClientConfig())

	// Repositories
	userRepo := repository.NewUserRepository(redisClient)
	credRepo := repository.NewCredentialRepository(redisClient)
	settingsRepo := repository.NewSettingsRepository(redisClient)
	botRepo := repository.NewBotRepository(redisClient)

	// Fleet engine
	reconstructor := fleet.NewReconstructor(exchange, time.Now)
	demo := fleet.NewSynthesizer(cfg.Fleet.DemoSeed, time.Now)
	orchestrator := fleet.NewOrchestrator(exchange, reconstructor, demo, cfg.Fleet.MaxConcurrency)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo)
	credentialService := service.NewCredentialService(credRepo, userRepo, exchange, cfg.Encryption.Key)
	settingsService := service.NewSettingsService(settingsRepo, credRepo)
	botService := service.NewBotService(botRepo)
	fleetService := service.NewFleetService(orchestrator, credentialService, botRepo, settingsRepo, cfg.Fleet.StreamMinInterval)

	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	handler.RegisterRoutes(router, handler.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		User:       handler.NewUserHandler(userService),
		Credential: handler.NewCredentialHandler(credentialService),
		Settings:   handler.NewSettingsHandler(settingsService),
		Bot:        handler.NewBotHandler(botService),
		Fleet:      handler.NewFleetHandler(fleetService, cfg.CORS.AllowedOrigins),
		Health:     handler.NewHealthHandler(redisClient),
	}, handler.RouteConfig{
		Auth:          authService,
		Counter:       redisClient,
		RatePerMinute: cfg.RateLimit.RequestsPerMinute,
		AuthPerMinute: cfg.RateLimit.AuthRequestsPerMinute,
	})

	// WriteTimeout stays 0: the fleet stream holds its connection open
	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infof("Server starting on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", err)
	}

	log.Info("Server exited")
}
