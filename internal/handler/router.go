package handler

import (
	"github.com/gin-gonic/gin"

	"gridwatch/backend/internal/middleware"
)

// Handlers groups every HTTP handler the API mounts
type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Credential *CredentialHandler
	Settings   *SettingsHandler
	Bot        *BotHandler
	Fleet      *FleetHandler
	Health     *HealthHandler
}

// RouteConfig carries the middleware the routes need
type RouteConfig struct {
	Auth          middleware.TokenValidator
	Counter       middleware.Counter
	RatePerMinute int
	AuthPerMinute int
}

// RegisterRoutes mounts the API on router
func RegisterRoutes(router *gin.Engine, h Handlers, cfg RouteConfig) {
	router.GET("/health", h.Health.Health)

	requireAuth := middleware.AuthMiddleware(cfg.Auth)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit(cfg.Counter, cfg.RatePerMinute))
	{
		v1.GET("/ping", h.Health.Ping)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", middleware.AuthRateLimit(cfg.Counter, cfg.AuthPerMinute), h.Auth.Register)
			auth.POST("/login", middleware.AuthRateLimit(cfg.Counter, cfg.AuthPerMinute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
			auth.POST("/logout", requireAuth, h.Auth.Logout)
			auth.GET("/me", requireAuth, h.Auth.GetMe)
		}

		users := v1.Group("/users", requireAuth)
		{
			users.GET("/profile", h.User.GetProfile)
			users.PUT("/profile", h.User.UpdateProfile)
			users.POST("/password", h.User.ChangePassword)
		}

		credentials := v1.Group("/credentials", requireAuth)
		{
			credentials.POST("", h.Credential.Save)
			credentials.GET("", h.Credential.Status)
			credentials.POST("/validate", h.Credential.Validate)
			credentials.DELETE("", h.Credential.Delete)
		}

		settings := v1.Group("/settings", requireAuth)
		{
			settings.GET("", h.Settings.Get)
			settings.PUT("", h.Settings.Update)
		}

		bots := v1.Group("/bots", requireAuth)
		{
			bots.POST("", h.Bot.CreateBot)
			bots.GET("", h.Bot.ListBots)
			bots.GET("/:id", h.Bot.GetBot)
			bots.PUT("/:id", h.Bot.UpdateBot)
			bots.DELETE("/:id", h.Bot.DeleteBot)
			bots.GET("/:id/ladder", h.Bot.GetLadder)
		}
		v1.POST("/ladder/preview", requireAuth, h.Bot.PreviewLadder)

		fleetGroup := v1.Group("/fleet")
		{
			fleetGroup.GET("", requireAuth, h.Fleet.GetFleet)
			fleetGroup.GET("/bots/:id", requireAuth, h.Fleet.GetFleetBot)
			fleetGroup.GET("/stream", middleware.StreamAuthMiddleware(cfg.Auth), h.Fleet.Stream)
		}
	}
}
