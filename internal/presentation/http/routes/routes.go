// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/AtRiskMedia/portfolio-go/internal/application/container"
	"github.com/AtRiskMedia/portfolio-go/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/portfolio-go/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/portfolio-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) (*gin.Engine, error) {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware(config.AllowedOrigins))

	// Initialize handlers
	formHandlers := handlers.NewFormHandlers(container.FormService, container.Logger, container.PerfTracker)
	contactHandlers := handlers.NewContactHandlers(container.ContactService, container.Logger, container.PerfTracker)
	contentHandlers := handlers.NewContentHandlers(container.ContentService, container.Logger, container.PerfTracker)
	analyticsHandlers := handlers.NewAnalyticsHandlers(container.AnalyticsService, container.Logger, container.PerfTracker)
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger, container.PerfTracker)
	pushHandlers := handlers.NewPushHandlers(container.CacheManager, container.Broadcaster, container.AnalyticsService, container.Logger)
	systemHandlers := handlers.NewSystemHandlers(container.DB, container.PerfTracker)
	gatewayHandlers, err := handlers.NewGatewayHandlers(container.CacheManager, config.AssetOrigin, container.Logger, container.PerfTracker)
	if err != nil {
		return nil, err
	}

	// Generated image variants
	r.Static("/images/generated", config.MediaOutputDir)

	// Public contact endpoint, path matches the configured form target
	r.POST("/api/contact", contactHandlers.PostContact)

	// Public portfolio content
	r.GET("/api/portfolio", contentHandlers.GetPortfolio)
	r.GET("/api/portfolio/:section", contentHandlers.GetSection)

	api := r.Group("/api/v1")
	{
		api.GET("/health", systemHandlers.GetHealth)
		api.GET("/config", systemHandlers.GetPublicConfig)

		api.POST("/auth/login", authHandlers.PostLogin)

		// Session-scoped form state machine
		form := api.Group("/form")
		{
			form.GET("/state", formHandlers.GetState)
			form.POST("/field", formHandlers.PostField)
			form.POST("/blur", formHandlers.PostBlur)
			form.POST("/verification", formHandlers.PostVerification)
			form.POST("/clear", formHandlers.PostClear)
			form.POST("/submit", formHandlers.PostSubmit)
			form.POST("/teardown", formHandlers.PostTeardown)
		}

		// Cache gateway lifecycle and push delivery
		api.GET("/gateway/status", gatewayHandlers.GetStatus)
		api.POST("/gateway/sync", gatewayHandlers.PostSync)
		api.GET("/push/stream", pushHandlers.GetStream)
		api.POST("/push/click", pushHandlers.PostClick)

		// Admin endpoints
		admin := api.Group("/admin")
		admin.Use(authHandlers.AuthMiddleware())
		{
			admin.GET("/messages", contactHandlers.GetMessages)
			admin.PUT("/messages/:id/read", contactHandlers.PutMessageRead)
			admin.GET("/analytics", analyticsHandlers.GetSummary)
			admin.GET("/performance", analyticsHandlers.GetPerformance)
			admin.POST("/push", pushHandlers.PostPush)
		}
	}

	// Everything else flows through the cache gateway
	r.NoRoute(gatewayHandlers.ServeAsset)

	return r, nil
}
