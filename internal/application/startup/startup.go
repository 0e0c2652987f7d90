// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AtRiskMedia/portfolio-go/internal/application/container"
	"github.com/AtRiskMedia/portfolio-go/internal/application/services"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/cleanup"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/manager"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/portfolio-go/internal/presentation/http/server"
	"github.com/AtRiskMedia/portfolio-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	// Step 1: Initialize channeled logging
	logger, err := logging.NewChanneledLogger(nil)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Startup().Info("Starting portfolio service", "environment", config.Environment)

	// Step 2: Open the database and apply migrations
	logger.Startup().Info("Connecting to database...")
	db, err := database.Connect(logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Step 3: Initialize the cache gateway
	logger.Startup().Info("Initializing cache gateway...")
	broadcaster := messaging.NewPushBroadcaster(logger)
	fetcher := manager.NewHTTPFetcher(nil)
	cacheManager := manager.NewManager(
		stores.NewSQLiteStore(db),
		fetcher,
		broadcaster,
		manager.Options{
			Version:      config.CacheVersion,
			Origin:       config.AssetOrigin,
			APIMarker:    config.APIPathMarker,
			Assets:       config.AssetsToCache,
			SyncQueueKey: config.SyncQueueKey,
		},
		logger)

	// Step 4: Create dependency injection container
	logger.Startup().Info("Initializing dependency injection container...")
	appContainer := container.NewContainer(db, cacheManager, broadcaster, logger)

	// Step 5: Generate image variants
	startMediaTime := time.Now()
	if err := appContainer.MediaProcessor.GenerateAll(); err != nil {
		logger.Startup().Warn("Image variant generation incomplete", "error", err.Error())
	} else {
		logger.Startup().Info("Image variants ready", "duration", time.Since(startMediaTime))
	}

	// Step 6: Load portfolio content
	logger.Startup().Info("Loading portfolio content...")
	if err := appContainer.ContentService.Load(config.ContentPath); err != nil {
		logger.Startup().Warn("Portfolio content unavailable", "path", config.ContentPath, "error", err.Error())
	}

	// Step 7: Register the cache gateway and start its lifecycle workers.
	// Registration is production-only; development serves everything
	// straight from the origin.
	if config.IsProduction() {
		registrar := services.NewRegistrarService(
			cacheManager, fetcher,
			config.AssetOrigin, config.AssetManifestPath, config.CacheVersion,
			config.UpdatePollInterval, config.AssetWatchDir,
			logger)
		if err := registrar.Register(ctx); err != nil {
			logger.Startup().Warn("Cache gateway registration failed", "error", err.Error())
		}
		go registrar.StartUpdatePolling(ctx)
		if err := registrar.WatchAssets(ctx); err != nil {
			logger.Startup().Warn("Asset watch unavailable", "error", err.Error())
		}
	} else {
		logger.Startup().Info("Cache gateway disabled outside production")
	}

	// Step 8: Start background workers
	logger.Startup().Info("Starting background workers...")
	cleanupWorker := cleanup.NewWorker(stores.NewSQLiteStore(db), cleanup.Config{
		Interval: config.CleanupInterval,
		EntryTTL: config.CacheEntryTTL,
		Verbose:  config.CleanupVerbose,
	}, logger)
	go cleanupWorker.Start(ctx)
	go appContainer.AnalyticsService.Start(ctx)

	// Step 9: Start HTTP server
	logger.Startup().Info("Starting HTTP server...")
	httpServer, err := server.New(config.Port, appContainer)
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	}

	// Let in-flight cache writes land before the database closes.
	cacheManager.WaitPending()

	logger.Shutdown().Info("Closing database...")
	if err := db.Close(); err != nil {
		logger.Shutdown().Error("Error closing database", "error", err.Error())
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" || config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
