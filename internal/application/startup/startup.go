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

	"github.com/gin-gonic/gin"

	"github.com/PressPlayMedia/pressplay-go/internal/application/container"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/cms"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/persistence/database"
	userrepo "github.com/PressPlayMedia/pressplay-go/internal/infrastructure/persistence/user"
	"github.com/PressPlayMedia/pressplay-go/internal/presentation/http/server"
	"github.com/PressPlayMedia/pressplay-go/pkg/config"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupGinMode()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("PressPlay content core starting...")

	// Step 1: Channeled logging
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.LogStartupPhase("logging", time.Since(start), true, nil)

	// Step 2: Directory database
	dbStart := time.Now()
	db, err := database.NewDatabase()
	if err != nil {
		logger.LogStartupPhase("directory_database", time.Since(dbStart), false, map[string]any{"error": err.Error()})
		return fmt.Errorf("failed to open directory database: %w", err)
	}
	logger.LogStartupPhase("directory_database", time.Since(dbStart), true, map[string]any{"turso": db.UseTurso})

	directory := userrepo.NewSQLDirectoryRepository(db, logger)
	querier := cms.NewClient(logger)

	// Step 3: Dependency injection container
	appContainer := container.NewContainer(querier, directory, logger)
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 4: Overlay session hub
	go appContainer.SessionHub.Run()
	logger.Startup().Info("Overlay session hub started")

	// Step 5: Background maintenance worker (memo sweep + perf metric eviction)
	go runMaintenance(ctx, appContainer)
	logger.Startup().Info("Background maintenance worker started", "interval", config.SnapshotCleanupInterval)

	// Step 6: Warm the first snapshot so first paint never waits on a cold build
	warmStart := time.Now()
	snapshot := appContainer.SnapshotService.GetSnapshot(ctx)
	logger.LogStartupPhase("snapshot_warming", time.Since(warmStart), !snapshot.Metadata.Degraded,
		map[string]any{"buildId": snapshot.Metadata.BuildID, "items": snapshot.Metadata.ItemCount})

	// Step 7: HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start), "port", config.Port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	if err := db.Close(); err != nil {
		logger.Shutdown().Error("Error closing directory database", "error", err.Error())
	} else {
		logger.Shutdown().Info("Directory database closed successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// runMaintenance periodically evicts expired memo entries and old
// performance markers.
func runMaintenance(ctx context.Context, appContainer *container.Container) {
	ticker := time.NewTicker(config.SnapshotCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			evicted := appContainer.MemoCache.Cleanup()
			appContainer.PerfTracker.Cleanup()
			if evicted > 0 {
				appContainer.Logger.Cache().Debug("Maintenance sweep complete", "evicted", evicted)
			}
		}
	}
}

// setupGinMode configures the gin runtime mode
func setupGinMode() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
}
