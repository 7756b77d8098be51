// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/PressPlayMedia/pressplay-go/internal/application/container"
	"github.com/PressPlayMedia/pressplay-go/internal/presentation/http/handlers"
	"github.com/PressPlayMedia/pressplay-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	snapshotHandlers := handlers.NewSnapshotHandlers(container.SnapshotService, container.Logger, container.PerfTracker)
	contentHandlers := handlers.NewContentHandlers(container.ContentService, container.SnapshotService, container.CacheManager, container.Logger, container.PerfTracker)
	hubHandlers := handlers.NewHubHandlers(container.CacheManager, container.Logger, container.PerfTracker)
	creatorHandlers := handlers.NewCreatorHandlers(container.CacheManager, container.Logger, container.PerfTracker)
	authHandlers := handlers.NewAuthHandlers(container.ProfileService, container.Logger, container.PerfTracker)
	mediaHandlers := handlers.NewMediaHandlers(container.PlaceholderService, container.Logger, container.PerfTracker)
	overlayWSHandlers := handlers.NewOverlayWSHandlers(container.SessionHub, container.Logger)

	api := r.Group("/api/v1")
	{
		api.GET("/snapshot", snapshotHandlers.GetSnapshot)
		api.POST("/snapshot/invalidate", snapshotHandlers.InvalidateSnapshot)

		api.GET("/content/:section", contentHandlers.GetSection)
		api.GET("/content/:section/:slug", contentHandlers.GetDetail)

		api.GET("/hubs/:kind/:slug/content", hubHandlers.GetHubContent)
		api.GET("/creators/:alias", creatorHandlers.GetCreator)

		api.POST("/auth/profile", authHandlers.UnlockProfile)
		api.GET("/auth/profile", middleware.ProfileAuthMiddleware(), authHandlers.GetProfile)

		api.GET("/media/placeholder", mediaHandlers.GetPlaceholder)
	}

	// Overlay sessions live outside the versioned API surface
	r.GET("/ws/overlay", overlayWSHandlers.Connect)

	return r
}
