// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/PressPlayMedia/pressplay-go/internal/application/services"
	"github.com/PressPlayMedia/pressplay-go/internal/domain/repositories"
	"github.com/PressPlayMedia/pressplay-go/internal/domain/user"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/caching/manager"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/caching/memo"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/media"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/messaging"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/performance"
	"github.com/PressPlayMedia/pressplay-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services
	SnapshotService   *services.SnapshotService
	ContentService    *services.ContentService
	EnrichmentService *services.EnrichmentService
	ProfileService    *services.ProfileService

	// Infrastructure
	CacheManager       *manager.Manager
	MemoCache          *memo.Cache
	SessionHub         *messaging.SessionHub
	PlaceholderService *media.PlaceholderService
	Logger             *logging.ChanneledLogger
	PerfTracker        *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(
	querier repositories.ContentQuerier,
	directory user.DirectoryRepository,
	logger *logging.ChanneledLogger,
) *Container {
	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig())
	memoCache := memo.NewCache(config.SnapshotTTL)
	cacheManager := manager.New(logger)

	enrichmentService := services.NewEnrichmentService(directory, logger)
	contentService := services.NewContentService(querier, enrichmentService, cacheManager, memoCache, logger)
	cacheManager.SetLinkedContentLoader(contentService)

	snapshotService := services.NewSnapshotService(querier, enrichmentService, memoCache, logger, perfTracker)
	profileService := services.NewProfileService(directory, logger)

	sessionHub := messaging.NewSessionHub(cacheManager, logger)
	placeholderService := media.NewPlaceholderService(logger)

	return &Container{
		SnapshotService:   snapshotService,
		ContentService:    contentService,
		EnrichmentService: enrichmentService,
		ProfileService:    profileService,

		CacheManager:       cacheManager,
		MemoCache:          memoCache,
		SessionHub:         sessionHub,
		PlaceholderService: placeholderService,
		Logger:             logger,
		PerfTracker:        perfTracker,
	}
}
