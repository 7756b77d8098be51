package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/repositories"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/caching/manager"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/performance"
)

// HubHandlers handles HTTP requests for hub endpoints
type HubHandlers struct {
	cacheManager *manager.Manager
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewHubHandlers creates a new hub handlers instance
func NewHubHandlers(cacheManager *manager.Manager, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *HubHandlers {
	return &HubHandlers{
		cacheManager: cacheManager,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// GetHubContent handles GET /api/v1/hubs/:kind/:slug/content
//
// The fetch is idempotent: a hub whose linked content is already loaded is
// served straight from the cache, and concurrent requests for the same hub
// share one upstream load.
func (h *HubHandlers) GetHubContent(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_hub_content")
	defer marker.Complete()

	kind := c.Param("kind")
	slug := c.Param("slug")
	if !validHubKind(kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown hub kind"})
		return
	}
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hub identity is required"})
		return
	}

	if err := h.cacheManager.FetchLinkedContentFor(c.Request.Context(), kind, slug); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Hub content unavailable"})
		return
	}

	var hub any
	var found bool
	switch kind {
	case repositories.HubKindGame:
		hub, found = h.cacheManager.GetGame(slug)
	case repositories.HubKindTag:
		hub, found = h.cacheManager.GetTag(slug)
	case repositories.HubKindCreator:
		hub, found = h.cacheManager.GetCreator(slug)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Hub not found"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Content().Debug("Hub content request completed",
		"kind", kind, "identity", slug, "duration", time.Since(start))
	c.JSON(http.StatusOK, hub)
}

func validHubKind(kind string) bool {
	return kind == repositories.HubKindGame || kind == repositories.HubKindTag || kind == repositories.HubKindCreator
}
