package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/caching/manager"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/performance"
)

// CreatorHandlers handles HTTP requests for creator endpoints
type CreatorHandlers struct {
	cacheManager *manager.Manager
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewCreatorHandlers creates a new creator handlers instance
func NewCreatorHandlers(cacheManager *manager.Manager, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *CreatorHandlers {
	return &CreatorHandlers{
		cacheManager: cacheManager,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// GetCreator handles GET /api/v1/creators/:alias
//
// The alias may be the directory profile id, the internal content id, or the
// public handle; all three resolve to the same canonical record.
func (h *CreatorHandlers) GetCreator(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_creator")
	defer marker.Complete()

	alias := c.Param("alias")
	if alias == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Creator alias is required"})
		return
	}

	creator, found := h.cacheManager.GetCreator(alias)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Creator not found"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, creator)
}
