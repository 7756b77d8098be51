package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/media"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/performance"
)

// MediaHandlers handles HTTP requests for media endpoints
type MediaHandlers struct {
	placeholderService *media.PlaceholderService
	logger             *logging.ChanneledLogger
	perfTracker        *performance.Tracker
}

// NewMediaHandlers creates a new media handlers instance
func NewMediaHandlers(placeholderService *media.PlaceholderService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *MediaHandlers {
	return &MediaHandlers{
		placeholderService: placeholderService,
		logger:             logger,
		perfTracker:        perfTracker,
	}
}

// GetPlaceholder handles GET /api/v1/media/placeholder?url=...
//
// Used when a CMS payload lacks a precomputed blur payload for its cover.
func (h *MediaHandlers) GetPlaceholder(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_placeholder")
	defer marker.Complete()

	sourceURL := c.Query("url")
	if sourceURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return
	}
	parsed, err := url.Parse(sourceURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url must be absolute http(s)"})
		return
	}

	placeholder, err := h.placeholderService.Generate(c.Request.Context(), sourceURL)
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Placeholder generation failed"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"placeholder": placeholder})
}
