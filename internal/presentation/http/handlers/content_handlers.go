package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PressPlayMedia/pressplay-go/internal/application/services"
	"github.com/PressPlayMedia/pressplay-go/internal/domain/entities/content"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/caching/manager"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/caching/types"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/performance"
)

// ContentHandlers handles HTTP requests for listing and detail endpoints
type ContentHandlers struct {
	contentService  *services.ContentService
	snapshotService *services.SnapshotService
	cacheManager    *manager.Manager
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
}

// NewContentHandlers creates a new content handlers instance
func NewContentHandlers(
	contentService *services.ContentService,
	snapshotService *services.SnapshotService,
	cacheManager *manager.Manager,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *ContentHandlers {
	return &ContentHandlers{
		contentService:  contentService,
		snapshotService: snapshotService,
		cacheManager:    cacheManager,
		logger:          logger,
		perfTracker:     perfTracker,
	}
}

// GetSection handles GET /api/v1/content/:section
//
// The response is the section's resume state: the grid materialized so far
// plus the pagination cursor. A snapshot-derived state never downgrades a
// stronger state already hydrated into the cache.
func (h *ContentHandlers) GetSection(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_section")
	defer marker.Complete()

	section := content.Section(c.Param("section"))
	if !section.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown section"})
		return
	}

	snapshot := h.snapshotService.GetSnapshot(c.Request.Context())
	items := sectionItems(snapshot, section)

	h.cacheManager.HydrateContent(items)

	nextOffset := len(items)
	state := &types.IndexState{
		Section:     section,
		Items:       items,
		NextOffset:  &nextOffset,
		LastUpdated: time.Now().UTC(),
	}
	if section == content.SectionReviews && len(items) > 0 {
		state.Hero = items[0]
	}

	if !h.cacheManager.HydrateIndex(section, state) {
		if existing, found := h.cacheManager.GetIndex(section); found {
			state = existing
		}
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, state)
}

// GetDetail handles GET /api/v1/content/:section/:slug
func (h *ContentHandlers) GetDetail(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_detail")
	defer marker.Complete()

	section := content.Section(c.Param("section"))
	if !section.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown section"})
		return
	}
	slug := c.Param("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slug is required"})
		return
	}

	item, err := h.contentService.GetDetail(c.Request.Context(), section, slug)
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Content().Debug("Detail request completed", "slug", slug, "duration", time.Since(start))
	c.JSON(http.StatusOK, item)
}

func sectionItems(snapshot *types.Snapshot, section content.Section) []*content.ContentItem {
	switch section {
	case content.SectionReviews:
		return snapshot.Reviews
	case content.SectionArticles:
		return snapshot.Articles
	default:
		return snapshot.News
	}
}
