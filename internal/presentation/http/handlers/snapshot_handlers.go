// Package handlers contains the thin HTTP wrappers over the application
// services, following a constructor-injected handler-per-concern layout.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PressPlayMedia/pressplay-go/internal/application/services"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/performance"
)

// SnapshotHandlers handles HTTP requests for snapshot endpoints
type SnapshotHandlers struct {
	snapshotService *services.SnapshotService
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
}

// NewSnapshotHandlers creates a new snapshot handlers instance
func NewSnapshotHandlers(snapshotService *services.SnapshotService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SnapshotHandlers {
	return &SnapshotHandlers{
		snapshotService: snapshotService,
		logger:          logger,
		perfTracker:     perfTracker,
	}
}

// GetSnapshot handles GET /api/v1/snapshot
func (h *SnapshotHandlers) GetSnapshot(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_snapshot")
	defer marker.Complete()

	snapshot := h.snapshotService.GetSnapshot(c.Request.Context())

	marker.SetSuccess(!snapshot.Metadata.Degraded)
	h.logger.Snapshot().Debug("Snapshot request completed",
		"buildId", snapshot.Metadata.BuildID, "degraded", snapshot.Metadata.Degraded, "duration", time.Since(start))

	c.JSON(http.StatusOK, snapshot)
}

// InvalidateSnapshot handles POST /api/v1/snapshot/invalidate
func (h *SnapshotHandlers) InvalidateSnapshot(c *gin.Context) {
	dropped := h.snapshotService.Invalidate()
	c.JSON(http.StatusOK, gin.H{"dropped": dropped})
}
