package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PressPlayMedia/pressplay-go/internal/application/services"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/performance"
	"github.com/PressPlayMedia/pressplay-go/internal/presentation/http/middleware"
)

// AuthHandlers handles HTTP requests for profile auth endpoints
type AuthHandlers struct {
	profileService *services.ProfileService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(profileService *services.ProfileService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthHandlers {
	return &AuthHandlers{
		profileService: profileService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// UnlockRequest is the request body for profile unlock
type UnlockRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UnlockProfile handles POST /api/v1/auth/profile
func (h *AuthHandlers) UnlockProfile(c *gin.Context) {
	marker := h.perfTracker.StartOperation("unlock_profile")
	defer marker.Complete()

	var req UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	profile, token, err := h.profileService.Unlock(req.Username, req.Password)
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"profile": profile, "token": token})
}

// GetProfile handles GET /api/v1/auth/profile (behind ProfileAuthMiddleware)
func (h *AuthHandlers) GetProfile(c *gin.Context) {
	profile, found := middleware.GetProfile(c)
	if !found {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No authenticated profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
