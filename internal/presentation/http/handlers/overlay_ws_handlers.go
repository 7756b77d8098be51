package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/messaging"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
)

// OverlayWSHandlers upgrades overlay session connections
type OverlayWSHandlers struct {
	sessionHub *messaging.SessionHub
	logger     *logging.ChanneledLogger
	upgrader   websocket.Upgrader
}

// NewOverlayWSHandlers creates a new overlay websocket handlers instance
func NewOverlayWSHandlers(sessionHub *messaging.SessionHub, logger *logging.ChanneledLogger) *OverlayWSHandlers {
	return &OverlayWSHandlers{
		sessionHub: sessionHub,
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser origin is enforced by the CORS layer; the upgrade
			// itself accepts any origin so local dev ports work.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Connect handles GET /ws/overlay
func (h *OverlayWSHandlers) Connect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WS().Warn("Overlay session upgrade failed", "error", err.Error())
		return
	}

	session := h.sessionHub.NewSession(conn)
	if session == nil {
		conn.Close()
		return
	}

	go session.WritePump()
	go session.ReadPump()
}
