// Package messaging manages the per-session websocket connections that carry
// overlay navigation events in and history commands out.
package messaging

import (
	"sync"
	"time"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/navigation"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/caching/manager"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/security"
	"github.com/PressPlayMedia/pressplay-go/pkg/config"
)

// SessionHub owns every live overlay session. Each browsing session gets one
// websocket connection, one overlay controller, and one history relay.
type SessionHub struct {
	sessions     map[string]*OverlaySession
	register     chan *OverlaySession
	unregister   chan *OverlaySession
	cacheManager *manager.Manager
	logger       *logging.ChanneledLogger
	mu           sync.RWMutex
}

// NewSessionHub creates a session hub.
func NewSessionHub(cacheManager *manager.Manager, logger *logging.ChanneledLogger) *SessionHub {
	return &SessionHub{
		sessions:     make(map[string]*OverlaySession),
		register:     make(chan *OverlaySession),
		unregister:   make(chan *OverlaySession),
		cacheManager: cacheManager,
		logger:       logger,
	}
}

// Run is the hub's main loop. Run it as a goroutine; it also sweeps sessions
// that went quiet past the inactivity timeout.
func (h *SessionHub) Run() {
	ticker := time.NewTicker(config.OverlayInactivityTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case session := <-h.register:
			h.mu.Lock()
			h.sessions[session.ID] = session
			h.mu.Unlock()
			h.logger.WS().Info("Overlay session registered", "sessionId", session.ID, "sessions", h.Count())

		case session := <-h.unregister:
			h.mu.Lock()
			if _, found := h.sessions[session.ID]; found {
				delete(h.sessions, session.ID)
				close(session.send)
			}
			h.mu.Unlock()
			h.logger.WS().Info("Overlay session unregistered", "sessionId", session.ID, "sessions", h.Count())

		case <-ticker.C:
			h.sweepInactive()
		}
	}
}

// NewSession creates a session around an accepted connection and registers
// it. Returns nil when the hub is at capacity.
func (h *SessionHub) NewSession(conn Conn) *OverlaySession {
	if h.Count() >= config.MaxOverlaySessions {
		h.logger.WS().Warn("Overlay session rejected, hub at capacity", "max", config.MaxOverlaySessions)
		return nil
	}

	session := &OverlaySession{
		ID:           security.GenerateULID(),
		conn:         conn,
		send:         make(chan []byte, 16),
		hub:          h,
		lastActivity: time.Now(),
	}
	session.controller = navigation.NewController(&wsHistory{session: session}, h.logger)

	h.register <- session
	return session
}

// Count returns the number of live sessions.
func (h *SessionHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (h *SessionHub) sweepInactive() {
	cutoff := time.Now().Add(-config.OverlayInactivityTimeout)

	h.mu.RLock()
	stale := make([]*OverlaySession, 0)
	for _, session := range h.sessions {
		if session.LastActivity().Before(cutoff) {
			stale = append(stale, session)
		}
	}
	h.mu.RUnlock()

	for _, session := range stale {
		h.logger.WS().Info("Closing inactive overlay session", "sessionId", session.ID)
		session.conn.Close()
	}
}
