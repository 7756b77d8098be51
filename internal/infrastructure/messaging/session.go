package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/navigation"
	"github.com/PressPlayMedia/pressplay-go/internal/domain/repositories"
	"github.com/PressPlayMedia/pressplay-go/pkg/config"
)

// Conn is the subset of *websocket.Conn the session uses. Tests substitute
// a recording fake.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
	Close() error
}

// navigationEvent is an inbound message from the browsing session.
type navigationEvent struct {
	Event       string                `json:"event"` // open | close | pop
	Slug        string                `json:"slug,omitempty"`
	Kind        string                `json:"kind,omitempty"`
	VisualToken string                `json:"visualToken,omitempty"`
	Path        string                `json:"path,omitempty"`
	ScrollY     int                   `json:"scrollY,omitempty"`
	ScrollTop   int                   `json:"scrollTop,omitempty"`
	State       navigation.EntryState `json:"state,omitempty"`
}

// OverlaySession couples one websocket connection to one overlay controller.
type OverlaySession struct {
	ID         string
	conn       Conn
	send       chan []byte
	hub        *SessionHub
	controller *navigation.Controller

	activityMu   sync.Mutex
	lastActivity time.Time
}

// LastActivity returns when the session last received an event.
func (s *OverlaySession) LastActivity() time.Time {
	s.activityMu.Lock()
	defer s.activityMu.Unlock()
	return s.lastActivity
}

func (s *OverlaySession) touch() {
	s.activityMu.Lock()
	s.lastActivity = time.Now()
	s.activityMu.Unlock()
}

// ReadPump consumes inbound navigation events until the connection drops,
// then unregisters the session. Run as a goroutine per connection.
func (s *OverlaySession) ReadPump() {
	defer func() {
		s.hub.unregister <- s
		s.conn.Close()
	}()

	s.conn.SetReadLimit(config.OverlayMaxInboundMsgBytes)
	s.conn.SetReadDeadline(time.Now().Add(config.OverlayInactivityTimeout))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(config.OverlayInactivityTimeout))
		return nil
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.hub.logger.WS().Warn("Overlay session read failed", "sessionId", s.ID, "error", err.Error())
			}
			return
		}
		s.touch()

		var event navigationEvent
		if err := json.Unmarshal(message, &event); err != nil {
			s.hub.logger.WS().Warn("Malformed navigation event dropped", "sessionId", s.ID, "error", err.Error())
			continue
		}
		s.handleEvent(&event)
	}
}

// WritePump relays queued history commands and heartbeats to the connection.
// Run as a goroutine per connection.
func (s *OverlaySession) WritePump() {
	ticker := time.NewTicker(config.OverlayHeartbeatInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(config.OverlayWriteTimeout))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(config.OverlayWriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleEvent routes one inbound event into the overlay controller. Opening
// a hub overlay kicks off its lazy linked-content load; the load runs on a
// background context so it completes and hydrates the cache even if this
// session is gone before the fetch returns.
func (s *OverlaySession) handleEvent(event *navigationEvent) {
	switch event.Event {
	case "open":
		s.controller.OpenOverlay(event.Slug, event.Kind, event.VisualToken, event.Path, event.ScrollY)
		if isHubKind(event.Kind) {
			go func(kind, slug string) {
				if err := s.hub.cacheManager.FetchLinkedContentFor(context.Background(), kind, slug); err != nil {
					s.hub.logger.WS().Warn("Lazy hub load failed", "sessionId", s.ID, "kind", kind, "identity", slug)
				}
			}(event.Kind, event.Slug)
		}

	case "close":
		s.controller.CloseOverlay(event.ScrollTop)

	case "pop":
		s.controller.HandlePop(event.State, event.ScrollTop)

	default:
		s.hub.logger.WS().Warn("Unknown navigation event", "sessionId", s.ID, "event", event.Event)
	}
}

func isHubKind(kind string) bool {
	return kind == repositories.HubKindGame || kind == repositories.HubKindTag || kind == repositories.HubKindCreator
}
