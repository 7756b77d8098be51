package messaging

import (
	"encoding/json"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/navigation"
)

// historyCommand is an outbound instruction mirroring the History API.
type historyCommand struct {
	Command string                 `json:"command"` // push | replace | scroll
	State   *navigation.EntryState `json:"state,omitempty"`
	Path    string                 `json:"path,omitempty"`
	Offset  int                    `json:"offset,omitempty"`
}

// wsHistory implements navigation.History by relaying commands over the
// session's websocket. A full send queue drops the command rather than
// blocking the controller.
type wsHistory struct {
	session *OverlaySession
}

func (h *wsHistory) PushState(state navigation.EntryState, path string) {
	h.relay(&historyCommand{Command: "push", State: &state, Path: path})
}

func (h *wsHistory) ReplaceState(state navigation.EntryState, path string) {
	h.relay(&historyCommand{Command: "replace", State: &state, Path: path})
}

func (h *wsHistory) ScrollTo(offset int) {
	h.relay(&historyCommand{Command: "scroll", Offset: offset})
}

func (h *wsHistory) relay(command *historyCommand) {
	message, err := json.Marshal(command)
	if err != nil {
		return
	}
	select {
	case h.session.send <- message:
	default:
		h.session.hub.logger.WS().Warn("History command dropped, send queue full", "sessionId", h.session.ID)
	}
}
