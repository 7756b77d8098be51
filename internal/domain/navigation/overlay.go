// Package navigation implements the overlay state machine that drives
// in-place content overlays over real browsing history.
//
// The machine has exactly two states, Closed and Open. Every open pushes a
// synthetic history entry; a pop onto another overlay entry swaps the
// identity in place; closing replaces back to the real path the visitor came
// from. All transitions run through the controller so the behavior is
// testable without a browser.
package navigation

import (
	"fmt"

	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
)

// EntryState is the payload stored on a history entry. Overlay marks
// synthetic entries so a pop can tell them apart from real navigation.
type EntryState struct {
	Overlay bool   `json:"overlay"`
	Slug    string `json:"slug,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// History abstracts the browsing session's history stack. The production
// implementation relays commands over the session websocket; tests record.
type History interface {
	PushState(state EntryState, path string)
	ReplaceState(state EntryState, path string)
	ScrollTo(offset int)
}

// Controller is the per-session overlay state machine.
type Controller struct {
	history History
	logger  *logging.ChanneledLogger

	open              bool
	slug              string
	kind              string
	sourceVisualToken string
	savedScrollOffset int
	previousRealPath  string
}

// NewController creates a controller in the Closed state.
func NewController(history History, logger *logging.ChanneledLogger) *Controller {
	return &Controller{
		history: history,
		logger:  logger,
	}
}

// IsOpen reports whether an overlay is showing.
func (c *Controller) IsOpen() bool {
	return c.open
}

// Current returns the open overlay's kind and slug, or empty strings when
// the machine is Closed.
func (c *Controller) Current() (kind, slug string) {
	if !c.open {
		return "", ""
	}
	return c.kind, c.slug
}

// SourceVisualToken returns the token of the card the open overlay grew out
// of, for the caller's transition animation.
func (c *Controller) SourceVisualToken() string {
	return c.sourceVisualToken
}

// OpenOverlay shows an overlay. A Closed machine captures the visitor's
// scroll offset and real path before pushing the synthetic entry; an Open
// machine is chaining to another identity and must not overwrite the capture,
// otherwise closing would return to an overlay path instead of real content.
func (c *Controller) OpenOverlay(slug, kind, visualToken, currentPath string, scrollY int) {
	if !c.open {
		c.savedScrollOffset = scrollY
		c.previousRealPath = currentPath
	}

	c.open = true
	c.slug = slug
	c.kind = kind
	c.sourceVisualToken = visualToken

	c.history.PushState(EntryState{Overlay: true, Slug: slug, Kind: kind}, overlayPath(kind, slug))

	if c.logger != nil {
		c.logger.Navigation().Debug("Overlay opened", "kind", kind, "slug", slug)
	}
}

// HandlePop processes a history pop. An overlay-marked entry means the
// visitor navigated between overlay entries: the identity swaps in place and
// the capture survives. An unmarked entry while Open means the visitor backed
// out past the overlay, so the machine closes without touching history (the
// pop already moved it).
func (c *Controller) HandlePop(state EntryState, scrollTop int) {
	if state.Overlay {
		c.open = true
		c.slug = state.Slug
		c.kind = state.Kind
		if c.logger != nil {
			c.logger.Navigation().Debug("Overlay swapped via pop", "kind", state.Kind, "slug", state.Slug)
		}
		return
	}

	if !c.open {
		return
	}

	c.dismiss(scrollTop, false)
}

// CloseOverlay dismisses the overlay from a direct action (close button,
// escape). The synthetic entry is replaced with the saved real path so the
// back stack never revisits a dismissed overlay.
func (c *Controller) CloseOverlay(scrollTop int) {
	if !c.open {
		return
	}
	c.dismiss(scrollTop, true)
}

// dismiss leaves the Open state, optionally replacing the synthetic history
// entry with the saved real path.
func (c *Controller) dismiss(scrollTop int, replaceEntry bool) {
	if replaceEntry {
		c.history.ReplaceState(EntryState{}, c.previousRealPath)
	}

	// Restore only when the page sits at the top: a visitor who scrolled the
	// underlying page mid-overlay keeps their position.
	if scrollTop == 0 && c.savedScrollOffset != 0 {
		c.history.ScrollTo(c.savedScrollOffset)
	}

	if c.logger != nil {
		c.logger.Navigation().Debug("Overlay closed", "kind", c.kind, "slug", c.slug)
	}

	c.open = false
	c.slug = ""
	c.kind = ""
	c.sourceVisualToken = ""
	c.savedScrollOffset = 0
	c.previousRealPath = ""
}

func overlayPath(kind, slug string) string {
	return fmt.Sprintf("/%s/%s", kind, slug)
}
