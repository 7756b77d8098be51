package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHistory captures every command the controller issues.
type recordingHistory struct {
	pushes   []historyCall
	replaces []historyCall
	scrolls  []int
}

type historyCall struct {
	state EntryState
	path  string
}

func (h *recordingHistory) PushState(state EntryState, path string) {
	h.pushes = append(h.pushes, historyCall{state, path})
}

func (h *recordingHistory) ReplaceState(state EntryState, path string) {
	h.replaces = append(h.replaces, historyCall{state, path})
}

func (h *recordingHistory) ScrollTo(offset int) {
	h.scrolls = append(h.scrolls, offset)
}

func TestOpenOverlayPushesSyntheticEntry(t *testing.T) {
	history := &recordingHistory{}
	c := NewController(history, nil)

	c.OpenOverlay("elden-ring-review", "reviews", "card-7", "/reviews", 840)

	require.True(t, c.IsOpen())
	kind, slug := c.Current()
	assert.Equal(t, "reviews", kind)
	assert.Equal(t, "elden-ring-review", slug)
	assert.Equal(t, "card-7", c.SourceVisualToken())

	require.Len(t, history.pushes, 1)
	assert.Equal(t, "/reviews/elden-ring-review", history.pushes[0].path)
	assert.True(t, history.pushes[0].state.Overlay)
	assert.Equal(t, "elden-ring-review", history.pushes[0].state.Slug)
}

func TestChainedOpenKeepsFirstCapture(t *testing.T) {
	history := &recordingHistory{}
	c := NewController(history, nil)

	c.OpenOverlay("first", "reviews", "", "/reviews", 840)
	c.OpenOverlay("second", "articles", "", "/reviews/first", 0)

	// Closing returns to the path and scroll captured by the very first open.
	c.CloseOverlay(0)

	require.Len(t, history.replaces, 1)
	assert.Equal(t, "/reviews", history.replaces[0].path)
	assert.False(t, history.replaces[0].state.Overlay)
	require.Len(t, history.scrolls, 1)
	assert.Equal(t, 840, history.scrolls[0])
	assert.False(t, c.IsOpen())
}

func TestCloseOverlaySkipsScrollWhenPageScrolled(t *testing.T) {
	history := &recordingHistory{}
	c := NewController(history, nil)

	c.OpenOverlay("first", "reviews", "", "/reviews", 840)
	c.CloseOverlay(300) // visitor scrolled the underlying page mid-overlay

	assert.Empty(t, history.scrolls)
	assert.False(t, c.IsOpen())
}

func TestCloseOverlaySkipsScrollWhenNothingSaved(t *testing.T) {
	history := &recordingHistory{}
	c := NewController(history, nil)

	c.OpenOverlay("first", "reviews", "", "/reviews", 0)
	c.CloseOverlay(0)

	assert.Empty(t, history.scrolls)
}

func TestCloseWhileClosedIsNoOp(t *testing.T) {
	history := &recordingHistory{}
	c := NewController(history, nil)

	c.CloseOverlay(0)

	assert.Empty(t, history.replaces)
	assert.Empty(t, history.scrolls)
}

func TestHandlePopSwapsOverlayInPlace(t *testing.T) {
	history := &recordingHistory{}
	c := NewController(history, nil)

	c.OpenOverlay("first", "reviews", "", "/reviews", 840)
	c.OpenOverlay("second", "articles", "", "/reviews/first", 0)

	// Back button lands on the first overlay entry: identity swaps, no push,
	// the original capture survives.
	c.HandlePop(EntryState{Overlay: true, Slug: "first", Kind: "reviews"}, 0)

	require.True(t, c.IsOpen())
	kind, slug := c.Current()
	assert.Equal(t, "reviews", kind)
	assert.Equal(t, "first", slug)
	assert.Len(t, history.pushes, 2, "pop must not push")

	// Closing still returns to the original real path.
	c.CloseOverlay(0)
	require.Len(t, history.replaces, 1)
	assert.Equal(t, "/reviews", history.replaces[0].path)
	assert.Equal(t, []int{840}, history.scrolls)
}

func TestHandlePopUnmarkedEntryClosesOverlay(t *testing.T) {
	history := &recordingHistory{}
	c := NewController(history, nil)

	c.OpenOverlay("first", "reviews", "", "/reviews", 840)

	// Visitor backed out past the overlay: the pop already moved history,
	// so the machine closes without replacing.
	c.HandlePop(EntryState{}, 0)

	assert.False(t, c.IsOpen())
	assert.Empty(t, history.replaces)
	assert.Equal(t, []int{840}, history.scrolls)
}

func TestHandlePopWhileClosedIsNoOp(t *testing.T) {
	history := &recordingHistory{}
	c := NewController(history, nil)

	c.HandlePop(EntryState{}, 0)

	assert.False(t, c.IsOpen())
	assert.Empty(t, history.replaces)
	assert.Empty(t, history.scrolls)
}

func TestReopenAfterCloseCapturesFreshState(t *testing.T) {
	history := &recordingHistory{}
	c := NewController(history, nil)

	c.OpenOverlay("first", "reviews", "", "/reviews", 840)
	c.CloseOverlay(0)

	c.OpenOverlay("second", "news", "", "/news", 120)
	c.CloseOverlay(0)

	require.Len(t, history.replaces, 2)
	assert.Equal(t, "/news", history.replaces[1].path)
	assert.Equal(t, []int{840, 120}, history.scrolls)
}
