package stores

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/entities/content"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/caching/types"
)

func fullItem(slug string) *content.ContentItem {
	score := 8.5
	verdict := "Great"
	placeholder := "data:image/webp;base64,xyz"
	return &content.ContentItem{
		ID:          "id-" + slug,
		Section:     content.SectionReviews,
		Slug:        slug,
		Title:       "Full " + slug,
		Published:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Score:       &score,
		Verdict:     &verdict,
		Placeholder: &placeholder,
		Body:        []content.Block{{Type: content.BlockTypeText, Style: content.StyleNormal}},
		FullyLoaded: true,
	}
}

func cardItem(slug string) *content.ContentItem {
	return &content.ContentItem{
		ID:      "id-" + slug,
		Section: content.SectionReviews,
		Slug:    slug,
		Title:   "Card " + slug,
	}
}

func TestHydrateContentInsertsAndMerges(t *testing.T) {
	store := NewContentStore()

	store.HydrateContent([]*content.ContentItem{cardItem("elden-ring")})

	got, found := store.GetContent("elden-ring")
	require.True(t, found)
	assert.Equal(t, "Card elden-ring", got.Title)
	assert.False(t, got.FullyLoaded)
}

func TestHydrateContentFullyLoadedRatchet(t *testing.T) {
	store := NewContentStore()

	store.HydrateContent([]*content.ContentItem{fullItem("elden-ring")})
	full, found := store.GetContent("elden-ring")
	require.True(t, found)
	require.True(t, full.FullyLoaded)

	// A later lighter payload must not unset FullyLoaded or discard detail.
	store.HydrateContent([]*content.ContentItem{cardItem("elden-ring")})

	got, found := store.GetContent("elden-ring")
	require.True(t, found)
	assert.Same(t, full, got, "existing entry stays the canonical reference")
	assert.True(t, got.FullyLoaded)
	assert.NotEmpty(t, got.Body)
	require.NotNil(t, got.Score)
	assert.Equal(t, 8.5, *got.Score)
	assert.NotNil(t, got.Placeholder)
	assert.Equal(t, "Card elden-ring", got.Title, "basic fields still refresh")
}

func TestHydrateContentLighterPayloadContributesJoinedFields(t *testing.T) {
	store := NewContentStore()

	store.HydrateContent([]*content.ContentItem{fullItem("elden-ring")})

	lighter := cardItem("elden-ring")
	gameID := "game-1"
	lighter.GameID = &gameID
	lighter.AuthorName = "Sam Reviewer"
	store.HydrateContent([]*content.ContentItem{lighter})

	got, _ := store.GetContent("elden-ring")
	require.NotNil(t, got.GameID)
	assert.Equal(t, "game-1", *got.GameID)
	assert.Equal(t, "Sam Reviewer", got.AuthorName)
	assert.True(t, got.FullyLoaded)
}

func TestHydrateContentUpgradeToFullyLoaded(t *testing.T) {
	store := NewContentStore()

	store.HydrateContent([]*content.ContentItem{cardItem("elden-ring")})
	card, _ := store.GetContent("elden-ring")

	store.HydrateContent([]*content.ContentItem{fullItem("elden-ring")})

	got, _ := store.GetContent("elden-ring")
	assert.Same(t, card, got)
	assert.True(t, got.FullyLoaded)
	assert.NotEmpty(t, got.Body)
}

func TestHydrateContentSkipsNilAndEmptyIdentity(t *testing.T) {
	store := NewContentStore()

	store.HydrateContent([]*content.ContentItem{nil, {Title: "no identity"}})
	assert.Empty(t, store.GetAllContentSlugs())
}

func TestHydrateIndexRefusesWeakerState(t *testing.T) {
	store := NewContentStore()

	strong := &types.IndexState{
		Items: []*content.ContentItem{cardItem("a"), cardItem("b"), cardItem("c")},
	}
	require.True(t, store.HydrateIndex(content.SectionReviews, strong))

	weak := &types.IndexState{
		Items: []*content.ContentItem{cardItem("a")},
	}
	assert.False(t, store.HydrateIndex(content.SectionReviews, weak))

	got, found := store.GetIndex(content.SectionReviews)
	require.True(t, found)
	assert.Len(t, got.Items, 3)

	longer := &types.IndexState{
		Items: []*content.ContentItem{cardItem("a"), cardItem("b"), cardItem("c"), cardItem("d")},
	}
	assert.True(t, store.HydrateIndex(content.SectionReviews, longer))

	got, _ = store.GetIndex(content.SectionReviews)
	assert.Len(t, got.Items, 4)
	assert.Equal(t, content.SectionReviews, got.Section)
	assert.False(t, got.LastUpdated.IsZero())
}
