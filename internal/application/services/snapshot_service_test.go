package services

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/entities/content"
	"github.com/PressPlayMedia/pressplay-go/internal/domain/repositories"
	"github.com/PressPlayMedia/pressplay-go/internal/domain/user"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/caching/memo"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/performance"
)

// fakeQuerier serves canned lists and records the hub id batches it saw.
type fakeQuerier struct {
	full  map[content.Section][]*content.ContentItem
	light map[content.Section][]*content.ContentItem

	creators []*content.CreatorNode
	releases []*content.ReleaseNode
	games    []*content.GameNode
	tags     []*content.TagNode

	gameIDBatches [][]string
	tagIDBatches  [][]string
	listCalls     atomic.Int32

	failSections bool
}

func (f *fakeQuerier) ListSection(ctx context.Context, section content.Section, offset, limit int, proj repositories.Projection) ([]*content.ContentItem, error) {
	f.listCalls.Add(1)
	if f.failSections {
		return nil, errors.New("content store down")
	}
	if proj == repositories.ProjectionFull {
		return f.full[section], nil
	}
	return f.light[section], nil
}

func (f *fakeQuerier) FindBySlug(ctx context.Context, section content.Section, slug string) (*content.ContentItem, error) {
	return nil, nil
}

func (f *fakeQuerier) GamesByIDs(ctx context.Context, ids []string) ([]*content.GameNode, error) {
	f.gameIDBatches = append(f.gameIDBatches, ids)
	return f.games, nil
}

func (f *fakeQuerier) TagsByIDs(ctx context.Context, ids []string) ([]*content.TagNode, error) {
	f.tagIDBatches = append(f.tagIDBatches, ids)
	return f.tags, nil
}

func (f *fakeQuerier) ListCreators(ctx context.Context, recentLimit int) ([]*content.CreatorNode, error) {
	return f.creators, nil
}

func (f *fakeQuerier) ListReleases(ctx context.Context) ([]*content.ReleaseNode, error) {
	return f.releases, nil
}

func (f *fakeQuerier) LinkedContentFor(ctx context.Context, kind, identity string) ([]*content.ContentItem, error) {
	return nil, nil
}

func (f *fakeQuerier) HighlightDictionary(ctx context.Context) ([]content.HighlightEntry, error) {
	return nil, nil
}

// fakeDirectory resolves every profile id and counts batch calls.
type fakeDirectory struct {
	entries    map[string]*user.DirectoryEntry
	batchCalls atomic.Int32
}

func (f *fakeDirectory) FindByProfileID(profileID string) (*user.DirectoryEntry, error) {
	return f.entries[profileID], nil
}

func (f *fakeDirectory) FindByProfileIDs(profileIDs []string) (map[string]*user.DirectoryEntry, error) {
	f.batchCalls.Add(1)
	found := make(map[string]*user.DirectoryEntry)
	for _, id := range profileIDs {
		if entry, ok := f.entries[id]; ok {
			found[id] = entry
		}
	}
	return found, nil
}

func (f *fakeDirectory) FindByUsername(username string) (*user.DirectoryEntry, error) {
	return nil, nil
}

func (f *fakeDirectory) ValidateCredentials(username, password string) (*user.DirectoryEntry, error) {
	return nil, errors.New("not supported")
}

func quietLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError + 4,
		ChannelLevels:   map[logging.Channel]slog.Level{},
	})
	require.NoError(t, err)
	return logger
}

func newTestSnapshotService(t *testing.T, querier *fakeQuerier, directory *fakeDirectory) *SnapshotService {
	t.Helper()
	logger := quietLogger(t)
	enricher := NewEnrichmentService(directory, logger)
	return NewSnapshotService(querier, enricher, memo.NewCache(time.Hour), logger, performance.NewTracker(performance.DefaultTrackerConfig()))
}

func reviewItem(slug string, score float64) *content.ContentItem {
	placeholder := "blur-" + slug
	return &content.ContentItem{
		ID:          "id-" + slug,
		Section:     content.SectionReviews,
		Slug:        slug,
		Title:       slug,
		Score:       &score,
		Placeholder: &placeholder,
		Body:        []content.Block{{Type: content.BlockTypeText, Style: content.StyleNormal, Children: []content.Span{{Text: "body"}}}},
		FullyLoaded: true,
	}
}

func cardOnly(section content.Section, slug string) *content.ContentItem {
	placeholder := "blur-" + slug
	return &content.ContentItem{
		ID:          "id-" + slug,
		Section:     section,
		Slug:        slug,
		Title:       slug,
		Placeholder: &placeholder,
	}
}

func TestBuildSnapshotDegradesOnUpstreamFailure(t *testing.T) {
	querier := &fakeQuerier{failSections: true}
	svc := newTestSnapshotService(t, querier, &fakeDirectory{})

	snapshot := svc.BuildSnapshot(context.Background())

	require.NotNil(t, snapshot)
	assert.True(t, snapshot.Metadata.Degraded)
	assert.NotEmpty(t, snapshot.Metadata.BuildID)
	assert.NotNil(t, snapshot.Reviews)
	assert.Empty(t, snapshot.Reviews)
	assert.NotNil(t, snapshot.Hubs.Games)
	assert.NotNil(t, snapshot.Hubs.Creators)
}

func TestBuildSnapshotCollectsHubIDsFromFullWindowsOnly(t *testing.T) {
	fullGame := "game-full"
	lightGame := "game-light"

	fullReview := reviewItem("full-review", 8.0)
	fullReview.GameID = &fullGame
	fullReview.TagIDs = []string{"tag-1"}

	lightReview := cardOnly(content.SectionReviews, "light-review")
	lightReview.GameID = &lightGame

	thisMonth := time.Now().UTC()
	lastMonth := thisMonth.AddDate(0, -1, 0)

	querier := &fakeQuerier{
		full:  map[content.Section][]*content.ContentItem{content.SectionReviews: {fullReview}},
		light: map[content.Section][]*content.ContentItem{content.SectionReviews: {lightReview}},
		releases: []*content.ReleaseNode{
			{ID: "r1", GameID: "game-release", Date: thisMonth},
			{ID: "r2", GameID: "game-old", Date: lastMonth},
		},
	}
	svc := newTestSnapshotService(t, querier, &fakeDirectory{})

	snapshot := svc.BuildSnapshot(context.Background())
	require.False(t, snapshot.Metadata.Degraded)

	require.Len(t, querier.gameIDBatches, 1)
	assert.Equal(t, []string{"game-full", "game-release"}, querier.gameIDBatches[0],
		"light-window games excluded, current-month release games included")
	require.Len(t, querier.tagIDBatches, 1)
	assert.Equal(t, []string{"tag-1"}, querier.tagIDBatches[0])
}

func TestBuildSnapshotSkipsHubFetchForEmptyIDSets(t *testing.T) {
	querier := &fakeQuerier{}
	svc := newTestSnapshotService(t, querier, &fakeDirectory{})

	snapshot := svc.BuildSnapshot(context.Background())
	require.False(t, snapshot.Metadata.Degraded)

	assert.Empty(t, querier.gameIDBatches, "no ids, no call")
	assert.Empty(t, querier.tagIDBatches)
}

func TestBuildSnapshotDeduplicatesAcrossListsAndHubs(t *testing.T) {
	gameID := "game-1"
	shared := reviewItem("shared-review", 8.0)
	shared.GameID = &gameID

	// The game hub references the same identity through a separate object.
	hubCopy := cardOnly(content.SectionReviews, "shared-review")

	querier := &fakeQuerier{
		full:  map[content.Section][]*content.ContentItem{content.SectionReviews: {shared}},
		light: map[content.Section][]*content.ContentItem{},
		games: []*content.GameNode{{ID: "game-1", Slug: "elden-ring", LinkedContent: []*content.ContentItem{hubCopy}}},
	}
	svc := newTestSnapshotService(t, querier, &fakeDirectory{})

	snapshot := svc.BuildSnapshot(context.Background())
	require.False(t, snapshot.Metadata.Degraded)

	require.Len(t, snapshot.Reviews, 1)
	require.Len(t, snapshot.Hubs.Games, 1)
	require.Len(t, snapshot.Hubs.Games[0].LinkedContent, 1)
	assert.Same(t, snapshot.Reviews[0], snapshot.Hubs.Games[0].LinkedContent[0],
		"every occurrence of an identity re-expands to the same pooled record")
	assert.Equal(t, 1, snapshot.Metadata.ItemCount)
}

func TestBuildSnapshotEnrichesPoolOnce(t *testing.T) {
	shared := reviewItem("shared-review", 8.0)
	shared.CreatorIDs = []string{"creator-1"}

	querier := &fakeQuerier{
		full:  map[content.Section][]*content.ContentItem{content.SectionReviews: {shared}},
		light: map[content.Section][]*content.ContentItem{},
		creators: []*content.CreatorNode{{
			ID:        "creator-1",
			ProfileID: "profile-9",
			Handle:    "sam",
		}},
	}
	directory := &fakeDirectory{entries: map[string]*user.DirectoryEntry{
		"profile-9": {ProfileID: "profile-9", Username: "sam", Name: "Sam Reviewer", Image: "https://cdn/a.jpg", Bio: "writes reviews"},
	}}
	svc := newTestSnapshotService(t, querier, directory)

	snapshot := svc.BuildSnapshot(context.Background())
	require.False(t, snapshot.Metadata.Degraded)

	require.Len(t, snapshot.Reviews, 1)
	assert.Equal(t, "Sam Reviewer", snapshot.Reviews[0].AuthorName)
	assert.Equal(t, "sam", snapshot.Reviews[0].AuthorHandle)

	// One batch for the pool pass, one for the creator second pass.
	assert.LessOrEqual(t, directory.batchCalls.Load(), int32(2))

	require.Len(t, snapshot.Hubs.Creators, 1)
	assert.Equal(t, "Sam Reviewer", snapshot.Hubs.Creators[0].Name)
	assert.Equal(t, "writes reviews", snapshot.Hubs.Creators[0].Bio)
}

func TestBuildSnapshotCompilesPooledBodies(t *testing.T) {
	item := reviewItem("with-body", 8.0)

	querier := &fakeQuerier{
		full:  map[content.Section][]*content.ContentItem{content.SectionReviews: {item}},
		light: map[content.Section][]*content.ContentItem{},
	}
	svc := newTestSnapshotService(t, querier, &fakeDirectory{})

	snapshot := svc.BuildSnapshot(context.Background())

	require.Len(t, snapshot.Reviews, 1)
	require.NotEmpty(t, snapshot.Reviews[0].Compiled)
	assert.Equal(t, content.ChunkHTML, snapshot.Reviews[0].Compiled[0].Kind)
}

func TestBuildSnapshotPriorityTrim(t *testing.T) {
	reviews := make([]*content.ContentItem, 0, 7)
	for _, slug := range []string{"r1", "r2", "r3", "r4", "r5", "r6", "r7"} {
		reviews = append(reviews, cardOnly(content.SectionReviews, slug))
	}
	articles := []*content.ContentItem{
		cardOnly(content.SectionArticles, "a1"),
		cardOnly(content.SectionArticles, "a2"),
		cardOnly(content.SectionArticles, "a3"),
	}

	querier := &fakeQuerier{
		full: map[content.Section][]*content.ContentItem{
			content.SectionReviews:  reviews[:5],
			content.SectionArticles: articles,
		},
		light: map[content.Section][]*content.ContentItem{
			content.SectionReviews: reviews[5:],
		},
	}
	svc := newTestSnapshotService(t, querier, &fakeDirectory{})

	snapshot := svc.BuildSnapshot(context.Background())
	require.False(t, snapshot.Metadata.Degraded)
	require.Len(t, snapshot.Reviews, 7)

	for i := 0; i < 5; i++ {
		assert.NotNil(t, snapshot.Reviews[i].Placeholder, "position %d keeps the blur payload", i)
	}
	for i := 5; i < 7; i++ {
		assert.Nil(t, snapshot.Reviews[i].Placeholder, "position %d is stripped", i)
	}

	// A list shorter than the priority window keeps everything.
	require.Len(t, snapshot.Articles, 3)
	for i := range snapshot.Articles {
		assert.NotNil(t, snapshot.Articles[i].Placeholder)
	}
}

func TestBuildSnapshotStripsHubLinkedPlaceholders(t *testing.T) {
	gameID := "game-1"
	anchor := reviewItem("anchor", 8.0)
	anchor.GameID = &gameID

	hubOnly := cardOnly(content.SectionNews, "hub-only-item")

	querier := &fakeQuerier{
		full:  map[content.Section][]*content.ContentItem{content.SectionReviews: {anchor}},
		light: map[content.Section][]*content.ContentItem{},
		games: []*content.GameNode{{ID: "game-1", LinkedContent: []*content.ContentItem{hubOnly}}},
	}
	svc := newTestSnapshotService(t, querier, &fakeDirectory{})

	snapshot := svc.BuildSnapshot(context.Background())

	require.Len(t, snapshot.Hubs.Games, 1)
	require.Len(t, snapshot.Hubs.Games[0].LinkedContent, 1)
	assert.Nil(t, snapshot.Hubs.Games[0].LinkedContent[0].Placeholder,
		"hub-linked items are stripped unconditionally")
}

func TestBuildSnapshotHeroPromotion(t *testing.T) {
	low := reviewItem("low", 7.0)
	high := reviewItem("high", 9.5)
	mid := reviewItem("mid", 8.0)

	querier := &fakeQuerier{
		full:  map[content.Section][]*content.ContentItem{content.SectionReviews: {low, high, mid}},
		light: map[content.Section][]*content.ContentItem{},
	}
	svc := newTestSnapshotService(t, querier, &fakeDirectory{})

	snapshot := svc.BuildSnapshot(context.Background())

	require.Len(t, snapshot.Reviews, 3)
	assert.Equal(t, "high", snapshot.Reviews[0].Slug, "highest score leads")
	assert.Equal(t, "low", snapshot.Reviews[1].Slug, "remaining order is stable")
	assert.Equal(t, "mid", snapshot.Reviews[2].Slug)
}

func TestBuildSnapshotCollectsReleaseCredits(t *testing.T) {
	querier := &fakeQuerier{
		releases: []*content.ReleaseNode{
			{ID: "r1", GameID: "", Date: time.Now().UTC(), Credits: []*content.CreditNode{{CreatorID: "creator-1", Role: "composer"}}},
			{ID: "r2", GameID: "", Date: time.Now().UTC(), Credits: []*content.CreditNode{{CreatorID: "creator-2", Role: "writer"}}},
		},
	}
	svc := newTestSnapshotService(t, querier, &fakeDirectory{})

	snapshot := svc.BuildSnapshot(context.Background())

	require.Len(t, snapshot.Credits, 2)
	assert.Equal(t, "composer", snapshot.Credits[0].Role)
}

func TestGetSnapshotMemoizesUntilInvalidated(t *testing.T) {
	querier := &fakeQuerier{}
	svc := newTestSnapshotService(t, querier, &fakeDirectory{})

	first := svc.GetSnapshot(context.Background())
	second := svc.GetSnapshot(context.Background())
	assert.Same(t, first, second)

	callsBefore := querier.listCalls.Load()
	svc.Invalidate()

	third := svc.GetSnapshot(context.Background())
	assert.NotSame(t, first, third)
	assert.Greater(t, querier.listCalls.Load(), callsBefore)
}
