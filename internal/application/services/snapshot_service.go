package services

import (
	"context"
	"time"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/entities/content"
	"github.com/PressPlayMedia/pressplay-go/internal/domain/repositories"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/caching/memo"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/caching/types"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/performance"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/security"
	"github.com/PressPlayMedia/pressplay-go/internal/presentation/compiler"
	"github.com/PressPlayMedia/pressplay-go/pkg/config"
)

// SnapshotTag is the memoizer invalidation tag for snapshot builds. The
// invalidation endpoint interprets it; the memoizer does not.
const SnapshotTag = "snapshot"

const snapshotMemoKey = "snapshot:current"

// SnapshotService runs the aggregation pipeline: it cross-references the
// primary listings with the hub and creator sets they touch, deduplicates,
// enriches, compiles bodies, and trims non-priority payload. One build
// produces the complete first-paint dataset.
type SnapshotService struct {
	querier     repositories.ContentQuerier
	enricher    *EnrichmentService
	memoCache   *memo.Cache
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewSnapshotService creates a snapshot service.
func NewSnapshotService(
	querier repositories.ContentQuerier,
	enricher *EnrichmentService,
	memoCache *memo.Cache,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *SnapshotService {
	return &SnapshotService{
		querier:     querier,
		enricher:    enricher,
		memoCache:   memoCache,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetSnapshot returns the current snapshot, building one through the
// memoizer on a miss. Concurrent callers share a single build.
func (s *SnapshotService) GetSnapshot(ctx context.Context) *types.Snapshot {
	value, _ := s.memoCache.Do(snapshotMemoKey, []string{SnapshotTag}, func() (any, error) {
		return s.BuildSnapshot(ctx), nil
	})
	if snapshot, ok := value.(*types.Snapshot); ok {
		return snapshot
	}
	return types.EmptySnapshot()
}

// Invalidate drops memoized snapshot builds. Returns how many entries fell.
func (s *SnapshotService) Invalidate() int {
	dropped := s.memoCache.Invalidate(SnapshotTag)
	s.logger.Snapshot().Info("Snapshot invalidated", "dropped", dropped)
	return dropped
}

// BuildSnapshot runs one full aggregation build. It never fails: any
// upstream rejection is logged and degrades to an empty, well-shaped
// snapshot so first paint always has something to render.
func (s *SnapshotService) BuildSnapshot(ctx context.Context) *types.Snapshot {
	marker := s.perfTracker.StartOperation("build_snapshot")
	defer marker.Complete()

	buildID := security.GenerateULID()
	start := time.Now()

	// Step 1: the three primary listings, each a full sub-window followed by
	// a light card-only sub-window.
	reviews, fullReviews, err := s.fetchSection(ctx, content.SectionReviews, config.FullWindowReviews)
	if err != nil {
		return s.degrade(marker, buildID, "list_reviews", err)
	}
	articles, fullArticles, err := s.fetchSection(ctx, content.SectionArticles, config.FullWindowArticles)
	if err != nil {
		return s.degrade(marker, buildID, "list_articles", err)
	}
	news, fullNews, err := s.fetchSection(ctx, content.SectionNews, config.FullWindowNews)
	if err != nil {
		return s.degrade(marker, buildID, "list_news", err)
	}

	// Step 2: creators with their recent items, plus the releases calendar.
	creators, err := s.querier.ListCreators(ctx, config.CreatorRecentLimit)
	if err != nil {
		return s.degrade(marker, buildID, "list_creators", err)
	}
	releases, err := s.querier.ListReleases(ctx)
	if err != nil {
		return s.degrade(marker, buildID, "list_releases", err)
	}

	// Step 3: hub ids referenced by the full sub-windows only. Light items
	// never pull hubs into the snapshot. Releases shipping this calendar
	// month add their games.
	gameIDs := newIDSet()
	tagIDs := newIDSet()
	for _, window := range [][]*content.ContentItem{fullReviews, fullArticles, fullNews} {
		for _, item := range window {
			if item == nil {
				continue
			}
			if item.GameID != nil {
				gameIDs.add(*item.GameID)
			}
			for _, id := range item.TagIDs {
				tagIDs.add(id)
			}
		}
	}
	now := time.Now().UTC()
	for _, release := range releases {
		if release == nil || release.GameID == "" {
			continue
		}
		if release.Date.UTC().Year() == now.Year() && release.Date.UTC().Month() == now.Month() {
			gameIDs.add(release.GameID)
		}
	}

	// Step 4: batch hub fetches; empty id sets never hit the wire.
	var games []*content.GameNode
	if len(gameIDs.order) > 0 {
		if games, err = s.querier.GamesByIDs(ctx, gameIDs.order); err != nil {
			return s.degrade(marker, buildID, "fetch_games", err)
		}
	}
	var tags []*content.TagNode
	if len(tagIDs.order) > 0 {
		if tags, err = s.querier.TagsByIDs(ctx, tagIDs.order); err != nil {
			return s.degrade(marker, buildID, "fetch_tags", err)
		}
	}

	// Step 5: one dedup pool across every list and hub, keyed by identity.
	// The enrichment pass runs exactly once over the pool, not per list.
	pool := newContentPool()
	pool.addAll(reviews)
	pool.addAll(articles)
	pool.addAll(news)
	for _, game := range games {
		pool.addAll(game.LinkedContent)
	}
	for _, tag := range tags {
		pool.addAll(tag.LinkedContent)
	}
	creatorsByID := make(map[string]*content.CreatorNode, len(creators))
	for _, creator := range creators {
		if creator == nil {
			continue
		}
		pool.addAll(creator.LinkedContent)
		if creator.ID != "" {
			creatorsByID[creator.ID] = creator
		}
	}
	s.enricher.EnrichPool(pool.order, creatorsByID)

	// Step 6: compile every pooled item that carries a body. A dictionary
	// failure degrades to plain compilation, not to a failed build.
	dictionary, err := s.querier.HighlightDictionary(ctx)
	if err != nil {
		s.logger.LogError(logging.ChannelSnapshot, "highlight_dictionary", err, nil)
		dictionary = nil
	}
	for _, item := range pool.order {
		if len(item.Body) > 0 {
			item.Compiled = compiler.Compile(item.Body, dictionary)
		}
	}

	// Step 7: re-expand lists and hub sequences through the pool so every
	// occurrence of an identity is the same compiled record.
	reviews = pool.expand(reviews)
	articles = pool.expand(articles)
	news = pool.expand(news)
	for _, game := range games {
		game.LinkedContent = pool.expand(game.LinkedContent)
	}
	for _, tag := range tags {
		tag.LinkedContent = pool.expand(tag.LinkedContent)
	}
	for _, creator := range creators {
		if creator != nil {
			creator.LinkedContent = pool.expand(creator.LinkedContent)
		}
	}

	// Step 8: priority trim. The leading slice of each primary list keeps
	// its blur placeholder; everything after it, and every hub-linked item
	// unconditionally, loses it. Bodies are never touched.
	trimPlaceholders(reviews, config.PriorityWindowSize)
	trimPlaceholders(articles, config.PriorityWindowSize)
	trimPlaceholders(news, config.PriorityWindowSize)
	for _, game := range games {
		trimPlaceholders(game.LinkedContent, 0)
	}
	for _, tag := range tags {
		trimPlaceholders(tag.LinkedContent, 0)
	}
	for _, creator := range creators {
		if creator != nil {
			trimPlaceholders(creator.LinkedContent, 0)
		}
	}

	// Step 9: second-pass directory resolution for creators still missing
	// display fields.
	s.enricher.FillCreatorProfiles(creators)

	// Step 10: hero promotion. The highest-scored review leads the grid;
	// everything else keeps publish order.
	promoteHero(reviews)

	snapshot := &types.Snapshot{
		Reviews:  reviews,
		Articles: articles,
		News:     news,
		Releases: releases,
		Credits:  collectCredits(releases),
		Hubs: types.SnapshotHubs{
			Games:    ensureGames(games),
			Tags:     ensureTags(tags),
			Creators: ensureCreators(creators),
		},
		Metadata: types.SnapshotMetadata{
			BuildID:     buildID,
			GeneratedAt: now,
			ItemCount:   len(pool.order),
			Degraded:    false,
		},
	}

	marker.SetSuccess(true)
	marker.AddMetadata("items", len(pool.order))
	s.logger.Snapshot().Info("Snapshot built",
		"buildId", buildID, "items", len(pool.order), "duration", time.Since(start))
	return snapshot
}

// fetchSection returns one primary listing (full + light sub-windows
// concatenated) together with its full sub-window for hub id collection.
func (s *SnapshotService) fetchSection(ctx context.Context, section content.Section, fullWindow int) (list, full []*content.ContentItem, err error) {
	full, err = s.querier.ListSection(ctx, section, 0, fullWindow, repositories.ProjectionFull)
	if err != nil {
		return nil, nil, err
	}
	light, err := s.querier.ListSection(ctx, section, fullWindow, config.LightWindowSize, repositories.ProjectionCard)
	if err != nil {
		return nil, nil, err
	}

	list = make([]*content.ContentItem, 0, len(full)+len(light))
	list = append(list, full...)
	list = append(list, light...)
	return list, full, nil
}

func (s *SnapshotService) degrade(marker *performance.Marker, buildID, operation string, err error) *types.Snapshot {
	s.logger.LogError(logging.ChannelSnapshot, operation, err, map[string]any{"buildId": buildID})
	marker.SetError(err)

	snapshot := types.EmptySnapshot()
	snapshot.Metadata.BuildID = buildID
	return snapshot
}

// trimPlaceholders strips the blur placeholder payload from every item at or
// beyond keep. Lists shorter than the priority window keep everything; the
// bound is explicit, not slice-arithmetic luck. Stripping is idempotent and
// never touches the body.
func trimPlaceholders(items []*content.ContentItem, keep int) {
	if len(items) <= keep {
		return
	}
	for i := keep; i < len(items); i++ {
		if items[i] != nil {
			items[i].Placeholder = nil
		}
	}
}

// promoteHero moves the highest-scored review to the front of the list,
// keeping every other item in its original order. Ties keep the earliest.
func promoteHero(reviews []*content.ContentItem) {
	best := -1
	for i, item := range reviews {
		if item == nil || item.Score == nil {
			continue
		}
		if best == -1 || *item.Score > *reviews[best].Score {
			best = i
		}
	}
	if best <= 0 {
		return
	}

	hero := reviews[best]
	copy(reviews[1:best+1], reviews[:best])
	reviews[0] = hero
}

// collectCredits flattens release credit attributions into one list.
func collectCredits(releases []*content.ReleaseNode) []*content.CreditNode {
	credits := make([]*content.CreditNode, 0)
	for _, release := range releases {
		if release == nil {
			continue
		}
		credits = append(credits, release.Credits...)
	}
	return credits
}

func ensureGames(games []*content.GameNode) []*content.GameNode {
	if games == nil {
		return make([]*content.GameNode, 0)
	}
	return games
}

func ensureTags(tags []*content.TagNode) []*content.TagNode {
	if tags == nil {
		return make([]*content.TagNode, 0)
	}
	return tags
}

func ensureCreators(creators []*content.CreatorNode) []*content.CreatorNode {
	if creators == nil {
		return make([]*content.CreatorNode, 0)
	}
	return creators
}

// idSet is an insertion-ordered string set, so batch queries stay
// deterministic across builds.
type idSet struct {
	seen  map[string]struct{}
	order []string
}

func newIDSet() *idSet {
	return &idSet{seen: make(map[string]struct{})}
}

func (s *idSet) add(id string) {
	if id == "" {
		return
	}
	if _, dup := s.seen[id]; dup {
		return
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
}

// contentPool is the dedup pool: first occurrence of an identity wins and
// becomes the canonical record every list re-expands to.
type contentPool struct {
	byIdentity map[string]*content.ContentItem
	order      []*content.ContentItem
}

func newContentPool() *contentPool {
	return &contentPool{byIdentity: make(map[string]*content.ContentItem)}
}

func (p *contentPool) addAll(items []*content.ContentItem) {
	for _, item := range items {
		if item == nil || item.Identity() == "" {
			continue
		}
		if _, dup := p.byIdentity[item.Identity()]; dup {
			continue
		}
		p.byIdentity[item.Identity()] = item
		p.order = append(p.order, item)
	}
}

// expand maps every element of items to its canonical pooled record, falling
// back to the original when the identity never pooled.
func (p *contentPool) expand(items []*content.ContentItem) []*content.ContentItem {
	expanded := make([]*content.ContentItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if canonical, found := p.byIdentity[item.Identity()]; found {
			expanded = append(expanded, canonical)
			continue
		}
		expanded = append(expanded, item)
	}
	return expanded
}
