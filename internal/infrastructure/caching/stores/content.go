// Package stores provides concrete cache store implementations
package stores

import (
	"sync"
	"time"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/entities/content"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/caching/types"
)

// ContentStore implements content-by-slug and index-page-state caching.
type ContentStore struct {
	items   map[string]*content.ContentItem
	indexes map[content.Section]*types.IndexState
	mu      sync.RWMutex
}

// NewContentStore creates a new content cache store
func NewContentStore() *ContentStore {
	return &ContentStore{
		items:   make(map[string]*content.ContentItem),
		indexes: make(map[content.Section]*types.IndexState),
	}
}

// HydrateContent merges items into the store. Items without a resolvable
// identity are skipped; the whole batch is merged before any caller can
// observe an intermediate state (single mutex hold).
func (cs *ContentStore) HydrateContent(items []*content.ContentItem) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for _, item := range items {
		if item == nil {
			continue
		}
		key := item.Identity()
		if key == "" {
			continue
		}
		existing, found := cs.items[key]
		if !found {
			cs.items[key] = item
			continue
		}
		mergeContentItem(existing, item)
	}
}

// GetContent retrieves a content item by slug (or raw id fallback identity).
func (cs *ContentStore) GetContent(slug string) (*content.ContentItem, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	item, found := cs.items[slug]
	return item, found
}

// GetAllContentSlugs returns every identity present in the store.
func (cs *ContentStore) GetAllContentSlugs() []string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	slugs := make([]string, 0, len(cs.items))
	for slug := range cs.items {
		slugs = append(slugs, slug)
	}
	return slugs
}

// HydrateIndex inserts or replaces the resume state for a section. A weaker
// incoming state (shorter grid) never replaces a stronger existing one;
// returns whether the incoming state was applied.
func (cs *ContentStore) HydrateIndex(section content.Section, state *types.IndexState) bool {
	if state == nil {
		return false
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	existing, found := cs.indexes[section]
	if found && !state.StrongerThan(existing) {
		return false
	}
	state.Section = section
	state.LastUpdated = time.Now().UTC()
	cs.indexes[section] = state
	return true
}

// GetIndex retrieves the resume state for a section.
func (cs *ContentStore) GetIndex(section content.Section) (*types.IndexState, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	state, found := cs.indexes[section]
	return state, found
}

// mergeContentItem merges incoming into existing in place, keeping existing
// as the canonical object reference. Merge is monotonic: once fully loaded,
// an entry never loses its body or detail fields to a lighter payload;
// lighter versions may only contribute fields they fetched independently
// (joined hub projections, author display fields).
func mergeContentItem(existing, incoming *content.ContentItem) {
	if incoming.Title != "" {
		existing.Title = incoming.Title
	}
	if !incoming.Published.IsZero() {
		existing.Published = incoming.Published
	}
	if incoming.CoverURL != "" {
		existing.CoverURL = incoming.CoverURL
	}
	if incoming.ID != "" {
		existing.ID = incoming.ID
	}
	if incoming.NodeType != "" {
		existing.NodeType = incoming.NodeType
	}
	if incoming.Section != "" {
		existing.Section = incoming.Section
	}

	// Detail fields follow the fully-loaded ratchet.
	if incoming.FullyLoaded || !existing.FullyLoaded {
		if len(incoming.Body) > 0 {
			existing.Body = incoming.Body
		}
		if len(incoming.Compiled) > 0 {
			existing.Compiled = incoming.Compiled
		}
		if incoming.Score != nil {
			existing.Score = incoming.Score
		}
		if incoming.Verdict != nil {
			existing.Verdict = incoming.Verdict
		}
		if incoming.Placeholder != nil {
			existing.Placeholder = incoming.Placeholder
		}
	}

	// Independently joined projections merge regardless of weight.
	if incoming.GameID != nil {
		existing.GameID = incoming.GameID
	}
	if len(incoming.TagIDs) > 0 {
		existing.TagIDs = incoming.TagIDs
	}
	if len(incoming.CreatorIDs) > 0 {
		existing.CreatorIDs = incoming.CreatorIDs
	}
	if incoming.Game != nil {
		existing.Game = incoming.Game
	}
	if len(incoming.Tags) > 0 {
		existing.Tags = incoming.Tags
	}
	if len(incoming.Creators) > 0 {
		existing.Creators = incoming.Creators
	}
	if incoming.AuthorName != "" {
		existing.AuthorName = incoming.AuthorName
	}
	if incoming.AuthorHandle != "" {
		existing.AuthorHandle = incoming.AuthorHandle
	}
	if incoming.AuthorAvatar != "" {
		existing.AuthorAvatar = incoming.AuthorAvatar
	}

	if incoming.FullyLoaded {
		existing.FullyLoaded = true
	}
}
