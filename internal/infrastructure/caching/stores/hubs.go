package stores

import (
	"sync"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/entities/content"
)

// HubStore caches game and tag hubs keyed by id, with a slug index so both
// the aggregation pipeline (id-addressed) and overlay navigation
// (slug-addressed) resolve the same records.
type HubStore struct {
	games    map[string]*content.GameNode
	tags     map[string]*content.TagNode
	slugToID map[string]string
	mu       sync.RWMutex
}

// NewHubStore creates a new hub cache store
func NewHubStore() *HubStore {
	return &HubStore{
		games:    make(map[string]*content.GameNode),
		tags:     make(map[string]*content.TagNode),
		slugToID: make(map[string]string),
	}
}

// HydrateGames merges game hub records.
func (hs *HubStore) HydrateGames(items []*content.GameNode) {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	for _, item := range items {
		if item == nil || item.ID == "" {
			continue
		}
		existing, found := hs.games[item.ID]
		if !found {
			hs.games[item.ID] = item
			if item.Slug != "" {
				hs.slugToID[item.Slug] = item.ID
			}
			continue
		}
		mergeGame(existing, item)
		if existing.Slug != "" {
			hs.slugToID[existing.Slug] = existing.ID
		}
	}
}

// GetGame retrieves a game hub by id or slug.
func (hs *HubStore) GetGame(key string) (*content.GameNode, bool) {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	if game, found := hs.games[key]; found {
		return game, true
	}
	if id, found := hs.slugToID[key]; found {
		game, ok := hs.games[id]
		return game, ok
	}
	return nil, false
}

// HydrateTags merges tag hub records.
func (hs *HubStore) HydrateTags(items []*content.TagNode) {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	for _, item := range items {
		if item == nil || item.ID == "" {
			continue
		}
		existing, found := hs.tags[item.ID]
		if !found {
			hs.tags[item.ID] = item
			if item.Slug != "" {
				hs.slugToID[item.Slug] = item.ID
			}
			continue
		}
		mergeTag(existing, item)
		if existing.Slug != "" {
			hs.slugToID[existing.Slug] = existing.ID
		}
	}
}

// GetTag retrieves a tag hub by id or slug.
func (hs *HubStore) GetTag(key string) (*content.TagNode, bool) {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	if tag, found := hs.tags[key]; found {
		return tag, true
	}
	if id, found := hs.slugToID[key]; found {
		tag, ok := hs.tags[id]
		return tag, ok
	}
	return nil, false
}

func mergeGame(existing, incoming *content.GameNode) {
	if incoming.Slug != "" {
		existing.Slug = incoming.Slug
	}
	if incoming.Title != "" {
		existing.Title = incoming.Title
	}
	if incoming.ReleaseDate != nil {
		existing.ReleaseDate = incoming.ReleaseDate
	}
	if len(incoming.Platforms) > 0 {
		existing.Platforms = incoming.Platforms
	}
	if incoming.CoverURL != "" {
		existing.CoverURL = incoming.CoverURL
	}
	if incoming.NodeType != "" {
		existing.NodeType = incoming.NodeType
	}
	if len(incoming.LinkedContent) > 0 && (incoming.ContentLoaded || !existing.ContentLoaded) {
		existing.LinkedContent = incoming.LinkedContent
	}
	if incoming.ContentLoaded {
		existing.ContentLoaded = true
	}
}

func mergeTag(existing, incoming *content.TagNode) {
	if incoming.Slug != "" {
		existing.Slug = incoming.Slug
	}
	if incoming.Title != "" {
		existing.Title = incoming.Title
	}
	if incoming.NodeType != "" {
		existing.NodeType = incoming.NodeType
	}
	if len(incoming.LinkedContent) > 0 && (incoming.ContentLoaded || !existing.ContentLoaded) {
		existing.LinkedContent = incoming.LinkedContent
	}
	if incoming.ContentLoaded {
		existing.ContentLoaded = true
	}
}
