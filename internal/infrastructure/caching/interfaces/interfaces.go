// Package interfaces defines cache operation contracts for the content store.
package interfaces

import (
	"context"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/entities/content"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/caching/types"
)

// ContentCache defines the sole write path for content and index-page state.
// Presentation code must route all updates through these methods and never
// mutate map entries directly.
type ContentCache interface {
	HydrateContent(items []*content.ContentItem)
	GetContent(slug string) (*content.ContentItem, bool)
	GetAllContentSlugs() []string

	HydrateIndex(section content.Section, state *types.IndexState) bool
	GetIndex(section content.Section) (*types.IndexState, bool)
}

// CreatorCache defines alias-coherent creator hub caching. All aliases of a
// record resolve to the same canonical object reference after a merge.
type CreatorCache interface {
	HydrateCreators(items []*content.CreatorNode)
	GetCreator(alias string) (*content.CreatorNode, bool)
	GetAllCreatorAliases() []string
}

// HubCache defines game and tag hub caching.
type HubCache interface {
	HydrateGames(items []*content.GameNode)
	GetGame(key string) (*content.GameNode, bool)
	HydrateTags(items []*content.TagNode)
	GetTag(key string) (*content.TagNode, bool)
}

// LinkedContentLoader fetches and prepares the ordered linked-content list
// for a hub on first navigation into it. Implementations perform the network
// fetch, enrichment, and body compilation; the cache manager owns the
// duplicate-fetch guard around it.
type LinkedContentLoader interface {
	LoadLinkedContent(ctx context.Context, kind, identity string) ([]*content.ContentItem, error)
}
