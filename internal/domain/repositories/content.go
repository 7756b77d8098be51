// Package repositories defines the repository interfaces for content entities.
// These abstract the headless content store so the core application stays
// decoupled from the query language and transport.
package repositories

import (
	"context"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/entities/content"
)

// Projection selects how much of a content item a list query returns.
type Projection string

const (
	// ProjectionFull carries the complete body and all relational fields.
	ProjectionFull Projection = "full"
	// ProjectionCard carries only card-display fields.
	ProjectionCard Projection = "card"
)

// ContentQuerier is the contract for the headless content store. Every call
// is context-bound; any rejection must be caught by the caller, the core
// never assumes success.
type ContentQuerier interface {
	// ListSection returns one page of a primary listing in descending
	// publish-time order.
	ListSection(ctx context.Context, section content.Section, offset, limit int, proj Projection) ([]*content.ContentItem, error)

	// FindBySlug returns a single fully-loaded item, or nil when absent.
	FindBySlug(ctx context.Context, section content.Section, slug string) (*content.ContentItem, error)

	// GamesByIDs and TagsByIDs batch-fetch hub records. Implementations may
	// assume the caller short-circuits empty id sets.
	GamesByIDs(ctx context.Context, ids []string) ([]*content.GameNode, error)
	TagsByIDs(ctx context.Context, ids []string) ([]*content.TagNode, error)

	// ListCreators returns every content-producing user, each pre-populated
	// with up to recentLimit of its own recent items.
	ListCreators(ctx context.Context, recentLimit int) ([]*content.CreatorNode, error)

	// ListReleases returns the global releases calendar with credit
	// attributions.
	ListReleases(ctx context.Context) ([]*content.ReleaseNode, error)

	// LinkedContentFor fetches the ordered linked-content list for a hub,
	// used by the lazy loaders.
	LinkedContentFor(ctx context.Context, kind, identity string) ([]*content.ContentItem, error)

	// HighlightDictionary returns the site-wide word-highlighting dictionary.
	HighlightDictionary(ctx context.Context) ([]content.HighlightEntry, error)
}

// Hub kinds accepted by LinkedContentFor.
const (
	HubKindGame    = "game"
	HubKindTag     = "tag"
	HubKindCreator = "creator"
)
