// Package manager provides the cache store facade: the single write path for
// content, index-page, creator, and hub state.
package manager

import (
	"context"
	"fmt"
	"sync"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/entities/content"
	"github.com/PressPlayMedia/pressplay-go/internal/domain/repositories"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/caching/interfaces"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/caching/stores"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/caching/types"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
)

// Manager coordinates the cache stores. It is constructed explicitly (never a
// package-level singleton) so tests can instantiate isolated instances; in a
// long-running server it lives for the whole process.
type Manager struct {
	contentStore *stores.ContentStore
	creatorStore *stores.CreatorStore
	hubStore     *stores.HubStore

	loader interfaces.LinkedContentLoader
	logger *logging.ChanneledLogger

	// Per-identity in-flight guard for the lazy loaders: overlapping callers
	// share one fetch and one outcome instead of racing the final map write.
	inflight   map[string]*inflightLoad
	inflightMu sync.Mutex
}

type inflightLoad struct {
	done chan struct{}
	err  error
}

// New creates a cache manager. The loader may be nil until wired via
// SetLinkedContentLoader (the loader itself depends on the manager).
func New(logger *logging.ChanneledLogger) *Manager {
	return &Manager{
		contentStore: stores.NewContentStore(),
		creatorStore: stores.NewCreatorStore(),
		hubStore:     stores.NewHubStore(),
		logger:       logger,
		inflight:     make(map[string]*inflightLoad),
	}
}

// SetLinkedContentLoader wires the lazy-load dependency after construction.
func (m *Manager) SetLinkedContentLoader(loader interfaces.LinkedContentLoader) {
	m.loader = loader
}

// HydrateContent merges content items into the store. Existing entries keep
// any linked or fully-loaded state they already had; see stores.ContentStore.
func (m *Manager) HydrateContent(items []*content.ContentItem) {
	m.contentStore.HydrateContent(items)
}

// GetContent returns the canonical cached item for a slug.
func (m *Manager) GetContent(slug string) (*content.ContentItem, bool) {
	return m.contentStore.GetContent(slug)
}

// GetAllContentSlugs returns every cached content identity.
func (m *Manager) GetAllContentSlugs() []string {
	return m.contentStore.GetAllContentSlugs()
}

// HydrateIndex inserts or replaces a section's resume state, refusing to
// downgrade to a weaker (shorter) grid. Returns whether the state was applied.
func (m *Manager) HydrateIndex(section content.Section, state *types.IndexState) bool {
	applied := m.contentStore.HydrateIndex(section, state)
	if !applied && m.logger != nil {
		m.logger.Cache().Info("Index hydrate skipped, existing state is stronger", "section", section)
	}
	return applied
}

// GetIndex returns a section's resume state.
func (m *Manager) GetIndex(section content.Section) (*types.IndexState, bool) {
	return m.contentStore.GetIndex(section)
}

// HydrateCreators merges creator records by alias.
func (m *Manager) HydrateCreators(items []*content.CreatorNode) {
	m.creatorStore.HydrateCreators(items)
}

// GetCreator resolves any creator alias to its canonical record.
func (m *Manager) GetCreator(alias string) (*content.CreatorNode, bool) {
	return m.creatorStore.GetCreator(alias)
}

// HydrateGames merges game hub records.
func (m *Manager) HydrateGames(items []*content.GameNode) {
	m.hubStore.HydrateGames(items)
}

// GetGame returns a game hub by id or slug.
func (m *Manager) GetGame(key string) (*content.GameNode, bool) {
	return m.hubStore.GetGame(key)
}

// HydrateTags merges tag hub records.
func (m *Manager) HydrateTags(items []*content.TagNode) {
	m.hubStore.HydrateTags(items)
}

// GetTag returns a tag hub by id or slug.
func (m *Manager) GetTag(key string) (*content.TagNode, bool) {
	return m.hubStore.GetTag(key)
}

// FetchLinkedContentFor lazily populates a hub's linked-content list. It is a
// no-op when the hub is already loaded, and safe to invoke redundantly from
// multiple mounted views: the ContentLoaded check happens synchronously, and
// overlapping asynchronous calls for the same identity share one fetch.
func (m *Manager) FetchLinkedContentFor(ctx context.Context, kind, identity string) error {
	if m.loader == nil {
		return fmt.Errorf("no linked-content loader wired")
	}
	if m.hubContentLoaded(kind, identity) {
		return nil
	}

	key := kind + ":" + identity

	m.inflightMu.Lock()
	// Re-check under the guard: a load that completed between the check above
	// and this lock has already marked the hub, and must not run again.
	if m.hubContentLoaded(kind, identity) {
		m.inflightMu.Unlock()
		return nil
	}
	if call, found := m.inflight[key]; found {
		m.inflightMu.Unlock()
		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	call := &inflightLoad{done: make(chan struct{})}
	m.inflight[key] = call
	m.inflightMu.Unlock()

	// Once started, the load always completes and writes its result, even if
	// the caller's overlay closed in the meantime. No cancellation mid-write.
	call.err = m.loadLinkedContent(ctx, kind, identity)

	m.inflightMu.Lock()
	delete(m.inflight, key)
	m.inflightMu.Unlock()
	close(call.done)

	return call.err
}

func (m *Manager) loadLinkedContent(ctx context.Context, kind, identity string) error {
	// Callers address hubs by slug or any alias; the loader's query filters on
	// the upstream record id. Resolve through the store before fetching, and
	// fall back to the raw identity only for hubs the store has never seen.
	items, err := m.loader.LoadLinkedContent(ctx, kind, m.resolveHubID(kind, identity))
	if err != nil {
		if m.logger != nil {
			m.logger.LogError(logging.ChannelCache, "linked_content_load", err, map[string]any{"kind": kind, "identity": identity})
		}
		return err
	}

	// Merge into the content map first, then point the hub at the canonical
	// entries so hub lists and direct lookups share object references.
	m.contentStore.HydrateContent(items)
	canonical := make([]*content.ContentItem, 0, len(items))
	for _, item := range items {
		if item == nil || item.Identity() == "" {
			continue
		}
		if entry, found := m.contentStore.GetContent(item.Identity()); found {
			canonical = append(canonical, entry)
		}
	}

	switch kind {
	case repositories.HubKindGame:
		if hub, found := m.hubStore.GetGame(identity); found {
			m.hubStore.HydrateGames([]*content.GameNode{{
				ID:            hub.ID,
				LinkedContent: canonical,
				ContentLoaded: true,
			}})
		} else {
			m.hubStore.HydrateGames([]*content.GameNode{{
				ID:            identity,
				Slug:          identity,
				LinkedContent: canonical,
				ContentLoaded: true,
			}})
		}
	case repositories.HubKindTag:
		if hub, found := m.hubStore.GetTag(identity); found {
			m.hubStore.HydrateTags([]*content.TagNode{{
				ID:            hub.ID,
				LinkedContent: canonical,
				ContentLoaded: true,
			}})
		} else {
			m.hubStore.HydrateTags([]*content.TagNode{{
				ID:            identity,
				Slug:          identity,
				LinkedContent: canonical,
				ContentLoaded: true,
			}})
		}
	case repositories.HubKindCreator:
		if hub, found := m.creatorStore.GetCreator(identity); found {
			m.creatorStore.HydrateCreators([]*content.CreatorNode{{
				ID:            hub.ID,
				ProfileID:     hub.ProfileID,
				Handle:        hub.Handle,
				LinkedContent: canonical,
				ContentLoaded: true,
			}})
		} else {
			m.creatorStore.HydrateCreators([]*content.CreatorNode{{
				ID:            identity,
				LinkedContent: canonical,
				ContentLoaded: true,
			}})
		}
	default:
		return fmt.Errorf("unknown hub kind %q", kind)
	}

	if m.logger != nil {
		m.logger.Cache().Info("Linked content loaded", "kind", kind, "identity", identity, "count", len(canonical))
	}
	return nil
}

// resolveHubID maps any hub alias to the upstream record id.
func (m *Manager) resolveHubID(kind, identity string) string {
	switch kind {
	case repositories.HubKindGame:
		if hub, found := m.hubStore.GetGame(identity); found && hub.ID != "" {
			return hub.ID
		}
	case repositories.HubKindTag:
		if hub, found := m.hubStore.GetTag(identity); found && hub.ID != "" {
			return hub.ID
		}
	case repositories.HubKindCreator:
		if hub, found := m.creatorStore.GetCreator(identity); found && hub.ID != "" {
			return hub.ID
		}
	}
	return identity
}

func (m *Manager) hubContentLoaded(kind, identity string) bool {
	switch kind {
	case repositories.HubKindGame:
		if hub, found := m.hubStore.GetGame(identity); found {
			return hub.ContentLoaded
		}
	case repositories.HubKindTag:
		if hub, found := m.hubStore.GetTag(identity); found {
			return hub.ContentLoaded
		}
	case repositories.HubKindCreator:
		if hub, found := m.creatorStore.GetCreator(identity); found {
			return hub.ContentLoaded
		}
	}
	return false
}
