package stores

import (
	"sync"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/entities/content"
)

// CreatorStore caches creator hubs behind one canonical record map plus a
// secondary alias index. A creator may be registered under up to three
// aliases (external profile id, internal id, public handle); all of them
// resolve to the same object reference, so display fields and linked content
// never diverge between aliases.
type CreatorStore struct {
	canonical map[string]*content.CreatorNode // primary key -> record
	aliases   map[string]string               // any alias -> primary key
	mu        sync.RWMutex
}

// NewCreatorStore creates a new creator cache store
func NewCreatorStore() *CreatorStore {
	return &CreatorStore{
		canonical: make(map[string]*content.CreatorNode),
		aliases:   make(map[string]string),
	}
}

// HydrateCreators merges incoming records by alias. An existing record that
// already has its linked content loaded never loses it to a lighter payload.
func (cs *CreatorStore) HydrateCreators(items []*content.CreatorNode) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for _, item := range items {
		if item == nil {
			continue
		}
		aliases := item.Aliases()
		if len(aliases) == 0 {
			continue
		}

		existing, primary := cs.lookupLocked(aliases)
		if existing == nil {
			primary = primaryKeyFor(item)
			cs.canonical[primary] = item
			for _, alias := range aliases {
				cs.aliases[alias] = primary
			}
			continue
		}

		mergeCreator(existing, item)
		// Newly learned aliases point at the existing canonical record. The
		// primary key comes from the matched registration, not from the merged
		// record: a just-learned alias has no index entry yet.
		for _, alias := range existing.Aliases() {
			cs.aliases[alias] = primary
		}
	}
}

// GetCreator retrieves the canonical record for any registered alias.
func (cs *CreatorStore) GetCreator(alias string) (*content.CreatorNode, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	primary, found := cs.aliases[alias]
	if !found {
		return nil, false
	}
	record, found := cs.canonical[primary]
	return record, found
}

// GetAllCreatorAliases returns every registered alias.
func (cs *CreatorStore) GetAllCreatorAliases() []string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	aliases := make([]string, 0, len(cs.aliases))
	for alias := range cs.aliases {
		aliases = append(aliases, alias)
	}
	return aliases
}

// lookupLocked resolves the first registered alias, returning the canonical
// record together with the primary key it is filed under.
func (cs *CreatorStore) lookupLocked(aliases []string) (*content.CreatorNode, string) {
	for _, alias := range aliases {
		if primary, found := cs.aliases[alias]; found {
			return cs.canonical[primary], primary
		}
	}
	return nil, ""
}

// primaryKeyFor picks the synthetic primary key: internal id first, then
// profile id, then handle.
func primaryKeyFor(item *content.CreatorNode) string {
	if item.ID != "" {
		return item.ID
	}
	if item.ProfileID != "" {
		return item.ProfileID
	}
	return item.Handle
}

// mergeCreator merges incoming into existing in place. ContentLoaded is a
// ratchet: a lighter incoming record must not clear it or discard the
// existing linked content.
func mergeCreator(existing, incoming *content.CreatorNode) {
	if incoming.ID != "" {
		existing.ID = incoming.ID
	}
	if incoming.ProfileID != "" {
		existing.ProfileID = incoming.ProfileID
	}
	if incoming.Handle != "" {
		existing.Handle = incoming.Handle
	}
	if incoming.Name != "" {
		existing.Name = incoming.Name
	}
	if incoming.Avatar != "" {
		existing.Avatar = incoming.Avatar
	}
	if incoming.Bio != "" {
		existing.Bio = incoming.Bio
	}
	if len(incoming.Roles) > 0 {
		existing.Roles = incoming.Roles
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
