// Package services contains the application-layer orchestration: the snapshot
// aggregation pipeline, content detail and lazy hub loading, author
// enrichment, and profile unlock.
package services

import (
	"github.com/PressPlayMedia/pressplay-go/internal/domain/entities/content"
	"github.com/PressPlayMedia/pressplay-go/internal/domain/user"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
)

// EnrichmentService resolves author display fields onto content items. The
// content store only carries creator references; display names, handles and
// avatars live partly on creator hub records and partly in the external user
// directory.
type EnrichmentService struct {
	directory user.DirectoryRepository
	logger    *logging.ChanneledLogger
}

// NewEnrichmentService creates an enrichment service.
func NewEnrichmentService(directory user.DirectoryRepository, logger *logging.ChanneledLogger) *EnrichmentService {
	return &EnrichmentService{
		directory: directory,
		logger:    logger,
	}
}

// EnrichPool runs the enrichment pass over a deduplicated pool of items.
// Every item gets its author fields from its primary creator; creators that
// lack display fields are resolved against the directory in one batch call.
// Directory failures degrade to leaving fields empty, never to a failed pool.
func (s *EnrichmentService) EnrichPool(pool []*content.ContentItem, creatorsByID map[string]*content.CreatorNode) {
	resolved := s.resolveMissingProfiles(s.collectCreators(pool, creatorsByID))

	for _, item := range pool {
		if item == nil {
			continue
		}
		creator := primaryCreator(item, creatorsByID)
		if creator == nil {
			continue
		}

		name, avatar := creator.Name, creator.Avatar
		handle := creator.Handle
		if entry, found := resolved[creator.ProfileID]; found {
			if name == "" {
				name = entry.Name
			}
			if avatar == "" {
				avatar = entry.Image
			}
			if handle == "" {
				handle = entry.Username
			}
		}

		if item.AuthorName == "" {
			item.AuthorName = name
		}
		if item.AuthorHandle == "" {
			item.AuthorHandle = handle
		}
		if item.AuthorAvatar == "" {
			item.AuthorAvatar = avatar
		}
	}
}

// FillCreatorProfiles is the second-pass directory resolution: creators that
// still lack display fields after aggregation are filled from their directory
// records, by profile id, in one batch call.
func (s *EnrichmentService) FillCreatorProfiles(creators []*content.CreatorNode) {
	missing := make([]*content.CreatorNode, 0)
	for _, creator := range creators {
		if creator == nil || creator.ProfileID == "" {
			continue
		}
		if creator.Name == "" || creator.Avatar == "" || creator.Bio == "" {
			missing = append(missing, creator)
		}
	}
	resolved := s.resolveMissingProfiles(missing)

	for _, creator := range missing {
		entry, found := resolved[creator.ProfileID]
		if !found {
			continue
		}
		if creator.Name == "" {
			creator.Name = entry.Name
		}
		if creator.Avatar == "" {
			creator.Avatar = entry.Image
		}
		if creator.Bio == "" {
			creator.Bio = entry.Bio
		}
		if creator.Handle == "" {
			creator.Handle = entry.Username
		}
	}
}

// collectCreators gathers the creators referenced by the pool whose display
// fields need a directory lookup.
func (s *EnrichmentService) collectCreators(pool []*content.ContentItem, creatorsByID map[string]*content.CreatorNode) []*content.CreatorNode {
	seen := make(map[string]struct{})
	needed := make([]*content.CreatorNode, 0)
	for _, item := range pool {
		if item == nil {
			continue
		}
		creator := primaryCreator(item, creatorsByID)
		if creator == nil || creator.ProfileID == "" {
			continue
		}
		if creator.Name != "" && creator.Avatar != "" {
			continue
		}
		if _, dup := seen[creator.ProfileID]; dup {
			continue
		}
		seen[creator.ProfileID] = struct{}{}
		needed = append(needed, creator)
	}
	return needed
}

func (s *EnrichmentService) resolveMissingProfiles(creators []*content.CreatorNode) map[string]*user.DirectoryEntry {
	if len(creators) == 0 || s.directory == nil {
		return map[string]*user.DirectoryEntry{}
	}

	profileIDs := make([]string, 0, len(creators))
	for _, creator := range creators {
		if creator.ProfileID != "" {
			profileIDs = append(profileIDs, creator.ProfileID)
		}
	}
	if len(profileIDs) == 0 {
		return map[string]*user.DirectoryEntry{}
	}

	resolved, err := s.directory.FindByProfileIDs(profileIDs)
	if err != nil {
		if s.logger != nil {
			s.logger.LogError(logging.ChannelContent, "directory_resolution", err, map[string]any{"count": len(profileIDs)})
		}
		return map[string]*user.DirectoryEntry{}
	}
	return resolved
}

// primaryCreator returns the creator whose display fields represent the item:
// the first joined creator when present, otherwise the first referenced id
// resolved through the aggregation's creator set.
func primaryCreator(item *content.ContentItem, creatorsByID map[string]*content.CreatorNode) *content.CreatorNode {
	if len(item.Creators) > 0 && item.Creators[0] != nil {
		return item.Creators[0]
	}
	if creatorsByID == nil {
		return nil
	}
	for _, id := range item.CreatorIDs {
		if creator, found := creatorsByID[id]; found {
			return creator
		}
	}
	return nil
}
