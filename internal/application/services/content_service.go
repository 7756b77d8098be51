package services

import (
	"context"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/entities/content"
	"github.com/PressPlayMedia/pressplay-go/internal/domain/repositories"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/caching/manager"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/caching/memo"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
	"github.com/PressPlayMedia/pressplay-go/internal/presentation/compiler"
)

const dictionaryMemoKey = "highlight:dictionary"

// DictionaryTag invalidates the memoized highlight dictionary.
const DictionaryTag = "dictionary"

// ContentService serves single-item detail fetches and implements the cache
// manager's lazy linked-content loader. Everything it hands out is enriched
// and compiled, so the cache never holds half-prepared records.
type ContentService struct {
	querier   repositories.ContentQuerier
	enricher  *EnrichmentService
	cache     *manager.Manager
	memoCache *memo.Cache
	logger    *logging.ChanneledLogger
}

// NewContentService creates a content service.
func NewContentService(
	querier repositories.ContentQuerier,
	enricher *EnrichmentService,
	cache *manager.Manager,
	memoCache *memo.Cache,
	logger *logging.ChanneledLogger,
) *ContentService {
	return &ContentService{
		querier:   querier,
		enricher:  enricher,
		cache:     cache,
		memoCache: memoCache,
		logger:    logger,
	}
}

// GetDetail returns the fully-loaded item for a slug, fetching and hydrating
// the cache on a miss. A cached entry that is only a card triggers a full
// fetch; the merge keeps whatever the card already contributed.
func (s *ContentService) GetDetail(ctx context.Context, section content.Section, slug string) (*content.ContentItem, error) {
	if item, found := s.cache.GetContent(slug); found && item.FullyLoaded {
		return item, nil
	}

	item, err := s.querier.FindBySlug(ctx, section, slug)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	s.prepare(ctx, []*content.ContentItem{item})
	s.cache.HydrateContent([]*content.ContentItem{item})

	if canonical, found := s.cache.GetContent(item.Identity()); found {
		return canonical, nil
	}
	return item, nil
}

// LoadLinkedContent implements interfaces.LinkedContentLoader: one ordered
// fetch for a hub's content, prepared before the manager merges it.
func (s *ContentService) LoadLinkedContent(ctx context.Context, kind, identity string) ([]*content.ContentItem, error) {
	items, err := s.querier.LinkedContentFor(ctx, kind, identity)
	if err != nil {
		return nil, err
	}

	s.prepare(ctx, items)
	return items, nil
}

// prepare enriches author fields and compiles bodies in place.
func (s *ContentService) prepare(ctx context.Context, items []*content.ContentItem) {
	s.enricher.EnrichPool(items, nil)

	dictionary := s.dictionary(ctx)
	for _, item := range items {
		if item == nil || len(item.Body) == 0 || len(item.Compiled) > 0 {
			continue
		}
		item.Compiled = compiler.Compile(item.Body, dictionary)
	}
}

// dictionary returns the memoized highlight dictionary. Failures degrade to
// no highlighting.
func (s *ContentService) dictionary(ctx context.Context) []content.HighlightEntry {
	value, err := s.memoCache.Do(dictionaryMemoKey, []string{DictionaryTag}, func() (any, error) {
		return s.querier.HighlightDictionary(ctx)
	})
	if err != nil {
		s.logger.LogError(logging.ChannelContent, "highlight_dictionary", err, nil)
		return nil
	}
	dictionary, _ := value.([]content.HighlightEntry)
	return dictionary
}
