// Package cms implements the content query client against the headless
// content store's HTTP query endpoint.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/entities/content"
	"github.com/PressPlayMedia/pressplay-go/internal/domain/repositories"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
	"github.com/PressPlayMedia/pressplay-go/pkg/config"
)

// Client talks to the content store's query API. It implements
// repositories.ContentQuerier; failures surface as errors and are handled at
// the aggregation/lazy-loader boundary, never assumed away here.
type Client struct {
	baseURL    string
	dataset    string
	token      string
	httpClient *http.Client
	logger     *logging.ChanneledLogger
}

// NewClient creates a content query client from config defaults.
func NewClient(logger *logging.ChanneledLogger) *Client {
	return &Client{
		baseURL: config.ContentAPIBaseURL,
		dataset: config.ContentAPIDataset,
		token:   config.ContentAPIToken,
		httpClient: &http.Client{
			Timeout: config.ContentAPITimeout,
		},
		logger: logger,
	}
}

type queryRequest struct {
	Query  string         `json:"query"`
	Params map[string]any `json:"params,omitempty"`
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

// fetch executes one query and decodes the result envelope into out.
func (c *Client) fetch(ctx context.Context, query string, params map[string]any, out any) error {
	start := time.Now()

	payload, err := json.Marshal(queryRequest{Query: query, Params: params})
	if err != nil {
		return fmt.Errorf("failed to encode query: %w", err)
	}

	url := fmt.Sprintf("%s/v1/data/query/%s", c.baseURL, c.dataset)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("content query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("content query returned %d: %s", resp.StatusCode, string(body))
	}

	var envelope queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode query response: %w", err)
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("failed to unmarshal query result: %w", err)
	}

	if c.logger != nil {
		c.logger.Content().Debug("Content query complete", "duration", time.Since(start))
	}
	return nil
}

// sectionType maps a listing section to its CMS document type.
func sectionType(section content.Section) string {
	switch section {
	case content.SectionReviews:
		return "review"
	case content.SectionArticles:
		return "article"
	default:
		return "news"
	}
}

// ListSection returns one page of a primary listing in descending
// publish-time order.
func (c *Client) ListSection(ctx context.Context, section content.Section, offset, limit int, proj repositories.Projection) ([]*content.ContentItem, error) {
	projection := cardProjection
	fullyLoaded := false
	if proj == repositories.ProjectionFull {
		projection = fullProjection
		fullyLoaded = true
	}

	items := make([]*content.ContentItem, 0, limit)
	err := c.fetch(ctx, fmt.Sprintf(querySectionList, projection), map[string]any{
		"type":   sectionType(section),
		"offset": offset,
		"end":    offset + limit,
	}, &items)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if item == nil {
			continue
		}
		item.Section = section
		item.FullyLoaded = fullyLoaded
	}
	return items, nil
}

// FindBySlug returns a single fully-loaded item, or nil when absent.
func (c *Client) FindBySlug(ctx context.Context, section content.Section, slug string) (*content.ContentItem, error) {
	var item *content.ContentItem
	err := c.fetch(ctx, fmt.Sprintf(queryBySlug, fullProjection), map[string]any{
		"type": sectionType(section),
		"slug": slug,
	}, &item)
	if err != nil {
		return nil, err
	}
	if item != nil {
		item.Section = section
		item.FullyLoaded = true
	}
	return item, nil
}

// GamesByIDs batch-fetches game hubs. Callers short-circuit empty id sets.
func (c *Client) GamesByIDs(ctx context.Context, ids []string) ([]*content.GameNode, error) {
	games := make([]*content.GameNode, 0, len(ids))
	err := c.fetch(ctx, fmt.Sprintf(queryGamesByIDs, cardProjection), map[string]any{"ids": ids}, &games)
	if err != nil {
		return nil, err
	}
	return games, nil
}

// TagsByIDs batch-fetches tag hubs.
func (c *Client) TagsByIDs(ctx context.Context, ids []string) ([]*content.TagNode, error) {
	tags := make([]*content.TagNode, 0, len(ids))
	err := c.fetch(ctx, fmt.Sprintf(queryTagsByIDs, cardProjection), map[string]any{"ids": ids}, &tags)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// ListCreators returns every content-producing user with recent items.
func (c *Client) ListCreators(ctx context.Context, recentLimit int) ([]*content.CreatorNode, error) {
	creators := make([]*content.CreatorNode, 0)
	err := c.fetch(ctx, fmt.Sprintf(queryCreators, cardProjection), map[string]any{"recent": recentLimit}, &creators)
	if err != nil {
		return nil, err
	}
	return creators, nil
}

// ListReleases returns the global releases calendar.
func (c *Client) ListReleases(ctx context.Context) ([]*content.ReleaseNode, error) {
	releases := make([]*content.ReleaseNode, 0)
	err := c.fetch(ctx, queryReleases, nil, &releases)
	if err != nil {
		return nil, err
	}
	return releases, nil
}

// LinkedContentFor fetches the ordered linked-content list for a hub.
func (c *Client) LinkedContentFor(ctx context.Context, kind, identity string) ([]*content.ContentItem, error) {
	items := make([]*content.ContentItem, 0)
	err := c.fetch(ctx, fmt.Sprintf(queryLinkedContent, cardProjection), map[string]any{
		"id": identity,
	}, &items)
	if err != nil {
		return nil, fmt.Errorf("linked content fetch for %s/%s failed: %w", kind, identity, err)
	}
	return items, nil
}

// HighlightDictionary returns the site-wide word-highlighting dictionary.
func (c *Client) HighlightDictionary(ctx context.Context) ([]content.HighlightEntry, error) {
	entries := make([]content.HighlightEntry, 0)
	err := c.fetch(ctx, queryHighlightDictionary, nil, &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
