// Package content defines the application's core content-related domain entities.
package content

import "time"

// Section identifies one of the three primary content listings.
type Section string

const (
	SectionReviews  Section = "reviews"
	SectionArticles Section = "articles"
	SectionNews     Section = "news"
)

// Valid reports whether s names a known primary listing.
func (s Section) Valid() bool {
	return s == SectionReviews || s == SectionArticles || s == SectionNews
}

// ContentItem is a review, article, or news document. Identity is the stable
// ID plus a slug unique within the section namespace.
type ContentItem struct {
	ID          string      `json:"id"`
	NodeType    string      `json:"nodeType"`
	Section     Section     `json:"section"`
	Slug        string      `json:"slug"`
	Title       string      `json:"title"`
	Published   time.Time   `json:"published"`
	Score       *float64    `json:"score,omitempty"`
	Verdict     *string     `json:"verdict,omitempty"`
	CoverURL    string      `json:"coverUrl,omitempty"`
	Placeholder *string     `json:"placeholder,omitempty"`
	Body        []Block     `json:"body,omitempty"`
	Compiled    []BodyChunk `json:"compiled,omitempty"`

	GameID     *string  `json:"gameId,omitempty"`
	TagIDs     []string `json:"tagIds,omitempty"`
	CreatorIDs []string `json:"creatorIds,omitempty"`

	// Joined projections a lighter fetch may carry independently of the body.
	Game     *GameNode      `json:"game,omitempty"`
	Tags     []*TagNode     `json:"tags,omitempty"`
	Creators []*CreatorNode `json:"creators,omitempty"`

	AuthorName   string `json:"authorName,omitempty"`
	AuthorHandle string `json:"authorHandle,omitempty"`
	AuthorAvatar string `json:"authorAvatar,omitempty"`

	FullyLoaded bool `json:"fullyLoaded"`
}

// Identity returns the cache key for this item. Slug is preferred; items
// without one fall back to the raw ID so hub expansion still resolves.
func (ci *ContentItem) Identity() string {
	if ci.Slug != "" {
		return ci.Slug
	}
	return ci.ID
}

// GameNode is a game hub: identity plus an ordered linked-content sequence,
// populated lazily on first navigation into the hub.
type GameNode struct {
	ID            string         `json:"id"`
	NodeType      string         `json:"nodeType"`
	Slug          string         `json:"slug"`
	Title         string         `json:"title"`
	ReleaseDate   *time.Time     `json:"releaseDate,omitempty"`
	Platforms     []string       `json:"platforms,omitempty"`
	CoverURL      string         `json:"coverUrl,omitempty"`
	LinkedContent []*ContentItem `json:"linkedContent,omitempty"`
	ContentLoaded bool           `json:"contentLoaded"`
}

// TagNode is a tag/category hub.
type TagNode struct {
	ID            string         `json:"id"`
	NodeType      string         `json:"nodeType"`
	Slug          string         `json:"slug"`
	Title         string         `json:"title"`
	LinkedContent []*ContentItem `json:"linkedContent,omitempty"`
	ContentLoaded bool           `json:"contentLoaded"`
}

// CreatorNode is a creator hub. A creator may be addressed by up to three
// aliases: the external directory profile ID, the internal content ID, and
// the public handle.
type CreatorNode struct {
	ID            string         `json:"id"`
	NodeType      string         `json:"nodeType"`
	ProfileID     string         `json:"profileId,omitempty"`
	Handle        string         `json:"handle,omitempty"`
	Name          string         `json:"name,omitempty"`
	Avatar        string         `json:"avatar,omitempty"`
	Bio           string         `json:"bio,omitempty"`
	Roles         []string       `json:"roles,omitempty"`
	LinkedContent []*ContentItem `json:"linkedContent,omitempty"`
	ContentLoaded bool           `json:"contentLoaded"`
}

// Aliases returns every key this creator may be registered under.
func (cn *CreatorNode) Aliases() []string {
	aliases := make([]string, 0, 3)
	if cn.ProfileID != "" {
		aliases = append(aliases, cn.ProfileID)
	}
	if cn.ID != "" {
		aliases = append(aliases, cn.ID)
	}
	if cn.Handle != "" {
		aliases = append(aliases, cn.Handle)
	}
	return aliases
}

// ReleaseNode is a calendar entry for an upcoming or shipped game release.
type ReleaseNode struct {
	ID       string        `json:"id"`
	NodeType string        `json:"nodeType"`
	Title    string        `json:"title"`
	GameID   string        `json:"gameId"`
	Date     time.Time     `json:"date"`
	Credits  []*CreditNode `json:"credits,omitempty"`
}

// CreditNode attributes a creator's role on a release.
type CreditNode struct {
	CreatorID string `json:"creatorId"`
	Role      string `json:"role"`
}
