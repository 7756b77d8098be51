// Package types defines cache payload structures shared across the caching layer.
package types

import (
	"time"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/entities/content"
)

// IndexState is the resume state of one primary content listing: the grid
// materialized so far, the dominant hero item, and the pagination cursor.
// NextOffset == nil means the listing is exhausted. The grid only ever grows.
type IndexState struct {
	Section     content.Section        `json:"section"`
	Items       []*content.ContentItem `json:"items"`
	Hero        *content.ContentItem   `json:"hero,omitempty"`
	NextOffset  *int                   `json:"nextOffset"`
	LastUpdated time.Time              `json:"lastUpdated"`
}

// StrongerThan reports whether this state has materialized at least as much
// of the grid as other. Callers use it to avoid downgrading resume state.
func (s *IndexState) StrongerThan(other *IndexState) bool {
	if other == nil {
		return true
	}
	return len(s.Items) >= len(other.Items)
}

// Snapshot is the aggregate produced by one build of the content pipeline.
// Every field is well-shaped even on total upstream failure.
type Snapshot struct {
	Reviews  []*content.ContentItem `json:"reviews"`
	Articles []*content.ContentItem `json:"articles"`
	News     []*content.ContentItem `json:"news"`
	Releases []*content.ReleaseNode `json:"releases"`
	Credits  []*content.CreditNode  `json:"credits"`
	Hubs     SnapshotHubs           `json:"hubs"`
	Metadata SnapshotMetadata       `json:"metadata"`
}

// SnapshotHubs groups the hub records a snapshot build touched.
type SnapshotHubs struct {
	Games    []*content.GameNode    `json:"games"`
	Tags     []*content.TagNode     `json:"tags"`
	Creators []*content.CreatorNode `json:"creators"`
}

// SnapshotMetadata identifies one build.
type SnapshotMetadata struct {
	BuildID     string    `json:"buildId"`
	GeneratedAt time.Time `json:"generatedAt"`
	ItemCount   int       `json:"itemCount"`
	Degraded    bool      `json:"degraded"`
}

// EmptySnapshot returns an all-empty-but-well-shaped snapshot for the
// degraded path. The snapshot backs first-paint rendering and must never be nil.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Reviews:  make([]*content.ContentItem, 0),
		Articles: make([]*content.ContentItem, 0),
		News:     make([]*content.ContentItem, 0),
		Releases: make([]*content.ReleaseNode, 0),
		Credits:  make([]*content.CreditNode, 0),
		Hubs: SnapshotHubs{
			Games:    make([]*content.GameNode, 0),
			Tags:     make([]*content.TagNode, 0),
			Creators: make([]*content.CreatorNode, 0),
		},
		Metadata: SnapshotMetadata{
			GeneratedAt: time.Now().UTC(),
			Degraded:    true,
		},
	}
}
