package index

import (
	"context"

	"github.com/Ankit1478/LLM-Internals/internal/models"
)

// DefaultLimit caps search results when the caller passes no limit.
const DefaultLimit = 20

// SearchIndex is implemented by the SQL index and the in-memory fallback.
// Consumers should depend on this interface rather than a concrete type.
type SearchIndex interface {
	// Sync makes the index mirror articles exactly.
	Sync(ctx context.Context, articles []models.Article) (SyncStats, error)
	// Search matches query case-insensitively against title, description
	// and body. Title hits sort first.
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify both implementations satisfy SearchIndex at compile time.
var (
	_ SearchIndex = (*DB)(nil)
	_ SearchIndex = (*Memory)(nil)
)

// Match names the first field a search hit matched in.
type Match string

const (
	MatchTitle       Match = "title"
	MatchDescription Match = "description"
	MatchBody        Match = "body"
)

// SearchResult is one search hit.
type SearchResult struct {
	Slug    string `json:"slug"`
	Module  int    `json:"module"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Match   Match  `json:"match"`
}

// SyncStats summarises one Sync call.
type SyncStats struct {
	Upserted  int `json:"upserted"`
	Deleted   int `json:"deleted"`
	Unchanged int `json:"unchanged"`
}
