package index

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/Ankit1478/LLM-Internals/internal/models"
)

// Memory is an in-process SearchIndex used when no database is configured.
// It applies the same matching and ordering rules as DB.
type Memory struct {
	mu       sync.RWMutex
	articles map[string]models.Article
}

// NewMemory returns an empty in-memory index.
func NewMemory() *Memory {
	return &Memory{articles: make(map[string]models.Article)}
}

// Sync replaces the indexed set with articles.
func (m *Memory) Sync(_ context.Context, articles []models.Article) (SyncStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stats SyncStats
	next := make(map[string]models.Article, len(articles))
	for _, a := range articles {
		if old, ok := m.articles[a.Slug]; ok && old.Checksum == a.Checksum {
			stats.Unchanged++
		} else {
			stats.Upserted++
		}
		next[a.Slug] = a
	}
	for slug := range m.articles {
		if _, ok := next[slug]; !ok {
			stats.Deleted++
		}
	}
	m.articles = next
	return stats, nil
}

// Search scans every article.
func (m *Memory) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	q := normalizeQuery(query)
	if len(q) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []SearchResult
	for _, a := range m.articles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		match, ok := classify(q, a.Title, a.Description, a.Content)
		if !ok {
			continue
		}
		out = append(out, SearchResult{
			Slug:    a.Slug,
			Module:  a.Module,
			Title:   a.Title,
			Snippet: snippet(q, a.Description, a.Content),
			Match:   match,
		})
	}
	slices.SortFunc(out, func(a, b SearchResult) int {
		if c := cmp.Compare(matchRank(a.Match), matchRank(b.Match)); c != 0 {
			return c
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len returns the number of indexed articles.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.articles)
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

func matchRank(m Match) int {
	switch m {
	case MatchTitle:
		return 0
	case MatchDescription:
		return 1
	default:
		return 2
	}
}
