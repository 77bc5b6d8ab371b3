package index

import (
	"context"
	"strings"
	"testing"

	"github.com/Ankit1478/LLM-Internals/internal/models"
)

var searchFixture = []models.Article{
	art("kv-cache", "KV Cache", "Reusing past keys and values", "The cache grows with sequence length.", "1"),
	art("paged-attention", "PagedAttention", "Managing the KV cache like virtual memory", "Blocks are allocated on demand.", "1"),
	art("memory-implications", "Memory Implications", "Where GPU memory goes", "A long kv cache can exceed the weights.", "1"),
	art("rope", "RoPE", "Rotary position", "Rotate queries and keys by 50% of nothing_special.", "1"),
}

// searchers returns every SearchIndex implementation, loaded with fixture.
func searchers(t *testing.T, fixture []models.Article, fn func(t *testing.T, idx SearchIndex)) {
	t.Helper()
	t.Run("memory", func(t *testing.T) {
		m := NewMemory()
		if _, err := m.Sync(context.Background(), fixture); err != nil {
			t.Fatal(err)
		}
		fn(t, m)
	})
	forEachDriver(t, func(t *testing.T, db *DB) {
		if _, err := db.Sync(context.Background(), fixture); err != nil {
			t.Fatal(err)
		}
		fn(t, db)
	})
}

func slugs(rs []SearchResult) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Slug
	}
	return out
}

func TestSearch_OrderAndCase(t *testing.T) {
	searchers(t, searchFixture, func(t *testing.T, idx SearchIndex) {
		results, err := idx.Search(context.Background(), "kv CACHE", 0)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		got := strings.Join(slugs(results), ",")
		want := "kv-cache,paged-attention,memory-implications"
		if got != want {
			t.Fatalf("order = %s, want %s", got, want)
		}
		if results[0].Match != MatchTitle || results[1].Match != MatchDescription || results[2].Match != MatchBody {
			t.Errorf("matches = %s/%s/%s", results[0].Match, results[1].Match, results[2].Match)
		}
		if !strings.Contains(strings.ToLower(results[2].Snippet), "kv cache") {
			t.Errorf("body snippet = %q", results[2].Snippet)
		}
		if results[1].Snippet != "Managing the KV cache like virtual memory" {
			t.Errorf("description snippet = %q", results[1].Snippet)
		}
	})
}

func TestSearch_Limit(t *testing.T) {
	searchers(t, searchFixture, func(t *testing.T, idx SearchIndex) {
		results, err := idx.Search(context.Background(), "cache", 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 1 || results[0].Slug != "kv-cache" {
			t.Errorf("results = %v", slugs(results))
		}
	})
}

func TestSearch_WildcardsAreLiteral(t *testing.T) {
	searchers(t, searchFixture, func(t *testing.T, idx SearchIndex) {
		for _, q := range []string{"50%", "nothing_special"} {
			results, err := idx.Search(context.Background(), q, 0)
			if err != nil {
				t.Fatal(err)
			}
			if len(results) != 1 || results[0].Slug != "rope" {
				t.Errorf("Search(%q) = %v, want [rope]", q, slugs(results))
			}
		}
		results, _ := idx.Search(context.Background(), "%", 0)
		if len(results) != 1 {
			t.Errorf("Search(%%) = %v, want only the literal match", slugs(results))
		}
	})
}

func TestSearch_EmptyAndMiss(t *testing.T) {
	searchers(t, searchFixture, func(t *testing.T, idx SearchIndex) {
		for _, q := range []string{"", "   "} {
			results, err := idx.Search(context.Background(), q, 0)
			if err != nil || len(results) != 0 {
				t.Errorf("Search(%q) = %v, %v", q, results, err)
			}
		}
		results, err := idx.Search(context.Background(), "zzz-no-such-term", 0)
		if err != nil || len(results) != 0 {
			t.Errorf("miss = %v, %v", results, err)
		}
	})
}

func TestSnippet(t *testing.T) {
	body := strings.Repeat("a ", 100) + "NEEDLE\n\nin a haystack " + strings.Repeat("b ", 100)
	got := snippet(normalizeQuery("needle"), "", body)
	if !strings.HasPrefix(got, "…") || !strings.HasSuffix(got, "…") {
		t.Errorf("snippet should be elided on both sides: %q", got)
	}
	if !strings.Contains(got, "NEEDLE in a haystack") {
		t.Errorf("snippet should keep original case and collapse whitespace: %q", got)
	}

	if got := snippet(normalizeQuery("x"), "", "short body"); got != "short body" {
		t.Errorf("fallback snippet = %q", got)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_\`); got != `50\%\_\\` {
		t.Errorf("escapeLike = %q", got)
	}
}

func TestMemory_SyncStats(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_, _ = m.Sync(ctx, searchFixture)
	stats, _ := m.Sync(ctx, searchFixture[:2])
	if stats != (SyncStats{Unchanged: 2, Deleted: 2}) {
		t.Errorf("stats = %+v", stats)
	}
	if m.Len() != 2 {
		t.Errorf("len = %d, want 2", m.Len())
	}
}

func TestSearch_NonASCIICase(t *testing.T) {
	fixture := []models.Article{
		art("umlaut", "Über RoPE", "Rotation für Positionen", "ÄHNLICH wie sinus.", "1"),
		art("plain", "Plain", "Nothing here", "ascii only", "1"),
	}
	searchers(t, fixture, func(t *testing.T, idx SearchIndex) {
		for q, want := range map[string]Match{
			"über":    MatchTitle,
			"FÜR":     MatchDescription,
			"ähnlich": MatchBody,
		} {
			results, err := idx.Search(context.Background(), q, 0)
			if err != nil {
				t.Fatal(err)
			}
			if len(results) != 1 || results[0].Slug != "umlaut" {
				t.Errorf("Search(%q) = %v, want [umlaut]", q, slugs(results))
				continue
			}
			if results[0].Match != want {
				t.Errorf("Search(%q) match = %s, want %s", q, results[0].Match, want)
			}
		}
	})
}
