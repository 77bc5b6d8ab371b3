// Package docservice serves reads from the current registry snapshot and
// swaps in new snapshots on reload.
package docservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Ankit1478/LLM-Internals/internal/apperr"
	"github.com/Ankit1478/LLM-Internals/internal/content"
	"github.com/Ankit1478/LLM-Internals/internal/index"
	"github.com/Ankit1478/LLM-Internals/internal/models"
	"github.com/Ankit1478/LLM-Internals/internal/registry"
)

// Paging limits for ListArticles.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// ArticleSummary is an article without its body.
type ArticleSummary struct {
	Module      int    `json:"module"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ReadTime    int    `json:"read_time"`
	Checksum    string `json:"checksum"`
}

// ListParams filters and pages ListArticles.
type ListParams struct {
	Module *int
	Limit  int
	Offset int
}

// ReloadResult describes a successful reload.
type ReloadResult struct {
	Generation         string
	PreviousGeneration string
	Changes            []registry.Change
	RoadmapChanged     bool
	Warnings           []registry.Warning
}

// ReloadFunc is called after every successful reload.
type ReloadFunc func(ReloadResult)

// Option configures a Service.
type Option func(*Service)

// WithOnReload registers fn to run after each successful reload.
func WithOnReload(fn ReloadFunc) Option {
	return func(s *Service) {
		s.onReload = append(s.onReload, fn)
	}
}

// Service coordinates the content source, the registry snapshot and the
// search index.
type Service struct {
	src      content.Source
	idx      index.SearchIndex
	logger   *slog.Logger
	onReload []ReloadFunc

	current  atomic.Pointer[registry.Registry]
	reloadMu sync.Mutex
}

// New loads content from src, builds the first snapshot and syncs idx.
// Invalid content is an error. A nil idx selects the in-memory index.
func New(ctx context.Context, src content.Source, idx index.SearchIndex, logger *slog.Logger, opts ...Option) (*Service, error) {
	if idx == nil {
		idx = index.NewMemory()
	}
	s := &Service{src: src, idx: idx, logger: logger}
	for _, opt := range opts {
		opt(s)
	}

	reg, err := Build(ctx, src)
	if err != nil {
		return nil, err
	}
	s.logWarnings(reg.Lint())

	stats, err := idx.Sync(ctx, reg.Articles())
	if err != nil {
		return nil, fmt.Errorf("docservice: initial index sync: %w", err)
	}
	s.current.Store(reg)

	logger.Info("docservice: content loaded",
		slog.String("root", src.Root()),
		slog.Int("articles", reg.Len()),
		slog.String("generation", reg.Generation()),
		slog.Int("indexed", stats.Upserted))
	return s, nil
}

// Build loads src and builds a registry without publishing it.
func Build(ctx context.Context, src content.Source) (*registry.Registry, error) {
	b, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return registry.Build(b.Articles, b.Roadmap)
}

// Current returns the live registry snapshot.
func (s *Service) Current() *registry.Registry {
	return s.current.Load()
}

// GetArticle returns the article registered under slug.
func (s *Service) GetArticle(_ context.Context, slug string) (models.Article, error) {
	a, ok := s.Current().Article(slug)
	if !ok {
		return models.Article{}, apperr.ErrNotFound
	}
	return a, nil
}

// ListArticles returns a page of article summaries in registry order and
// the total number of articles matching the filter.
func (s *Service) ListArticles(_ context.Context, p ListParams) ([]ArticleSummary, int, error) {
	if p.Offset < 0 || p.Limit < 0 {
		return nil, 0, fmt.Errorf("%w: limit and offset must not be negative", apperr.ErrBadRequest)
	}
	limit := p.Limit
	if limit == 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)

	matched := s.Summaries(p.Module)
	total := len(matched)
	if p.Offset >= total {
		return []ArticleSummary{}, total, nil
	}
	end := min(total, p.Offset+limit)
	return matched[p.Offset:end], total, nil
}

// Summaries returns every article summary from one registry snapshot, in
// registry order. A non-nil module keeps only articles declaring it.
func (s *Service) Summaries(module *int) []ArticleSummary {
	matched := []ArticleSummary{}
	for _, a := range s.Current().Articles() {
		if module != nil && a.Module != *module {
			continue
		}
		matched = append(matched, summarize(a))
	}
	return matched
}

// ModuleTopics returns the flat topic list of module n.
func (s *Service) ModuleTopics(n int) []models.Topic {
	return s.Current().ModuleTopics(n)
}

// Roadmap returns the navigation tree.
func (s *Service) Roadmap() []models.Module {
	return s.Current().Roadmap()
}

// Search queries the search index. An empty query is a bad request.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]index.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", apperr.ErrBadRequest)
	}
	results, err := s.idx.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []index.SearchResult{}
	}
	return results, nil
}

// Reload rebuilds the registry from the content source. Reloads are
// serialised. When the new content does not validate, the current snapshot
// stays live and the error is returned.
func (s *Service) Reload(ctx context.Context) (ReloadResult, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	next, err := Build(ctx, s.src)
	if err != nil {
		s.logger.Warn("docservice: reload rejected, keeping current content",
			slog.String("generation", s.Current().Generation()),
			slog.String("error", err.Error()))
		return ReloadResult{}, err
	}

	prev := s.Current()
	res := ReloadResult{
		Generation:         next.Generation(),
		PreviousGeneration: prev.Generation(),
		Changes:            registry.Diff(prev, next),
		RoadmapChanged:     registry.RoadmapChanged(prev, next),
		Warnings:           next.Lint(),
	}
	s.current.Store(next)
	s.logWarnings(res.Warnings)

	// A failed sync leaves search stale until the next reload; content
	// reads are already on the new snapshot.
	stats, err := s.idx.Sync(ctx, next.Articles())
	if err != nil {
		s.logger.Error("docservice: index sync failed", slog.String("error", err.Error()))
	}

	s.logger.Info("docservice: reloaded",
		slog.String("generation", res.Generation),
		slog.Int("changes", len(res.Changes)),
		slog.Bool("roadmap_changed", res.RoadmapChanged),
		slog.Int("indexed", stats.Upserted),
		slog.Int("unindexed", stats.Deleted))

	for _, fn := range s.onReload {
		fn(res)
	}
	return res, nil
}

// Close releases the search index.
func (s *Service) Close() error {
	return s.idx.Close()
}

// logWarnings logs a single summary line; details go to debug.
func (s *Service) logWarnings(ws []registry.Warning) {
	if len(ws) == 0 {
		return
	}
	s.logger.Warn("docservice: content has warnings", slog.Int("count", len(ws)))
	for _, w := range ws {
		s.logger.Debug("docservice: content warning",
			slog.String("kind", string(w.Kind)),
			slog.String("slug", w.Slug),
			slog.String("detail", w.Detail))
	}
}

func summarize(a models.Article) ArticleSummary {
	return ArticleSummary{
		Module:      a.Module,
		Slug:        a.Slug,
		Title:       a.Title,
		Description: a.Description,
		ReadTime:    a.ReadTime,
		Checksum:    a.Checksum,
	}
}
