// Package content loads article files and the navigation tree from a
// storage provider. The default content set is compiled into the binary.
package content

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/Ankit1478/LLM-Internals/internal/apperr"
	"github.com/Ankit1478/LLM-Internals/internal/models"
	"github.com/Ankit1478/LLM-Internals/internal/parser"
	"github.com/Ankit1478/LLM-Internals/internal/storage"
)

// Layout of a content root.
const (
	ArticlesDir = "articles"
	RoadmapHCL  = "roadmap.hcl"
	RoadmapYAML = "roadmap.yaml"
)

//go:embed data
var embedded embed.FS

// Bundle is one loaded content set, ready for registry.Build.
type Bundle struct {
	Articles []models.Article
	Roadmap  []models.Module
}

// Source produces content bundles. Every call reads the content again.
type Source interface {
	Load(ctx context.Context) (*Bundle, error)
	Root() string
}

// Loader reads a Bundle from a storage provider.
type Loader struct {
	store storage.Provider
}

// NewLoader returns a Loader over store.
func NewLoader(store storage.Provider) *Loader {
	return &Loader{store: store}
}

// Embedded returns a Loader over the content compiled into the binary.
func Embedded() *Loader {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err) // fixed path inside the embed FS
	}
	return NewLoader(storage.NewEmbedded(sub, "embedded"))
}

// Open returns a Loader for dir, or the embedded content when dir is empty.
func Open(dir string) (*Loader, error) {
	if dir == "" {
		return Embedded(), nil
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	return NewLoader(store), nil
}

// Root describes where the content comes from.
func (l *Loader) Root() string {
	return l.store.Root()
}

// Load reads every article under ArticlesDir in lexical path order and the
// roadmap. Files that fail to parse are all reported in one error wrapping
// apperr.ErrInvalidContent.
func (l *Loader) Load(ctx context.Context) (*Bundle, error) {
	metas, err := l.store.List(ArticlesDir)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}

	var (
		articles = make([]models.Article, 0, len(metas))
		errs     []error
	)
	for _, m := range metas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := l.store.Read(m.Path)
		if err != nil {
			return nil, fmt.Errorf("content: %w", err)
		}
		res, err := parser.Parse(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", m.Path, err))
			continue
		}
		articles = append(articles, models.Article{
			Module:      res.Meta.Module,
			Slug:        res.Meta.Slug,
			Title:       res.Meta.Title,
			Description: res.Meta.Description,
			ReadTime:    res.Meta.ReadTime,
			Content:     res.Body,
			Checksum:    m.Checksum,
			Source:      m.Path,
		})
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("content: %w: %w", apperr.ErrInvalidContent, errors.Join(errs...))
	}

	roadmap, err := l.loadRoadmap()
	if err != nil {
		return nil, err
	}
	return &Bundle{Articles: articles, Roadmap: roadmap}, nil
}

func (l *Loader) loadRoadmap() ([]models.Module, error) {
	data, err := l.store.Read(RoadmapHCL)
	if err == nil {
		return DecodeRoadmapHCL(data, RoadmapHCL)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("content: %w", err)
	}

	data, err = l.store.Read(RoadmapYAML)
	if err == nil {
		return DecodeRoadmapYAML(data)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("content: no %s or %s in %s", RoadmapHCL, RoadmapYAML, l.store.Root())
	}
	return nil, fmt.Errorf("content: %w", err)
}
