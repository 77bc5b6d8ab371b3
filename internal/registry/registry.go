// Package registry holds the immutable slug -> article catalog together with
// the navigation tree that orders it.
//
// A Registry is built once by Build, which validates the whole content set
// up front: duplicate slugs, navigation topics without an article and
// malformed modules are all reported together instead of being resolved by
// whichever record happens to be inserted last. Reading order (previous and
// next topic) is derived from the navigation tree, never hand-maintained.
package registry

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ankit1478/LLM-Internals/internal/models"
)

// Registry is a validated, read-only snapshot of the catalog. It is safe for
// concurrent use.
type Registry struct {
	articles   []models.Article
	bySlug     map[string]int
	roadmap    []models.Module
	navModule  map[string]int
	generation string
	builtAt    time.Time
}

// Build validates articles against roadmap and returns a registry snapshot.
// Articles keep the order they are passed in. Any Previous/Next values on
// the input are discarded and re-derived from the roadmap.
func Build(articles []models.Article, roadmap []models.Module) (*Registry, error) {
	problems := checkArticles(articles)
	problems = append(problems, checkRoadmap(roadmap, articles)...)
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	r := &Registry{
		articles:   make([]models.Article, len(articles)),
		bySlug:     make(map[string]int, len(articles)),
		roadmap:    models.CloneRoadmap(roadmap),
		navModule:  make(map[string]int),
		generation: uuid.NewString(),
		builtAt:    time.Now().UTC(),
	}
	for i, a := range articles {
		a.Previous, a.Next = nil, nil
		r.articles[i] = a
		r.bySlug[a.Slug] = i
	}
	r.link()
	return r, nil
}

// link flattens the roadmap into reading order and sets Previous/Next on
// every listed article.
func (r *Registry) link() {
	type entry struct {
		module int
		topic  models.Topic
	}
	var flat []entry
	for _, m := range r.roadmap {
		for _, t := range m.AllTopics() {
			flat = append(flat, entry{module: m.Number, topic: t})
			r.navModule[t.Slug] = m.Number
		}
	}
	for i, e := range flat {
		a := &r.articles[r.bySlug[e.topic.Slug]]
		if i > 0 {
			p := flat[i-1]
			a.Previous = &models.TopicRef{Module: p.module, Slug: p.topic.Slug, Title: p.topic.Title}
		}
		if i < len(flat)-1 {
			n := flat[i+1]
			a.Next = &models.TopicRef{Module: n.module, Slug: n.topic.Slug, Title: n.topic.Title}
		}
	}
}

// Article returns the article registered under slug. Lookup is exact: no
// trimming or case folding.
func (r *Registry) Article(slug string) (models.Article, bool) {
	i, ok := r.bySlug[slug]
	if !ok {
		return models.Article{}, false
	}
	return r.articles[i].Clone(), true
}

// Articles returns every registered article in load order.
func (r *Registry) Articles() []models.Article {
	out := make([]models.Article, len(r.articles))
	for i, a := range r.articles {
		out[i] = a.Clone()
	}
	return out
}

// Len returns the number of registered articles.
func (r *Registry) Len() int {
	return len(r.articles)
}

// ModuleTopics returns the flat topic list of module n. Modules organised in
// sub-modules and unknown module numbers yield an empty list.
func (r *Registry) ModuleTopics(n int) []models.Topic {
	for _, m := range r.roadmap {
		if m.Number == n {
			return append([]models.Topic{}, m.Topics...)
		}
	}
	return []models.Topic{}
}

// Roadmap returns a copy of the navigation tree.
func (r *Registry) Roadmap() []models.Module {
	return models.CloneRoadmap(r.roadmap)
}

// CanonicalModule returns the module number used in the URL of slug: the
// roadmap module listing it, or the article's own module when unlisted.
func (r *Registry) CanonicalModule(slug string) (int, bool) {
	if n, ok := r.navModule[slug]; ok {
		return n, true
	}
	i, ok := r.bySlug[slug]
	if !ok {
		return 0, false
	}
	return r.articles[i].Module, true
}

// Generation identifies this snapshot. Every Build produces a new one.
func (r *Registry) Generation() string {
	return r.generation
}

// BuiltAt returns when the snapshot was built.
func (r *Registry) BuiltAt() time.Time {
	return r.builtAt
}
