package registry

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Ankit1478/LLM-Internals/internal/apperr"
	"github.com/Ankit1478/LLM-Internals/internal/models"
)

// ProblemKind classifies a content problem that prevents a build.
type ProblemKind string

const (
	ProblemEmptySlug       ProblemKind = "empty_slug"
	ProblemDuplicateSlug   ProblemKind = "duplicate_slug"
	ProblemDanglingTopic   ProblemKind = "dangling_topic"
	ProblemDuplicateTopic  ProblemKind = "duplicate_topic"
	ProblemDuplicateModule ProblemKind = "duplicate_module"
	ProblemMixedModule     ProblemKind = "mixed_module"
	ProblemUnknownIcon     ProblemKind = "unknown_icon"
)

// Problem is one reason a content set was rejected.
type Problem struct {
	Kind    ProblemKind `json:"kind"`
	Slug    string      `json:"slug,omitempty"`
	Module  int         `json:"module"`
	Sources []string    `json:"sources,omitempty"`
	Detail  string      `json:"detail"`
}

func (p Problem) String() string {
	return p.Detail
}

// ValidationError lists every problem found by Build.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Detail
	}
	return fmt.Sprintf("registry: %d content problem(s): %s", len(e.Problems), strings.Join(msgs, "; "))
}

// Is lets callers match any ValidationError with apperr.ErrInvalidContent.
func (e *ValidationError) Is(target error) bool {
	return target == apperr.ErrInvalidContent
}

// DuplicateSlugs returns the colliding slugs in first-seen order.
func (e *ValidationError) DuplicateSlugs() []string {
	var out []string
	for _, p := range e.Problems {
		if p.Kind == ProblemDuplicateSlug {
			out = append(out, p.Slug)
		}
	}
	return out
}

func sourceOf(a models.Article, i int) string {
	if a.Source != "" {
		return a.Source
	}
	return fmt.Sprintf("#%d", i)
}

func checkArticles(articles []models.Article) []Problem {
	var problems []Problem
	sources := make(map[string][]string, len(articles))
	var order []string

	for i, a := range articles {
		if a.Slug == "" {
			problems = append(problems, Problem{
				Kind:    ProblemEmptySlug,
				Module:  a.Module,
				Sources: []string{sourceOf(a, i)},
				Detail:  fmt.Sprintf("article %s has an empty slug", sourceOf(a, i)),
			})
			continue
		}
		if _, seen := sources[a.Slug]; !seen {
			order = append(order, a.Slug)
		}
		sources[a.Slug] = append(sources[a.Slug], sourceOf(a, i))
	}

	for _, slug := range order {
		src := sources[slug]
		if len(src) < 2 {
			continue
		}
		problems = append(problems, Problem{
			Kind:    ProblemDuplicateSlug,
			Slug:    slug,
			Sources: src,
			Detail:  fmt.Sprintf("duplicate slug %q declared by %s", slug, strings.Join(src, ", ")),
		})
	}
	return problems
}

func checkRoadmap(roadmap []models.Module, articles []models.Article) []Problem {
	known := make(map[string]struct{}, len(articles))
	for _, a := range articles {
		known[a.Slug] = struct{}{}
	}

	var problems []Problem
	seenModule := make(map[int]bool, len(roadmap))
	listedIn := make(map[string][]int)
	var topicOrder []string

	for _, m := range roadmap {
		if seenModule[m.Number] {
			problems = append(problems, Problem{
				Kind:   ProblemDuplicateModule,
				Module: m.Number,
				Detail: fmt.Sprintf("module %d declared more than once", m.Number),
			})
		}
		seenModule[m.Number] = true

		if len(m.Topics) > 0 && len(m.SubModules) > 0 {
			problems = append(problems, Problem{
				Kind:   ProblemMixedModule,
				Module: m.Number,
				Detail: fmt.Sprintf("module %d has both topics and sub-modules", m.Number),
			})
		}
		if m.Icon != "" && !slices.Contains(models.Icons, m.Icon) {
			problems = append(problems, Problem{
				Kind:   ProblemUnknownIcon,
				Module: m.Number,
				Detail: fmt.Sprintf("module %d has unknown icon %q (known: %s)", m.Number, m.Icon, strings.Join(models.Icons, ", ")),
			})
		}

		for _, t := range m.AllTopics() {
			if _, ok := listedIn[t.Slug]; !ok {
				topicOrder = append(topicOrder, t.Slug)
			}
			listedIn[t.Slug] = append(listedIn[t.Slug], m.Number)
			if _, ok := known[t.Slug]; !ok {
				problems = append(problems, Problem{
					Kind:   ProblemDanglingTopic,
					Slug:   t.Slug,
					Module: m.Number,
					Detail: fmt.Sprintf("module %d topic %q (%s) has no article", m.Number, t.Slug, t.Title),
				})
			}
		}
	}

	for _, slug := range topicOrder {
		mods := listedIn[slug]
		if len(mods) < 2 {
			continue
		}
		names := make([]string, len(mods))
		for i, n := range mods {
			names[i] = fmt.Sprint(n)
		}
		problems = append(problems, Problem{
			Kind:   ProblemDuplicateTopic,
			Slug:   slug,
			Module: mods[0],
			Detail: fmt.Sprintf("topic %q listed more than once in the roadmap (modules %s)", slug, strings.Join(names, ", ")),
		})
	}
	return problems
}
