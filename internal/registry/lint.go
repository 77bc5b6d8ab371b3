package registry

import (
	"fmt"

	"github.com/Ankit1478/LLM-Internals/internal/models"
)

// WarningKind classifies a non-fatal content inconsistency.
type WarningKind string

const (
	// WarnOrphan marks an article no roadmap module lists.
	WarnOrphan WarningKind = "orphan"
	// WarnModuleMismatch marks an article whose declared module differs from
	// the roadmap module listing it.
	WarnModuleMismatch WarningKind = "module_mismatch"
)

// Warning is reported by Lint. Warnings never block a build.
type Warning struct {
	Kind     WarningKind `json:"kind"`
	Slug     string      `json:"slug"`
	Declared int         `json:"declared_module"`
	Listed   int         `json:"listed_module,omitempty"`
	Detail   string      `json:"detail"`
}

func (w Warning) String() string {
	return w.Detail
}

// Lint reports articles that are reachable only by slug and articles filed
// under a different module than the roadmap lists them in.
func (r *Registry) Lint() []Warning {
	var out []Warning
	for _, a := range r.articles {
		listed, ok := r.navModule[a.Slug]
		switch {
		case !ok:
			out = append(out, Warning{
				Kind:     WarnOrphan,
				Slug:     a.Slug,
				Declared: a.Module,
				Detail:   fmt.Sprintf("article %q is not listed in the roadmap", a.Slug),
			})
		case listed != a.Module:
			out = append(out, Warning{
				Kind:     WarnModuleMismatch,
				Slug:     a.Slug,
				Declared: a.Module,
				Listed:   listed,
				Detail:   fmt.Sprintf("article %q declares module %d but the roadmap lists it under module %d", a.Slug, a.Module, listed),
			})
		}
	}
	return out
}

// ChangeKind describes how an article differs between two snapshots.
type ChangeKind string

const (
	Created ChangeKind = "created"
	Updated ChangeKind = "updated"
	Deleted ChangeKind = "deleted"
)

// Change is one article-level difference reported by Diff.
type Change struct {
	Kind ChangeKind
	Slug string
	// Article is the new version, or the removed one for Deleted.
	Article models.Article
}

// Diff compares two snapshots by slug and checksum. A nil old registry
// reports every article of next as created. Created and updated entries
// follow the order of next; deletions follow the order of old.
func Diff(old, next *Registry) []Change {
	var out []Change
	if next != nil {
		for _, a := range next.articles {
			if old == nil {
				out = append(out, Change{Kind: Created, Slug: a.Slug, Article: a.Clone()})
				continue
			}
			i, ok := old.bySlug[a.Slug]
			switch {
			case !ok:
				out = append(out, Change{Kind: Created, Slug: a.Slug, Article: a.Clone()})
			case old.articles[i].Checksum != a.Checksum:
				out = append(out, Change{Kind: Updated, Slug: a.Slug, Article: a.Clone()})
			}
		}
	}
	if old != nil {
		for _, a := range old.articles {
			if next != nil {
				if _, ok := next.bySlug[a.Slug]; ok {
					continue
				}
			}
			out = append(out, Change{Kind: Deleted, Slug: a.Slug, Article: a.Clone()})
		}
	}
	return out
}

// RoadmapChanged reports whether the navigation trees of two snapshots
// differ. Reading-order links of unchanged articles can still move when the
// roadmap changes.
func RoadmapChanged(old, next *Registry) bool {
	if old == nil || next == nil {
		return old != next
	}
	a, b := old.roadmap, next.roadmap
	if len(a) != len(b) {
		return true
	}
	for i := range a {
		if !moduleEqual(a[i], b[i]) {
			return true
		}
	}
	return false
}

func moduleEqual(a, b models.Module) bool {
	if a.Number != b.Number || a.Title != b.Title || a.IconOrDefault() != b.IconOrDefault() {
		return false
	}
	if !topicsEqual(a.Topics, b.Topics) || len(a.SubModules) != len(b.SubModules) {
		return false
	}
	for i := range a.SubModules {
		if a.SubModules[i].Title != b.SubModules[i].Title || !topicsEqual(a.SubModules[i].Topics, b.SubModules[i].Topics) {
			return false
		}
	}
	return true
}

func topicsEqual(a, b []models.Topic) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
