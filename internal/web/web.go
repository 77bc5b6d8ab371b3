// Package web renders the HTML listing and article pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Ankit1478/LLM-Internals/internal/docservice"
	"github.com/Ankit1478/LLM-Internals/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Handler serves the documentation pages.
type Handler struct {
	svc *docservice.Service
}

// NewRouter returns a router serving /, /docs and /docs/{module}/{slug}.
// Unmatched paths get the HTML not-found page.
func NewRouter(svc *docservice.Service) chi.Router {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs", http.StatusFound)
	})
	r.Get("/docs", h.Listing)
	r.Get("/docs/", h.Listing)
	r.Get("/docs/{module}/{slug}", h.Article)
	r.NotFound(h.NotFound)
	return r
}

// ArticlePath is the URL of slug under module.
func ArticlePath(module int, slug string) string {
	return fmt.Sprintf("/docs/%d/%s", module, slug)
}

type link struct {
	Title string
	URL   string
}

type subModuleView struct {
	Title  string
	Topics []link
}

type cardView struct {
	Number     int
	Badge      string
	Title      string
	Icon       template.HTML
	Topics     []link
	SubModules []subModuleView
}

type listingPage struct {
	PageTitle string
	Cards     []cardView
}

type articlePage struct {
	PageTitle string
	Badge     string
	Article   models.Article
	Previous  *link
	Next      *link
}

type notFoundPage struct {
	PageTitle string
	Path      string
}

func badge(module int) string {
	return "Module " + strconv.Itoa(module+1)
}

func topicLinks(module int, topics []models.Topic) []link {
	out := make([]link, 0, len(topics))
	for _, t := range topics {
		out = append(out, link{Title: t.Title, URL: ArticlePath(module, t.Slug)})
	}
	return out
}

func refLink(ref *models.TopicRef) *link {
	if ref == nil {
		return nil
	}
	return &link{Title: ref.Title, URL: ArticlePath(ref.Module, ref.Slug)}
}

// Listing handles GET /docs.
func (h *Handler) Listing(w http.ResponseWriter, _ *http.Request) {
	roadmap := h.svc.Roadmap()
	page := listingPage{PageTitle: "AI Course Documentation", Cards: make([]cardView, 0, len(roadmap))}
	for _, m := range roadmap {
		card := cardView{
			Number: m.Number,
			Badge:  badge(m.Number),
			Title:  m.Title,
			Icon:   iconFor(m),
			Topics: topicLinks(m.Number, m.Topics),
		}
		for _, sm := range m.SubModules {
			card.SubModules = append(card.SubModules, subModuleView{
				Title:  sm.Title,
				Topics: topicLinks(m.Number, sm.Topics),
			})
		}
		page.Cards = append(page.Cards, card)
	}
	render(w, http.StatusOK, "listing.html", page)
}

// Article handles GET /docs/{module}/{slug}. A module segment that is not
// the article's canonical module redirects to the canonical URL.
func (h *Handler) Article(w http.ResponseWriter, r *http.Request) {
	module, err := strconv.Atoi(chi.URLParam(r, "module"))
	if err != nil {
		h.NotFound(w, r)
		return
	}
	slug := chi.URLParam(r, "slug")

	reg := h.svc.Current()
	a, ok := reg.Article(slug)
	if !ok {
		h.NotFound(w, r)
		return
	}
	if canonical, _ := reg.CanonicalModule(slug); canonical != module {
		http.Redirect(w, r, ArticlePath(canonical, slug), http.StatusMovedPermanently)
		return
	}

	render(w, http.StatusOK, "article.html", articlePage{
		PageTitle: a.Title,
		Badge:     badge(module),
		Article:   a,
		Previous:  refLink(a.Previous),
		Next:      refLink(a.Next),
	})
}

// NotFound renders the HTML not-found page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusNotFound, "notfound.html", notFoundPage{
		PageTitle: "Not found",
		Path:      r.URL.Path,
	})
}

func render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("render page failed", slog.String("template", name), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
