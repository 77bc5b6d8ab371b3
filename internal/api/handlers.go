package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Ankit1478/LLM-Internals/internal/checksum"
	"github.com/Ankit1478/LLM-Internals/internal/docservice"
	"github.com/Ankit1478/LLM-Internals/internal/models"
	"github.com/Ankit1478/LLM-Internals/internal/registry"
)

// Handler holds API route handlers.
type Handler struct {
	svc *docservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListArticles handles GET /api/articles.
//
//	@Summary		List article summaries with optional module filter and pagination
//	@Tags			articles
//	@Produce		json
//	@Param			module	query		int		false	"Declared module number"
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Success		200		{object}	ArticleListResponse
//	@Failure		400		{object}	errResponse
//	@Router			/articles [get]
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	params := docservice.ListParams{Limit: limit, Offset: offset}
	if raw := q.Get("module"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("module must be a number"))
			return
		}
		params.Module = &n
	}

	items, total, err := h.svc.ListArticles(r.Context(), params)
	if err != nil {
		writeError(w, "list articles failed", err)
		return
	}
	writeJSON(w, http.StatusOK, ArticleListResponse{Articles: items, Total: total})
}

// GetArticle handles GET /api/articles/{slug}.
//
//	@Summary		Get a single article by slug
//	@Tags			articles
//	@Produce		json
//	@Param			slug			path		string	true	"Article slug"
//	@Param			If-None-Match	header		string	false	"ETag from a previous response"
//	@Success		200				{object}	ArticleDetail
//	@Success		304				"Not modified"
//	@Failure		404				{object}	errResponse
//	@Router			/articles/{slug} [get]
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	a, err := h.svc.GetArticle(r.Context(), slug)
	if err != nil {
		writeError(w, "get article failed", err, slog.String("slug", slug))
		return
	}

	tag := articleTag(a)
	w.Header().Set("ETag", checksum.ETag(tag))
	if checksum.MatchesETag(r.Header.Get("If-None-Match"), tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// articleTag fingerprints everything the JSON response depends on: the
// source checksum and both neighbour links.
func articleTag(a models.Article) string {
	var b strings.Builder
	b.WriteString(a.Checksum)
	for _, ref := range []*models.TopicRef{a.Previous, a.Next} {
		b.WriteByte(0)
		if ref != nil {
			fmt.Fprintf(&b, "%d\x00%s\x00%s", ref.Module, ref.Slug, ref.Title)
		}
	}
	return checksum.Sum([]byte(b.String()))
}

// Roadmap handles GET /api/roadmap.
//
//	@Summary		Get the navigation tree
//	@Tags			navigation
//	@Produce		json
//	@Success		200	{object}	RoadmapResponse
//	@Router			/roadmap [get]
func (h *Handler) Roadmap(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, RoadmapResponse{Modules: h.svc.Roadmap()})
}

// ModuleTopics handles GET /api/modules/{module}/topics.
//
//	@Summary		Get the flat topic list of a module
//	@Tags			navigation
//	@Produce		json
//	@Param			module	path		int	true	"Module number"
//	@Success		200		{object}	TopicListResponse
//	@Failure		400		{object}	errResponse
//	@Router			/modules/{module}/topics [get]
func (h *Handler) ModuleTopics(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "module"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("module must be a number"))
		return
	}
	writeJSON(w, http.StatusOK, TopicListResponse{Module: n, Topics: h.svc.ModuleTopics(n)})
}

// Search handles GET /api/search.
//
//	@Summary		Substring search across article titles, descriptions and bodies
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search failed", err, slog.String("query", q))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Reload handles POST /api/admin/reload.
//
//	@Summary		Reload content from the configured source
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	ReloadResponse
//	@Failure		401	{object}	errResponse
//	@Failure		422	{object}	InvalidContentResponse
//	@Security		BearerAuth
//	@Router			/admin/reload [post]
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Reload(r.Context())
	if err != nil {
		var verr *registry.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, InvalidContentResponse{
				Error:    "invalid content",
				Problems: verr.Problems,
			})
			return
		}
		writeError(w, "reload failed", err)
		return
	}
	writeJSON(w, http.StatusOK, newReloadResponse(res))
}

// Live handles GET /health/live.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /health/ready.
func (h *Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	reg := h.svc.Current()
	writeJSON(w, http.StatusOK, ReadyResponse{
		Status:     "ok",
		Generation: reg.Generation(),
		Articles:   reg.Len(),
	})
}
