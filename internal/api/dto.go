package api

import (
	"github.com/Ankit1478/LLM-Internals/internal/docservice"
	"github.com/Ankit1478/LLM-Internals/internal/index"
	"github.com/Ankit1478/LLM-Internals/internal/models"
	"github.com/Ankit1478/LLM-Internals/internal/registry"
)

// ArticleDetail is the full article response type (aliased from the domain layer).
type ArticleDetail = models.Article

// ArticleSummary is a lightweight item in a list response (aliased from the domain layer).
type ArticleSummary = docservice.ArticleSummary

// ArticleListResponse wraps paginated article listings.
type ArticleListResponse struct {
	Articles []ArticleSummary `json:"articles" validate:"required"`
	Total    int              `json:"total" example:"78" validate:"required"`
}

// TopicListResponse wraps the flat topic list of one module.
type TopicListResponse struct {
	Module int            `json:"module" example:"1" validate:"required"`
	Topics []models.Topic `json:"topics" validate:"required"`
}

// RoadmapResponse wraps the navigation tree.
type RoadmapResponse struct {
	Modules []models.Module `json:"modules" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

// ChangeItem is one article change applied by a reload.
type ChangeItem struct {
	Kind string `json:"kind" example:"updated" validate:"required"`
	Slug string `json:"slug" example:"rope" validate:"required"`
}

// ReloadResponse is returned after a successful reload.
type ReloadResponse struct {
	Generation         string       `json:"generation" validate:"required"`
	PreviousGeneration string       `json:"previous_generation" validate:"required"`
	Changes            []ChangeItem `json:"changes" validate:"required"`
	RoadmapChanged     bool         `json:"roadmap_changed"`
	Warnings           int          `json:"warnings" example:"0"`
}

// InvalidContentResponse lists the problems that rejected a reload.
type InvalidContentResponse struct {
	Error    string             `json:"error" validate:"required"`
	Problems []registry.Problem `json:"problems"`
}

// ReadyResponse reports the live snapshot.
type ReadyResponse struct {
	Status     string `json:"status" example:"ok" validate:"required"`
	Generation string `json:"generation" validate:"required"`
	Articles   int    `json:"articles" example:"78" validate:"required"`
}

func newReloadResponse(res docservice.ReloadResult) ReloadResponse {
	changes := make([]ChangeItem, 0, len(res.Changes))
	for _, c := range res.Changes {
		changes = append(changes, ChangeItem{Kind: string(c.Kind), Slug: c.Slug})
	}
	return ReloadResponse{
		Generation:         res.Generation,
		PreviousGeneration: res.PreviousGeneration,
		Changes:            changes,
		RoadmapChanged:     res.RoadmapChanged,
		Warnings:           len(res.Warnings),
	}
}
