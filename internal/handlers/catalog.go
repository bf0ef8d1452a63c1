package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/mekong-creative/api/internal/domain"
	"github.com/mekong-creative/api/internal/platform/httpx"
	"github.com/mekong-creative/api/internal/platform/pagination"
	"github.com/mekong-creative/api/internal/services"
)

const maxCommentBodySize = 16 * 1024

// CatalogHandlers exposes the public read surface: the merged catalogue, its
// per-category listings, detail lookups by slug, and reader comments.
type CatalogHandlers struct {
	catalog services.CatalogService
	content services.ContentService
}

// NewCatalogHandlers constructs a new CatalogHandlers instance.
func NewCatalogHandlers(catalog services.CatalogService, content services.ContentService) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog, content: content}
}

// Routes registers the /catalog endpoints.
func (h *CatalogHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getCatalogue)
	r.Get("/projects/{slug}", h.getProject)
	r.Get("/insights/{slug}", h.getInsight)
	r.Get("/insights/{slug}/comments", h.listComments)
	r.Post("/insights/{slug}/comments", h.submitComment)
	r.Get("/{category}", h.listCategory)
}

func (h *CatalogHandlers) getCatalogue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service unavailable", http.StatusServiceUnavailable))
		return
	}
	catalogue, err := h.catalog.Catalogue(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, catalogue)
}

func (h *CatalogHandlers) listCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	category, ok := domain.ParseCategory(chi.URLParam(r, "category"))
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("unknown_category", "unknown catalogue category", http.StatusNotFound))
		return
	}

	var (
		items any
		err   error
	)
	switch category {
	case domain.CategoryTeam:
		items, err = h.catalog.Team(ctx)
	case domain.CategoryProjects:
		items, err = h.catalog.Projects(ctx)
	case domain.CategoryInsights:
		h.listInsights(w, r)
		return
	case domain.CategoryServices:
		items, err = h.catalog.Services(ctx)
	case domain.CategoryReviews:
		items, err = h.catalog.Reviews(ctx)
	default:
		// Comments hang off an insight; there is no standalone listing.
		httpx.WriteError(ctx, w, httpx.NewError("unknown_category", "unknown catalogue category", http.StatusNotFound))
		return
	}
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"items": items})
}

// listInsights is the one paginated listing: articles accumulate over time
// while every other category stays a short curated set.
func (h *CatalogHandlers) listInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := pagination.FromRequest(r, pagination.Options{})
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_pagination", err.Error(), http.StatusBadRequest))
		return
	}

	insights, err := h.catalog.Insights(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	page, next, err := pagination.Page(insights, params, func(insight domain.Insight) string {
		return insight.Slug
	})
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_pagination", err.Error(), http.StatusBadRequest))
		return
	}

	respondJSON(ctx, w, http.StatusOK, domain.CursorPage[domain.Insight]{
		Items:         page,
		NextPageToken: next,
	})
}

func (h *CatalogHandlers) getProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service unavailable", http.StatusServiceUnavailable))
		return
	}
	project, err := h.catalog.ProjectBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, project)
}

func (h *CatalogHandlers) getInsight(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service unavailable", http.StatusServiceUnavailable))
		return
	}
	insight, err := h.catalog.InsightBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, insight)
}

func (h *CatalogHandlers) listComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service unavailable", http.StatusServiceUnavailable))
		return
	}
	comments, err := h.catalog.CommentsForInsight(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"items": comments})
}

type submitCommentRequest struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}

func (h *CatalogHandlers) submitComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.content == nil {
		httpx.WriteError(ctx, w, httpx.NewError("content_service_unavailable", "content service unavailable", http.StatusServiceUnavailable))
		return
	}

	var req submitCommentRequest
	if err := decodeJSONBody(r, maxCommentBodySize, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	comment, err := h.content.SubmitComment(ctx, services.SubmitCommentCommand{
		InsightSlug: strings.TrimSpace(chi.URLParam(r, "slug")),
		Author:      req.Author,
		Body:        req.Body,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusAccepted, comment)
}
