package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/mekong-creative/api/internal/domain"
	"github.com/mekong-creative/api/internal/platform/auth"
	"github.com/mekong-creative/api/internal/platform/httpx"
	"github.com/mekong-creative/api/internal/services"
)

const maxAdminBodySize = 256 * 1024

// AdminHandlers carries the authenticated editing surface: typed content
// writes, team reordering, comment moderation, snapshot publishing, and
// runtime store credentials.
type AdminHandlers struct {
	authn    *auth.Authenticator
	catalog  services.CatalogService
	content  services.ContentService
	publish  services.PublishService
	settings services.SettingsService
}

// NewAdminHandlers constructs a new AdminHandlers instance.
func NewAdminHandlers(
	authn *auth.Authenticator,
	catalog services.CatalogService,
	content services.ContentService,
	publish services.PublishService,
	settings services.SettingsService,
) *AdminHandlers {
	return &AdminHandlers{
		authn:    authn,
		catalog:  catalog,
		content:  content,
		publish:  publish,
		settings: settings,
	}
}

// Routes registers the /admin endpoints.
func (h *AdminHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireAdmin())
	}
	r.Put("/team/order", h.reorderTeam)
	r.Post("/content/{category}", h.createContent)
	r.Put("/content/{category}/{id}", h.updateContent)
	r.Delete("/content/{category}/{id}", h.deleteContent)
	r.Post("/comments/{id}/approval", h.moderateComment)
	r.Delete("/comments/{id}", h.deleteComment)
	r.Post("/refresh", h.refresh)
	r.Post("/publish", h.publishSnapshot)
	r.Put("/settings/store", h.updateStoreCredentials)
	r.Put("/settings/publish", h.updatePublishTarget)
	r.Put("/settings/relay", h.updateRelayCredentials)
}

func (h *AdminHandlers) reorderTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	var cmd services.ReorderTeamCommand
	if err := decodeJSONBody(r, maxAdminBodySize, &cmd); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	team, err := h.catalog.ReorderTeam(ctx, cmd)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"items": team})
}

func (h *AdminHandlers) createContent(w http.ResponseWriter, r *http.Request) {
	h.saveContent(w, r, "")
}

func (h *AdminHandlers) updateContent(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "content id is required", http.StatusBadRequest))
		return
	}
	h.saveContent(w, r, id)
}

// saveContent dispatches a typed save per category. An empty id creates; a
// non-empty id updates the existing record.
func (h *AdminHandlers) saveContent(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	if h.content == nil {
		httpx.WriteError(ctx, w, httpx.NewError("content_service_unavailable", "content service unavailable", http.StatusServiceUnavailable))
		return
	}

	category, ok := domain.ParseCategory(chi.URLParam(r, "category"))
	if !ok || category == domain.CategoryComments {
		httpx.WriteError(ctx, w, httpx.NewError("unknown_category", "content category cannot be edited here", http.StatusNotFound))
		return
	}

	var (
		result any
		err    error
	)
	switch category {
	case domain.CategoryTeam:
		var cmd services.SaveTeamMemberCommand
		if err := decodeJSONBody(r, maxAdminBodySize, &cmd); err != nil {
			writeBodyError(ctx, w, err)
			return
		}
		cmd.ID = id
		result, err = h.content.SaveTeamMember(ctx, cmd)
	case domain.CategoryProjects:
		var cmd services.SaveProjectCommand
		if err := decodeJSONBody(r, maxAdminBodySize, &cmd); err != nil {
			writeBodyError(ctx, w, err)
			return
		}
		cmd.ID = id
		result, err = h.content.SaveProject(ctx, cmd)
	case domain.CategoryInsights:
		var cmd services.SaveInsightCommand
		if err := decodeJSONBody(r, maxAdminBodySize, &cmd); err != nil {
			writeBodyError(ctx, w, err)
			return
		}
		cmd.ID = id
		result, err = h.content.SaveInsight(ctx, cmd)
	case domain.CategoryServices:
		var cmd services.SaveServiceCommand
		if err := decodeJSONBody(r, maxAdminBodySize, &cmd); err != nil {
			writeBodyError(ctx, w, err)
			return
		}
		cmd.ID = id
		result, err = h.content.SaveService(ctx, cmd)
	case domain.CategoryReviews:
		var cmd services.SaveReviewCommand
		if err := decodeJSONBody(r, maxAdminBodySize, &cmd); err != nil {
			writeBodyError(ctx, w, err)
			return
		}
		cmd.ID = id
		result, err = h.content.SaveReview(ctx, cmd)
	}
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	respondJSON(ctx, w, status, result)
}

func (h *AdminHandlers) deleteContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.content == nil {
		httpx.WriteError(ctx, w, httpx.NewError("content_service_unavailable", "content service unavailable", http.StatusServiceUnavailable))
		return
	}

	category, ok := domain.ParseCategory(chi.URLParam(r, "category"))
	if !ok || category == domain.CategoryComments {
		httpx.WriteError(ctx, w, httpx.NewError("unknown_category", "content category cannot be edited here", http.StatusNotFound))
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	var err error
	switch category {
	case domain.CategoryTeam:
		err = h.content.DeleteTeamMember(ctx, id)
	case domain.CategoryProjects:
		err = h.content.DeleteProject(ctx, id)
	case domain.CategoryInsights:
		err = h.content.DeleteInsight(ctx, id)
	case domain.CategoryServices:
		err = h.content.DeleteService(ctx, id)
	case domain.CategoryReviews:
		err = h.content.DeleteReview(ctx, id)
	}
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusNoContent, nil)
}

type moderateCommentRequest struct {
	Approved bool `json:"approved"`
}

func (h *AdminHandlers) moderateComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.content == nil {
		httpx.WriteError(ctx, w, httpx.NewError("content_service_unavailable", "content service unavailable", http.StatusServiceUnavailable))
		return
	}

	var req moderateCommentRequest
	if err := decodeJSONBody(r, maxLocaleBodySize, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	if err := h.content.ModerateComment(ctx, chi.URLParam(r, "id"), req.Approved); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"approved": req.Approved})
}

func (h *AdminHandlers) deleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.content == nil {
		httpx.WriteError(ctx, w, httpx.NewError("content_service_unavailable", "content service unavailable", http.StatusServiceUnavailable))
		return
	}
	if err := h.content.DeleteComment(ctx, chi.URLParam(r, "id")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusNoContent, nil)
}

func (h *AdminHandlers) refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service unavailable", http.StatusServiceUnavailable))
		return
	}
	if err := h.catalog.Refresh(ctx); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"status": "refreshed"})
}

func (h *AdminHandlers) publishSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.publish == nil {
		httpx.WriteError(ctx, w, httpx.NewError("publish_service_unavailable", "publish service unavailable", http.StatusServiceUnavailable))
		return
	}

	var cmd services.PublishCommand
	if r.ContentLength != 0 {
		if err := decodeJSONBody(r, maxLocaleBodySize, &cmd); err != nil {
			writeBodyError(ctx, w, err)
			return
		}
	}

	result, err := h.publish.Publish(ctx, cmd)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, result)
}

func (h *AdminHandlers) updateStoreCredentials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.settings == nil {
		httpx.WriteError(ctx, w, httpx.NewError("settings_service_unavailable", "settings service unavailable", http.StatusServiceUnavailable))
		return
	}

	var cmd services.StoreCredentialsCommand
	if err := decodeJSONBody(r, maxLocaleBodySize, &cmd); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	if err := h.settings.UpdateStoreCredentials(ctx, cmd); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"status": "updated"})
}

func (h *AdminHandlers) updatePublishTarget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.settings == nil {
		httpx.WriteError(ctx, w, httpx.NewError("settings_service_unavailable", "settings service unavailable", http.StatusServiceUnavailable))
		return
	}

	var cmd services.PublishTargetCommand
	if err := decodeJSONBody(r, maxLocaleBodySize, &cmd); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	if err := h.settings.UpdatePublishTarget(ctx, cmd); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"status": "updated"})
}

func (h *AdminHandlers) updateRelayCredentials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.settings == nil {
		httpx.WriteError(ctx, w, httpx.NewError("settings_service_unavailable", "settings service unavailable", http.StatusServiceUnavailable))
		return
	}

	var cmd services.RelayCredentialsCommand
	if err := decodeJSONBody(r, maxLocaleBodySize, &cmd); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	if err := h.settings.UpdateRelayCredentials(ctx, cmd); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"status": "updated"})
}
