package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mekong-creative/api/internal/i18n"
	"github.com/mekong-creative/api/internal/platform/httpx"
)

const maxLocaleBodySize = 4 * 1024

// LocaleHandlers exposes the supported locale set and the switch endpoint.
type LocaleHandlers struct {
	selector *i18n.Selector
}

// NewLocaleHandlers constructs a new LocaleHandlers instance.
func NewLocaleHandlers(selector *i18n.Selector) *LocaleHandlers {
	return &LocaleHandlers{selector: selector}
}

// Routes registers the /locales endpoints.
func (h *LocaleHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.list)
	r.Post("/select", h.selectLocale)
}

func (h *LocaleHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.selector == nil {
		httpx.WriteError(ctx, w, httpx.NewError("locales_unavailable", "locale selection unavailable", http.StatusServiceUnavailable))
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"current":   h.selector.Current(),
		"supported": h.selector.Supported(),
	})
}

type selectLocaleRequest struct {
	Code string `json:"code"`
}

func (h *LocaleHandlers) selectLocale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.selector == nil {
		httpx.WriteError(ctx, w, httpx.NewError("locales_unavailable", "locale selection unavailable", http.StatusServiceUnavailable))
		return
	}

	var req selectLocaleRequest
	if err := decodeJSONBody(r, maxLocaleBodySize, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	selection, err := h.selector.Select(req.Code)
	if err != nil {
		if errors.Is(err, i18n.ErrUnsupportedLocale) {
			httpx.WriteError(ctx, w, httpx.NewError("unsupported_locale", "locale is not supported", http.StatusBadRequest))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("locale_switch_failed", "failed to switch locale", http.StatusInternalServerError))
		return
	}
	respondJSON(ctx, w, http.StatusOK, selection)
}
