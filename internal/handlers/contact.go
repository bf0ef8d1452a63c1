package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/mekong-creative/api/internal/domain"
	"github.com/mekong-creative/api/internal/platform/httpx"
	"github.com/mekong-creative/api/internal/services"
)

const maxContactBodySize = 16 * 1024

// ContactHandlers accepts contact-form submissions and hands them to the relay.
type ContactHandlers struct {
	contact services.ContactService
}

// NewContactHandlers constructs a new ContactHandlers instance.
func NewContactHandlers(contact services.ContactService) *ContactHandlers {
	return &ContactHandlers{contact: contact}
}

// Routes registers the /contact endpoints.
func (h *ContactHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.submit)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Locale  string `json:"locale"`
}

func (h *ContactHandlers) submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.contact == nil {
		httpx.WriteError(ctx, w, httpx.NewError("contact_service_unavailable", "contact service unavailable", http.StatusServiceUnavailable))
		return
	}

	var req contactRequest
	if err := decodeJSONBody(r, maxContactBodySize, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	err := h.contact.Submit(ctx, domain.ContactSubmission{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
		Locale:  req.Locale,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusAccepted, map[string]any{"status": "sent"})
}
