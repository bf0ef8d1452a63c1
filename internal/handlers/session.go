package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mekong-creative/api/internal/platform/auth"
	"github.com/mekong-creative/api/internal/platform/httpx"
)

const maxLoginBodySize = 4 * 1024

// SessionHandlers exchanges an editor PIN for a signed session token.
type SessionHandlers struct {
	pins     *auth.PINVerifier
	sessions *auth.SessionIssuer
}

// NewSessionHandlers constructs a new SessionHandlers instance.
func NewSessionHandlers(pins *auth.PINVerifier, sessions *auth.SessionIssuer) *SessionHandlers {
	return &SessionHandlers{pins: pins, sessions: sessions}
}

// Routes registers the /auth endpoints.
func (h *SessionHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/login", h.login)
}

type loginRequest struct {
	PIN string `json:"pin"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *SessionHandlers) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.pins == nil || !h.pins.Configured() || h.sessions == nil {
		httpx.WriteError(ctx, w, httpx.NewError("login_unavailable", "editor login is not configured", http.StatusServiceUnavailable))
		return
	}

	var req loginRequest
	if err := decodeJSONBody(r, maxLoginBodySize, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	subject, err := h.pins.Verify(req.PIN)
	if err != nil {
		if errors.Is(err, auth.ErrPINMismatch) {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_pin", "pin does not match", http.StatusUnauthorized))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("login_failed", "login failed", http.StatusInternalServerError))
		return
	}

	token, expires, err := h.sessions.Issue(subject)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("login_failed", "failed to issue session token", http.StatusInternalServerError))
		return
	}

	respondJSON(ctx, w, http.StatusOK, loginResponse{
		Token:     token,
		Subject:   subject,
		ExpiresAt: expires.UTC(),
	})
}
