package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Authenticator guards admin routes with session-token verification.
type Authenticator struct {
	sessions *SessionIssuer
}

// NewAuthenticator constructs an Authenticator backed by the session issuer.
func NewAuthenticator(sessions *SessionIssuer) *Authenticator {
	return &Authenticator{sessions: sessions}
}

// RequireAdmin verifies the bearer session token and stores the identity on
// the request context. Requests without a valid token are rejected.
func (a *Authenticator) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a == nil || a.sessions == nil {
				respondAuthError(w, http.StatusServiceUnavailable, "auth_unavailable", "session verification unavailable")
				return
			}

			token, ok := extractBearerToken(r.Header.Get("Authorization"))
			if !ok {
				respondAuthError(w, http.StatusUnauthorized, "unauthenticated", "missing bearer token")
				return
			}

			identity, err := a.sessions.Verify(token)
			if err != nil {
				if errors.Is(err, ErrSessionExpired) {
					respondAuthError(w, http.StatusUnauthorized, "session_expired", "session token has expired")
					return
				}
				respondAuthError(w, http.StatusUnauthorized, "unauthenticated", "invalid session token")
				return
			}
			if !identity.HasRole(RoleAdmin) {
				respondAuthError(w, http.StatusForbidden, "forbidden", "admin role required")
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func respondAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   code,
		"message": message,
		"status":  status,
	})
}
