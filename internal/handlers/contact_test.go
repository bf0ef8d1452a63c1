package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	domain "github.com/mekong-creative/api/internal/domain"
	"github.com/mekong-creative/api/internal/services"
)

type stubContactService struct {
	submissions []domain.ContactSubmission
	err         error
}

func (s *stubContactService) Submit(_ context.Context, submission domain.ContactSubmission) error {
	s.submissions = append(s.submissions, submission)
	return s.err
}

var _ services.ContactService = (*stubContactService)(nil)

func newContactRouter(contact services.ContactService) chi.Router {
	r := chi.NewRouter()
	NewContactHandlers(contact).Routes(r)
	return r
}

func TestContactHandlersAcceptsSubmission(t *testing.T) {
	contact := &stubContactService{}
	payload := `{"name":"Dara","email":"dara@example.com","message":"We need a bilingual campaign site for Q1.","locale":"km"}`

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	newContactRouter(contact).ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(contact.submissions) != 1 {
		t.Fatalf("expected one submission, got %d", len(contact.submissions))
	}
	got := contact.submissions[0]
	if got.Email != "dara@example.com" || got.Locale != "km" {
		t.Fatalf("unexpected submission: %+v", got)
	}
}

func TestContactHandlersMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", services.ErrContactInvalidInput, http.StatusBadRequest},
		{"relay failed", services.ErrContactRelayFailed, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			contact := &stubContactService{err: tc.err}
			payload := `{"name":"Dara","email":"dara@example.com","message":"A message long enough to pass."}`

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
			rr := httptest.NewRecorder()
			newContactRouter(contact).ServeHTTP(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rr.Code)
			}
		})
	}
}

func TestContactHandlersRejectsEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rr := httptest.NewRecorder()
	newContactRouter(&stubContactService{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}
