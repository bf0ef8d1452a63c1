package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "github.com/mekong-creative/api/internal/domain"
)

type stubRelay struct {
	failures int
	calls    int
	sent     []string
}

func (r *stubRelay) Send(ctx context.Context, text string) error {
	r.calls++
	if r.calls <= r.failures {
		return errors.New("relay unavailable")
	}
	r.sent = append(r.sent, text)
	return nil
}

func newContactFixture(t *testing.T, relay *stubRelay) ContactService {
	t.Helper()
	svc, err := NewContactService(ContactServiceDeps{
		Relay: relay,
		Clock: func() time.Time {
			return time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
		},
	})
	if err != nil {
		t.Fatalf("NewContactService returned error: %v", err)
	}
	return svc
}

func validSubmission() domain.ContactSubmission {
	return domain.ContactSubmission{
		Name:    "Chenda Meas",
		Email:   "chenda@example.com",
		Subject: "New brand",
		Message: "We are launching a wellness brand and need an identity.",
		Locale:  "km",
	}
}

func TestContactSubmitRelaysFormattedMessage(t *testing.T) {
	relay := &stubRelay{}
	svc := newContactFixture(t, relay)

	if err := svc.Submit(context.Background(), validSubmission()); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if len(relay.sent) != 1 {
		t.Fatalf("expected one relayed message, got %d", len(relay.sent))
	}
	text := relay.sent[0]
	for _, want := range []string{"Chenda Meas", "chenda@example.com", "New brand", "wellness brand"} {
		if !strings.Contains(text, want) {
			t.Fatalf("relayed message missing %q: %q", want, text)
		}
	}
}

func TestContactSubmitSurfacesRelayFailureWithoutRetrying(t *testing.T) {
	relay := &stubRelay{failures: 1}
	svc := newContactFixture(t, relay)

	err := svc.Submit(context.Background(), validSubmission())
	if !errors.Is(err, ErrContactRelayFailed) {
		t.Fatalf("expected ErrContactRelayFailed, got %v", err)
	}
	if relay.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", relay.calls)
	}
}

func TestContactSubmitValidatesInput(t *testing.T) {
	relay := &stubRelay{}
	svc := newContactFixture(t, relay)

	cases := map[string]domain.ContactSubmission{
		"missing name":  {Email: "a@example.com", Message: "long enough message here"},
		"bad email":     {Name: "A", Email: "not-an-email", Message: "long enough message here"},
		"short message": {Name: "A", Email: "a@example.com", Message: "hi"},
	}
	for name, submission := range cases {
		if err := svc.Submit(context.Background(), submission); !errors.Is(err, ErrContactInvalidInput) {
			t.Fatalf("%s: expected ErrContactInvalidInput, got %v", name, err)
		}
	}
	if relay.calls != 0 {
		t.Fatalf("expected no relay attempts for invalid input, got %d", relay.calls)
	}
}
