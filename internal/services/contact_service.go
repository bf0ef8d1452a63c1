package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "github.com/mekong-creative/api/internal/domain"
)

var (
	// ErrContactInvalidInput indicates validation failures for contact submissions.
	ErrContactInvalidInput = errors.New("contact: invalid input")
	// ErrContactRelayFailed indicates the side channel rejected the message.
	// The submission is not stored; the sender retries by submitting again.
	ErrContactRelayFailed = errors.New("contact: relay failed")
)

// MessageRelay forwards a formatted contact message to the side channel.
type MessageRelay interface {
	Send(ctx context.Context, text string) error
}

// contactPayload revalidates submissions with struct tags; the domain type
// itself stays tag-free.
type contactPayload struct {
	Name    string `validate:"required,max=200"`
	Email   string `validate:"required,email"`
	Phone   string `validate:"omitempty,max=40"`
	Subject string `validate:"max=300"`
	Message string `validate:"required,min=10,max=4000"`
	Locale  string `validate:"omitempty,bcp47_language_tag"`
}

// ContactServiceDeps bundles collaborators required to construct a ContactService.
type ContactServiceDeps struct {
	Relay     MessageRelay
	Logger    *zap.Logger
	Clock     func() time.Time
	Validator *validator.Validate
}

type contactService struct {
	relay    MessageRelay
	logger   *zap.Logger
	clock    func() time.Time
	validate *validator.Validate
}

var _ ContactService = (*contactService)(nil)

// NewContactService wires dependencies into a concrete ContactService implementation.
func NewContactService(deps ContactServiceDeps) (ContactService, error) {
	if deps.Relay == nil {
		return nil, errors.New("contact service: message relay is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	validate := deps.Validator
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}

	return &contactService{
		relay:  deps.Relay,
		logger: logger,
		clock: func() time.Time {
			return clock().UTC()
		},
		validate: validate,
	}, nil
}

// Submit validates the submission and relays it once. A relay failure is
// surfaced to the caller so the sender can resubmit; nothing retries on its
// own and nothing is stored locally.
func (s *contactService) Submit(ctx context.Context, submission domain.ContactSubmission) error {
	if ctx == nil {
		return errors.New("contact service: context is required")
	}

	payload := contactPayload{
		Name:    strings.TrimSpace(submission.Name),
		Email:   strings.TrimSpace(submission.Email),
		Phone:   strings.TrimSpace(submission.Phone),
		Subject: strings.TrimSpace(submission.Subject),
		Message: strings.TrimSpace(submission.Message),
		Locale:  strings.TrimSpace(submission.Locale),
	}
	if err := s.validate.Struct(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrContactInvalidInput, err)
	}

	text := formatContactMessage(payload, s.clock())

	if err := s.relay.Send(ctx, text); err != nil {
		s.logger.Warn("contact relay failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrContactRelayFailed, err)
	}
	return nil
}

func formatContactMessage(payload contactPayload, now time.Time) string {
	var b strings.Builder
	b.WriteString("New enquiry\n")
	b.WriteString("Name: " + payload.Name + "\n")
	b.WriteString("Email: " + payload.Email + "\n")
	if payload.Phone != "" {
		b.WriteString("Phone: " + payload.Phone + "\n")
	}
	if payload.Subject != "" {
		b.WriteString("Subject: " + payload.Subject + "\n")
	}
	if payload.Locale != "" {
		b.WriteString("Locale: " + payload.Locale + "\n")
	}
	b.WriteString("Received: " + now.Format(time.RFC3339) + "\n\n")
	b.WriteString(payload.Message)
	return b.String()
}
