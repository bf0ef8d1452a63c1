package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const defaultSessionTTL = 12 * time.Hour

var (
	// ErrSessionSecretMissing indicates the issuer was built without a signing secret.
	ErrSessionSecretMissing = errors.New("auth: session secret is not configured")
	// ErrSessionInvalid indicates the presented token failed verification.
	ErrSessionInvalid = errors.New("auth: session token is invalid")
	// ErrSessionExpired indicates the presented token is past its expiry.
	ErrSessionExpired = errors.New("auth: session token has expired")
)

// SessionIssuer mints and verifies short-lived HS256 editor session tokens.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  func() time.Time
}

// SessionOption customises issuer construction.
type SessionOption func(*SessionIssuer)

// WithSessionTTL overrides the default session lifetime.
func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(s *SessionIssuer) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSessionClock injects a clock for tests.
func WithSessionClock(clock func() time.Time) SessionOption {
	return func(s *SessionIssuer) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewSessionIssuer constructs a SessionIssuer signing with the given secret.
func NewSessionIssuer(secret string, opts ...SessionOption) (*SessionIssuer, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrSessionSecretMissing
	}
	issuer := &SessionIssuer{
		secret: []byte(secret),
		ttl:    defaultSessionTTL,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(issuer)
	}
	return issuer, nil
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issue returns a signed token for the subject together with its expiry.
func (s *SessionIssuer) Issue(subject string) (string, time.Time, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", time.Time{}, fmt.Errorf("auth: session subject is required")
	}
	now := s.clock().UTC()
	expires := now.Add(s.ttl)
	claims := sessionClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign session token: %w", err)
	}
	return signed, expires, nil
}

// Verify parses the token and returns the embedded identity.
func (s *SessionIssuer) Verify(token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrSessionInvalid
	}

	// Claims validation is done by hand against the issuer's clock; the
	// library only consults the package-global time source.
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrSessionInvalid
	}
	now := s.clock().UTC()
	if claims.ExpiresAt == nil || !now.Before(claims.ExpiresAt.Time) {
		return nil, ErrSessionExpired
	}
	if claims.IssuedAt != nil && claims.IssuedAt.After(now) {
		return nil, ErrSessionInvalid
	}

	identity := &Identity{
		Subject: claims.Subject,
		Role:    claims.Role,
	}
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Unix()
	}
	if identity.Role == "" {
		identity.Role = RoleAdmin
	}
	return identity, nil
}
