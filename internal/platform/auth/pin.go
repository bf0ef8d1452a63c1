package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"strings"
)

// ErrPINMismatch is returned when the supplied PIN matches no configured entry.
var ErrPINMismatch = errors.New("auth: pin does not match any configured entry")

// PINVerifier checks a submitted PIN against the configured allow-list. The
// editor login is a small shared-PIN scheme, so comparison is constant time
// per entry and the list is hashed at construction.
type PINVerifier struct {
	entries []pinEntry
}

type pinEntry struct {
	subject string
	digest  [sha256.Size]byte
}

// NewPINVerifier builds a verifier from a subject→PIN map. Empty subjects and
// PINs are skipped.
func NewPINVerifier(pins map[string]string) *PINVerifier {
	v := &PINVerifier{}
	for subject, pin := range pins {
		subject = strings.TrimSpace(subject)
		pin = strings.TrimSpace(pin)
		if subject == "" || pin == "" {
			continue
		}
		v.entries = append(v.entries, pinEntry{
			subject: subject,
			digest:  sha256.Sum256([]byte(pin)),
		})
	}
	return v
}

// Configured reports whether at least one PIN entry is usable.
func (v *PINVerifier) Configured() bool {
	return v != nil && len(v.entries) > 0
}

// Verify returns the subject associated with the PIN, or ErrPINMismatch.
// Every entry is compared so timing does not reveal which entry matched.
func (v *PINVerifier) Verify(pin string) (string, error) {
	if !v.Configured() {
		return "", ErrPINMismatch
	}
	digest := sha256.Sum256([]byte(strings.TrimSpace(pin)))
	matched := ""
	for _, entry := range v.entries {
		if subtle.ConstantTimeCompare(entry.digest[:], digest[:]) == 1 && matched == "" {
			matched = entry.subject
		}
	}
	if matched == "" {
		return "", ErrPINMismatch
	}
	return matched, nil
}
