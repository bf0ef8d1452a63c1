package observability

import (
	"strings"
	"unicode"
)

const defaultStringLimit = 256

// sanitizeString strips control characters and caps the length so request
// data cannot split or flood a log line.
func sanitizeString(value string, limit int) string {
	if limit <= 0 {
		limit = defaultStringLimit
	}

	var b strings.Builder
	b.Grow(len(value))
	kept := 0
	for _, r := range value {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			continue
		}
		if kept == limit {
			break
		}
		b.WriteRune(r)
		kept++
	}
	return b.String()
}

// SanitizeRoute cleans a chi route pattern or raw path before logging it.
func SanitizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	return sanitizeString(route, 180)
}

// SanitizeMethod cleans an HTTP method before logging it.
func SanitizeMethod(method string) string {
	return sanitizeString(method, 10)
}

// SanitizeEditor caps the editor subject taken from the session token. PIN
// login keeps subjects short; anything longer is forgery noise.
func SanitizeEditor(subject string) string {
	if subject == "" {
		return ""
	}
	return sanitizeString(subject, 64)
}

// RedactSecret keeps only a short suffix of a credential so operators can
// tell configured values apart without the log holding the secret.
func RedactSecret(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}
