package textutil

import (
	"strings"
	"unicode"
)

// Slugify derives a URL-safe identifier from a human title. ASCII letters and
// digits are kept lowercased, runs of anything else collapse into single
// hyphens, and leading/trailing hyphens are trimmed. Non-Latin titles (Khmer
// content in particular) may produce an empty slug; callers fall back to the
// record id in that case.
func Slugify(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(title))
	pendingHyphen := false
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// SlugOrID returns the slug when present, otherwise falls back to the id.
func SlugOrID(slug, id string) string {
	slug = strings.TrimSpace(slug)
	if slug != "" {
		return slug
	}
	return strings.TrimSpace(id)
}

// StripIDPrefix removes a namespacing prefix from an internal identifier so it
// can appear bare in URLs. Identifiers without the prefix pass through.
func StripIDPrefix(id, prefix string) string {
	id = strings.TrimSpace(id)
	if prefix == "" {
		return id
	}
	return strings.TrimPrefix(id, prefix)
}

// AddIDPrefix restores a namespacing prefix on an identifier read from a URL.
// Already-prefixed identifiers pass through unchanged.
func AddIDPrefix(id, prefix string) string {
	id = strings.TrimSpace(id)
	if id == "" || prefix == "" || strings.HasPrefix(id, prefix) {
		return id
	}
	return prefix + id
}
