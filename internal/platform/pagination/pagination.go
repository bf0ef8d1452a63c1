// Package pagination provides opaque cursor paging over catalogue listings.
// Cursors name the slug of the last item already returned, so a page token
// stays valid across refreshes as long as that item survives.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is used when the client omits pageSize.
	DefaultPageSize = 20
	// DefaultMaxPageSize caps pageSize so a single request cannot demand the
	// whole catalogue plus headroom.
	DefaultMaxPageSize = 100
)

var (
	ErrInvalidPageSize  = errors.New("pagination: invalid pageSize")
	ErrInvalidPageToken = errors.New("pagination: invalid pageToken")
)

// Params carries the paging values extracted from a request.
type Params struct {
	PageSize  int
	PageToken string
	AfterSlug string
}

// Options control defaults and limits for a given listing.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
}

type cursor struct {
	After string `json:"after"`
}

// FromRequest parses pageSize and pageToken from the request query string.
func FromRequest(r *http.Request, opts Options) (Params, error) {
	if r == nil {
		return Params{}, errors.New("pagination: nil request")
	}

	maxSize := opts.MaxPageSize
	if maxSize <= 0 {
		maxSize = DefaultMaxPageSize
	}
	defaultSize := opts.DefaultPageSize
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if defaultSize > maxSize {
		defaultSize = maxSize
	}

	params := Params{PageSize: defaultSize}

	if raw := strings.TrimSpace(r.URL.Query().Get("pageSize")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return Params{}, fmt.Errorf("%w: must be an integer", ErrInvalidPageSize)
		}
		if size <= 0 {
			return Params{}, fmt.Errorf("%w: must be greater than zero", ErrInvalidPageSize)
		}
		if size > maxSize {
			size = maxSize
		}
		params.PageSize = size
	}

	if token := strings.TrimSpace(r.URL.Query().Get("pageToken")); token != "" {
		after, err := decodeToken(token)
		if err != nil {
			return Params{}, err
		}
		params.PageToken = token
		params.AfterSlug = after
	}

	return params, nil
}

// EncodeToken builds the opaque page token pointing just past the given slug.
// An empty slug yields an empty token, meaning there is no further page.
func EncodeToken(afterSlug string) string {
	if afterSlug == "" {
		return ""
	}
	data, err := json.Marshal(cursor{After: afterSlug})
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

func decodeToken(token string) (string, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPageToken, err)
	}
	var c cursor
	if err := json.Unmarshal(decoded, &c); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPageToken, err)
	}
	if strings.TrimSpace(c.After) == "" {
		return "", fmt.Errorf("%w: empty cursor", ErrInvalidPageToken)
	}
	return c.After, nil
}

// Page slices items according to params. slugOf must yield each item's stable
// identity in listing order. The returned token is empty on the last page. A
// cursor naming a slug no longer in the listing is rejected so the client can
// restart from the first page.
func Page[T any](items []T, params Params, slugOf func(T) string) ([]T, string, error) {
	size := params.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	start := 0
	if params.AfterSlug != "" {
		found := false
		for i, item := range items {
			if slugOf(item) == params.AfterSlug {
				start = i + 1
				found = true
				break
			}
		}
		if !found {
			return nil, "", fmt.Errorf("%w: cursor item no longer listed", ErrInvalidPageToken)
		}
	}

	if start >= len(items) {
		return []T{}, "", nil
	}

	end := start + size
	if end > len(items) {
		end = len(items)
	}

	page := make([]T, end-start)
	copy(page, items[start:end])

	next := ""
	if end < len(items) {
		next = EncodeToken(slugOf(items[end-1]))
	}
	return page, next, nil
}
