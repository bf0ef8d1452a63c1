package restdb

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotConfigured indicates the client has no endpoint or key yet. Read
// paths treat this the same as an unreachable store and fall back to bundled
// content.
var ErrNotConfigured = errors.New("restdb: store endpoint is not configured")

// Error categorises a failed store request. It satisfies the repository
// error surface used by the services layer.
type Error struct {
	Table  string
	Status int
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("restdb: table %s: status %d: %v", e.Table, e.Status, e.Err)
	}
	return fmt.Sprintf("restdb: table %s: %v", e.Table, e.Err)
}

// Unwrap exposes the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether the store had no matching row.
func (e *Error) IsNotFound() bool {
	return e.Status == http.StatusNotFound || e.Status == http.StatusNotAcceptable
}

// IsConflict reports whether the write violated a uniqueness constraint.
func (e *Error) IsConflict() bool {
	return e.Status == http.StatusConflict
}

// IsUnavailable reports whether the store could not be reached or refused the
// credentials; callers degrade to bundled content on reads.
func (e *Error) IsUnavailable() bool {
	if e.Status == 0 {
		return true
	}
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return e.Status >= http.StatusInternalServerError
}
