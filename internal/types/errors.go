package types

import (
	"errors"
	"net/http"
)

// Error kinds surfaced by handlers. Policy violations are always Forbidden
// and are checked before any write, so a rejected request never partially
// applies a mutation.
var (
	ErrDuplicateEmail        = errors.New("email already exists")
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidAssignment     = errors.New("assignee is not a project member")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
)

func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidAssignment),
		errors.Is(err, ErrInvalidOrExpiredToken):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
