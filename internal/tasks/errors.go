package tasks

import (
	"errors"
	"net/http"
)

// Domain errors for task operations.
var (
	ErrNotFound        = errors.New("task not found")
	ErrDuplicate       = errors.New("task already exists")
	ErrIDExists        = errors.New("a new task cannot already have an id")
	ErrInvalid         = errors.New("invalid task")
	ErrArticleNotFound = errors.New("task article not found")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrIDExists), errors.Is(err, ErrInvalid), errors.Is(err, ErrArticleNotFound):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// ErrorKey returns the stable alert key for err.
func ErrorKey(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "notfound"
	case errors.Is(err, ErrIDExists):
		return "idexists"
	case errors.Is(err, ErrInvalid):
		return "invalid"
	case errors.Is(err, ErrArticleNotFound):
		return "articlenotfound"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	}
	return "internal"
}
