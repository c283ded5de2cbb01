package articles

import (
	"errors"
	"net/http"
)

// Domain errors for article operations.
var (
	ErrNotFound          = errors.New("article not found")
	ErrDuplicate         = errors.New("article already exists")
	ErrIDExists          = errors.New("a new article cannot already have an id")
	ErrInvalid           = errors.New("invalid article")
	ErrInvalidTransition = errors.New("articles are published by closing their review task")
	ErrHasTasks          = errors.New("article still has tasks")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrIDExists), errors.Is(err, ErrInvalid), errors.Is(err, ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrHasTasks):
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
	case errors.Is(err, ErrInvalidTransition):
		return "invalidtransition"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	case errors.Is(err, ErrHasTasks):
		return "hastasks"
	}
	return "internal"
}
