package outbox

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound    = errors.New("sync event not found")
	ErrDuplicate   = errors.New("sync event already exists")
	ErrNoProcessor = errors.New("no processor registered for aggregate")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
