package documents

import (
	"errors"
	"net/http"
)

// Domain errors for document operations.
var (
	ErrNotFound        = errors.New("document not found")
	ErrDuplicate       = errors.New("document storage key already exists")
	ErrFileTooLarge    = errors.New("file exceeds maximum upload size")
	ErrUnsupportedType = errors.New("file type not accepted")
	ErrInvalidFile     = errors.New("invalid file")
	ErrReservedName    = errors.New("document name uses the reserved prefix \"" + GeneratedPrefix + "\"")
	ErrNameRequired    = errors.New("document name required")
	ErrArticleNotFound = errors.New("article not found")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrInvalidFile),
		errors.Is(err, ErrReservedName),
		errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrArticleNotFound):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ErrorKey returns the stable alert key for err.
func ErrorKey(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "notfound"
	case errors.Is(err, ErrFileTooLarge):
		return "filetoolarge"
	case errors.Is(err, ErrUnsupportedType):
		return "unsupportedtype"
	case errors.Is(err, ErrInvalidFile):
		return "invalidfile"
	case errors.Is(err, ErrReservedName):
		return "reservedname"
	case errors.Is(err, ErrNameRequired):
		return "namerequired"
	case errors.Is(err, ErrArticleNotFound):
		return "articlenotfound"
	}
	return "internal"
}
