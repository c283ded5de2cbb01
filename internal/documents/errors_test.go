package documents_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/JaimeStill/content-lab/internal/documents"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKey    string
	}{
		{"not found", documents.ErrNotFound, http.StatusNotFound, "notfound"},
		{"wrapped not found", fmt.Errorf("failed: %w", documents.ErrNotFound), http.StatusNotFound, "notfound"},
		{"duplicate", documents.ErrDuplicate, http.StatusConflict, "internal"},
		{"file too large", documents.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "filetoolarge"},
		{"invalid file", documents.ErrInvalidFile, http.StatusBadRequest, "invalidfile"},
		{"reserved name", documents.ErrReservedName, http.StatusBadRequest, "reservedname"},
		{"name required", documents.ErrNameRequired, http.StatusBadRequest, "namerequired"},
		{"article not found", fmt.Errorf("create: %w", documents.ErrArticleNotFound), http.StatusBadRequest, "articlenotfound"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := documents.MapHTTPStatus(tt.err); got != tt.wantStatus {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.wantStatus)
			}
			if got := documents.ErrorKey(tt.err); got != tt.wantKey {
				t.Errorf("ErrorKey() = %q, want %q", got, tt.wantKey)
			}
		})
	}
}
