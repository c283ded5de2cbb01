// Package documents manages RelatedDocuments: binary attachments linked to an
// article. Bytes live in blob storage; metadata lives in Postgres. Documents whose
// name starts with GeneratedPrefix are owned by the publication pipeline.
package documents

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GeneratedPrefix marks documents produced by the publication pipeline.
const GeneratedPrefix = "AutoGenerated PDF:"

// ContentTypePDF is the MIME type of generated documents.
const ContentTypePDF = "application/pdf"

// Document represents a stored attachment with metadata.
type Document struct {
	ID          uuid.UUID `json:"id"`
	ArticleID   uuid.UUID `json:"article_id"`
	Name        string    `json:"name"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count,omitempty"`
	StorageKey  string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Generated reports whether d was produced by the publication pipeline.
func (d Document) Generated() bool {
	return IsGeneratedName(d.Name)
}

// IsGeneratedName reports whether name carries the reserved prefix.
func IsGeneratedName(name string) bool {
	return strings.HasPrefix(name, GeneratedPrefix)
}

// GeneratedName returns the reserved document name for an article title.
func GeneratedName(title string) string {
	return GeneratedPrefix + title
}

// CreateCommand contains the data required to create a document.
// Data holds the raw file bytes to be stored.
type CreateCommand struct {
	ArticleID   uuid.UUID
	Name        string
	Filename    string
	ContentType string
	PageCount   *int
	Data        []byte
}

// UpdateCommand renames a document. The stored bytes are immutable.
type UpdateCommand struct {
	Name string `json:"name"`
}
