// Package articles owns the Article aggregate and its publication pipeline: every
// save persists the row, refreshes the plain-text search projection and regenerates
// the article's PDF attachment.
package articles

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/content-lab/internal/documents"
)

// Aggregate and Collection name articles in the outbox and the search index.
const (
	Aggregate  = "article"
	Collection = "articles"
)

// Status is the editorial state of an article.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusInReview  Status = "IN_REVIEW"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
)

// Statuses lists every known status.
var Statuses = []Status{StatusDraft, StatusInReview, StatusPublished, StatusArchived}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusInReview, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Type is the kind of content.
type Type string

const (
	TypeNews         Type = "NEWS"
	TypeGuide        Type = "GUIDE"
	TypeAnnouncement Type = "ANNOUNCEMENT"
	TypeOpinion      Type = "OPINION"
)

var Types = []Type{TypeNews, TypeGuide, TypeAnnouncement, TypeOpinion}

func (t Type) Valid() bool {
	switch t {
	case TypeNews, TypeGuide, TypeAnnouncement, TypeOpinion:
		return true
	}
	return false
}

// Article is a piece of HTML content with editorial state and audit fields.
type Article struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Status         Status    `json:"status"`
	Type           Type      `json:"type"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	LastModifiedBy string    `json:"last_modified_by"`
	LastModifiedAt time.Time `json:"last_modified_at"`
}

// SaveCommand is the client representation of an article write.
// ID distinguishes create (nil) from update.
type SaveCommand struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Status    Status     `json:"status,omitempty"`
	Type      Type       `json:"type"`
	CreatedBy string     `json:"created_by,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// SyncReport describes the secondary effects applied after a save.
// Pending is set when any retryable step failed and was left to the outbox relay.
type SyncReport struct {
	Indexed       bool       `json:"indexed"`
	IndexError    string     `json:"index_error,omitempty"`
	Document      *uuid.UUID `json:"document,omitempty"`
	DocumentError string     `json:"document_error,omitempty"`
	RenderError   string     `json:"render_error,omitempty"`
	Pending       bool       `json:"pending"`
}

// SaveResult is the saved article together with the outcome of its sync step.
type SaveResult struct {
	Article
	Sync SyncReport `json:"sync"`
}

// generatedDocument names the PDF attachment of a.
func generatedDocument(a *Article, data []byte) documents.CreateCommand {
	return documents.CreateCommand{
		ArticleID:   a.ID,
		Name:        documents.GeneratedName(a.Title),
		Filename:    a.ID.String() + ".pdf",
		ContentType: documents.ContentTypePDF,
		Data:        data,
	}
}
