// Package tasks owns review tasks. A task belongs to one article; closing it
// publishes that article.
package tasks

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/content-lab/internal/articles"
)

// Aggregate and Collection name tasks in the outbox and the search index.
const (
	Aggregate  = "task"
	Collection = "tasks"
)

// Status is the state of a review task.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusClosed     Status = "CLOSED"
)

var Statuses = []Status{StatusOpen, StatusInProgress, StatusClosed}

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// Task is a review work item for an article.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	ArticleID   uuid.UUID `json:"article_id"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SaveCommand is the client representation of a task write.
type SaveCommand struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status,omitempty"`
	ArticleID   uuid.UUID  `json:"article_id"`
	CreatedBy   string     `json:"created_by,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// SyncReport describes the secondary effects applied after a task save.
// Publication is set when the save closed the task and published its article.
type SyncReport struct {
	Indexed      bool                 `json:"indexed"`
	IndexError   string               `json:"index_error,omitempty"`
	Publication  *articles.SaveResult `json:"publication,omitempty"`
	PublishError string               `json:"publish_error,omitempty"`
	Pending      bool                 `json:"pending"`
}

// SaveResult is the saved task together with the outcome of its sync step.
type SaveResult struct {
	Task
	Sync SyncReport `json:"sync"`
}
