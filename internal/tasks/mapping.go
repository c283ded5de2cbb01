package tasks

import (
	"github.com/JaimeStill/content-lab/pkg/query"
	"github.com/JaimeStill/content-lab/pkg/repository"
)

var projection = query.NewProjectionMap("public", "tasks", "t").
	Project("id", "Id").
	Project("title", "Title").
	Project("description", "Description").
	Project("status", "Status").
	Project("article_id", "ArticleId").
	Project("created_by", "CreatedBy").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

const returning = `RETURNING id, title, description, status, article_id, created_by, created_at, updated_at`

func scanTask(s repository.Scanner) (Task, error) {
	var t Task
	err := s.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.ArticleID,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}
