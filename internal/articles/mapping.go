package articles

import (
	"github.com/JaimeStill/content-lab/pkg/query"
	"github.com/JaimeStill/content-lab/pkg/repository"
)

var projection = query.NewProjectionMap("public", "articles", "a").
	Project("id", "Id").
	Project("title", "Title").
	Project("content", "Content").
	Project("status", "Status").
	Project("type", "Type").
	Project("created_by", "CreatedBy").
	Project("created_at", "CreatedAt").
	Project("last_modified_by", "LastModifiedBy").
	Project("last_modified_at", "LastModifiedAt")

var defaultSort = query.SortField{Field: "LastModifiedAt", Descending: true}

const returning = `RETURNING id, title, content, status, type, created_by, created_at, last_modified_by, last_modified_at`

func scanArticle(s repository.Scanner) (Article, error) {
	var a Article
	err := s.Scan(
		&a.ID,
		&a.Title,
		&a.Content,
		&a.Status,
		&a.Type,
		&a.CreatedBy,
		&a.CreatedAt,
		&a.LastModifiedBy,
		&a.LastModifiedAt,
	)
	return a, err
}
