package documents

import (
	"github.com/JaimeStill/content-lab/pkg/query"
	"github.com/JaimeStill/content-lab/pkg/repository"
)

var projection = query.NewProjectionMap("public", "related_documents", "d").
	Project("id", "Id").
	Project("article_id", "ArticleId").
	Project("name", "Name").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

const returning = `RETURNING id, article_id, name, filename, content_type, size_bytes, page_count, storage_key, created_at, updated_at`

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.ArticleID,
		&d.Name,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}
