package documents

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/content-lab/pkg/query"
)

// Filters contains optional criteria for filtering document queries.
type Filters struct {
	ArticleID   *uuid.UUID
	Name        *string
	ContentType *string
}

// FiltersFromQuery extracts document filters from URL query parameters.
// A malformed article_id is reported as an error rather than ignored.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if a := values.Get("article_id"); a != "" {
		id, err := uuid.Parse(a)
		if err != nil {
			return f, err
		}
		f.ArticleID = &id
	}

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	return f, nil
}

// Apply adds filter conditions to the query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.ArticleID != nil {
		b.WhereEquals("ArticleId", *f.ArticleID)
	}
	return b.
		WhereContains("Name", f.Name).
		WhereContains("ContentType", f.ContentType)
}
