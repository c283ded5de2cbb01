package tasks

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/content-lab/pkg/query"
)

// Filters contains optional criteria for filtering task queries.
type Filters struct {
	Status    *Status
	ArticleID *uuid.UUID
	CreatedBy *string
}

// FiltersFromQuery extracts task filters from URL query parameters.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if s := values.Get("status"); s != "" {
		status := Status(s)
		if !status.Valid() {
			return f, fmt.Errorf("%w: unknown status %q", ErrInvalid, s)
		}
		f.Status = &status
	}

	if a := values.Get("article_id"); a != "" {
		id, err := uuid.Parse(a)
		if err != nil {
			return f, fmt.Errorf("%w: article_id: %v", ErrInvalid, err)
		}
		f.ArticleID = &id
	}

	if c := values.Get("created_by"); c != "" {
		f.CreatedBy = &c
	}

	return f, nil
}

// Apply adds filter conditions to the query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.Status != nil {
		b.WhereEquals("Status", string(*f.Status))
	}
	if f.ArticleID != nil {
		b.WhereEquals("ArticleId", *f.ArticleID)
	}
	return b.WhereContains("CreatedBy", f.CreatedBy)
}
