package articles

import (
	"fmt"
	"net/url"

	"github.com/JaimeStill/content-lab/pkg/query"
)

// Filters contains optional criteria for filtering article queries.
// Status and Type match exactly; CreatedBy matches as a substring.
type Filters struct {
	Status    *Status
	Type      *Type
	CreatedBy *string
}

// FiltersFromQuery extracts article filters from URL query parameters.
// Unknown status or type values are rejected.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if s := values.Get("status"); s != "" {
		status := Status(s)
		if !status.Valid() {
			return f, fmt.Errorf("%w: unknown status %q", ErrInvalid, s)
		}
		f.Status = &status
	}

	if t := values.Get("type"); t != "" {
		typ := Type(t)
		if !typ.Valid() {
			return f, fmt.Errorf("%w: unknown type %q", ErrInvalid, t)
		}
		f.Type = &typ
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
	if f.Type != nil {
		b.WhereEquals("Type", string(*f.Type))
	}
	return b.WhereContains("CreatedBy", f.CreatedBy)
}
