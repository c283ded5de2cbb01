package outbox

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/content-lab/pkg/query"
	"github.com/JaimeStill/content-lab/pkg/repository"
)

var projection = query.NewProjectionMap("public", "outbox_events", "e").
	Project("id", "Id").
	Project("aggregate", "Aggregate").
	Project("aggregate_id", "AggregateId").
	Project("kind", "Kind").
	Project("attempts", "Attempts").
	Project("last_error", "LastError").
	Project("dead", "Dead").
	Project("next_attempt_at", "NextAttemptAt").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "CreatedAt"}

const columns = `id, aggregate, aggregate_id, kind, attempts, last_error, dead, next_attempt_at, created_at`

func scanEvent(s repository.Scanner) (Event, error) {
	var e Event
	err := s.Scan(
		&e.ID,
		&e.Aggregate,
		&e.AggregateID,
		&e.Kind,
		&e.Attempts,
		&e.LastError,
		&e.Dead,
		&e.NextAttemptAt,
		&e.CreatedAt,
	)
	return e, err
}

// Filters narrows the event listing.
type Filters struct {
	Aggregate *string
	Dead      *bool
}

// FiltersFromQuery extracts event filters from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if a := values.Get("aggregate"); a != "" {
		f.Aggregate = &a
	}

	if d := values.Get("dead"); d != "" {
		if dead, err := strconv.ParseBool(d); err == nil {
			f.Dead = &dead
		}
	}

	return f
}

// Apply adds filter conditions to the query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.Aggregate != nil {
		b.WhereEquals("Aggregate", *f.Aggregate)
	}
	if f.Dead != nil {
		b.WhereEquals("Dead", *f.Dead)
	}
	return b
}
