package outbox

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/JaimeStill/content-lab/pkg/lifecycle"
	"github.com/JaimeStill/content-lab/pkg/pagination"
)

// Processor applies the effect of an event. Implementations must be idempotent
// and converge on the current state of the aggregate row, since events can be
// retried and can arrive out of order.
type Processor interface {
	Process(ctx context.Context, ev Event) error
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, ev Event) error

func (f ProcessorFunc) Process(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Tracker settles events that were processed inline by their owner.
type Tracker interface {
	// Resolve deletes ev when cause is nil; otherwise it records the failure and
	// schedules a retry.
	Resolve(ctx context.Context, ev *Event, cause error) error
}

// System is the outbox store plus the relay that retries pending events.
type System interface {
	Tracker

	// Enqueue records an event inside tx. The event is leased so the relay leaves
	// it alone while the caller processes it inline after commit.
	Enqueue(ctx context.Context, tx *sql.Tx, aggregate string, id uuid.UUID, kind Kind) (*Event, error)

	Register(aggregate string, p Processor)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Event], error)

	// Drain claims one batch of due events and processes it.
	Drain(ctx context.Context) (int, error)

	// Start launches the polling relay bound to the coordinator lifecycle.
	Start(lc *lifecycle.Coordinator) error
}
