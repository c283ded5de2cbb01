// Package outbox records pending secondary effects of entity writes in the same
// transaction as the write itself and retries them until they succeed. Each event
// names an aggregate ("article", "task") and one of its rows; the processor
// registered for the aggregate converges external state (search index, generated
// documents, publication) to the row's current state.
package outbox

import (
	"time"

	"github.com/google/uuid"
)

// Kind is the effect an event asks for.
type Kind string

const (
	KindSync   Kind = "sync"
	KindRemove Kind = "remove"
)

// Event is one pending effect.
type Event struct {
	ID            uuid.UUID `json:"id"`
	Aggregate     string    `json:"aggregate"`
	AggregateID   uuid.UUID `json:"aggregate_id"`
	Kind          Kind      `json:"kind"`
	Attempts      int       `json:"attempts"`
	LastError     *string   `json:"last_error,omitempty"`
	Dead          bool      `json:"dead"`
	NextAttemptAt time.Time `json:"next_attempt_at"`
	CreatedAt     time.Time `json:"created_at"`
}
