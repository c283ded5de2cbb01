package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JaimeStill/content-lab/pkg/auth"
	"github.com/JaimeStill/content-lab/pkg/lifecycle"
	"github.com/JaimeStill/content-lab/pkg/pagination"
	"github.com/JaimeStill/content-lab/pkg/query"
	"github.com/JaimeStill/content-lab/pkg/repository"
)

const maxErrorLength = 2000

type repo struct {
	db         *sql.DB
	cfg        *Config
	logger     *slog.Logger
	pagination pagination.Config

	mu         sync.RWMutex
	processors map[string]Processor
}

// New creates the outbox store and relay.
func New(db *sql.DB, cfg *Config, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		cfg:        cfg,
		logger:     logger.With("system", "outbox"),
		pagination: pagination,
		processors: make(map[string]Processor),
	}
}

func (r *repo) Register(aggregate string, p Processor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processors[aggregate] = p
}

func (r *repo) Enqueue(ctx context.Context, tx *sql.Tx, aggregate string, id uuid.UUID, kind Kind) (*Event, error) {
	q := `INSERT INTO outbox_events(id, aggregate, aggregate_id, kind, next_attempt_at)
		VALUES ($1, $2, $3, $4, NOW() + make_interval(secs => $5))
		RETURNING ` + columns

	ev, err := repository.QueryOne(ctx, tx, q, []any{
		uuid.New(), aggregate, id, kind, r.cfg.LeaseDuration().Seconds(),
	}, scanEvent)
	if err != nil {
		return nil, fmt.Errorf("enqueue %s %s: %w", aggregate, kind, repository.MapError(err, ErrNotFound, ErrDuplicate))
	}
	return &ev, nil
}

func (r *repo) Resolve(ctx context.Context, ev *Event, cause error) error {
	if ev == nil {
		return nil
	}
	if cause == nil {
		return r.complete(ctx, ev.ID)
	}
	return r.fail(ctx, ev, cause)
}

func (r *repo) complete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM outbox_events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("complete event: %w", err)
	}
	return nil
}

func (r *repo) fail(ctx context.Context, ev *Event, cause error) error {
	attempts := ev.Attempts + 1
	dead := attempts >= r.cfg.MaxAttempts
	delay := r.cfg.Backoff(attempts)

	msg := truncate(cause.Error(), maxErrorLength)

	q := `UPDATE outbox_events
		SET attempts = $2, last_error = $3, dead = $4, next_attempt_at = NOW() + make_interval(secs => $5)
		WHERE id = $1`

	if err := repository.ExecExpectOne(ctx, r.db, q, ev.ID, attempts, msg, dead, delay.Seconds()); err != nil {
		return fmt.Errorf("record event failure: %w", repository.MapError(err, ErrNotFound, ErrDuplicate))
	}

	if dead {
		r.logger.Error("sync event dead",
			"id", ev.ID, "aggregate", ev.Aggregate, "aggregate_id", ev.AggregateID,
			"kind", ev.Kind, "attempts", attempts, "error", msg)
	} else {
		r.logger.Warn("sync event failed",
			"id", ev.ID, "aggregate", ev.Aggregate, "aggregate_id", ev.AggregateID,
			"kind", ev.Kind, "attempts", attempts, "retry_in", delay, "error", msg)
	}
	return nil
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Event], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	events, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEvent)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}

	result := pagination.NewPageResult(events, total, page.Page, page.PageSize)
	return &result, nil
}

// claim leases up to limit due events. Rows locked by a concurrent claimer are skipped.
func (r *repo) claim(ctx context.Context, limit int) ([]Event, error) {
	q := `UPDATE outbox_events
		SET next_attempt_at = NOW() + make_interval(secs => $2)
		WHERE id IN (
			SELECT id FROM outbox_events
			WHERE NOT dead AND next_attempt_at <= NOW()
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + columns

	return repository.QueryMany(ctx, r.db, q, []any{limit, r.cfg.LeaseDuration().Seconds()}, scanEvent)
}

func (r *repo) Drain(ctx context.Context) (int, error) {
	events, err := r.claim(ctx, r.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("claim events: %w", err)
	}

	ctx = auth.SystemContext(ctx)
	var errs []error
	for i := range events {
		ev := &events[i]
		cause := r.process(ctx, *ev)
		if err := r.Resolve(ctx, ev, cause); err != nil {
			errs = append(errs, err)
		}
	}

	if len(events) > 0 {
		r.logger.Debug("drained sync events", "count", len(events))
	}
	return len(events), errors.Join(errs...)
}

func (r *repo) process(ctx context.Context, ev Event) error {
	r.mu.RLock()
	p, ok := r.processors[ev.Aggregate]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNoProcessor, ev.Aggregate)
	}
	return p.Process(ctx, ev)
}

func (r *repo) Start(lc *lifecycle.Coordinator) error {
	r.logger.Info("starting outbox relay", "poll_interval", r.cfg.PollInterval)

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.run(lc.Context())
	}()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-done
		r.logger.Info("outbox relay stopped")
	})

	return nil
}

func (r *repo) run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.PollIntervalDuration())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for {
				n, err := r.Drain(ctx)
				if err != nil && ctx.Err() == nil {
					r.logger.Error("outbox drain failed", "error", err)
				}
				if n < r.cfg.BatchSize || ctx.Err() != nil {
					break
				}
			}
		}
	}
}

// truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
