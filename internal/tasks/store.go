package tasks

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/content-lab/internal/outbox"
	"github.com/JaimeStill/content-lab/pkg/pagination"
	"github.com/JaimeStill/content-lab/pkg/query"
	"github.com/JaimeStill/content-lab/pkg/repository"
)

// Store persists tasks. Writes record their outbox event in the same transaction.
type Store interface {
	Save(ctx context.Context, t Task) (*Task, *outbox.Event, error)
	Find(ctx context.Context, id uuid.UUID) (*Task, error)
	FindMany(ctx context.Context, ids []uuid.UUID) ([]Task, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Task], error)
	// Delete removes the row and enqueues a remove event. A missing row yields a nil event.
	Delete(ctx context.Context, id uuid.UUID) (*outbox.Event, error)
}

type store struct {
	db         *sql.DB
	events     outbox.System
	pagination pagination.Config
}

// NewStore creates the Postgres task store.
func NewStore(db *sql.DB, events outbox.System, pagination pagination.Config) Store {
	return &store{
		db:         db,
		events:     events,
		pagination: pagination,
	}
}

type saved struct {
	task  Task
	event *outbox.Event
}

func (s *store) Save(ctx context.Context, t Task) (*Task, *outbox.Event, error) {
	q := `INSERT INTO tasks(id, title, description, status, article_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			article_id = EXCLUDED.article_id,
			created_by = EXCLUDED.created_by,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
		` + returning

	out, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (saved, error) {
		row, err := repository.QueryOne(ctx, tx, q, []any{
			t.ID, t.Title, t.Description, t.Status, t.ArticleID,
			t.CreatedBy, t.CreatedAt, t.UpdatedAt,
		}, scanTask)
		if err != nil {
			return saved{}, err
		}

		ev, err := s.events.Enqueue(ctx, tx, Aggregate, row.ID, outbox.KindSync)
		if err != nil {
			return saved{}, err
		}
		return saved{task: row, event: ev}, nil
	})
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, nil, ErrArticleNotFound
		}
		return nil, nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &out.task, out.event, nil
}

func (s *store) Find(ctx context.Context, id uuid.UUID) (*Task, error) {
	q, args := query.
		NewBuilder(projection).
		BuildSingle("Id", id)

	t, err := repository.QueryOne(ctx, s.db, q, args, scanTask)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}

func (s *store) FindMany(ctx context.Context, ids []uuid.UUID) ([]Task, error) {
	if len(ids) == 0 {
		return []Task{}, nil
	}

	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	q, args := query.
		NewBuilder(projection).
		WhereIn("Id", values).
		BuildAll()

	tasks, err := repository.QueryMany(ctx, s.db, q, args, scanTask)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	return tasks, nil
}

func (s *store) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Task], error) {
	page.Normalize(s.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	tasks, err := repository.QueryMany(ctx, s.db, pageSQL, pageArgs, scanTask)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	result := pagination.NewPageResult(tasks, total, page.Page, page.PageSize)
	return &result, nil
}

func (s *store) Delete(ctx context.Context, id uuid.UUID) (*outbox.Event, error) {
	ev, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (*outbox.Event, error) {
		res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
		if err != nil {
			return nil, err
		}
		if n, err := res.RowsAffected(); err != nil || n == 0 {
			return nil, err
		}
		return s.events.Enqueue(ctx, tx, Aggregate, id, outbox.KindRemove)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return ev, nil
}
