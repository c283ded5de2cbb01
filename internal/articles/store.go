package articles

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

// Store persists articles. Writes record their outbox event in the same transaction.
type Store interface {
	// Save inserts or updates a by id and enqueues a sync event.
	Save(ctx context.Context, a Article) (*Article, *outbox.Event, error)
	Find(ctx context.Context, id uuid.UUID) (*Article, error)
	FindMany(ctx context.Context, ids []uuid.UUID) ([]Article, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Article], error)
	Count(ctx context.Context, filters Filters) (int, error)
	// Delete removes the row and enqueues a remove event. A missing row yields a nil event.
	Delete(ctx context.Context, id uuid.UUID) (*outbox.Event, error)
}

type store struct {
	db         *sql.DB
	events     outbox.System
	pagination pagination.Config
}

// NewStore creates the Postgres article store.
func NewStore(db *sql.DB, events outbox.System, pagination pagination.Config) Store {
	return &store{
		db:         db,
		events:     events,
		pagination: pagination,
	}
}

type saved struct {
	article Article
	event   *outbox.Event
}

func (s *store) Save(ctx context.Context, a Article) (*Article, *outbox.Event, error) {
	q := `INSERT INTO articles(id, title, content, status, type, created_by, created_at, last_modified_by, last_modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			status = EXCLUDED.status,
			type = EXCLUDED.type,
			created_by = EXCLUDED.created_by,
			created_at = EXCLUDED.created_at,
			last_modified_by = EXCLUDED.last_modified_by,
			last_modified_at = EXCLUDED.last_modified_at
		` + returning

	out, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (saved, error) {
		row, err := repository.QueryOne(ctx, tx, q, []any{
			a.ID, a.Title, a.Content, a.Status, a.Type,
			a.CreatedBy, a.CreatedAt, a.LastModifiedBy, a.LastModifiedAt,
		}, scanArticle)
		if err != nil {
			return saved{}, err
		}

		ev, err := s.events.Enqueue(ctx, tx, Aggregate, row.ID, outbox.KindSync)
		if err != nil {
			return saved{}, err
		}
		return saved{article: row, event: ev}, nil
	})
	if err != nil {
		return nil, nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &out.article, out.event, nil
}

func (s *store) Find(ctx context.Context, id uuid.UUID) (*Article, error) {
	q, args := query.
		NewBuilder(projection).
		BuildSingle("Id", id)

	a, err := repository.QueryOne(ctx, s.db, q, args, scanArticle)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (s *store) FindMany(ctx context.Context, ids []uuid.UUID) ([]Article, error) {
	if len(ids) == 0 {
		return []Article{}, nil
	}

	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	q, args := query.
		NewBuilder(projection).
		WhereIn("Id", values).
		BuildAll()

	arts, err := repository.QueryMany(ctx, s.db, q, args, scanArticle)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	return arts, nil
}

func (s *store) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Article], error) {
	page.Normalize(s.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	arts, err := repository.QueryMany(ctx, s.db, pageSQL, pageArgs, scanArticle)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}

	result := pagination.NewPageResult(arts, total, page.Page, page.PageSize)
	return &result, nil
}

func (s *store) Count(ctx context.Context, filters Filters) (int, error) {
	qb := query.NewBuilder(projection)
	filters.Apply(qb)

	q, args := qb.BuildCount()
	var total int
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return total, nil
}

func (s *store) Delete(ctx context.Context, id uuid.UUID) (*outbox.Event, error) {
	ev, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (*outbox.Event, error) {
		res, err := tx.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
		if err != nil {
			return nil, err
		}
		if n, err := res.RowsAffected(); err != nil || n == 0 {
			return nil, err
		}
		return s.events.Enqueue(ctx, tx, Aggregate, id, outbox.KindRemove)
	})
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, ErrHasTasks
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return ev, nil
}
