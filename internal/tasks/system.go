package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JaimeStill/content-lab/internal/articles"
	"github.com/JaimeStill/content-lab/internal/outbox"
	"github.com/JaimeStill/content-lab/pkg/auth"
	"github.com/JaimeStill/content-lab/pkg/pagination"
	"github.com/JaimeStill/content-lab/pkg/search"
)

const maxTitleLength = 255

// System defines the task operations.
type System interface {
	// Save creates or updates a task. Saving a CLOSED task publishes its article.
	Save(ctx context.Context, cmd SaveCommand) (*SaveResult, error)
	Find(ctx context.Context, id uuid.UUID) (*Task, error)

	// List returns tasks visible to the caller: only OPEN tasks unless the
	// principal holds auth.RoleAdmin.
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Task], error)
	ListByStatus(ctx context.Context, status Status, page pagination.PageRequest) (*pagination.PageResult[Task], error)

	Search(ctx context.Context, query string, page pagination.PageRequest) (*pagination.PageResult[Task], error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Process converges the secondary effects of a task on its current row.
	Process(ctx context.Context, ev outbox.Event) error
}

type service struct {
	store      Store
	tracker    outbox.Tracker
	index      search.Index
	articles   articles.System
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// Option configures the task system.
type Option func(*service)

// WithClock replaces the time source used for audit stamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// New creates the task system.
func New(
	store Store,
	tracker outbox.Tracker,
	index search.Index,
	publisher articles.System,
	logger *slog.Logger,
	pagination pagination.Config,
	opts ...Option,
) System {
	s := &service{
		store:      store,
		tracker:    tracker,
		index:      index,
		articles:   publisher,
		logger:     logger.With("system", "tasks"),
		pagination: pagination,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Save(ctx context.Context, cmd SaveCommand) (*SaveResult, error) {
	var existing *Task
	if cmd.ID != nil {
		t, err := s.store.Find(ctx, *cmd.ID)
		switch {
		case err == nil:
			existing = t
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
	}

	t, err := s.build(ctx, cmd, existing)
	if err != nil {
		return nil, err
	}

	if _, err := s.articles.Find(ctx, t.ArticleID); err != nil {
		if errors.Is(err, articles.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	saved, ev, err := s.store.Save(ctx, t)
	if err != nil {
		return nil, err
	}

	report, cause := s.sync(ctx, saved)
	s.settle(ctx, ev, cause)

	return &SaveResult{Task: *saved, Sync: report}, nil
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*Task, error) {
	return s.store.Find(ctx, id)
}

// List applies the default visibility: callers without the admin authority only
// ever see OPEN tasks. A narrower status filter is kept; asking for any other
// status yields an empty page.
func (s *service) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Task], error) {
	if !auth.FromContext(ctx).IsAdmin() {
		if filters.Status != nil && *filters.Status != StatusOpen {
			return pagination.EmptyPage[Task](page, s.pagination), nil
		}
		open := StatusOpen
		filters.Status = &open
	}
	return s.store.List(ctx, page, filters)
}

func (s *service) ListByStatus(ctx context.Context, status Status, page pagination.PageRequest) (*pagination.PageResult[Task], error) {
	return s.store.List(ctx, page, Filters{Status: &status})
}

func (s *service) Search(ctx context.Context, query string, page pagination.PageRequest) (*pagination.PageResult[Task], error) {
	page.Normalize(s.pagination)

	res, err := s.index.Search(ctx, Collection, query, page.Page, page.PageSize)
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}

	found, err := s.store.FindMany(ctx, res.IDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]Task, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}

	ranked := make([]Task, 0, len(res.IDs))
	for _, id := range res.IDs {
		if t, ok := byID[id]; ok {
			ranked = append(ranked, t)
		}
	}

	result := pagination.NewPageResult(ranked, res.Total, page.Page, page.PageSize)
	return &result, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	ev, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if ev == nil {
		return nil
	}

	s.settle(ctx, ev, s.index.Remove(ctx, Collection, id))
	s.logger.Info("task deleted", "id", id)
	return nil
}

func (s *service) Process(ctx context.Context, ev outbox.Event) error {
	t, err := s.store.Find(ctx, ev.AggregateID)
	if errors.Is(err, ErrNotFound) {
		return s.index.Remove(ctx, Collection, ev.AggregateID)
	}
	if err != nil {
		return err
	}

	_, err = s.sync(ctx, t)
	return err
}

func (s *service) build(ctx context.Context, cmd SaveCommand, existing *Task) (Task, error) {
	t := Task{
		Title:       strings.TrimSpace(cmd.Title),
		Description: cmd.Description,
		Status:      cmd.Status,
		ArticleID:   cmd.ArticleID,
		CreatedBy:   cmd.CreatedBy,
	}
	if cmd.CreatedAt != nil {
		t.CreatedAt = *cmd.CreatedAt
	}

	if cmd.ID != nil {
		t.ID = *cmd.ID
	} else {
		t.ID = uuid.New()
	}

	if existing != nil {
		if t.Status == "" {
			t.Status = existing.Status
		}
		if t.ArticleID == uuid.Nil {
			t.ArticleID = existing.ArticleID
		}
		if t.CreatedBy == "" {
			t.CreatedBy = existing.CreatedBy
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = existing.CreatedAt
		}
	}

	if t.Status == "" {
		t.Status = StatusOpen
	}

	now := s.now().UTC()
	if t.CreatedBy == "" {
		t.CreatedBy = auth.FromContext(ctx).Login
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	if err := validate(t); err != nil {
		return t, err
	}
	return t, nil
}

// sync refreshes the search projection of t and, for a closed task, publishes
// its article. The returned error is non-nil for retryable failures.
func (s *service) sync(ctx context.Context, t *Task) (SyncReport, error) {
	var (
		report SyncReport
		errs   []error
	)

	err := s.index.Upsert(ctx, Collection, search.Document{
		ID:    t.ID,
		Title: t.Title,
		Body:  t.Description,
	})
	if err != nil {
		report.IndexError = err.Error()
		errs = append(errs, fmt.Errorf("index: %w", err))
	} else {
		report.Indexed = true
	}

	if t.Status == StatusClosed {
		pub, err := s.articles.Publish(ctx, t.ArticleID)
		if err != nil {
			report.PublishError = err.Error()
			errs = append(errs, fmt.Errorf("publish article %s: %w", t.ArticleID, err))
		} else {
			report.Publication = pub
			if pub.Sync.Pending {
				s.logger.Warn("published article sync pending", "task", t.ID, "article", t.ArticleID)
			}
		}
	}

	report.Pending = len(errs) > 0
	return report, errors.Join(errs...)
}

func (s *service) settle(ctx context.Context, ev *outbox.Event, cause error) {
	if cause != nil {
		s.logger.Warn("task sync deferred", "id", ev.AggregateID, "error", cause)
	}
	if err := s.tracker.Resolve(ctx, ev, cause); err != nil {
		s.logger.Error("resolve sync event failed", "event", ev.ID, "error", err)
	}
}

func validate(t Task) error {
	if t.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if utf8.RuneCountInString(t.Title) > maxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalid, maxTitleLength)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, t.Status)
	}
	if t.ArticleID == uuid.Nil {
		return fmt.Errorf("%w: article_id is required", ErrInvalid)
	}
	return nil
}
