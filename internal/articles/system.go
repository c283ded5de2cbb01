package articles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JaimeStill/content-lab/internal/documents"
	"github.com/JaimeStill/content-lab/internal/outbox"
	"github.com/JaimeStill/content-lab/pkg/auth"
	"github.com/JaimeStill/content-lab/pkg/markup"
	"github.com/JaimeStill/content-lab/pkg/pagination"
	"github.com/JaimeStill/content-lab/pkg/render"
	"github.com/JaimeStill/content-lab/pkg/search"
)

const maxTitleLength = 255

// System defines the article operations.
type System interface {
	// Save creates or updates an article and applies its secondary effects.
	// A failed render never fails the save; it is reported in the result.
	Save(ctx context.Context, cmd SaveCommand) (*SaveResult, error)

	// Publish moves an article into PUBLISHED through the same pipeline as Save.
	// Publishing an already published article is a no-op and reports an empty
	// SyncReport.
	Publish(ctx context.Context, id uuid.UUID) (*SaveResult, error)

	Find(ctx context.Context, id uuid.UUID) (*Article, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Article], error)
	Search(ctx context.Context, query string, page pagination.PageRequest) (*pagination.PageResult[Article], error)
	Count(ctx context.Context, filters Filters) (int, error)

	// Delete removes an article, its index entry and its documents.
	// Deleting a missing article succeeds.
	Delete(ctx context.Context, id uuid.UUID) error

	// Process converges the secondary effects of an article on its current row.
	Process(ctx context.Context, ev outbox.Event) error
}

type service struct {
	store      Store
	tracker    outbox.Tracker
	index      search.Index
	docs       documents.System
	renderer   render.Renderer
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// Option configures the article system.
type Option func(*service)

// WithClock replaces the time source used for audit stamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// New creates the article system.
func New(
	store Store,
	tracker outbox.Tracker,
	index search.Index,
	docs documents.System,
	renderer render.Renderer,
	logger *slog.Logger,
	pagination pagination.Config,
	opts ...Option,
) System {
	s := &service{
		store:      store,
		tracker:    tracker,
		index:      index,
		docs:       docs,
		renderer:   renderer,
		logger:     logger.With("system", "articles"),
		pagination: pagination,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Save(ctx context.Context, cmd SaveCommand) (*SaveResult, error) {
	var existing *Article
	if cmd.ID != nil {
		a, err := s.store.Find(ctx, *cmd.ID)
		switch {
		case err == nil:
			existing = a
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
	}

	a, err := s.build(ctx, cmd, existing)
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, a)
}

func (s *service) Publish(ctx context.Context, id uuid.UUID) (*SaveResult, error) {
	a, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == StatusPublished {
		return &SaveResult{Article: *a}, nil
	}

	a.Status = StatusPublished
	s.stamp(ctx, a)

	s.logger.Info("publishing article", "id", id, "by", a.LastModifiedBy)
	return s.persist(ctx, *a)
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*Article, error) {
	return s.store.Find(ctx, id)
}

func (s *service) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Article], error) {
	return s.store.List(ctx, page, filters)
}

func (s *service) Count(ctx context.Context, filters Filters) (int, error) {
	return s.store.Count(ctx, filters)
}

// Search pages through the index ranking. Index hits whose row no longer exists
// are dropped from the page.
func (s *service) Search(ctx context.Context, query string, page pagination.PageRequest) (*pagination.PageResult[Article], error) {
	page.Normalize(s.pagination)

	res, err := s.index.Search(ctx, Collection, query, page.Page, page.PageSize)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}

	found, err := s.store.FindMany(ctx, res.IDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]Article, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}

	ranked := make([]Article, 0, len(res.IDs))
	for _, id := range res.IDs {
		if a, ok := byID[id]; ok {
			ranked = append(ranked, a)
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

	s.settle(ctx, ev, s.remove(ctx, id))
	s.logger.Info("article deleted", "id", id)
	return nil
}

func (s *service) Process(ctx context.Context, ev outbox.Event) error {
	a, err := s.store.Find(ctx, ev.AggregateID)
	if errors.Is(err, ErrNotFound) {
		return s.remove(ctx, ev.AggregateID)
	}
	if err != nil {
		return err
	}

	_, err = s.sync(ctx, a)
	return err
}

// build merges cmd over the stored article. Unset audit fields keep their stored
// value and fall back to the current principal and time.
func (s *service) build(ctx context.Context, cmd SaveCommand, existing *Article) (Article, error) {
	a := Article{
		Title:     strings.TrimSpace(cmd.Title),
		Content:   cmd.Content,
		Status:    cmd.Status,
		Type:      cmd.Type,
		CreatedBy: cmd.CreatedBy,
	}
	if cmd.CreatedAt != nil {
		a.CreatedAt = *cmd.CreatedAt
	}

	if cmd.ID != nil {
		a.ID = *cmd.ID
	} else {
		a.ID = uuid.New()
	}

	if existing != nil {
		if a.Status == "" {
			a.Status = existing.Status
		}
		if a.CreatedBy == "" {
			a.CreatedBy = existing.CreatedBy
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = existing.CreatedAt
		}
	}

	if a.Status == "" {
		a.Status = StatusDraft
	}
	if a.Status == StatusPublished && (existing == nil || existing.Status != StatusPublished) {
		return a, ErrInvalidTransition
	}

	s.stamp(ctx, &a)

	if err := validate(a); err != nil {
		return a, err
	}
	return a, nil
}

// stamp sets the modification audit fields and any missing creation fields.
func (s *service) stamp(ctx context.Context, a *Article) {
	login := auth.FromContext(ctx).Login
	now := s.now().UTC()

	if a.CreatedBy == "" {
		a.CreatedBy = login
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.LastModifiedBy = login
	a.LastModifiedAt = now
}

func (s *service) persist(ctx context.Context, a Article) (*SaveResult, error) {
	saved, ev, err := s.store.Save(ctx, a)
	if err != nil {
		return nil, err
	}

	report, cause := s.sync(ctx, saved)
	s.settle(ctx, ev, cause)

	return &SaveResult{Article: *saved, Sync: report}, nil
}

// sync refreshes the search projection and the generated PDF of a. The returned
// error is non-nil only for retryable failures; a failed render is reported
// and leaves the article without a generated document.
func (s *service) sync(ctx context.Context, a *Article) (SyncReport, error) {
	var (
		report SyncReport
		errs   []error
	)

	err := s.index.Upsert(ctx, Collection, search.Document{
		ID:    a.ID,
		Title: a.Title,
		Body:  markup.PlainText(a.Content),
	})
	if err != nil {
		report.IndexError = err.Error()
		errs = append(errs, fmt.Errorf("index: %w", err))
	} else {
		report.Indexed = true
	}

	data, err := s.renderer.Render(ctx, render.Source{Title: a.Title, HTML: a.Content})
	if err != nil {
		report.RenderError = err.Error()
		s.logger.Warn("article render failed", "id", a.ID, "error", err)

		if _, err := s.docs.DeleteGenerated(ctx, a.ID); err != nil {
			report.DocumentError = err.Error()
			errs = append(errs, fmt.Errorf("documents: %w", err))
		}
	} else {
		doc, err := s.docs.ReplaceGenerated(ctx, generatedDocument(a, data))
		if err != nil {
			report.DocumentError = err.Error()
			errs = append(errs, fmt.Errorf("documents: %w", err))
		} else {
			report.Document = &doc.ID
		}
	}

	report.Pending = len(errs) > 0
	return report, errors.Join(errs...)
}

func (s *service) remove(ctx context.Context, id uuid.UUID) error {
	var errs []error
	if err := s.index.Remove(ctx, Collection, id); err != nil {
		errs = append(errs, fmt.Errorf("index: %w", err))
	}
	if err := s.docs.DeleteByArticle(ctx, id); err != nil {
		errs = append(errs, fmt.Errorf("documents: %w", err))
	}
	return errors.Join(errs...)
}

func (s *service) settle(ctx context.Context, ev *outbox.Event, cause error) {
	if cause != nil {
		s.logger.Warn("article sync deferred", "id", ev.AggregateID, "error", cause)
	}
	if err := s.tracker.Resolve(ctx, ev, cause); err != nil {
		s.logger.Error("resolve sync event failed", "event", ev.ID, "error", err)
	}
}

func validate(a Article) error {
	if a.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if utf8.RuneCountInString(a.Title) > maxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalid, maxTitleLength)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalid, a.Type)
	}
	if !a.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, a.Status)
	}
	return nil
}
