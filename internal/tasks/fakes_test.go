package tasks_test

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/content-lab/internal/articles"
	"github.com/JaimeStill/content-lab/internal/outbox"
	"github.com/JaimeStill/content-lab/internal/tasks"
	"github.com/JaimeStill/content-lab/pkg/lifecycle"
	"github.com/JaimeStill/content-lab/pkg/pagination"
	"github.com/JaimeStill/content-lab/pkg/search"
)

var errNotImplemented = errors.New("not implemented")

type memStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]tasks.Task
	// lastFilters records the filters passed to List.
	lastFilters tasks.Filters
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[uuid.UUID]tasks.Task)}
}

func (s *memStore) Save(_ context.Context, t tasks.Task) (*tasks.Task, *outbox.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[t.ID] = t
	return &t, &outbox.Event{ID: uuid.New(), Aggregate: tasks.Aggregate, AggregateID: t.ID, Kind: outbox.KindSync}, nil
}

func (s *memStore) Find(_ context.Context, id uuid.UUID) (*tasks.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.rows[id]
	if !ok {
		return nil, tasks.ErrNotFound
	}
	return &t, nil
}

func (s *memStore) FindMany(_ context.Context, ids []uuid.UUID) ([]tasks.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []tasks.Task{}
	for _, id := range ids {
		if t, ok := s.rows[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memStore) List(_ context.Context, page pagination.PageRequest, f tasks.Filters) (*pagination.PageResult[tasks.Task], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilters = f
	out := []tasks.Task{}
	for _, t := range s.rows {
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		out = append(out, t)
	}
	r := pagination.NewPageResult(out, len(out), page.Page, page.PageSize)
	return &r, nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) (*outbox.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return nil, nil
	}
	delete(s.rows, id)
	return &outbox.Event{ID: uuid.New(), Aggregate: tasks.Aggregate, AggregateID: id, Kind: outbox.KindRemove}, nil
}

type recordingTracker struct {
	mu     sync.Mutex
	events []outbox.Event
	causes []error
}

func (t *recordingTracker) Resolve(_ context.Context, ev *outbox.Event, cause error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, *ev)
	t.causes = append(t.causes, cause)
	return nil
}

type memIndex struct {
	mu      sync.Mutex
	docs    map[uuid.UUID]search.Document
	ranking []uuid.UUID
}

func newMemIndex() *memIndex {
	return &memIndex{docs: make(map[uuid.UUID]search.Document)}
}

func (x *memIndex) Upsert(_ context.Context, _ string, doc search.Document) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.docs[doc.ID] = doc
	return nil
}

func (x *memIndex) Remove(_ context.Context, _ string, id uuid.UUID) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.docs, id)
	return nil
}

func (x *memIndex) Search(context.Context, string, string, int, int) (*search.Result, error) {
	return &search.Result{IDs: x.ranking, Total: len(x.ranking)}, nil
}

func (x *memIndex) Start(*lifecycle.Coordinator) error { return nil }

// fakePublisher stands in for the article system. Only Find and Publish are used
// by the task workflow.
type fakePublisher struct {
	mu        sync.Mutex
	articles  map[uuid.UUID]articles.Article
	published []uuid.UUID
	fail      error
}

func newFakePublisher(ids ...uuid.UUID) *fakePublisher {
	p := &fakePublisher{articles: make(map[uuid.UUID]articles.Article)}
	for _, id := range ids {
		p.articles[id] = articles.Article{ID: id, Title: "article", Status: articles.StatusDraft, Type: articles.TypeNews}
	}
	return p
}

func (p *fakePublisher) Save(context.Context, articles.SaveCommand) (*articles.SaveResult, error) {
	return nil, errNotImplemented
}

func (p *fakePublisher) Publish(_ context.Context, id uuid.UUID) (*articles.SaveResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return nil, p.fail
	}
	a, ok := p.articles[id]
	if !ok {
		return nil, articles.ErrNotFound
	}
	if a.Status == articles.StatusPublished {
		return &articles.SaveResult{Article: a}, nil
	}
	a.Status = articles.StatusPublished
	p.articles[id] = a
	p.published = append(p.published, id)
	return &articles.SaveResult{Article: a, Sync: articles.SyncReport{Indexed: true}}, nil
}

func (p *fakePublisher) Find(_ context.Context, id uuid.UUID) (*articles.Article, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	a, ok := p.articles[id]
	if !ok {
		return nil, articles.ErrNotFound
	}
	return &a, nil
}

func (p *fakePublisher) List(context.Context, pagination.PageRequest, articles.Filters) (*pagination.PageResult[articles.Article], error) {
	return nil, errNotImplemented
}

func (p *fakePublisher) Search(context.Context, string, pagination.PageRequest) (*pagination.PageResult[articles.Article], error) {
	return nil, errNotImplemented
}

func (p *fakePublisher) Count(context.Context, articles.Filters) (int, error) {
	return 0, errNotImplemented
}

func (p *fakePublisher) Delete(context.Context, uuid.UUID) error {
	return errNotImplemented
}

func (p *fakePublisher) Process(context.Context, outbox.Event) error {
	return errNotImplemented
}

func (p *fakePublisher) status(id uuid.UUID) articles.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.articles[id].Status
}
