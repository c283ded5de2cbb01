package articles_test

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/content-lab/internal/articles"
	"github.com/JaimeStill/content-lab/internal/documents"
	"github.com/JaimeStill/content-lab/internal/outbox"
	"github.com/JaimeStill/content-lab/pkg/lifecycle"
	"github.com/JaimeStill/content-lab/pkg/pagination"
	"github.com/JaimeStill/content-lab/pkg/render"
	"github.com/JaimeStill/content-lab/pkg/search"
)

type memStore struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]articles.Article
	hasTasks map[uuid.UUID]bool
}

func newMemStore() *memStore {
	return &memStore{
		rows:     make(map[uuid.UUID]articles.Article),
		hasTasks: make(map[uuid.UUID]bool),
	}
}

func (s *memStore) Save(_ context.Context, a articles.Article) (*articles.Article, *outbox.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[a.ID] = a
	return &a, &outbox.Event{ID: uuid.New(), Aggregate: articles.Aggregate, AggregateID: a.ID, Kind: outbox.KindSync}, nil
}

func (s *memStore) Find(_ context.Context, id uuid.UUID) (*articles.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[id]
	if !ok {
		return nil, articles.ErrNotFound
	}
	return &a, nil
}

func (s *memStore) FindMany(_ context.Context, ids []uuid.UUID) ([]articles.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []articles.Article{}
	for _, id := range ids {
		if a, ok := s.rows[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memStore) List(_ context.Context, page pagination.PageRequest, f articles.Filters) (*pagination.PageResult[articles.Article], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []articles.Article{}
	for _, a := range s.rows {
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		out = append(out, a)
	}
	r := pagination.NewPageResult(out, len(out), page.Page, page.PageSize)
	return &r, nil
}

func (s *memStore) Count(ctx context.Context, f articles.Filters) (int, error) {
	r, err := s.List(ctx, pagination.PageRequest{Page: 1, PageSize: 1}, f)
	if err != nil {
		return 0, err
	}
	return r.Total, nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) (*outbox.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasTasks[id] {
		return nil, articles.ErrHasTasks
	}
	if _, ok := s.rows[id]; !ok {
		return nil, nil
	}
	delete(s.rows, id)
	return &outbox.Event{ID: uuid.New(), Aggregate: articles.Aggregate, AggregateID: id, Kind: outbox.KindRemove}, nil
}

type resolution struct {
	event outbox.Event
	cause error
}

type recordingTracker struct {
	mu       sync.Mutex
	resolved []resolution
}

func (t *recordingTracker) Resolve(_ context.Context, ev *outbox.Event, cause error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resolved = append(t.resolved, resolution{event: *ev, cause: cause})
	return nil
}

func (t *recordingTracker) last() resolution {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resolved[len(t.resolved)-1]
}

type memIndex struct {
	mu      sync.Mutex
	docs    map[string]map[uuid.UUID]search.Document
	fail    error
	ranking []uuid.UUID
}

func newMemIndex() *memIndex {
	return &memIndex{docs: make(map[string]map[uuid.UUID]search.Document)}
}

func (x *memIndex) Upsert(_ context.Context, collection string, doc search.Document) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.fail != nil {
		return x.fail
	}
	if x.docs[collection] == nil {
		x.docs[collection] = make(map[uuid.UUID]search.Document)
	}
	x.docs[collection][doc.ID] = doc
	return nil
}

func (x *memIndex) Remove(_ context.Context, collection string, id uuid.UUID) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.fail != nil {
		return x.fail
	}
	delete(x.docs[collection], id)
	return nil
}

func (x *memIndex) Search(_ context.Context, _ string, _ string, _, _ int) (*search.Result, error) {
	return &search.Result{IDs: x.ranking, Total: len(x.ranking)}, nil
}

func (x *memIndex) Start(*lifecycle.Coordinator) error { return nil }

func (x *memIndex) get(collection string, id uuid.UUID) (search.Document, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	d, ok := x.docs[collection][id]
	return d, ok
}

type memDocs struct {
	mu   sync.Mutex
	rows map[uuid.UUID]documents.Document
	data map[uuid.UUID][]byte
	fail error
}

func newMemDocs() *memDocs {
	return &memDocs{
		rows: make(map[uuid.UUID]documents.Document),
		data: make(map[uuid.UUID][]byte),
	}
}

func (d *memDocs) List(context.Context, pagination.PageRequest, documents.Filters) (*pagination.PageResult[documents.Document], error) {
	return nil, errors.New("not implemented")
}

func (d *memDocs) ListByArticle(_ context.Context, articleID uuid.UUID) ([]documents.Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []documents.Document{}
	for _, doc := range d.rows {
		if doc.ArticleID == articleID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (d *memDocs) Find(_ context.Context, id uuid.UUID) (*documents.Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, ok := d.rows[id]
	if !ok {
		return nil, documents.ErrNotFound
	}
	return &doc, nil
}

func (d *memDocs) Data(ctx context.Context, id uuid.UUID) (*documents.Document, []byte, error) {
	doc, err := d.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return doc, d.data[id], nil
}

func (d *memDocs) Create(_ context.Context, cmd documents.CreateCommand) (*documents.Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.insert(cmd), nil
}

func (d *memDocs) Update(context.Context, uuid.UUID, documents.UpdateCommand) (*documents.Document, error) {
	return nil, errors.New("not implemented")
}

func (d *memDocs) Delete(_ context.Context, id uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.rows, id)
	delete(d.data, id)
	return nil
}

func (d *memDocs) ReplaceGenerated(_ context.Context, cmd documents.CreateCommand) (*documents.Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail != nil {
		return nil, d.fail
	}
	d.deleteGenerated(cmd.ArticleID)
	return d.insert(cmd), nil
}

func (d *memDocs) DeleteGenerated(_ context.Context, articleID uuid.UUID) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deleteGenerated(articleID), nil
}

func (d *memDocs) DeleteByArticle(_ context.Context, articleID uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, doc := range d.rows {
		if doc.ArticleID == articleID {
			delete(d.rows, id)
			delete(d.data, id)
		}
	}
	return nil
}

func (d *memDocs) insert(cmd documents.CreateCommand) *documents.Document {
	doc := documents.Document{
		ID:          uuid.New(),
		ArticleID:   cmd.ArticleID,
		Name:        cmd.Name,
		Filename:    cmd.Filename,
		ContentType: cmd.ContentType,
		SizeBytes:   int64(len(cmd.Data)),
	}
	d.rows[doc.ID] = doc
	d.data[doc.ID] = slices.Clone(cmd.Data)
	return &doc
}

func (d *memDocs) deleteGenerated(articleID uuid.UUID) int {
	n := 0
	for id, doc := range d.rows {
		if doc.ArticleID == articleID && doc.Generated() {
			delete(d.rows, id)
			delete(d.data, id)
			n++
		}
	}
	return n
}

func (d *memDocs) generated(articleID uuid.UUID) []documents.Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []documents.Document{}
	for _, doc := range d.rows {
		if doc.ArticleID == articleID && doc.Generated() {
			out = append(out, doc)
		}
	}
	return out
}

type stubRenderer struct {
	fail    error
	sources []render.Source
	mu      sync.Mutex
}

func (r *stubRenderer) Render(_ context.Context, src render.Source) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, src)
	if r.fail != nil {
		return nil, r.fail
	}
	return []byte("%PDF-1.7 " + src.Title), nil
}
