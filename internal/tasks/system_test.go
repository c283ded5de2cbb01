package tasks_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/content-lab/internal/articles"
	"github.com/JaimeStill/content-lab/internal/tasks"
	"github.com/JaimeStill/content-lab/pkg/auth"
	"github.com/JaimeStill/content-lab/pkg/pagination"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type harness struct {
	sys       tasks.System
	store     *memStore
	tracker   *recordingTracker
	index     *memIndex
	publisher *fakePublisher
	articleID uuid.UUID
}

func newHarness() *harness {
	articleID := uuid.New()
	h := &harness{
		store:     newMemStore(),
		tracker:   &recordingTracker{},
		index:     newMemIndex(),
		publisher: newFakePublisher(articleID),
		articleID: articleID,
	}
	h.sys = tasks.New(
		h.store,
		h.tracker,
		h.index,
		h.publisher,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		tasks.WithClock(func() time.Time { return fixedNow }),
	)
	return h
}

var (
	userCtx  = auth.WithPrincipal(context.Background(), auth.Principal{Login: "alice", Authorities: []string{auth.RoleUser}})
	adminCtx = auth.WithPrincipal(context.Background(), auth.Principal{Login: "root", Authorities: []string{auth.RoleUser, auth.RoleAdmin}})
)

func TestSystem_Save_Defaults(t *testing.T) {
	h := newHarness()

	result, err := h.sys.Save(userCtx, tasks.SaveCommand{Title: "Review", Description: "check links", ArticleID: h.articleID})
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if result.Status != tasks.StatusOpen {
		t.Errorf("Status = %q, want %q", result.Status, tasks.StatusOpen)
	}
	if result.CreatedBy != "alice" {
		t.Errorf("CreatedBy = %q, want alice", result.CreatedBy)
	}
	if !result.UpdatedAt.Equal(fixedNow) {
		t.Errorf("UpdatedAt = %v, want %v", result.UpdatedAt, fixedNow)
	}
	if !result.Sync.Indexed {
		t.Error("task not indexed")
	}
	if doc := h.index.docs[result.ID]; doc.Body != "check links" {
		t.Errorf("indexed body = %q, want %q", doc.Body, "check links")
	}
	if result.Sync.Publication != nil {
		t.Error("open task published its article")
	}
}

func TestSystem_Save_ClosingPublishes(t *testing.T) {
	h := newHarness()

	open, err := h.sys.Save(userCtx, tasks.SaveCommand{Title: "Review", ArticleID: h.articleID})
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if got := h.publisher.status(h.articleID); got != articles.StatusDraft {
		t.Fatalf("article status = %q before closing, want %q", got, articles.StatusDraft)
	}

	id := open.ID
	closed, err := h.sys.Save(userCtx, tasks.SaveCommand{ID: &id, Title: "Review", Status: tasks.StatusClosed})
	if err != nil {
		t.Fatalf("Save() closing failed: %v", err)
	}

	if got := h.publisher.status(h.articleID); got != articles.StatusPublished {
		t.Errorf("article status = %q, want %q", got, articles.StatusPublished)
	}
	if closed.ArticleID != h.articleID {
		t.Errorf("ArticleID = %v, want stored %v", closed.ArticleID, h.articleID)
	}
	if closed.Sync.Publication == nil || closed.Sync.Publication.Status != articles.StatusPublished {
		t.Errorf("Sync.Publication = %+v, want published article", closed.Sync.Publication)
	}

	if _, err := h.sys.Save(userCtx, tasks.SaveCommand{ID: &id, Title: "Review again", Status: tasks.StatusClosed}); err != nil {
		t.Fatalf("Save() closed again failed: %v", err)
	}
	if n := len(h.publisher.published); n != 1 {
		t.Errorf("publications = %d, want 1", n)
	}
}

func TestSystem_Save_PublishFailureIsPending(t *testing.T) {
	h := newHarness()
	h.publisher.fail = errors.New("database unavailable")

	result, err := h.sys.Save(userCtx, tasks.SaveCommand{Title: "Review", Status: tasks.StatusClosed, ArticleID: h.articleID})
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if !result.Sync.Pending || result.Sync.PublishError == "" {
		t.Errorf("Sync = %+v, want pending publish error", result.Sync)
	}

	ev := h.tracker.events[len(h.tracker.events)-1]
	if h.tracker.causes[len(h.tracker.causes)-1] == nil {
		t.Error("Resolve() cause = nil, want publish error")
	}

	h.publisher.fail = nil
	if err := h.sys.Process(context.Background(), ev); err != nil {
		t.Fatalf("Process() failed: %v", err)
	}
	if got := h.publisher.status(h.articleID); got != articles.StatusPublished {
		t.Errorf("article status after retry = %q, want %q", got, articles.StatusPublished)
	}
}

func TestSystem_Save_Validation(t *testing.T) {
	tests := []struct {
		name string
		cmd  func(h *harness) tasks.SaveCommand
		want error
	}{
		{
			name: "missing title",
			cmd:  func(h *harness) tasks.SaveCommand { return tasks.SaveCommand{ArticleID: h.articleID} },
			want: tasks.ErrInvalid,
		},
		{
			name: "missing article",
			cmd:  func(h *harness) tasks.SaveCommand { return tasks.SaveCommand{Title: "t"} },
			want: tasks.ErrInvalid,
		},
		{
			name: "unknown status",
			cmd: func(h *harness) tasks.SaveCommand {
				return tasks.SaveCommand{Title: "t", ArticleID: h.articleID, Status: "DONE"}
			},
			want: tasks.ErrInvalid,
		},
		{
			name: "unknown article",
			cmd:  func(h *harness) tasks.SaveCommand { return tasks.SaveCommand{Title: "t", ArticleID: uuid.New()} },
			want: tasks.ErrArticleNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			_, err := h.sys.Save(userCtx, tt.cmd(h))
			if !errors.Is(err, tt.want) {
				t.Errorf("Save() error = %v, want %v", err, tt.want)
			}
			if len(h.store.rows) != 0 {
				t.Error("invalid task was persisted")
			}
		})
	}
}

func TestSystem_List_Visibility(t *testing.T) {
	h := newHarness()

	for _, st := range []tasks.Status{tasks.StatusOpen, tasks.StatusInProgress, tasks.StatusOpen} {
		if _, err := h.sys.Save(adminCtx, tasks.SaveCommand{Title: "t", Status: st, ArticleID: h.articleID}); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}
	}

	inProgress := tasks.StatusInProgress
	open := tasks.StatusOpen
	tests := []struct {
		name    string
		ctx     context.Context
		filters tasks.Filters
		want    int
	}{
		{"anonymous", context.Background(), tasks.Filters{}, 2},
		{"user", userCtx, tasks.Filters{}, 2},
		{"user open filter", userCtx, tasks.Filters{Status: &open}, 2},
		{"user hidden status", userCtx, tasks.Filters{Status: &inProgress}, 0},
		{"admin", adminCtx, tasks.Filters{}, 3},
		{"admin filtered", adminCtx, tasks.Filters{Status: &inProgress}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.sys.List(tt.ctx, pagination.PageRequest{Page: 1, PageSize: 20}, tt.filters)
			if err != nil {
				t.Fatalf("List() failed: %v", err)
			}
			if result.Total != tt.want || len(result.Data) != tt.want {
				t.Errorf("Total = %d, len(Data) = %d, want %d", result.Total, len(result.Data), tt.want)
			}
			for _, task := range result.Data {
				if tt.filters.Status != nil && task.Status != *tt.filters.Status {
					t.Errorf("task status = %q, want %q", task.Status, *tt.filters.Status)
				}
			}
		})
	}
}

func TestSystem_ListByStatus_ExactMatch(t *testing.T) {
	h := newHarness()

	if _, err := h.sys.Save(userCtx, tasks.SaveCommand{Title: "open", ArticleID: h.articleID}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	for _, ctx := range []context.Context{userCtx, adminCtx} {
		result, err := h.sys.ListByStatus(ctx, tasks.StatusClosed, pagination.PageRequest{Page: 1, PageSize: 20})
		if err != nil {
			t.Fatalf("ListByStatus() failed: %v", err)
		}
		if result.Total != 0 {
			t.Errorf("ListByStatus(CLOSED) total = %d, want 0", result.Total)
		}
		for _, task := range result.Data {
			t.Errorf("ListByStatus(CLOSED) returned task with status %s", task.Status)
		}
	}
}

func TestSystem_ListByStatus(t *testing.T) {
	h := newHarness()

	if _, err := h.sys.Save(adminCtx, tasks.SaveCommand{Title: "t", Status: tasks.StatusInProgress, ArticleID: h.articleID}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	result, err := h.sys.ListByStatus(adminCtx, tasks.StatusInProgress, pagination.PageRequest{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("ListByStatus() failed: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("Total = %d, want 1", result.Total)
	}
	if got := *h.store.lastFilters.Status; got != tasks.StatusInProgress {
		t.Errorf("filter status = %q, want %q", got, tasks.StatusInProgress)
	}
}

func TestSystem_Delete(t *testing.T) {
	h := newHarness()

	task, err := h.sys.Save(userCtx, tasks.SaveCommand{Title: "t", ArticleID: h.articleID})
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if err := h.sys.Delete(userCtx, task.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, ok := h.index.docs[task.ID]; ok {
		t.Error("deleted task still indexed")
	}
	if _, err := h.sys.Find(userCtx, task.ID); !errors.Is(err, tasks.ErrNotFound) {
		t.Errorf("Find() error = %v, want %v", err, tasks.ErrNotFound)
	}
	if err := h.sys.Delete(userCtx, task.ID); err != nil {
		t.Errorf("Delete() of missing task = %v, want nil", err)
	}
}

func TestSystem_Search(t *testing.T) {
	h := newHarness()

	a, _ := h.sys.Save(adminCtx, tasks.SaveCommand{Title: "first", ArticleID: h.articleID})
	b, _ := h.sys.Save(adminCtx, tasks.SaveCommand{Title: "second", Status: tasks.StatusClosed, ArticleID: h.articleID})
	h.index.ranking = []uuid.UUID{b.ID, uuid.New(), a.ID}

	result, err := h.sys.Search(userCtx, "q", pagination.PageRequest{})
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(result.Data) != 2 {
		t.Fatalf("len(Data) = %d, want 2", len(result.Data))
	}
	if result.Data[0].ID != b.ID || result.Data[1].ID != a.ID {
		t.Errorf("Search() order = [%v %v], want [%v %v]", result.Data[0].ID, result.Data[1].ID, b.ID, a.ID)
	}
}
