package query_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/content-lab/pkg/query"
)

func newTestProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "articles", "a").
		Project("id", "Id").
		Project("title", "Title").
		Project("status", "Status").
		Project("created_at", "CreatedAt")
}

func TestBuilder_BuildCount_NoConditions(t *testing.T) {
	b := query.NewBuilder(newTestProjection())

	sql, args := b.BuildCount()

	want := "SELECT COUNT(*) FROM public.articles a"
	if sql != want {
		t.Errorf("BuildCount() sql = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("BuildCount() args = %v, want empty", args)
	}
}

func TestBuilder_BuildPage_DefaultSort(t *testing.T) {
	b := query.NewBuilder(newTestProjection(), query.SortField{Field: "CreatedAt", Descending: true})

	sql, _ := b.BuildPage(1, 20)

	if !strings.Contains(sql, "SELECT a.id, a.title, a.status, a.created_at FROM public.articles a") {
		t.Errorf("BuildPage() missing select clause, got %q", sql)
	}
	if !strings.Contains(sql, "ORDER BY a.created_at DESC") {
		t.Errorf("BuildPage() missing default order, got %q", sql)
	}
}

func TestBuilder_BuildPage_NoSort(t *testing.T) {
	sql, _ := query.NewBuilder(newTestProjection()).BuildPage(1, 10)

	if strings.Contains(sql, "ORDER BY") {
		t.Errorf("BuildPage() without sort = %q, want no ORDER BY", sql)
	}
}

func TestBuilder_BuildPage_Pagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		want     string
	}{
		{"first page", 1, 20, "LIMIT 20 OFFSET 0"},
		{"second page", 2, 20, "LIMIT 20 OFFSET 20"},
		{"third page", 3, 10, "LIMIT 10 OFFSET 20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _ := query.NewBuilder(newTestProjection()).BuildPage(tt.page, tt.pageSize)
			if !strings.HasSuffix(sql, tt.want) {
				t.Errorf("BuildPage() = %q, want suffix %q", sql, tt.want)
			}
		})
	}
}

func TestBuilder_OrderByFields(t *testing.T) {
	tests := []struct {
		name   string
		fields []query.SortField
		want   string
	}{
		{
			name:   "multiple fields",
			fields: query.ParseSortFields("Status,-Title"),
			want:   "ORDER BY a.status ASC, a.title DESC",
		},
		{
			name:   "unknown field dropped",
			fields: query.ParseSortFields("Bogus,-Title"),
			want:   "ORDER BY a.title DESC",
		},
		{
			name:   "all unknown keeps default",
			fields: query.ParseSortFields("Bogus"),
			want:   "ORDER BY a.created_at ASC",
		},
		{
			name:   "sql in field name",
			fields: []query.SortField{{Field: "title; DROP TABLE articles"}},
			want:   "ORDER BY a.created_at ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := query.NewBuilder(newTestProjection(), query.SortField{Field: "CreatedAt"})
			sql, _ := b.OrderByFields(tt.fields).BuildAll()
			if !strings.HasSuffix(sql, tt.want) {
				t.Errorf("BuildAll() = %q, want suffix %q", sql, tt.want)
			}
		})
	}
}

func TestBuilder_WhereEquals(t *testing.T) {
	b := query.NewBuilder(newTestProjection()).
		WhereEquals("Status", "DRAFT").
		WhereEquals("Title", nil)

	sql, args := b.BuildCount()

	if !strings.HasSuffix(sql, " WHERE a.status = $1") {
		t.Errorf("BuildCount() = %q, want status condition only", sql)
	}
	if len(args) != 1 || args[0] != "DRAFT" {
		t.Errorf("args = %v, want [DRAFT]", args)
	}
}

func TestBuilder_WhereContains(t *testing.T) {
	empty := ""
	value := "guide"

	b := query.NewBuilder(newTestProjection()).
		WhereContains("Title", nil).
		WhereContains("Title", &empty).
		WhereContains("Title", &value)

	sql, args := b.BuildCount()

	if !strings.HasSuffix(sql, " WHERE a.title ILIKE $1") {
		t.Errorf("BuildCount() = %q", sql)
	}
	if len(args) != 1 || args[0] != "%guide%" {
		t.Errorf("args = %v, want [%%guide%%]", args)
	}
}

func TestBuilder_WhereIn(t *testing.T) {
	b := query.NewBuilder(newTestProjection()).
		WhereEquals("Status", "DRAFT").
		WhereIn("Id", []any{"a", "b", "c"}).
		WhereIn("Title", nil)

	sql, args := b.BuildAll()

	want := " WHERE a.status = $1 AND a.id IN ($2, $3, $4)"
	if !strings.HasSuffix(sql, want) {
		t.Errorf("BuildAll() = %q, want suffix %q", sql, want)
	}
	if len(args) != 4 {
		t.Errorf("len(args) = %d, want 4", len(args))
	}
}

func TestBuilder_WhereSearch(t *testing.T) {
	search := "release"

	b := query.NewBuilder(newTestProjection()).
		WhereEquals("Status", "PUBLISHED").
		WhereSearch(&search, "Title", "Status")

	sql, args := b.BuildPage(1, 5)

	if !strings.Contains(sql, "WHERE a.status = $1 AND (a.title ILIKE $2 OR a.status ILIKE $3)") {
		t.Errorf("BuildPage() = %q", sql)
	}
	if len(args) != 3 || args[1] != "%release%" || args[2] != "%release%" {
		t.Errorf("args = %v", args)
	}
}

func TestBuilder_BuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(newTestProjection()).BuildSingle("Id", "abc")

	want := "SELECT a.id, a.title, a.status, a.created_at FROM public.articles a WHERE a.id = $1"
	if sql != want {
		t.Errorf("BuildSingle() sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "abc" {
		t.Errorf("BuildSingle() args = %v", args)
	}
}
