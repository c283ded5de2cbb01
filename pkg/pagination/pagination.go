package pagination

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/content-lab/pkg/query"
)

// PageRequest is a 1-based page of a listing with optional search and sort.
type PageRequest struct {
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Search   *string          `json:"search,omitempty"`
	Sort     query.SortFields `json:"sort,omitempty"`
}

// Normalize clamps the page to 1 or more and the page size into [1, MaxPageSize],
// substituting DefaultPageSize for a missing size.
func (r *PageRequest) Normalize(cfg Config) {
	r.Page = max(r.Page, 1)
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	r.PageSize = min(r.PageSize, cfg.MaxPageSize)
}

func (r *PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// PageRequestFromQuery reads page, page_size (or size), search and sort from
// values. Sort is comma-separated with a "-" prefix for descending order.
// Unparseable numbers fall back to defaults.
func PageRequestFromQuery(values url.Values, cfg Config) PageRequest {
	req := PageRequest{
		Page:     atoi(values.Get("page")),
		PageSize: atoi(values.Get("page_size")),
		Sort:     query.ParseSortFields(values.Get("sort")),
	}
	if req.PageSize == 0 {
		req.PageSize = atoi(values.Get("size"))
	}
	if s := values.Get("search"); s != "" {
		req.Search = &s
	}

	req.Normalize(cfg)
	return req
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// PageResult is one page of T with the totals needed for pagination headers.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult derives TotalPages from total and pageSize. There is always at
// least one page and Data is never nil.
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	totalPages := 1
	if pageSize > 0 && total > pageSize {
		totalPages = (total + pageSize - 1) / pageSize
	}

	if data == nil {
		data = []T{}
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// EmptyPage is the result for a listing that cannot match anything, such as a
// filter the caller is not permitted to see. page is normalized first.
func EmptyPage[T any](page PageRequest, cfg Config) *PageResult[T] {
	page.Normalize(cfg)
	result := NewPageResult[T](nil, 0, page.Page, page.PageSize)
	return &result
}

// Meta extracts the header metadata of r.
func (r *PageResult[T]) Meta() Meta {
	return Meta{
		Total:      r.Total,
		Page:       r.Page,
		PageSize:   r.PageSize,
		TotalPages: r.TotalPages,
	}
}
