package pagination

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Response headers carrying pagination metadata.
const (
	HeaderTotalCount = "X-Total-Count"
	HeaderLink       = "Link"
)

// Meta is the page metadata needed to build pagination headers.
type Meta struct {
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// WriteHeaders sets X-Total-Count and an RFC 8288 Link header with next, prev, last
// and first relations. params carries extra query parameters (such as a search query)
// that every link must preserve.
func WriteHeaders(w http.ResponseWriter, meta Meta, baseURL string, params url.Values) {
	w.Header().Set(HeaderTotalCount, strconv.Itoa(meta.Total))
	w.Header().Set(HeaderLink, LinkHeader(meta, baseURL, params))
}

// LinkHeader builds the Link header value for meta.
func LinkHeader(meta Meta, baseURL string, params url.Values) string {
	links := make([]string, 0, 4)

	if meta.Page < meta.TotalPages {
		links = append(links, link(baseURL, params, meta.Page+1, meta.PageSize, "next"))
	}
	if meta.Page > 1 {
		links = append(links, link(baseURL, params, meta.Page-1, meta.PageSize, "prev"))
	}
	links = append(links, link(baseURL, params, meta.TotalPages, meta.PageSize, "last"))
	links = append(links, link(baseURL, params, 1, meta.PageSize, "first"))

	return strings.Join(links, ",")
}

func link(baseURL string, params url.Values, page, pageSize int, rel string) string {
	values := url.Values{}
	for k, v := range params {
		values[k] = v
	}
	values.Del("size")
	values.Set("page", strconv.Itoa(page))
	values.Set("page_size", strconv.Itoa(pageSize))
	return fmt.Sprintf(`<%s?%s>; rel="%s"`, baseURL, values.Encode(), rel)
}
