package helpers

import (
	"net/http"
	"net/url"
	"strconv"

	"gymbooking/internal/domain"
)

// ParsePagination reads page and page_size from the query string. Missing,
// unparsable and out-of-range values are settled by PaginationParams.Normalize,
// so the admin list never sees a page below 1 or above MaxPageSize rows.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	return domain.PaginationParams{
		Page:     queryInt(q, "page"),
		PageSize: queryInt(q, "page_size"),
	}.Normalize()
}

func queryInt(q url.Values, key string) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return 0
	}
	return n
}

// PaginationMeta describes the page returned alongside a list.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta describes page p of a list holding total rows.
func NewPaginationMeta(p domain.PaginationParams, total int) PaginationMeta {
	meta := PaginationMeta{Page: p.Page, PageSize: p.PageSize, Total: total}
	if p.PageSize > 0 {
		meta.TotalPages = (total + p.PageSize - 1) / p.PageSize
	}
	return meta
}
