package helpers

import (
	"net/http"
	"strconv"

	"youthevents/internal/domain"
)

// Defaults and bounds for the page and page_size query parameters.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination reads page and page_size from the query string. Missing, malformed or
// non-positive values fall back to the defaults; page_size is capped at MaxPageSize.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	return domain.PaginationParams{
		Page:     positiveInt(q.Get("page"), DefaultPage),
		PageSize: min(positiveInt(q.Get("page_size"), DefaultPageSize), MaxPageSize),
	}
}

func positiveInt(raw string, fallback int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// PaginationMeta describes the page returned by a paginated list endpoint.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta builds PaginationMeta. TotalPages rounds up and is 0 when pageSize is 0.
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	meta := PaginationMeta{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		meta.TotalPages = (total + pageSize - 1) / pageSize
	}
	return meta
}
