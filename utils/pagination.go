package utils

import (
	"net/http"
	"strconv"
)

// ParsePagination reads page/limit query parameters with sane defaults.
func ParsePagination(r *http.Request) (page, limit, offset int) {
	page = 1
	limit = 10

	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
		if limit > 100 {
			limit = 100
		}
	}
	offset = (page - 1) * limit
	return
}
