package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// pageParams reads page/pageSize query values. Unset or garbage values
// come back as zero; services clamp them to their configured bounds.
func pageParams(r *http.Request) (page, pageSize int) {
	query := r.URL.Query()
	page, _ = strconv.Atoi(query.Get("page"))
	pageSize, _ = strconv.Atoi(query.Get("pageSize"))
	return page, pageSize
}

func int64Param(r *http.Request, name string) (int64, bool) {
	value, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}
