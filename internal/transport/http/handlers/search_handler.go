package handlers

import (
	"net/http"

	"github.com/vedran77/postboard/internal/logging"
	"github.com/vedran77/postboard/internal/service"
)

type SearchHandler struct {
	searchService *service.SearchService
	log           logging.Logger
}

func NewSearchHandler(searchService *service.SearchService, log logging.Logger) *SearchHandler {
	return &SearchHandler{searchService: searchService, log: log}
}

func searchParams(r *http.Request) service.SearchParams {
	q := r.URL.Query()
	perPage := q.Get("numperpage")
	if perPage == "" {
		perPage = q.Get("numPerPage")
	}
	return service.SearchParams{
		Query:      q.Get("query"),
		Field:      q.Get("field"),
		Sort:       q.Get("sort"),
		Page:       q.Get("page"),
		NumPerPage: perPage,
	}
}

func (h *SearchHandler) Posts(w http.ResponseWriter, r *http.Request) {
	res, err := h.searchService.SearchPosts(r.Context(), searchParams(r))
	if err != nil {
		writeServiceError(w, r, h.log, "search posts", err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *SearchHandler) Users(w http.ResponseWriter, r *http.Request) {
	res, err := h.searchService.SearchUsers(r.Context(), searchParams(r))
	if err != nil {
		writeServiceError(w, r, h.log, "search users", err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}
