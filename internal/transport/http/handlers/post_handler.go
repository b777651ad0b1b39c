package handlers

import (
	"fmt"
	"net/http"

	"github.com/vedran77/postboard/internal/domain"
	"github.com/vedran77/postboard/internal/logging"
	"github.com/vedran77/postboard/internal/service"
)

type PostHandler struct {
	postService *service.PostService
	log         logging.Logger
}

func NewPostHandler(postService *service.PostService, log logging.Logger) *PostHandler {
	return &PostHandler{postService: postService, log: log}
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.log, "list posts", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreatePostInput
	if !decodeJSON(r, &input) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, owner, err := h.postService.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, h.log, "create post", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"post": post, "owner": owner})
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.postService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.log, "get post", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.UpdatePostInput
	if !decodeJSON(r, &input) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.postService.UpdateContent(r.Context(), r.PathValue("id"), input)
	if err != nil {
		writeServiceError(w, r, h.log, "update post", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	owner, err := h.postService.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, "delete post", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"owner":   owner,
		"message": fmt.Sprintf("Post with id: %s was successfully deleted", id),
	})
}

func (h *PostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListByUser(r.Context(), r.PathValue("uid"))
	if err != nil {
		writeServiceError(w, r, h.log, "user posts", err)
		return
	}

	writeJSON(w, http.StatusOK, service.PostSearchResult{
		Results:    posts,
		ResultIDs:  domain.PostIDs(posts),
		NumResults: len(posts),
	})
}

type likeInput struct {
	UID string `json:"uid"`
}

func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	var input likeInput
	if !decodeJSON(r, &input) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.postService.ToggleLike(r.Context(), r.PathValue("id"), input.UID)
	if err != nil {
		writeServiceError(w, r, h.log, "like post", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}
