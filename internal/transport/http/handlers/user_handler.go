package handlers

import (
	"net/http"

	"github.com/vedran77/postboard/internal/logging"
	"github.com/vedran77/postboard/internal/service"
	"github.com/vedran77/postboard/internal/transport/http/middleware"
)

type UserHandler struct {
	userService *service.UserService
	log         logging.Logger
}

func NewUserHandler(userService *service.UserService, log logging.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.log, "list users", err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.log, "get user", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateUserInput
	if !decodeJSON(r, &input) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	caller := middleware.GetUser(r.Context())
	asAdmin := caller != nil && caller.IsAdmin

	user, err := h.userService.Update(r.Context(), r.PathValue("id"), input, asAdmin)
	if err != nil {
		writeServiceError(w, r, h.log, "update user", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	msg, err := h.userService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.log, "delete user", err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}
