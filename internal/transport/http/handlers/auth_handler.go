package handlers

import (
	"net/http"

	"github.com/vedran77/postboard/internal/logging"
	"github.com/vedran77/postboard/internal/service"
	"github.com/vedran77/postboard/internal/transport/http/middleware"
)

type AuthHandler struct {
	authService *service.AuthService
	log         logging.Logger
}

func NewAuthHandler(authService *service.AuthService, log logging.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input service.SignupInput
	if !decodeJSON(r, &input) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.authService.Signup(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, h.log, "signup", err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Signin runs behind RequireCredentials, which has already verified the user.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	resp, err := h.authService.TokenFor(middleware.GetUser(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.log, "signin", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"user": middleware.GetUser(r.Context()).Sanitized(),
	})
}
