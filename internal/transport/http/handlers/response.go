package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vedran77/postboard/internal/logging"
	"github.com/vedran77/postboard/internal/service"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// writeServiceError reports err with the status its type carries. Untyped
// errors go out as 500 with their raw message and are logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, log logging.Logger, op string, err error) {
	status := service.StatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Error(r.Context(), "handler failed", "op", op, "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, err.Error())
}

// decodeJSON reads an optional JSON body; an empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) bool {
	if r.Body == nil {
		return true
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	return err == nil || errors.Is(err, io.EOF)
}

// NotFound is the fallback for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "The route you've requested doesn't exist")
}

func Welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Welcome to the postboard API!"})
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
