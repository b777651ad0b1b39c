package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/vedran77/postboard/internal/domain"
	"github.com/vedran77/postboard/internal/logging"
	"github.com/vedran77/postboard/internal/service"
)

type contextKey string

const UserKey contextKey = "user"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type CredentialChecker interface {
	CheckCredentials(ctx context.Context, input service.SigninInput) (*domain.User, error)
}

// RequireAuthenticated resolves the bearer token to a stored user and puts
// that user in the request context.
func RequireAuthenticated(auth Authenticator, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				fail(w, r, log, "authenticate", err)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCredentials gates signin: the JSON body must carry an identifier
// and a matching password.
func RequireCredentials(checker CredentialChecker, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var input service.SigninInput
			// An empty body falls through so the missing identifier is reported.
			if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
				writeMessage(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			user, err := checker.CheckCredentials(r.Context(), input)
			if err != nil {
				fail(w, r, log, "signin", err)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an Authorization header. The scheme
// is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUser returns the user attached by one of the gates, or nil.
func GetUser(ctx context.Context) *domain.User {
	user, _ := ctx.Value(UserKey).(*domain.User)
	return user
}

func fail(w http.ResponseWriter, r *http.Request, log logging.Logger, op string, err error) {
	status := service.StatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Error(r.Context(), "request failed", "op", op, "path", r.URL.Path, "error", err)
	}
	writeMessage(w, status, err.Error())
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
