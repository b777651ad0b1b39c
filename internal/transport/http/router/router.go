package router

import (
	"net/http"

	"github.com/vedran77/postboard/internal/logging"
	"github.com/vedran77/postboard/internal/service"
	"github.com/vedran77/postboard/internal/transport/http/handlers"
	"github.com/vedran77/postboard/internal/transport/http/middleware"
)

type Services struct {
	Auth   *service.AuthService
	Posts  *service.PostService
	Users  *service.UserService
	Search *service.SearchService
}

// New builds the full HTTP surface, wrapped in CORS and request logging.
func New(svc Services, log logging.Logger, corsOrigin string) http.Handler {
	authHandler := handlers.NewAuthHandler(svc.Auth, log)
	postHandler := handlers.NewPostHandler(svc.Posts, log)
	userHandler := handlers.NewUserHandler(svc.Users, log)
	searchHandler := handlers.NewSearchHandler(svc.Search, log)

	auth := middleware.RequireAuthenticated(svc.Auth, log)
	signin := middleware.RequireCredentials(svc.Auth, log)

	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /{$}", handlers.Welcome)
	mux.HandleFunc("GET /health", handlers.Health)
	mux.HandleFunc("POST /auth/signup", authHandler.Signup)
	mux.Handle("POST /auth/signin", signin(http.HandlerFunc(authHandler.Signin)))
	mux.HandleFunc("GET /posts/{id}", postHandler.Get)
	mux.HandleFunc("GET /posts/user/{uid}", postHandler.ListByUser)
	mux.HandleFunc("GET /search/posts", searchHandler.Posts)
	mux.HandleFunc("GET /search/users", searchHandler.Users)

	// Protected
	mux.Handle("POST /auth/validate", auth(http.HandlerFunc(authHandler.Validate)))

	mux.Handle("GET /posts", auth(http.HandlerFunc(postHandler.List)))
	mux.Handle("POST /posts", auth(http.HandlerFunc(postHandler.Create)))
	mux.Handle("PUT /posts/{id}", auth(http.HandlerFunc(postHandler.Update)))
	mux.Handle("DELETE /posts/{id}", auth(http.HandlerFunc(postHandler.Delete)))
	mux.Handle("POST /posts/like/{id}", auth(http.HandlerFunc(postHandler.ToggleLike)))

	mux.Handle("GET /users", auth(http.HandlerFunc(userHandler.List)))
	mux.Handle("GET /users/{id}", auth(http.HandlerFunc(userHandler.Get)))
	mux.Handle("PUT /users/{id}", auth(http.HandlerFunc(userHandler.Update)))
	mux.Handle("DELETE /users/{id}", auth(http.HandlerFunc(userHandler.Delete)))

	mux.HandleFunc("/", handlers.NotFound)

	return middleware.Logger(log)(middleware.CORS(corsOrigin)(mux))
}
