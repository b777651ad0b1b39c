package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vedran77/postboard/internal/config"
	"github.com/vedran77/postboard/internal/database"
	"github.com/vedran77/postboard/internal/logging"
	"github.com/vedran77/postboard/internal/service"
	"github.com/vedran77/postboard/internal/transport/http/router"
)

const shutdownTimeout = 10 * time.Second

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "postboard",
		Short:         "Postboard - users, posts, likes and search over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	return root
}

// newServeCmd reads defaults from the environment; flags given on the
// command line take precedence.
func newServeCmd() *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.ServerPort, "port", cfg.ServerPort, "HTTP listen port")
	f.StringVar(&cfg.StoreDriver, "store", cfg.StoreDriver, "store backend: postgres, mongo or memory")
	f.StringVar(&cfg.MongoURI, "mongo-uri", cfg.MongoURI, "MongoDB connection URI")
	f.StringVar(&cfg.MongoDatabase, "mongo-db", cfg.MongoDatabase, "MongoDB database name")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	f.StringVar(&cfg.CORSOrigin, "cors-origin", cfg.CORSOrigin, "allowed CORS origin")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logging.New(os.Stdout, cfg.LogLevel)

	store, err := database.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.StoreDriver, err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn(ctx, "closing store", "error", err)
		}
	}()
	log.Info(ctx, "store ready", "driver", store.Driver)

	creds := service.NewCredentials(cfg.AuthSecret)
	handler := router.New(router.Services{
		Auth:   service.NewAuthService(store.Users, creds),
		Posts:  service.NewPostService(store.Posts, store.Users, log),
		Users:  service.NewUserService(store.Users, creds),
		Search: service.NewSearchService(store.Posts, store.Users),
	}, log, cfg.CORSOrigin)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
