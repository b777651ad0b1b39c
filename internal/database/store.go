package database

import (
	"context"
	"fmt"

	"github.com/vedran77/postboard/internal/config"
	"github.com/vedran77/postboard/internal/repository"
	"github.com/vedran77/postboard/internal/repository/memory"
	mongorepo "github.com/vedran77/postboard/internal/repository/mongo"
	postgresrepo "github.com/vedran77/postboard/internal/repository/postgres"
)

// Store bundles the repositories of one backend with its teardown.
type Store struct {
	Driver string
	Users  repository.UserRepository
	Posts  repository.PostRepository
	close  func(context.Context) error
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the configured backend and makes sure its schema or
// indexes exist.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := postgresrepo.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			Driver: cfg.StoreDriver,
			Users:  postgresrepo.NewUserRepo(pool),
			Posts:  postgresrepo.NewPostRepo(pool),
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case config.DriverMongo:
		client, err := ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Store{
			Driver: cfg.StoreDriver,
			Users:  mongorepo.NewUserRepo(db),
			Posts:  mongorepo.NewPostRepo(db),
			close:  client.Disconnect,
		}, nil

	case config.DriverMemory:
		return &Store{
			Driver: cfg.StoreDriver,
			Users:  memory.NewUserRepo(),
			Posts:  memory.NewPostRepo(),
		}, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
