package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vedran77/postboard/internal/repository"
)

//go:embed schema.sql
var schema string

// DB is the subset of pgx used by the repos. *pgxpool.Pool, *pgx.Conn and
// pgx.Tx all satisfy it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func EnsureSchema(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

const uniqueViolation = "23505"

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	field := "email"
	if strings.Contains(pgErr.ConstraintName, "username") {
		field = "username"
	}
	return &repository.DuplicateError{Field: field, Err: err}
}

func direction(asc bool) string {
	if asc {
		return "ASC"
	}
	return "DESC"
}

// limitArg maps the "no limit" page to NULL, which LIMIT treats as unbounded.
func limitArg(p repository.Page) any {
	if p.Limit <= 0 {
		return nil
	}
	return p.Limit
}
