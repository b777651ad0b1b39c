package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vedran77/postboard/internal/domain"
)

// Lookups return (nil, nil) when nothing matches. Writes against a missing
// id are no-ops that report found=false.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// Search never loads password hashes.
	Search(ctx context.Context, q UserQuery) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	Search(ctx context.Context, q PostQuery) ([]domain.Post, error)
	Update(ctx context.Context, post *domain.Post) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type SortField string

const (
	SortByDate  SortField = "date"
	SortByLikes SortField = "likes"
)

type Page struct {
	Skip  int
	Limit int // 0 means unlimited
}

// PostQuery selects posts. Empty Text matches everything; a non-nil IDs
// restricts the result to those ids (an empty, non-nil slice matches nothing).
type PostQuery struct {
	Text      string
	IDs       []uuid.UUID
	SortBy    SortField
	Ascending bool
	Page      Page
}

// UserQuery matches Text case-insensitively against username, first name,
// last name and blurb. Results are ordered by first name.
type UserQuery struct {
	Text      string
	Ascending bool
	Page      Page
}

// DuplicateError reports a unique-index violation on Field.
type DuplicateError struct {
	Field string
	Err   error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate value for %s", e.Field)
}

func (e *DuplicateError) Unwrap() error { return e.Err }
