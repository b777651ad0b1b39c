// Package memory is a process-local store used for development runs and
// tests. It hands out deep copies so callers never alias stored state, which
// makes read-modify-write races between requests behave like a real store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/vedran77/postboard/internal/domain"
	"github.com/vedran77/postboard/internal/repository"
)

type UserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
	order []uuid.UUID
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique(user); err != nil {
		return err
	}
	r.users[user.ID] = user.Clone()
	r.order = append(r.order, user.ID)
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[id].Clone(), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(func(u *domain.User) bool { return u.Email == email }), nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(func(u *domain.User) bool { return u.Username == username }), nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, *r.users[id].Clone())
	}
	return users, nil
}

func (r *UserRepo) Search(ctx context.Context, q repository.UserQuery) ([]domain.User, error) {
	r.mu.RLock()
	var matched []domain.User
	for _, id := range r.order {
		u := r.users[id]
		if q.Text == "" || matchesAny(q.Text, u.Username, u.FirstName, u.LastName, u.Blurb) {
			c := u.Clone()
			c.PasswordHash = ""
			matched = append(matched, *c)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i].FirstName, matched[j].FirstName
		if a == b {
			return matched[i].ID.String() < matched[j].ID.String()
		}
		if q.Ascending {
			return a < b
		}
		return a > b
	})
	return paginate(matched, q.Page), nil
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return false, nil
	}
	if err := r.checkUnique(user); err != nil {
		return false, err
	}
	r.users[user.ID] = user.Clone()
	return true, nil
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *UserRepo) findOne(match func(*domain.User) bool) *domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if u := r.users[id]; match(u) {
			return u.Clone()
		}
	}
	return nil
}

// checkUnique must be called with the write lock held.
func (r *UserRepo) checkUnique(user *domain.User) error {
	for id, u := range r.users {
		if id == user.ID {
			continue
		}
		if u.Email == user.Email {
			return &repository.DuplicateError{Field: "email"}
		}
		if u.Username == user.Username {
			return &repository.DuplicateError{Field: "username"}
		}
	}
	return nil
}

func matchesAny(text string, fields ...string) bool {
	needle := strings.ToLower(text)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, page repository.Page) []T {
	if page.Skip < 0 {
		page.Skip = 0
	}
	if page.Skip >= len(items) {
		return []T{}
	}
	items = items[page.Skip:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}
