package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/vedran77/postboard/internal/domain"
	"github.com/vedran77/postboard/internal/repository"
)

type PostRepo struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]*domain.Post
	order []uuid.UUID
}

func NewPostRepo() *PostRepo {
	return &PostRepo{posts: make(map[uuid.UUID]*domain.Post)}
}

func (r *PostRepo) Create(ctx context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := post.Clone()
	stored.Owner = nil
	r.posts[post.ID] = stored
	r.order = append(r.order, post.ID)
	return nil
}

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.posts[id].Clone(), nil
}

func (r *PostRepo) List(ctx context.Context) ([]domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]domain.Post, 0, len(r.order))
	for _, id := range r.order {
		posts = append(posts, *r.posts[id].Clone())
	}
	return posts, nil
}

func (r *PostRepo) Search(ctx context.Context, q repository.PostQuery) ([]domain.Post, error) {
	var allowed map[uuid.UUID]struct{}
	if q.IDs != nil {
		allowed = make(map[uuid.UUID]struct{}, len(q.IDs))
		for _, id := range q.IDs {
			allowed[id] = struct{}{}
		}
	}

	r.mu.RLock()
	var matched []domain.Post
	for _, id := range r.order {
		p := r.posts[id]
		if allowed != nil {
			if _, ok := allowed[id]; !ok {
				continue
			}
		}
		if q.Text == "" || matchesAny(q.Text, p.Content) {
			matched = append(matched, *p.Clone())
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return lessPost(matched[i], matched[j], q.SortBy, q.Ascending)
	})
	return paginate(matched, q.Page), nil
}

func (r *PostRepo) Update(ctx context.Context, post *domain.Post) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[post.ID]; !ok {
		return false, nil
	}
	stored := post.Clone()
	stored.Owner = nil
	r.posts[post.ID] = stored
	return true, nil
}

func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return false, nil
	}
	delete(r.posts, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// lessPost orders by the requested key, falling back to id so pages are stable.
func lessPost(a, b domain.Post, by repository.SortField, asc bool) bool {
	var cmp int
	switch by {
	case repository.SortByLikes:
		cmp = a.NumLikes - b.NumLikes
	default:
		cmp = a.PostDate.Compare(b.PostDate)
	}
	if cmp == 0 {
		return a.ID.String() < b.ID.String()
	}
	if asc {
		return cmp < 0
	}
	return cmp > 0
}
