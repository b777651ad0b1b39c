package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/postboard/internal/domain"
	"github.com/vedran77/postboard/internal/logging"
	"github.com/vedran77/postboard/internal/repository"
)

// userPostsLimit caps GET /posts/user/{uid}.
const userPostsLimit = 5

// PostService owns every write that touches both a post and its owner.
// The store has no multi-document transactions, so each pair of writes is
// ordered so that a failure of the second can be undone by hand.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	log      logging.Logger
	now      func() time.Time
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, log logging.Logger) *PostService {
	if log == nil {
		log = logging.Discard()
	}
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type CreatePostInput struct {
	Content string `json:"content"`
	UID     string `json:"uid"`
}

type UpdatePostInput struct {
	Content string `json:"content"`
}

// Create writes the post, then appends it to the owner's posts. The owner
// is resolved before anything is written.
func (s *PostService) Create(ctx context.Context, input CreatePostInput) (*domain.Post, *domain.User, error) {
	if input.Content == "" {
		return nil, nil, &MissingFieldError{Field: "content"}
	}
	if input.UID == "" {
		return nil, nil, &MissingFieldError{Field: "uid"}
	}

	owner, err := s.loadUser(ctx, input.UID, "owner")
	if err != nil {
		return nil, nil, err
	}

	post := &domain.Post{
		ID:       uuid.New(),
		Content:  input.Content,
		OwnerID:  owner.ID,
		PostDate: s.now(),
	}
	post.SetLikes(nil)

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, nil, fmt.Errorf("creating post: %w", err)
	}

	owner.AddPost(post.ID)
	found, err := s.userRepo.Update(ctx, owner)
	if err == nil && !found {
		err = fmt.Errorf("owner %s disappeared", owner.ID)
	}
	if err != nil {
		pw := &PartialWriteError{Op: "create post", PostID: post.ID.String(), OwnerID: owner.ID.String(), Err: err}
		if _, cerr := s.postRepo.Delete(ctx, post.ID); cerr != nil {
			pw.CompensationErr = cerr
		} else {
			pw.Compensated = true
		}
		s.log.Error(ctx, "post create left a partial write",
			"post_id", pw.PostID, "owner_id", pw.OwnerID, "compensated", pw.Compensated, "error", err)
		return nil, nil, pw
	}

	return post.WithOwner(owner), owner.Sanitized(), nil
}

func (s *PostService) Get(ctx context.Context, rawID string) (*domain.Post, error) {
	post, err := s.loadPost(ctx, rawID)
	if err != nil {
		return nil, err
	}
	return s.populateOne(ctx, post)
}

func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return populate(ctx, s.userRepo, posts)
}

// UpdateContent edits the post body. An empty content leaves the post as is.
func (s *PostService) UpdateContent(ctx context.Context, rawID string, input UpdatePostInput) (*domain.Post, error) {
	post, err := s.loadPost(ctx, rawID)
	if err != nil {
		return nil, err
	}

	if input.Content != "" {
		post.Content = input.Content
		found, err := s.postRepo.Update(ctx, post)
		if err != nil {
			return nil, fmt.Errorf("updating post: %w", err)
		}
		if !found {
			return nil, &NotFoundError{ID: rawID}
		}
	}
	return s.populateOne(ctx, post)
}

// Delete unlinks the post from its owner, then removes it. It returns the
// owner as persisted.
func (s *PostService) Delete(ctx context.Context, rawID string) (*domain.User, error) {
	post, err := s.loadPost(ctx, rawID)
	if err != nil {
		return nil, err
	}

	owner, err := s.userRepo.GetByID(ctx, post.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("loading owner: %w", err)
	}
	if owner == nil {
		return nil, &NotFoundError{ID: post.OwnerID.String(), Role: "owner"}
	}

	previous := domain.CloneIDs(owner.Posts)
	owner.RemovePost(post.ID)
	found, err := s.userRepo.Update(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("updating owner: %w", err)
	}
	if !found {
		return nil, &NotFoundError{ID: owner.ID.String(), Role: "owner"}
	}

	deleted, err := s.postRepo.Delete(ctx, post.ID)
	if err == nil && !deleted {
		err = fmt.Errorf("post %s disappeared", post.ID)
	}
	if err != nil {
		pw := &PartialWriteError{Op: "delete post", PostID: post.ID.String(), OwnerID: owner.ID.String(), Err: err}
		owner.SetPosts(previous)
		if _, cerr := s.userRepo.Update(ctx, owner); cerr != nil {
			pw.CompensationErr = cerr
		} else {
			pw.Compensated = true
		}
		s.log.Error(ctx, "post delete left a partial write",
			"post_id", pw.PostID, "owner_id", pw.OwnerID, "compensated", pw.Compensated, "error", err)
		return nil, pw
	}

	return owner.Sanitized(), nil
}

// ToggleLike adds uid to the post's likes, or removes it if already there.
func (s *PostService) ToggleLike(ctx context.Context, rawID, uid string) (*domain.Post, error) {
	post, err := s.loadPost(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if uid == "" {
		return nil, &MissingFieldError{Field: "uid"}
	}
	liker, err := s.loadUser(ctx, uid, "")
	if err != nil {
		return nil, err
	}

	post.ToggleLike(liker.ID)
	found, err := s.postRepo.Update(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("updating likes: %w", err)
	}
	if !found {
		return nil, &NotFoundError{ID: rawID}
	}
	return s.populateOne(ctx, post)
}

// ListByUser returns the newest posts referenced by the user's posts list.
func (s *PostService) ListByUser(ctx context.Context, uid string) ([]domain.Post, error) {
	owner, err := s.loadUser(ctx, uid, "")
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.Search(ctx, repository.PostQuery{
		IDs:    append([]uuid.UUID{}, owner.Posts...),
		SortBy: repository.SortByDate,
		Page:   repository.Page{Limit: userPostsLimit},
	})
	if err != nil {
		return nil, fmt.Errorf("finding user posts: %w", err)
	}
	return populate(ctx, s.userRepo, posts)
}

func (s *PostService) loadPost(ctx context.Context, rawID string) (*domain.Post, error) {
	id, ok := domain.ParseID(rawID)
	if !ok {
		return nil, &NotFoundError{ID: rawID}
	}
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading post: %w", err)
	}
	if post == nil {
		return nil, &NotFoundError{ID: rawID}
	}
	return post, nil
}

func (s *PostService) loadUser(ctx context.Context, rawID, role string) (*domain.User, error) {
	return loadUser(ctx, s.userRepo, rawID, role)
}

func (s *PostService) populateOne(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	owner, err := s.userRepo.GetByID(ctx, post.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("loading owner: %w", err)
	}
	return post.WithOwner(owner), nil
}

func loadUser(ctx context.Context, repo repository.UserRepository, rawID, role string) (*domain.User, error) {
	id, ok := domain.ParseID(rawID)
	if !ok {
		return nil, &NotFoundError{ID: rawID, Role: role}
	}
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if user == nil {
		return nil, &NotFoundError{ID: rawID, Role: role}
	}
	return user, nil
}

// populate attaches the sanitized owner to each post. A post whose owner no
// longer exists is returned without one.
func populate(ctx context.Context, repo repository.UserRepository, posts []domain.Post) ([]domain.Post, error) {
	owners := make(map[uuid.UUID]*domain.User)
	out := make([]domain.Post, 0, len(posts))
	for i := range posts {
		ownerID := posts[i].OwnerID
		owner, seen := owners[ownerID]
		if !seen {
			var err error
			owner, err = repo.GetByID(ctx, ownerID)
			if err != nil {
				return nil, fmt.Errorf("loading owner %s: %w", ownerID, err)
			}
			owners[ownerID] = owner
		}
		out = append(out, *posts[i].WithOwner(owner))
	}
	return out, nil
}
