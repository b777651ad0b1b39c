package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/postboard/internal/domain"
	"github.com/vedran77/postboard/internal/logging"
	"github.com/vedran77/postboard/internal/repository"
	"github.com/vedran77/postboard/internal/repository/memory"
)

var errStoreDown = errors.New("store unavailable")

type testEnv struct {
	users  *memory.UserRepo
	posts  *memory.PostRepo
	creds  *Credentials
	auth   *AuthService
	post   *PostService
	user   *UserService
	search *SearchService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, nil, nil)
}

// newTestEnvWith lets a test swap either repository for a wrapper.
func newTestEnvWith(t *testing.T, wrapUsers func(*memory.UserRepo) repository.UserRepository, wrapPosts func(*memory.PostRepo) repository.PostRepository) *testEnv {
	t.Helper()

	env := &testEnv{
		users: memory.NewUserRepo(),
		posts: memory.NewPostRepo(),
		creds: NewCredentials("test-secret"),
	}

	var users repository.UserRepository = env.users
	if wrapUsers != nil {
		users = wrapUsers(env.users)
	}
	var posts repository.PostRepository = env.posts
	if wrapPosts != nil {
		posts = wrapPosts(env.posts)
	}

	env.auth = NewAuthService(users, env.creds)
	env.post = NewPostService(posts, users, logging.Discard())
	env.user = NewUserService(users, env.creds)
	env.search = NewSearchService(posts, users)
	return env
}

func (e *testEnv) signup(t *testing.T, username, first string) *domain.User {
	t.Helper()
	resp, err := e.auth.Signup(context.Background(), SignupInput{
		Email:     username + "@example.com",
		Username:  username,
		Password:  "pw-" + username,
		FirstName: first,
		LastName:  "Tester",
	})
	require.NoError(t, err)
	return resp.User
}

// stored reads the raw user, hash included, straight from the store.
func (e *testEnv) stored(t *testing.T, u *domain.User) *domain.User {
	t.Helper()
	got, err := e.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	return got
}

type failingUserRepo struct {
	*memory.UserRepo
	failUpdate bool
}

func (r *failingUserRepo) Update(ctx context.Context, user *domain.User) (bool, error) {
	if r.failUpdate {
		return false, errStoreDown
	}
	return r.UserRepo.Update(ctx, user)
}

type failingPostRepo struct {
	*memory.PostRepo
	failDelete bool
}

func (r *failingPostRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if r.failDelete {
		return false, errStoreDown
	}
	return r.PostRepo.Delete(ctx, id)
}
