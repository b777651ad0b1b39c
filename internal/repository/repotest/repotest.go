// Package repotest holds behavior checks shared by every store
// implementation. Store packages call Run from their own tests.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/postboard/internal/domain"
	"github.com/vedran77/postboard/internal/repository"
)

// Factory returns empty repositories for one subtest.
type Factory func(t *testing.T) (repository.UserRepository, repository.PostRepository)

func Run(t *testing.T, newRepos Factory) {
	t.Run("UserCRUD", func(t *testing.T) { testUserCRUD(t, newRepos) })
	t.Run("UserUnique", func(t *testing.T) { testUserUnique(t, newRepos) })
	t.Run("UserSearch", func(t *testing.T) { testUserSearch(t, newRepos) })
	t.Run("PostCRUD", func(t *testing.T) { testPostCRUD(t, newRepos) })
	t.Run("PostSearch", func(t *testing.T) { testPostSearch(t, newRepos) })
}

func NewUser(name string) *domain.User {
	u := &domain.User{
		ID:           uuid.New(),
		Email:        name + "@example.com",
		Username:     name,
		PasswordHash: "salt:hash",
		FirstName:    name,
		LastName:     "Store",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	u.SetPosts(nil)
	return u
}

func NewPost(owner uuid.UUID, content string, at time.Time) *domain.Post {
	p := &domain.Post{
		ID:       uuid.New(),
		Content:  content,
		OwnerID:  owner,
		PostDate: at.UTC().Truncate(time.Millisecond),
	}
	p.SetLikes(nil)
	return p
}

func testUserCRUD(t *testing.T, newRepos Factory) {
	users, _ := newRepos(t)
	ctx := context.Background()

	u := NewUser("alpha")
	require.NoError(t, users.Create(ctx, u))

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, "salt:hash", got.PasswordHash)
	assert.Empty(t, got.Posts)
	assert.Equal(t, 0, got.NumPosts)

	byEmail, err := users.GetByEmail(ctx, "alpha@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	byName, err := users.GetByUsername(ctx, "alpha")
	require.NoError(t, err)
	require.NotNil(t, byName)

	missing, err := users.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	p1, p2 := uuid.New(), uuid.New()
	got.SetPosts([]uuid.UUID{p1, p2})
	got.Blurb = "updated"
	found, err := users.Update(ctx, got)
	require.NoError(t, err)
	assert.True(t, found)

	again, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{p1, p2}, again.Posts)
	assert.Equal(t, 2, again.NumPosts)
	assert.Equal(t, "updated", again.Blurb)
	assert.Equal(t, "salt:hash", again.PasswordHash)

	found, err = users.Update(ctx, NewUser("ghost"))
	require.NoError(t, err)
	assert.False(t, found)

	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	deleted, err := users.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = users.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func testUserUnique(t *testing.T, newRepos Factory) {
	users, _ := newRepos(t)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, NewUser("one")))

	dupEmail := NewUser("two")
	dupEmail.Email = "one@example.com"
	var dup *repository.DuplicateError
	require.True(t, errors.As(users.Create(ctx, dupEmail), &dup))
	assert.Equal(t, "email", dup.Field)

	dupName := NewUser("three")
	dupName.Username = "one"
	require.True(t, errors.As(users.Create(ctx, dupName), &dup))
	assert.Equal(t, "username", dup.Field)
}

func testUserSearch(t *testing.T, newRepos Factory) {
	users, _ := newRepos(t)
	ctx := context.Background()

	for _, name := range []string{"carol", "alice", "bob"} {
		require.NoError(t, users.Create(ctx, NewUser(name)))
	}
	other := NewUser("zzz")
	other.LastName = "Elsewhere"
	other.Blurb = "nothing"
	require.NoError(t, users.Create(ctx, other))

	res, err := users.Search(ctx, repository.UserQuery{Text: "STORE", Ascending: true})
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, []string{"alice", "bob", "carol"}, firstNames(res))
	for _, u := range res {
		assert.Empty(t, u.PasswordHash)
	}

	res, err = users.Search(ctx, repository.UserQuery{Text: "store", Page: repository.Page{Skip: 1, Limit: 1}})
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, firstNames(res))

	res, err = users.Search(ctx, repository.UserQuery{Text: "NOTH"})
	require.NoError(t, err)
	assert.Equal(t, []string{"zzz"}, firstNames(res))
}

func testPostCRUD(t *testing.T, newRepos Factory) {
	_, posts := newRepos(t)
	ctx := context.Background()
	owner := uuid.New()

	p := NewPost(owner, "hello", time.Now())
	require.NoError(t, posts.Create(ctx, p))

	got, err := posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, owner, got.OwnerID)
	assert.Empty(t, got.Likes)
	assert.True(t, p.PostDate.Equal(got.PostDate))

	fan := uuid.New()
	got.ToggleLike(fan)
	got.Content = "edited"
	found, err := posts.Update(ctx, got)
	require.NoError(t, err)
	assert.True(t, found)

	again, err := posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", again.Content)
	assert.Equal(t, []uuid.UUID{fan}, again.Likes)
	assert.Equal(t, 1, again.NumLikes)

	missing, err := posts.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	deleted, err := posts.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = posts.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func testPostSearch(t *testing.T, newRepos Factory) {
	_, posts := newRepos(t)
	ctx := context.Background()
	owner := uuid.New()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 12; i++ {
		p := NewPost(owner, fmt.Sprintf("Topic %d", i), base.Add(time.Duration(i)*time.Minute))
		for j := 0; j < i%3; j++ {
			p.SetLikes(append(p.Likes, uuid.New()))
		}
		require.NoError(t, posts.Create(ctx, p))
		ids = append(ids, p.ID)
	}
	require.NoError(t, posts.Create(ctx, NewPost(owner, "unrelated", base)))

	res, err := posts.Search(ctx, repository.PostQuery{
		Text: "topic", SortBy: repository.SortByDate, Ascending: true,
		Page: repository.Page{Skip: 5, Limit: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, ids[5:10], domain.PostIDs(res))

	res, err = posts.Search(ctx, repository.PostQuery{Text: "TOPIC", SortBy: repository.SortByDate, Page: repository.Page{Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ids[11], ids[10]}, domain.PostIDs(res))

	res, err = posts.Search(ctx, repository.PostQuery{Text: "topic", SortBy: repository.SortByLikes})
	require.NoError(t, err)
	require.Len(t, res, 12)
	assert.Equal(t, 2, res[0].NumLikes)
	assert.Equal(t, 0, res[11].NumLikes)

	res, err = posts.Search(ctx, repository.PostQuery{IDs: []uuid.UUID{ids[3], ids[7]}, SortBy: repository.SortByDate})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ids[7], ids[3]}, domain.PostIDs(res))

	res, err = posts.Search(ctx, repository.PostQuery{IDs: []uuid.UUID{}})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func firstNames(users []domain.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.FirstName)
	}
	return out
}
