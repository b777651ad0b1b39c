package mongo

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/postboard/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestUserDocument_RecomputesNumPosts(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	doc := userDocument{
		ID:       uuid.NewString(),
		Email:    "a@b.com",
		Posts:    []string{p1.String(), p2.String()},
		NumPosts: 7, // stale value in the store must not leak out
	}

	u, err := doc.toDomain()
	require.NoError(t, err)
	assert.Equal(t, 2, u.NumPosts)
	assert.Equal(t, p1, u.Posts[0])
}

func TestUserDocument_RejectsForeignIDs(t *testing.T) {
	_, err := userDocument{ID: "5f8d0d55b54764421b7156c9"}.toDomain()
	assert.Error(t, err)

	_, err = userDocument{ID: uuid.NewString(), Posts: []string{"nope"}}.toDomain()
	assert.Error(t, err)
}

func TestPostDocument_CanonicalIDs(t *testing.T) {
	owner := uuid.New()
	liker := uuid.New()
	doc := postDocument{
		ID:       uuid.NewString(),
		Owner:    owner.String(),
		Likes:    []string{liker.String(), liker.String()},
		PostDate: time.Now(),
	}

	p, err := doc.toDomain()
	require.NoError(t, err)
	assert.Equal(t, owner, p.OwnerID)
	assert.Equal(t, 1, p.NumLikes)

	back := newPostDocument(p)
	assert.Equal(t, owner.String(), back.Owner)
	assert.Equal(t, 1, back.NumLikes)
}

func TestMapDuplicateKey(t *testing.T) {
	assert.NoError(t, mapDuplicateKey(nil))

	plain := errors.New("boom")
	assert.Equal(t, plain, mapDuplicateKey(plain))

	dupErr := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: postboard.users index: username_1 dup key",
	}}}
	var dup *repository.DuplicateError
	require.True(t, errors.As(mapDuplicateKey(dupErr), &dup))
	assert.Equal(t, "username", dup.Field)
}
