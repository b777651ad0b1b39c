package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateUser_WrongAuthPasswordChangesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.signup(t, "jack", "Jack")
	before := env.stored(t, u)

	_, err := env.user.Update(ctx, u.ID.String(), UpdateUserInput{
		Password:     "new-secret",
		AuthPassword: "wrong",
		FirstName:    "Changed",
		Blurb:        "should not land",
	}, false)

	var bad *BadCredentialsError
	require.True(t, errors.As(err, &bad))
	assert.Equal(t, 401, StatusCode(err))

	after := env.stored(t, u)
	assert.Equal(t, before, after)
}

func TestUpdateUser_PasswordChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.signup(t, "kate", "Kate")

	got, err := env.user.Update(ctx, u.ID.String(), UpdateUserInput{
		Password:     "rotated",
		AuthPassword: "pw-kate",
	}, false)
	require.NoError(t, err)
	assert.Empty(t, got.PasswordHash)

	_, err = env.auth.CheckCredentials(ctx, SigninInput{Username: "kate", Password: "rotated"})
	require.NoError(t, err)
	_, err = env.auth.CheckCredentials(ctx, SigninInput{Username: "kate", Password: "pw-kate"})
	assert.EqualError(t, err, "Incorrect password")
}

func TestUpdateUser_UnrelatedFieldsKeepHash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.signup(t, "liam", "Liam")
	hash := env.stored(t, u).PasswordHash

	got, err := env.user.Update(ctx, u.ID.String(), UpdateUserInput{Blurb: "hi", ProfileURL: "https://p"}, false)
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Blurb)
	assert.Equal(t, "https://p", got.ProfileURL)
	assert.Equal(t, hash, env.stored(t, u).PasswordHash)
}

func TestUpdateUser_FalsyFieldsAreIgnored(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.signup(t, "mia", "Mia")

	_, err := env.user.Update(ctx, u.ID.String(), UpdateUserInput{Blurb: "keep me"}, false)
	require.NoError(t, err)

	got, err := env.user.Update(ctx, u.ID.String(), UpdateUserInput{Blurb: "", FirstName: ""}, false)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Blurb)
	assert.Equal(t, "Mia", got.FirstName)
}

func TestUpdateUser_AdminFlags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.signup(t, "ned", "Ned")

	got, err := env.user.Update(ctx, u.ID.String(), UpdateUserInput{IsAdmin: true, IsVerified: true}, false)
	require.NoError(t, err)
	assert.False(t, got.IsAdmin)
	assert.False(t, got.IsVerified)

	got, err = env.user.Update(ctx, u.ID.String(), UpdateUserInput{IsVerified: true}, true)
	require.NoError(t, err)
	assert.False(t, got.IsAdmin)
	assert.True(t, got.IsVerified)
}

func TestUpdateUser_EmailAndUniqueness(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.signup(t, "olga", "Olga")
	env.signup(t, "pete", "Pete")

	_, err := env.user.Update(ctx, u.ID.String(), UpdateUserInput{Email: "broken"}, false)
	assert.Equal(t, 400, StatusCode(err))

	_, err = env.user.Update(ctx, u.ID.String(), UpdateUserInput{Username: "PETE"}, false)
	var conflict *UniqueConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "username", conflict.Field)

	got, err := env.user.Update(ctx, u.ID.String(), UpdateUserInput{Email: "OLGA@example.com", Username: "olga"}, false)
	require.NoError(t, err, "re-submitting own values is not a conflict")
	assert.Equal(t, "olga@example.com", got.Email)

	got, err = env.user.Update(ctx, u.ID.String(), UpdateUserInput{Email: "Olga2@Example.com"}, false)
	require.NoError(t, err)
	assert.Equal(t, "olga2@example.com", got.Email)
}

func TestUserGetListDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.signup(t, "quinn", "Quinn")
	env.signup(t, "rosa", "Rosa")

	got, err := env.user.Get(ctx, u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Quinn Tester", got.FullName)
	assert.Empty(t, got.PasswordHash)

	_, err = env.user.Get(ctx, "zzz")
	assert.Equal(t, 404, StatusCode(err))

	all, err := env.user.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, x := range all {
		assert.Empty(t, x.PasswordHash)
	}

	msg, err := env.user.Delete(ctx, u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "User with id: "+u.ID.String()+" was successfully deleted", msg)

	_, err = env.user.Delete(ctx, u.ID.String())
	assert.Equal(t, 404, StatusCode(err))
	_, err = env.user.Delete(ctx, uuid.Nil.String())
	assert.Equal(t, 404, StatusCode(err))
}
