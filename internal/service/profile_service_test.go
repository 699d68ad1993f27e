package service

import (
	"context"
	"testing"

	"directory-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileGet(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "PN001", model.UserTypeCommunity, "a@x.com")

	got, err := f.profile.Get(context.Background(), identityOf(u))
	require.NoError(t, err)
	assert.Equal(t, "PN001", got.PartnershipNumber)

	_, err = f.profile.Get(context.Background(), &Identity{UserID: "gone"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestProfileUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.register(t, "PN001", model.UserTypeCommunity, "a@x.com")
	f.register(t, "PN002", model.UserTypeCommunity, "b@x.com")
	id := identityOf(u)

	updated, err := f.profile.Update(ctx, id, ProfileInput{FirstName: ptr("Ada"), Phone: ptr("0700000000")})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.FirstName)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "0700000000", *updated.Phone)

	_, err = f.profile.Update(ctx, id, ProfileInput{Email: ptr("B@x.com")})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// keeping your own email is not a duplicate
	_, err = f.profile.Update(ctx, id, ProfileInput{Email: ptr("a@x.com")})
	assert.NoError(t, err)

	updated, err = f.profile.Update(ctx, id, ProfileInput{Email: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.Email)

	_, err = f.profile.Update(ctx, id, ProfileInput{Phone: ptr("")})
	assert.ErrorIs(t, err, ErrMissingContact)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.register(t, "PN001", model.UserTypeCommunity, "a@x.com")
	id := identityOf(u)

	assert.ErrorIs(t, f.profile.ChangePassword(ctx, id, "bad", "newpass1"), ErrWrongPassword)
	assert.ErrorIs(t, f.profile.ChangePassword(ctx, id, "secret1", "short"), ErrWeakPassword)

	require.NoError(t, f.profile.ChangePassword(ctx, id, "secret1", "newpass1"))

	_, err := f.auth.Login(ctx, "PN001", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, "PN001", "newpass1")
	assert.NoError(t, err)
}
