package service

import (
	"context"
	"errors"
	"testing"

	"directory-service/internal/model"
	"directory-service/pkg/jwtutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)

	u, err := f.auth.Register(context.Background(), RegisterInput{
		PartnershipNumber: "PN001",
		Email:             "a@x.com",
		Password:          "secret1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	require.NotNil(t, u.Email)
	assert.Equal(t, "a@x.com", *u.Email)
	assert.Nil(t, u.Phone)
	assert.Equal(t, model.UserTypeCommunity, u.UserType)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "secret1", u.Password)
	assert.True(t, u.CheckPassword("secret1"))
	assert.Equal(t, 1, f.users.Count())
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{
			name: "missing contact",
			in:   RegisterInput{PartnershipNumber: "PN1", Password: "secret1"},
			want: ErrMissingContact,
		},
		{
			name: "blank contact",
			in:   RegisterInput{PartnershipNumber: "PN1", Email: "  ", Phone: "", Password: "secret1"},
			want: ErrMissingContact,
		},
		{
			name: "short password",
			in:   RegisterInput{PartnershipNumber: "PN1", Email: "a@x.com", Password: "12345"},
			want: ErrWeakPassword,
		},
		{
			name: "unknown user type",
			in:   RegisterInput{PartnershipNumber: "PN1", Email: "a@x.com", Password: "secret1", UserType: "admin"},
			want: ErrInvalidUserType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.auth.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, KindValidation, KindOf(err))
			assert.Equal(t, 0, f.users.Count())
		})
	}
}

func TestRegisterDuplicates(t *testing.T) {
	ctx := context.Background()

	t.Run("email", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "PN001", model.UserTypeCommunity, "a@x.com")

		_, err := f.auth.Register(ctx, RegisterInput{PartnershipNumber: "PN002", Email: "A@X.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
		assert.Equal(t, 1, f.users.Count())
	})

	t.Run("phone", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Register(ctx, RegisterInput{PartnershipNumber: "PN001", Phone: "0700000000", Password: "secret1"})
		require.NoError(t, err)

		_, err = f.auth.Register(ctx, RegisterInput{PartnershipNumber: "PN002", Phone: "0700000000", Password: "secret1"})
		assert.ErrorIs(t, err, ErrDuplicatePhone)
		assert.Equal(t, 1, f.users.Count())
	})

	t.Run("partnership number from constraint", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "PN001", model.UserTypeCommunity, "a@x.com")

		_, err := f.auth.Register(ctx, RegisterInput{PartnershipNumber: "PN001", Email: "b@x.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrDuplicatePartnershipNumber)
		assert.Equal(t, 1, f.users.Count())
	})
}

func TestRegisterRedactsPassword(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	f := newFixture(t)
	f.auth = NewAuthService(f.users, f.tokens, f.revoked, zap.New(core))

	_, err := f.auth.Register(context.Background(), RegisterInput{PartnershipNumber: "PN001", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	entries := logs.FilterMessage("register request").All()
	require.Len(t, entries, 1)
	payload, ok := entries[0].ContextMap()["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "****", payload["password"])
	assert.Equal(t, "PN001", payload["partnership_number"])

	for _, e := range logs.All() {
		for _, field := range e.Context {
			assert.NotEqual(t, "secret1", field.String)
		}
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "PN001", model.UserTypeBusiness, "a@x.com")

	res, err := f.auth.Login(context.Background(), "PN001", "secret1")
	require.NoError(t, err)

	assert.Equal(t, u.ID, res.User.ID)
	assert.Equal(t, model.UserTypeBusiness, res.User.UserType)
	assert.NotEqual(t, res.Tokens.Access, res.Tokens.Refresh)

	claims, err := f.tokens.Verify(res.Tokens.Access, jwtutil.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "business", claims.UserType)

	_, err = f.tokens.Verify(res.Tokens.Refresh, jwtutil.RefreshToken)
	assert.NoError(t, err)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	f.register(t, "PN001", model.UserTypeCommunity, "a@x.com")

	_, wrongPassword := f.auth.Login(context.Background(), "PN001", "nope-nope")
	_, unknownUser := f.auth.Login(context.Background(), "PN999", "secret1")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLoginAlwaysComparesPassword(t *testing.T) {
	f := newFixture(t)
	inactive := f.register(t, "PN002", model.UserTypeCommunity, "b@x.com")
	inactive.IsActive = false
	require.NoError(t, f.users.Update(context.Background(), inactive))
	f.register(t, "PN001", model.UserTypeCommunity, "a@x.com")

	var hashes []string
	f.auth.comparePassword = func(hash, plain string) bool {
		hashes = append(hashes, hash)
		return model.ComparePassword(hash, plain)
	}

	tests := []struct {
		name     string
		pn       string
		password string
		wantHash string
	}{
		{"unknown user", "PN999", "secret1", model.DummyPasswordHash()},
		{"wrong password", "PN001", "nope-nope", ""},
		{"inactive user", "PN002", "secret1", inactive.Password},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashes = nil
			_, err := f.auth.Login(context.Background(), tt.pn, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			require.Len(t, hashes, 1)
			assert.NotEmpty(t, hashes[0])
			if tt.wantHash != "" {
				assert.Equal(t, tt.wantHash, hashes[0])
			}
		})
	}
}

func TestLoginInactiveUser(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "PN001", model.UserTypeCommunity, "a@x.com")
	u.IsActive = false
	require.NoError(t, f.users.Update(context.Background(), u))

	_, err := f.auth.Login(context.Background(), "PN001", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "PN001", model.UserTypeCommunity, "a@x.com")

	login, err := f.auth.Login(ctx, "PN001", "secret1")
	require.NoError(t, err)

	pair, err := f.auth.Refresh(ctx, login.Tokens.Refresh)
	require.NoError(t, err)
	assert.NotEqual(t, login.Tokens.Refresh, pair.Refresh)

	_, err = f.auth.Refresh(ctx, login.Tokens.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken, "a used refresh token is revoked")

	_, err = f.auth.Refresh(ctx, pair.Refresh)
	assert.NoError(t, err)
}

func TestRefreshRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.register(t, "PN001", model.UserTypeCommunity, "a@x.com")

	login, err := f.auth.Login(ctx, "PN001", "secret1")
	require.NoError(t, err)

	_, err = f.auth.Refresh(ctx, login.Tokens.Access)
	assert.ErrorIs(t, err, ErrInvalidToken, "access tokens cannot refresh")

	_, err = f.auth.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	u.IsActive = false
	require.NoError(t, f.users.Update(ctx, u))
	_, err = f.auth.Refresh(ctx, login.Tokens.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken, "deactivated users cannot refresh")
}

func TestRefreshWithoutRevocationStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.auth = NewAuthService(f.users, f.tokens, nil, zap.NewNop())
	f.register(t, "PN001", model.UserTypeCommunity, "a@x.com")

	login, err := f.auth.Login(ctx, "PN001", "secret1")
	require.NoError(t, err)

	_, err = f.auth.Refresh(ctx, login.Tokens.Refresh)
	require.NoError(t, err)
	_, err = f.auth.Refresh(ctx, login.Tokens.Refresh)
	assert.NoError(t, err, "verification is stateless without a store")
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "PN001", model.UserTypeCommunity, "a@x.com")
	bob := f.register(t, "PN002", model.UserTypeCommunity, "b@x.com")

	login, err := f.auth.Login(ctx, "PN001", "secret1")
	require.NoError(t, err)

	err = f.auth.Logout(ctx, identityOf(bob), login.Tokens.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken, "cannot log out someone else's session")

	err = f.auth.Logout(ctx, nil, login.Tokens.Refresh)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	require.NoError(t, f.auth.Logout(ctx, identityOf(alice), login.Tokens.Refresh))

	_, err = f.auth.Refresh(ctx, login.Tokens.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
