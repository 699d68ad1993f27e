package service

import (
	"context"
	"testing"
	"time"

	"directory-service/internal/model"
	"directory-service/internal/repository/repotest"
	"directory-service/pkg/config"
	"directory-service/pkg/jwtutil"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	users      *repotest.UserRepo
	categories *repotest.CategoryRepo
	businesses *repotest.BusinessRepo
	favorites  *repotest.FavoriteRepo
	revoked    *repotest.RevocationStore
	tokens     *jwtutil.JWTUtil

	auth     *AuthService
	business *BusinessService
	category *CategoryService
	favorite *FavoriteService
	profile  *ProfileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop()

	f := &fixture{
		users:      repotest.NewUserRepo(),
		categories: repotest.NewCategoryRepo(),
		businesses: repotest.NewBusinessRepo(),
		revoked:    repotest.NewRevocationStore(),
		tokens: jwtutil.NewJWTUtil(&config.JWTConfig{
			SigningKey: "test-key",
			Issuer:     "directory-test",
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 24 * time.Hour,
		}),
	}
	f.favorites = repotest.NewFavoriteRepo(f.businesses)

	f.auth = NewAuthService(f.users, f.tokens, f.revoked, log)
	f.business = NewBusinessService(f.businesses, f.categories, f.users, log)
	f.category = NewCategoryService(f.categories, log)
	f.favorite = NewFavoriteService(f.favorites, f.businesses, log)
	f.profile = NewProfileService(f.users, log)
	return f
}

func (f *fixture) register(t *testing.T, pn string, userType model.UserType, email string) *model.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), RegisterInput{
		FirstName:         "Test",
		LastName:          "User",
		PartnershipNumber: pn,
		UserType:          string(userType),
		Email:             email,
		Password:          "secret1",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) seedCategory(t *testing.T, name string) *model.Category {
	t.Helper()
	c, _, err := f.categories.FirstOrCreate(context.Background(), name)
	require.NoError(t, err)
	return c
}

func (f *fixture) createBusiness(t *testing.T, owner *model.User, categoryID, name string, mutate func(*BusinessInput)) *model.Business {
	t.Helper()
	in := BusinessInput{CategoryID: &categoryID, Name: &name}
	if mutate != nil {
		mutate(&in)
	}
	b, err := f.business.Create(context.Background(), identityOf(owner), in)
	require.NoError(t, err)
	return b
}

func identityOf(u *model.User) *Identity {
	return &Identity{UserID: u.ID, UserType: u.UserType}
}

func ptr[T any](v T) *T {
	return &v
}
