package service

import (
	"context"
	"testing"

	"directory-service/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBusiness(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "PN001", model.UserTypeBusiness, "owner@x.com")
	salon := f.seedCategory(t, "Salon")

	b := f.createBusiness(t, owner, salon.ID, "  Kinyozi  ", func(in *BusinessInput) {
		in.City = ptr("Nairobi")
		in.Rating = ptr(4.5)
	})

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, owner.ID, b.UserID)
	assert.Equal(t, "Kinyozi", b.Name)
	assert.Equal(t, "Nairobi", b.City)
	assert.True(t, b.IsActive)
	require.NotNil(t, b.Category)
	assert.Equal(t, "salon", b.Category.Slug)
}

func TestCreateBusinessRejectsNonBusinessUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	member := f.register(t, "PN001", model.UserTypeCommunity, "m@x.com")
	salon := f.seedCategory(t, "Salon")

	_, err := f.business.Create(ctx, identityOf(member), BusinessInput{CategoryID: &salon.ID, Name: ptr("Shop")})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, KindAuthorization, KindOf(err))

	// a forged role claim is caught by re-reading the stored user
	forged := &Identity{UserID: member.ID, UserType: model.UserTypeBusiness}
	_, err = f.business.Create(ctx, forged, BusinessInput{CategoryID: &salon.ID, Name: ptr("Shop")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.business.Create(ctx, nil, BusinessInput{CategoryID: &salon.ID, Name: ptr("Shop")})
	assert.ErrorIs(t, err, ErrInvalidToken)

	page, err := f.business.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestCreateBusinessValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.register(t, "PN001", model.UserTypeBusiness, "owner@x.com")
	salon := f.seedCategory(t, "Salon")
	id := identityOf(owner)

	_, err := f.business.Create(ctx, id, BusinessInput{CategoryID: ptr(uuid.NewString()), Name: ptr("Shop")})
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = f.business.Create(ctx, id, BusinessInput{CategoryID: ptr("salon"), Name: ptr("Shop")})
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = f.business.Create(ctx, id, BusinessInput{Name: ptr("Shop")})
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = f.business.Create(ctx, id, BusinessInput{CategoryID: &salon.ID, Name: ptr("   ")})
	assert.ErrorIs(t, err, ErrMissingName)

	_, err = f.business.Create(ctx, id, BusinessInput{CategoryID: &salon.ID, Name: ptr("Shop"), Rating: ptr(5.5)})
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestUpdateBusiness(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.register(t, "PN001", model.UserTypeBusiness, "owner@x.com")
	rival := f.register(t, "PN002", model.UserTypeBusiness, "rival@x.com")
	member := f.register(t, "PN003", model.UserTypeCommunity, "m@x.com")
	salon := f.seedCategory(t, "Salon")
	spa := f.seedCategory(t, "Spa")

	b := f.createBusiness(t, owner, salon.ID, "Shop", func(in *BusinessInput) {
		in.City = ptr("Nairobi")
	})

	updated, err := f.business.Update(ctx, identityOf(owner), b.ID, BusinessInput{
		Name:       ptr("Shop Two"),
		CategoryID: &spa.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Shop Two", updated.Name)
	assert.Equal(t, spa.ID, updated.CategoryID)
	assert.Equal(t, "Nairobi", updated.City, "unset fields are kept")

	_, err = f.business.Update(ctx, identityOf(rival), b.ID, BusinessInput{Name: ptr("Mine")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.business.Update(ctx, identityOf(member), b.ID, BusinessInput{Name: ptr("Mine")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.business.Update(ctx, identityOf(owner), uuid.NewString(), BusinessInput{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	stored, err := f.business.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shop Two", stored.Name)
}

func TestDeactivateBusiness(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.register(t, "PN001", model.UserTypeBusiness, "owner@x.com")
	rival := f.register(t, "PN002", model.UserTypeBusiness, "rival@x.com")
	salon := f.seedCategory(t, "Salon")
	b := f.createBusiness(t, owner, salon.ID, "Shop", nil)

	assert.ErrorIs(t, f.business.Deactivate(ctx, identityOf(rival), b.ID), ErrForbidden)

	require.NoError(t, f.business.Deactivate(ctx, identityOf(owner), b.ID))

	_, err := f.business.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	assert.ErrorIs(t, f.business.Deactivate(ctx, identityOf(owner), b.ID), ErrBusinessNotFound)

	_, err = f.business.Update(ctx, identityOf(owner), b.ID, BusinessInput{Name: ptr("Back")})
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestGetBusiness(t *testing.T) {
	f := newFixture(t)

	_, err := f.business.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	_, err = f.business.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrBusinessNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestListBusinesses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.register(t, "PN001", model.UserTypeBusiness, "owner@x.com")
	salon := f.seedCategory(t, "Salon")
	gym := f.seedCategory(t, "Gym")

	first := f.createBusiness(t, owner, salon.ID, "Cuts", func(in *BusinessInput) {
		in.City = ptr("Nairobi")
		in.County = ptr("Nairobi")
		in.Rating = ptr(3.0)
	})
	second := f.createBusiness(t, owner, gym.ID, "Iron Gym", func(in *BusinessInput) {
		in.City = ptr("Mombasa")
		in.Description = ptr("weights and cardio")
		in.Rating = ptr(4.0)
		in.IsFeatured = ptr(true)
	})
	hidden := f.createBusiness(t, owner, salon.ID, "Closed Cuts", func(in *BusinessInput) {
		in.City = ptr("Nairobi")
	})
	require.NoError(t, f.business.Deactivate(ctx, identityOf(owner), hidden.ID))

	ids := func(p *BusinessPage) []string {
		out := make([]string, 0, len(p.Items))
		for _, b := range p.Items {
			out = append(out, b.ID)
		}
		return out
	}

	tests := []struct {
		name  string
		query ListQuery
		want  []string
	}{
		{"default newest first, inactive hidden", ListQuery{}, []string{second.ID, first.ID}},
		{"oldest first", ListQuery{Ordering: "created_at"}, []string{first.ID, second.ID}},
		{"rating desc", ListQuery{Ordering: "-rating"}, []string{second.ID, first.ID}},
		{"rating asc", ListQuery{Ordering: "rating"}, []string{first.ID, second.ID}},
		{"category by id", ListQuery{Category: salon.ID}, []string{first.ID}},
		{"category by slug", ListQuery{Category: "gym"}, []string{second.ID}},
		{"unknown slug", ListQuery{Category: "bakery"}, []string{}},
		{"city", ListQuery{City: "Nairobi"}, []string{first.ID}},
		{"county", ListQuery{County: "Nairobi"}, []string{first.ID}},
		{"featured", ListQuery{IsFeatured: ptr(true)}, []string{second.ID}},
		{"not featured", ListQuery{IsFeatured: ptr(false)}, []string{first.ID}},
		{"search description", ListQuery{Search: "CARDIO"}, []string{second.ID}},
		{"search city", ListQuery{Search: "mombasa"}, []string{second.ID}},
		{"search name", ListQuery{Search: "cuts"}, []string{first.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.business.List(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(page))
			assert.Equal(t, int64(len(tt.want)), page.Total)
		})
	}
}

func TestListBusinessesPagination(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.register(t, "PN001", model.UserTypeBusiness, "owner@x.com")
	salon := f.seedCategory(t, "Salon")
	for _, name := range []string{"a", "b", "c"} {
		f.createBusiness(t, owner, salon.ID, name, nil)
	}

	page, err := f.business.List(ctx, ListQuery{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.PageSize)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "a", page.Items[0].Name)

	page, err = f.business.List(ctx, ListQuery{Page: -1, PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, maxPageSize, page.PageSize)

	page, err = f.business.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, page.PageSize)

	_, err = f.business.List(ctx, ListQuery{Ordering: "name"})
	assert.ErrorIs(t, err, ErrInvalidOrdering)
}
