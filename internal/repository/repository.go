package repository

import (
	"context"

	"directory-service/internal/model"
)

// UserRepository is the credential store
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByPartnershipNumber(ctx context.Context, partnershipNumber string) (*model.User, error)
	// ExistsByEmail and ExistsByPhone ignore the user with id excludeID, if set
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	ExistsByPhone(ctx context.Context, phone, excludeID string) (bool, error)
	Update(ctx context.Context, user *model.User) error
}

// BusinessRepository stores business listings
type BusinessRepository interface {
	Create(ctx context.Context, business *model.Business) error
	GetByID(ctx context.Context, id string) (*model.Business, error)
	GetActiveByID(ctx context.Context, id string) (*model.Business, error)
	List(ctx context.Context, filter BusinessFilter) ([]model.Business, int64, error)
	Update(ctx context.Context, business *model.Business) error
	Deactivate(ctx context.Context, id string) error
}

// CategoryRepository stores the seeded categories
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id string) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	FirstOrCreate(ctx context.Context, name string) (*model.Category, bool, error)
}

// FavoriteRepository stores (user, business) bookmarks
type FavoriteRepository interface {
	Create(ctx context.Context, favorite *model.Favorite) error
	Exists(ctx context.Context, userID, businessID string) (bool, error)
	Delete(ctx context.Context, userID, businessID string) error
	ListByUser(ctx context.Context, userID string) ([]model.Favorite, error)
}

// Ordering values accepted by BusinessFilter.Ordering
const (
	OrderCreatedAsc  = "created_at"
	OrderCreatedDesc = "-created_at"
	OrderRatingAsc   = "rating"
	OrderRatingDesc  = "-rating"
)

var orderClauses = map[string]string{
	OrderCreatedAsc:  "businesses.created_at ASC",
	OrderCreatedDesc: "businesses.created_at DESC",
	OrderRatingAsc:   "businesses.rating ASC",
	OrderRatingDesc:  "businesses.rating DESC",
}

// ValidOrdering reports whether ordering is one of the supported values
func ValidOrdering(ordering string) bool {
	_, ok := orderClauses[ordering]
	return ok
}

// BusinessFilter narrows the public business list. Only active rows are ever returned.
type BusinessFilter struct {
	CategoryID string
	City       string
	County     string
	IsFeatured *bool
	Search     string
	Ordering   string
	Offset     int
	Limit      int
}

func (f BusinessFilter) orderClause() string {
	if clause, ok := orderClauses[f.Ordering]; ok {
		return clause
	}
	return orderClauses[OrderCreatedDesc]
}
