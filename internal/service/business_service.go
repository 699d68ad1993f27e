package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"directory-service/internal/model"
	"directory-service/internal/repository"
	"directory-service/pkg/logger"
	"directory-service/prometheus"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// BusinessService manages business listings
type BusinessService struct {
	businesses repository.BusinessRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	log        *zap.Logger
}

func NewBusinessService(
	businesses repository.BusinessRepository,
	categories repository.CategoryRepository,
	users repository.UserRepository,
	log *zap.Logger,
) *BusinessService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BusinessService{businesses: businesses, categories: categories, users: users, log: log}
}

// ListQuery holds the public list parameters. Category accepts an id or a slug.
type ListQuery struct {
	Category   string
	City       string
	County     string
	IsFeatured *bool
	Search     string
	Ordering   string
	Page       int
	PageSize   int
}

// BusinessPage is one page of active businesses
type BusinessPage struct {
	Items    []model.Business `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// BusinessInput carries writable business fields. Nil fields are left unchanged on update.
type BusinessInput struct {
	CategoryID  *string
	Name        *string
	Description *string
	City        *string
	County      *string
	Address     *string
	Phone       *string
	Email       *string
	Website     *string
	Rating      *float64
	IsFeatured  *bool
}

// List returns active businesses matching q
func (s *BusinessService) List(ctx context.Context, q ListQuery) (*BusinessPage, error) {
	if q.Ordering != "" && !repository.ValidOrdering(q.Ordering) {
		return nil, ErrInvalidOrdering
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	switch {
	case size <= 0:
		size = defaultPageSize
	case size > maxPageSize:
		size = maxPageSize
	}

	result := &BusinessPage{Items: []model.Business{}, Page: page, PageSize: size}

	filter := repository.BusinessFilter{
		City:       strings.TrimSpace(q.City),
		County:     strings.TrimSpace(q.County),
		IsFeatured: q.IsFeatured,
		Search:     strings.TrimSpace(q.Search),
		Ordering:   q.Ordering,
		Offset:     (page - 1) * size,
		Limit:      size,
	}

	if category := strings.TrimSpace(q.Category); category != "" {
		id, err := s.resolveCategory(ctx, category)
		if errors.Is(err, repository.ErrNotFound) {
			return result, nil
		}
		if err != nil {
			return nil, err
		}
		filter.CategoryID = id
	}

	items, total, err := s.businesses.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	if items != nil {
		result.Items = items
	}
	result.Total = total
	return result, nil
}

func (s *BusinessService) resolveCategory(ctx context.Context, category string) (string, error) {
	if isID(category) {
		return category, nil
	}
	c, err := s.categories.GetBySlug(ctx, strings.ToLower(category))
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

// Get returns an active business
func (s *BusinessService) Get(ctx context.Context, id string) (*model.Business, error) {
	if !isID(id) {
		return nil, ErrBusinessNotFound
	}
	b, err := s.businesses.GetActiveByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}
	return b, nil
}

// Create stores a business owned by the caller. The role is re-checked against
// the stored user, not only the token.
func (s *BusinessService) Create(ctx context.Context, identity *Identity, in BusinessInput) (*model.Business, error) {
	log := logger.FromContext(ctx, s.log)

	if err := RequireBusiness(identity, nil); err != nil {
		return nil, err
	}

	owner, err := s.users.GetByID(ctx, identity.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, fmt.Errorf("load owner: %w", err)
	}
	if !owner.IsBusiness() || !owner.IsActive {
		log.Warn("business creation by non-business user", zap.String("user_id", owner.ID))
		return nil, ErrForbidden
	}

	b := &model.Business{UserID: owner.ID, IsActive: true}
	if err := s.apply(ctx, b, in); err != nil {
		return nil, err
	}

	if err := s.businesses.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return nil, ErrUnknownCategory
		}
		return nil, fmt.Errorf("create business: %w", err)
	}

	prometheus.RecordBusinessOperation("create")
	log.Info("business created", zap.String("business_id", b.ID), zap.String("user_id", owner.ID))

	return b, nil
}

// Update changes an active business owned by the caller
func (s *BusinessService) Update(ctx context.Context, identity *Identity, id string, in BusinessInput) (*model.Business, error) {
	b, err := s.ownedActive(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, b, in); err != nil {
		return nil, err
	}

	if err := s.businesses.Update(ctx, b); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return nil, ErrUnknownCategory
		}
		return nil, fmt.Errorf("update business: %w", err)
	}

	prometheus.RecordBusinessOperation("update")
	logger.FromContext(ctx, s.log).Info("business updated", zap.String("business_id", b.ID))

	return b, nil
}

// Deactivate hides a business owned by the caller from listings
func (s *BusinessService) Deactivate(ctx context.Context, identity *Identity, id string) error {
	b, err := s.ownedActive(ctx, identity, id)
	if err != nil {
		return err
	}

	if err := s.businesses.Deactivate(ctx, b.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBusinessNotFound
		}
		return fmt.Errorf("deactivate business: %w", err)
	}

	prometheus.RecordBusinessOperation("deactivate")
	logger.FromContext(ctx, s.log).Info("business deactivated", zap.String("business_id", b.ID))
	return nil
}

func (s *BusinessService) ownedActive(ctx context.Context, identity *Identity, id string) (*model.Business, error) {
	if err := RequireBusiness(identity, nil); err != nil {
		return nil, err
	}

	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := RequireBusinessOwner(identity, b); err != nil {
		return nil, err
	}
	return b, nil
}

// apply copies the set fields of in onto b, checking the category exists
func (s *BusinessService) apply(ctx context.Context, b *model.Business, in BusinessInput) error {
	if in.CategoryID != nil {
		id := strings.TrimSpace(*in.CategoryID)
		if !isID(id) {
			return ErrUnknownCategory
		}
		c, err := s.categories.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnknownCategory
		}
		if err != nil {
			return fmt.Errorf("load category: %w", err)
		}
		b.CategoryID = c.ID
		b.Category = c
	}
	if b.CategoryID == "" {
		return ErrUnknownCategory
	}

	setString(&b.Name, in.Name)
	setString(&b.Description, in.Description)
	setString(&b.City, in.City)
	setString(&b.County, in.County)
	setString(&b.Address, in.Address)
	setString(&b.Phone, in.Phone)
	setString(&b.Email, in.Email)
	setString(&b.Website, in.Website)
	if in.Rating != nil {
		b.Rating = *in.Rating
	}
	if in.IsFeatured != nil {
		b.IsFeatured = *in.IsFeatured
	}

	if b.Name == "" {
		return ErrMissingName
	}
	if b.Rating < 0 || b.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func isID(s string) bool {
	return uuid.Validate(s) == nil
}
