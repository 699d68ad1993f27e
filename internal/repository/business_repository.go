package repository

import (
	"context"
	"strings"

	"directory-service/internal/model"
	"directory-service/prometheus"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type BusinessRepo struct {
	db *gorm.DB
}

func NewBusinessRepo(db *gorm.DB) *BusinessRepo {
	return &BusinessRepo{db: db}
}

func (r *BusinessRepo) Create(ctx context.Context, business *model.Business) error {
	defer prometheus.TrackDBOperation("business_create")()
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(business).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// GetByID returns the business whether or not it is active
func (r *BusinessRepo) GetByID(ctx context.Context, id string) (*model.Business, error) {
	defer prometheus.TrackDBOperation("business_get")()
	var business model.Business
	if err := r.db.WithContext(ctx).Preload("Category").First(&business, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &business, nil
}

func (r *BusinessRepo) GetActiveByID(ctx context.Context, id string) (*model.Business, error) {
	defer prometheus.TrackDBOperation("business_get_active")()
	var business model.Business
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND is_active = ?", id, true).
		First(&business).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &business, nil
}

func (r *BusinessRepo) List(ctx context.Context, filter BusinessFilter) ([]model.Business, int64, error) {
	defer prometheus.TrackDBOperation("business_list")()

	var total int64
	if err := filter.count(r.db.WithContext(ctx), &total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var out []model.Business
	if err := filter.page(r.db.WithContext(ctx).Preload("Category"), &out).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return out, total, nil
}

func (f BusinessFilter) count(db *gorm.DB, total *int64) *gorm.DB {
	return db.Model(&model.Business{}).Scopes(f.scope).Count(total)
}

func (f BusinessFilter) page(db *gorm.DB, out *[]model.Business) *gorm.DB {
	return db.Scopes(f.scope).
		Order(f.orderClause()).
		Order("businesses.id").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(out)
}

// scope applies the filter conditions. Inactive rows are always excluded.
func (f BusinessFilter) scope(db *gorm.DB) *gorm.DB {
	db = db.Where("businesses.is_active = ?", true)
	if f.CategoryID != "" {
		db = db.Where("businesses.category_id = ?", f.CategoryID)
	}
	if f.City != "" {
		db = db.Where("businesses.city = ?", f.City)
	}
	if f.County != "" {
		db = db.Where("businesses.county = ?", f.County)
	}
	if f.IsFeatured != nil {
		db = db.Where("businesses.is_featured = ?", *f.IsFeatured)
	}
	if f.Search != "" {
		pattern := "%" + likeEscaper.Replace(f.Search) + "%"
		db = db.Where(
			"(businesses.name ILIKE ? OR businesses.description ILIKE ? OR businesses.city ILIKE ?)",
			pattern, pattern, pattern,
		)
	}
	return db
}

// Update writes every column of business except its associations
func (r *BusinessRepo) Update(ctx context.Context, business *model.Business) error {
	defer prometheus.TrackDBOperation("business_update")()
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(business).Error)
}

// Deactivate hides an active business from listings
func (r *BusinessRepo) Deactivate(ctx context.Context, id string) error {
	defer prometheus.TrackDBOperation("business_deactivate")()
	res := r.db.WithContext(ctx).
		Model(&model.Business{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
