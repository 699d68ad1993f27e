package repository

import (
	"context"

	"directory-service/internal/model"
	"directory-service/prometheus"

	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	defer prometheus.TrackDBOperation("category_list")()
	var out []model.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, translateError(err)
	}
	return out, nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*model.Category, error) {
	defer prometheus.TrackDBOperation("category_get")()
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	defer prometheus.TrackDBOperation("category_get_by_slug")()
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, "slug = ?", slug).Error; err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

// FirstOrCreate returns the category named name, creating it when missing.
// The bool result reports whether a row was inserted.
func (r *CategoryRepo) FirstOrCreate(ctx context.Context, name string) (*model.Category, bool, error) {
	defer prometheus.TrackDBOperation("category_first_or_create")()
	var c model.Category
	res := r.db.WithContext(ctx).Where(model.Category{Name: name}).FirstOrCreate(&c)
	if res.Error != nil {
		return nil, false, translateError(res.Error)
	}
	return &c, res.RowsAffected > 0, nil
}
