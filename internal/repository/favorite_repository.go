package repository

import (
	"context"

	"directory-service/internal/model"
	"directory-service/prometheus"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepo struct {
	db *gorm.DB
}

func NewFavoriteRepo(db *gorm.DB) *FavoriteRepo {
	return &FavoriteRepo{db: db}
}

// Create inserts the relation. A concurrent duplicate surfaces as a
// DuplicateKeyError on field "favorite".
func (r *FavoriteRepo) Create(ctx context.Context, favorite *model.Favorite) error {
	defer prometheus.TrackDBOperation("favorite_create")()
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(favorite).Error)
}

func (r *FavoriteRepo) Exists(ctx context.Context, userID, businessID string) (bool, error) {
	defer prometheus.TrackDBOperation("favorite_exists")()
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Favorite{}).
		Where("user_id = ? AND business_id = ?", userID, businessID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// Delete removes the relation, or returns ErrNotFound if there was none
func (r *FavoriteRepo) Delete(ctx context.Context, userID, businessID string) error {
	defer prometheus.TrackDBOperation("favorite_delete")()
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND business_id = ?", userID, businessID).
		Delete(&model.Favorite{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns the user's favorites newest first with the business embedded
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID string) ([]model.Favorite, error) {
	defer prometheus.TrackDBOperation("favorite_list")()
	var out []model.Favorite
	err := r.db.WithContext(ctx).
		Preload("Business").
		Preload("Business.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, translateError(err)
	}
	return out, nil
}
