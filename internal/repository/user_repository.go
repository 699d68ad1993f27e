package repository

import (
	"context"

	"directory-service/internal/model"
	"directory-service/prometheus"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	defer prometheus.TrackDBOperation("user_create")()
	return translateError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	defer prometheus.TrackDBOperation("user_get")()
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserRepo) GetByPartnershipNumber(ctx context.Context, partnershipNumber string) (*model.User, error) {
	defer prometheus.TrackDBOperation("user_get_by_partnership_number")()
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "partnership_number = ?", partnershipNumber).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

func (r *UserRepo) ExistsByPhone(ctx context.Context, phone, excludeID string) (bool, error) {
	return r.exists(ctx, "phone", phone, excludeID)
}

func (r *UserRepo) exists(ctx context.Context, column, value, excludeID string) (bool, error) {
	defer prometheus.TrackDBOperation("user_exists_by_" + column)()
	q := r.db.WithContext(ctx).Model(&model.User{}).Where(column+" = ?", value)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// Update writes every column of user
func (r *UserRepo) Update(ctx context.Context, user *model.User) error {
	defer prometheus.TrackDBOperation("user_update")()
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error)
}
