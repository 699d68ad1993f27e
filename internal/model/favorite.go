package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite is a user-scoped bookmark on a business. The (user, business) pair is unique.
type Favorite struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:favorites_user_business_key"`
	BusinessID string    `json:"business_id" gorm:"type:uuid;not null;uniqueIndex:favorites_user_business_key"`
	Business   *Business `json:"business,omitempty" gorm:"foreignKey:BusinessID"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate assigns the identifier
func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
