package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Business is a directory listing owned by a business-type user
type Business struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      string    `json:"user_id" gorm:"type:uuid;not null;index"`
	CategoryID  string    `json:"category_id" gorm:"type:uuid;not null;index"`
	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	City        string    `json:"city" gorm:"type:varchar(100);index"`
	County      string    `json:"county" gorm:"type:varchar(100);index"`
	Address     string    `json:"address" gorm:"type:varchar(255)"`
	Phone       string    `json:"phone" gorm:"type:varchar(20)"`
	Email       string    `json:"email" gorm:"type:varchar(254)"`
	Website     string    `json:"website" gorm:"type:varchar(255)"`
	Rating      float64   `json:"rating" gorm:"not null;default:0"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true;index"`
	IsFeatured  bool      `json:"is_featured" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate assigns the identifier
func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// OwnedBy reports whether userID owns the listing
func (b *Business) OwnedBy(userID string) bool {
	return b.UserID == userID
}
