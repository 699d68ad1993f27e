package model

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserType classifies what a user may do in the directory
type UserType string

const (
	UserTypeBusiness  UserType = "business"
	UserTypeCommunity UserType = "community"
)

// User represents the user model stored in the database.
// Email and Phone are nullable so the unique indexes only cover rows that set them.
type User struct {
	ID                string    `json:"id" gorm:"type:uuid;primaryKey"`
	FirstName         string    `json:"first_name" gorm:"type:varchar(150)"`
	LastName          string    `json:"last_name" gorm:"type:varchar(150)"`
	PartnershipNumber string    `json:"partnership_number" gorm:"type:varchar(32);uniqueIndex:users_partnership_number_key;not null"`
	UserType          UserType  `json:"user_type" gorm:"type:varchar(20);not null;default:'community'"`
	Email             *string   `json:"email" gorm:"type:varchar(254);uniqueIndex:users_email_key"`
	Phone             *string   `json:"phone" gorm:"type:varchar(20);uniqueIndex:users_phone_key"`
	Password          string    `json:"-" gorm:"type:varchar(255);not null"`
	IsActive          bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BeforeCreate assigns the identifier
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// SetPassword stores a salted one-way hash of plain
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash
func (u *User) CheckPassword(plain string) bool {
	return ComparePassword(u.Password, plain)
}

// ComparePassword reports whether plain matches a bcrypt hash
func ComparePassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// DummyPasswordHash is a valid hash no password is compared to on purpose.
// Failed lookups compare against it so every login pays one bcrypt comparison.
var DummyPasswordHash = sync.OnceValue(func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("directory-unknown-user"), bcrypt.DefaultCost)
	if err != nil {
		panic("generate dummy password hash: " + err.Error())
	}
	return string(hash)
})

// IsBusiness reports whether the user may own business listings
func (u *User) IsBusiness() bool {
	return u.UserType == UserTypeBusiness
}

// HasContact reports whether at least one of email and phone is set
func (u *User) HasContact() bool {
	return (u.Email != nil && *u.Email != "") || (u.Phone != nil && *u.Phone != "")
}
