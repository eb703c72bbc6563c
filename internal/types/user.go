package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleReader = "reader"
	RoleAuthor = "author"
	RoleAdmin  = "admin"
)

const (
	SubscriptionFree      = "free"
	SubscriptionPaid      = "paid"
	SubscriptionStudent   = "student"
	SubscriptionCorporate = "corporate"
)

type User struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Username         string    `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Email            string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password         string    `gorm:"not null;column:password" json:"-"`
	FullName         string    `gorm:"column:full_name" json:"full_name"`
	Role             string    `gorm:"not null;default:reader;column:role" json:"role"`
	SubscriptionType string    `gorm:"not null;default:free;column:subscription_type" json:"subscription_type"`
	IsActive         bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "user" }

// HasPremiumAccess reports whether the user's tier unlocks exclusive content.
func (u *User) HasPremiumAccess() bool {
	switch u.SubscriptionType {
	case SubscriptionPaid, SubscriptionStudent, SubscriptionCorporate:
		return true
	default:
		return false
	}
}
