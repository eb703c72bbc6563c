package types

import (
	"time"

	"github.com/google/uuid"
)

type UserSubscription struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User             `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	TierID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"tier_id"`
	Tier      *SubscriptionTier `gorm:"constraint:OnDelete:RESTRICT;foreignKey:TierID;references:ID" json:"tier,omitempty"`
	StartDate time.Time         `gorm:"not null;column:start_date" json:"start_date"`
	EndDate   time.Time         `gorm:"not null;index;column:end_date" json:"end_date"`
	PricePaid float64           `gorm:"not null;default:0;column:price_paid" json:"price_paid"`
	IsActive  bool              `gorm:"not null;default:true;column:is_active" json:"is_active"`
	CreatedAt time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserSubscription) TableName() string { return "user_subscription" }
