package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubscriptionTier struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name         string         `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Type         string         `gorm:"not null;column:type" json:"type"`
	Price        float64        `gorm:"not null;default:0;column:price" json:"price"`
	DurationDays int            `gorm:"not null;default:30;column:duration_days" json:"duration_days"`
	Features     datatypes.JSON `gorm:"type:jsonb;column:features" json:"features,omitempty"`
	IsActive     bool           `gorm:"not null;default:true;column:is_active" json:"is_active"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (SubscriptionTier) TableName() string { return "subscription_tier" }
