package types

import (
	"time"

	"github.com/google/uuid"
)

// PreferenceScoreCap bounds a category preference score. Scores are advisory
// signals for ranking, adjusted by fixed increments and never authoritative.
const PreferenceScoreCap = 5.0

const (
	PreferenceViewIncrement = 0.1
	PreferenceLikeIncrement = 2.0
)

type UserPreference struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_preference_user_category" json:"user_id"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_preference_user_category" json:"category_id"`
	Category   *Category `gorm:"constraint:OnDelete:CASCADE;foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	Score      float64   `gorm:"not null;default:0;column:score" json:"score"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserPreference) TableName() string { return "user_preference" }
