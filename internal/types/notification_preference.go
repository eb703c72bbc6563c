package types

import (
	"time"

	"github.com/google/uuid"
)

// NotificationPreference holds per-user opt-in flags. A user without a row is
// treated as opted in to everything.
type NotificationPreference struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User           *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	BreakingNews   bool      `gorm:"not null;default:true;column:breaking_news" json:"breaking_news"`
	DailyDigest    bool      `gorm:"not null;default:true;column:daily_digest" json:"daily_digest"`
	AuthorAlerts   bool      `gorm:"not null;default:true;column:author_alerts" json:"author_alerts"`
	CommentReplies bool      `gorm:"not null;default:true;column:comment_replies" json:"comment_replies"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (NotificationPreference) TableName() string { return "notification_preference" }
