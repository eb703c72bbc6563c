package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	NotificationBreakingNews = "breaking_news"
	NotificationDailyDigest  = "daily_digest"
	NotificationAuthorUpdate = "author_update"
	NotificationCommentReply = "comment_reply"
	NotificationArticleLike  = "article_like"
)

type Notification struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Type      string         `gorm:"not null;index;column:type" json:"type"`
	Title     string         `gorm:"not null;column:title" json:"title"`
	Message   string         `gorm:"not null;column:message" json:"message"`
	ArticleID *uuid.UUID     `gorm:"type:uuid;index" json:"article_id,omitempty"`
	Article   *Article       `gorm:"constraint:OnDelete:SET NULL;foreignKey:ArticleID;references:ID" json:"article,omitempty"`
	Data      datatypes.JSON `gorm:"type:jsonb;column:data" json:"data,omitempty"`
	IsRead    bool           `gorm:"not null;default:false;index;column:is_read" json:"is_read"`
	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (Notification) TableName() string { return "notification" }
