package types

import (
	"time"

	"github.com/google/uuid"
)

// ArticleView records at most one view per (user, article) pair. A repeat
// view is a no-op, which keeps the preference-score feedback idempotent.
type ArticleView struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_article_view_user_article" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ArticleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_article_view_user_article" json:"article_id"`
	Article   *Article  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ArticleID;references:ID" json:"article,omitempty"`
	IPAddress string    `gorm:"column:ip_address" json:"ip_address,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ArticleView) TableName() string { return "article_view" }
