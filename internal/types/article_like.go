package types

import (
	"time"

	"github.com/google/uuid"
)

// ArticleLike records one like per (user, article) pair.
type ArticleLike struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_article_like_user_article" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ArticleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_article_like_user_article" json:"article_id"`
	Article   *Article  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ArticleID;references:ID" json:"article,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ArticleLike) TableName() string { return "article_like" }
