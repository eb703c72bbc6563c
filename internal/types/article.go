package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
	ArticleStatusArchived  = "archived"
)

type Article struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title         string     `gorm:"not null;column:title" json:"title"`
	Slug          string     `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
	Content       string     `gorm:"not null;column:content" json:"content"`
	Summary       string     `gorm:"column:summary" json:"summary"`
	AuthorID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	Author        *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	CategoryID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"category_id"`
	Category      *Category  `gorm:"constraint:OnDelete:RESTRICT;foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	Status        string     `gorm:"not null;default:draft;index;column:status" json:"status"`
	IsExclusive   bool       `gorm:"not null;default:false;column:is_exclusive" json:"is_exclusive"`
	ViewsCount    int64      `gorm:"not null;default:0;column:views_count" json:"views_count"`
	LikesCount    int64      `gorm:"not null;default:0;column:likes_count" json:"likes_count"`
	CommentsCount int64      `gorm:"not null;default:0;column:comments_count" json:"comments_count"`
	PublishedAt   *time.Time `gorm:"index;column:published_at" json:"published_at,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Article) TableName() string { return "article" }
