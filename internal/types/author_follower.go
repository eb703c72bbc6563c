package types

import (
	"time"

	"github.com/google/uuid"
)

type AuthorFollower struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_author_follower_user_author" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_author_follower_user_author" json:"author_id"`
	Author    *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (AuthorFollower) TableName() string { return "author_follower" }
