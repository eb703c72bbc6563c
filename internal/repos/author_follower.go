package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
	"github.com/newsloom/newsloom-backend/internal/types"
)

type AuthorFollowerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, userID, authorID uuid.UUID) (created bool, err error)
	Delete(ctx context.Context, tx *gorm.DB, userID, authorID uuid.UUID) (deleted bool, err error)
	ListFollowerIDs(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) ([]uuid.UUID, error)
}

type authorFollowerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuthorFollowerRepo(db *gorm.DB, baseLog *logger.Logger) AuthorFollowerRepo {
	return &authorFollowerRepo{db: db, log: baseLog.With("repo", "AuthorFollowerRepo")}
}

func (fr *authorFollowerRepo) Create(ctx context.Context, tx *gorm.DB, userID, authorID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.AuthorFollower{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	follower := &types.AuthorFollower{ID: uuid.New(), UserID: userID, AuthorID: authorID}
	if err := transaction.WithContext(ctx).Create(follower).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (fr *authorFollowerRepo) Delete(ctx context.Context, tx *gorm.DB, userID, authorID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	res := transaction.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&types.AuthorFollower{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (fr *authorFollowerRepo) ListFollowerIDs(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.AuthorFollower{}).
		Where("author_id = ?", authorID).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
