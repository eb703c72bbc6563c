package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
	"github.com/newsloom/newsloom-backend/internal/types"
)

type ArticleLikeRepo interface {
	// Create is idempotent: a second like for the same pair is a no-op and
	// returns created=false.
	Create(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) (created bool, err error)
	Delete(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) (deleted bool, err error)
	Exists(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) (bool, error)
	ListArticleIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
}

type articleLikeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArticleLikeRepo(db *gorm.DB, baseLog *logger.Logger) ArticleLikeRepo {
	return &articleLikeRepo{db: db, log: baseLog.With("repo", "ArticleLikeRepo")}
}

func (lr *articleLikeRepo) Create(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	exists, err := lr.Exists(ctx, transaction, userID, articleID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	like := &types.ArticleLike{ID: uuid.New(), UserID: userID, ArticleID: articleID}
	if err := transaction.WithContext(ctx).Create(like).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (lr *articleLikeRepo) Delete(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	res := transaction.WithContext(ctx).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Delete(&types.ArticleLike{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (lr *articleLikeRepo) Exists(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ArticleLike{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (lr *articleLikeRepo) ListArticleIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.ArticleLike{}).
		Where("user_id = ?", userID).
		Pluck("article_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
