package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
	"github.com/newsloom/newsloom-backend/internal/types"
)

type SavedArticleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) (created bool, err error)
	Delete(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) (deleted bool, err error)
	ListArticleIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.SavedArticle, error)
}

type savedArticleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSavedArticleRepo(db *gorm.DB, baseLog *logger.Logger) SavedArticleRepo {
	return &savedArticleRepo{db: db, log: baseLog.With("repo", "SavedArticleRepo")}
}

func (sr *savedArticleRepo) Create(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.SavedArticle{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	saved := &types.SavedArticle{ID: uuid.New(), UserID: userID, ArticleID: articleID}
	if err := transaction.WithContext(ctx).Create(saved).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (sr *savedArticleRepo) Delete(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	res := transaction.WithContext(ctx).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Delete(&types.SavedArticle{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (sr *savedArticleRepo) ListArticleIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.SavedArticle{}).
		Where("user_id = ?", userID).
		Pluck("article_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (sr *savedArticleRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.SavedArticle, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.SavedArticle
	if err := transaction.WithContext(ctx).
		Preload("Article").
		Preload("Article.Author").
		Preload("Article.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
