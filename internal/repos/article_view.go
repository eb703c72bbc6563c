package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
	"github.com/newsloom/newsloom-backend/internal/types"
)

type ArticleViewRepo interface {
	// Create records a view once per (user, article) pair; repeats return
	// created=false without touching the row.
	Create(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID, ipAddress string) (created bool, err error)
	Exists(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) (bool, error)
}

type articleViewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArticleViewRepo(db *gorm.DB, baseLog *logger.Logger) ArticleViewRepo {
	return &articleViewRepo{db: db, log: baseLog.With("repo", "ArticleViewRepo")}
}

func (vr *articleViewRepo) Create(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID, ipAddress string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	exists, err := vr.Exists(ctx, transaction, userID, articleID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	view := &types.ArticleView{ID: uuid.New(), UserID: userID, ArticleID: articleID, IPAddress: ipAddress}
	if err := transaction.WithContext(ctx).Create(view).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (vr *articleViewRepo) Exists(ctx context.Context, tx *gorm.DB, userID, articleID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ArticleView{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
