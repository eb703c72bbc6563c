package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/newsloom/newsloom-backend/internal/pkg/errors"
	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
	"github.com/newsloom/newsloom-backend/internal/types"
)

type CommentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, comments []*types.Comment) ([]*types.Comment, error)
	GetByID(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) (*types.Comment, error)
	ListByArticle(ctx context.Context, tx *gorm.DB, articleID uuid.UUID, limit, offset int) ([]*types.Comment, error)
	Update(ctx context.Context, tx *gorm.DB, comment *types.Comment) error
	Delete(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) error
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return &commentRepo{db: db, log: baseLog.With("repo", "CommentRepo")}
}

func (cr *commentRepo) Create(ctx context.Context, tx *gorm.DB, comments []*types.Comment) ([]*types.Comment, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(comments) == 0 {
		return []*types.Comment{}, nil
	}
	for _, c := range comments {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (cr *commentRepo) GetByID(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) (*types.Comment, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var comment types.Comment
	if err := transaction.WithContext(ctx).
		Where("id = ?", commentID).
		First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (cr *commentRepo) ListByArticle(ctx context.Context, tx *gorm.DB, articleID uuid.UUID, limit, offset int) ([]*types.Comment, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Comment
	if err := transaction.WithContext(ctx).
		Preload("User").
		Where("article_id = ?", articleID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *commentRepo) Update(ctx context.Context, tx *gorm.DB, comment *types.Comment) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).Save(comment).Error
}

func (cr *commentRepo) Delete(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", commentID).
		Delete(&types.Comment{}).Error
}
