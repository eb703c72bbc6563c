package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/newsloom/newsloom-backend/internal/pkg/errors"
	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
	"github.com/newsloom/newsloom-backend/internal/types"
)

// Ordering for published-article queries. The recommendation engine picks a
// different blend per stage, so the order is part of the filter.
type ArticleOrder int

const (
	// OrderRecency is plain most-recent-first.
	OrderRecency ArticleOrder = iota
	// OrderRecencyThenEngagement favors fresh content, engagement breaks ties.
	OrderRecencyThenEngagement
	// OrderEngagementThenRecency favors popular content, recency breaks ties.
	OrderEngagementThenRecency
	// OrderTrending is the global fallback blend, weighted toward likes.
	OrderTrending
)

func (o ArticleOrder) clause() string {
	switch o {
	case OrderRecencyThenEngagement:
		return "published_at DESC, (views_count * 0.3 + likes_count * 0.7) DESC"
	case OrderEngagementThenRecency:
		return "(views_count * 0.3 + likes_count * 0.7) DESC, published_at DESC"
	case OrderTrending:
		return "(views_count * 0.4 + likes_count * 0.6) DESC, published_at DESC"
	default:
		return "published_at DESC"
	}
}

// PublishedFilter narrows a published-article query.
type PublishedFilter struct {
	CategoryIDs []uuid.UUID
	ExcludeIDs  []uuid.UUID
	AuthorID    *uuid.UUID
	Search      string
	Order       ArticleOrder
	Offset      int
}

type ArticleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, articles []*types.Article) ([]*types.Article, error)
	GetByID(ctx context.Context, tx *gorm.DB, articleID uuid.UUID) (*types.Article, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Article, error)
	Update(ctx context.Context, tx *gorm.DB, article *types.Article) error
	Delete(ctx context.Context, tx *gorm.DB, articleID uuid.UUID) error
	FindPublished(ctx context.Context, tx *gorm.DB, filter PublishedFilter, limit int) ([]*types.Article, error)
	TopPublishedSince(ctx context.Context, tx *gorm.DB, since time.Time, limit int) ([]*types.Article, error)
	IncrementViews(ctx context.Context, tx *gorm.DB, articleID uuid.UUID) error
	IncrementLikes(ctx context.Context, tx *gorm.DB, articleID uuid.UUID, delta int) error
	IncrementComments(ctx context.Context, tx *gorm.DB, articleID uuid.UUID, delta int) error
	DistinctLikedCategoryIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
	DistinctViewedCategoryIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
}

type articleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArticleRepo(db *gorm.DB, baseLog *logger.Logger) ArticleRepo {
	return &articleRepo{db: db, log: baseLog.With("repo", "ArticleRepo")}
}

func (ar *articleRepo) Create(ctx context.Context, tx *gorm.DB, articles []*types.Article) ([]*types.Article, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(articles) == 0 {
		return []*types.Article{}, nil
	}
	for _, a := range articles {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (ar *articleRepo) GetByID(ctx context.Context, tx *gorm.DB, articleID uuid.UUID) (*types.Article, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var article types.Article
	if err := transaction.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Where("id = ?", articleID).
		First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &article, nil
}

func (ar *articleRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Article, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var article types.Article
	if err := transaction.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Where("slug = ?", slug).
		First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &article, nil
}

func (ar *articleRepo) Update(ctx context.Context, tx *gorm.DB, article *types.Article) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Save(article).Error
}

func (ar *articleRepo) Delete(ctx context.Context, tx *gorm.DB, articleID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", articleID).
		Delete(&types.Article{}).Error
}

func (ar *articleRepo) FindPublished(ctx context.Context, tx *gorm.DB, filter PublishedFilter, limit int) ([]*types.Article, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	q := transaction.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Where("status = ?", types.ArticleStatusPublished)
	if len(filter.CategoryIDs) > 0 {
		q = q.Where("category_id IN ?", filter.CategoryIDs)
	}
	if len(filter.ExcludeIDs) > 0 {
		q = q.Where("id NOT IN ?", filter.ExcludeIDs)
	}
	if filter.AuthorID != nil {
		q = q.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("title LIKE ? OR content LIKE ?", pattern, pattern)
	}
	var results []*types.Article
	if err := q.Order(filter.Order.clause()).
		Offset(filter.Offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *articleRepo) TopPublishedSince(ctx context.Context, tx *gorm.DB, since time.Time, limit int) ([]*types.Article, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.Article
	if err := transaction.WithContext(ctx).
		Where("status = ?", types.ArticleStatusPublished).
		Where("published_at >= ?", since).
		Order("views_count DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *articleRepo) IncrementViews(ctx context.Context, tx *gorm.DB, articleID uuid.UUID) error {
	return ar.incrementCounter(ctx, tx, articleID, "views_count", 1)
}

func (ar *articleRepo) IncrementLikes(ctx context.Context, tx *gorm.DB, articleID uuid.UUID, delta int) error {
	return ar.incrementCounter(ctx, tx, articleID, "likes_count", delta)
}

func (ar *articleRepo) IncrementComments(ctx context.Context, tx *gorm.DB, articleID uuid.UUID, delta int) error {
	return ar.incrementCounter(ctx, tx, articleID, "comments_count", delta)
}

func (ar *articleRepo) incrementCounter(ctx context.Context, tx *gorm.DB, articleID uuid.UUID, column string, delta int) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Article{}).
		Where("id = ?", articleID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

func (ar *articleRepo) DistinctLikedCategoryIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	return ar.distinctCategoryIDs(ctx, tx, "article_like", userID)
}

func (ar *articleRepo) DistinctViewedCategoryIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	return ar.distinctCategoryIDs(ctx, tx, "article_view", userID)
}

func (ar *articleRepo) distinctCategoryIDs(ctx context.Context, tx *gorm.DB, joinTable string, userID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.Article{}).
		Distinct().
		Joins("INNER JOIN "+joinTable+" i ON i.article_id = article.id").
		Where("i.user_id = ?", userID).
		Pluck("article.category_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
