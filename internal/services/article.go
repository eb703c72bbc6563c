package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsloom/newsloom-backend/internal/events"
	"github.com/newsloom/newsloom-backend/internal/pkg/ctxutil"
	pkgerrors "github.com/newsloom/newsloom-backend/internal/pkg/errors"
	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
	"github.com/newsloom/newsloom-backend/internal/repos"
	"github.com/newsloom/newsloom-backend/internal/types"
	"github.com/newsloom/newsloom-backend/internal/utils"
)

type CreateArticleInput struct {
	Title       string    `json:"title" binding:"required"`
	Content     string    `json:"content" binding:"required"`
	Summary     string    `json:"summary"`
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	IsExclusive bool      `json:"is_exclusive"`
}

type UpdateArticleInput struct {
	Title       *string    `json:"title"`
	Content     *string    `json:"content"`
	Summary     *string    `json:"summary"`
	CategoryID  *uuid.UUID `json:"category_id"`
	IsExclusive *bool      `json:"is_exclusive"`
}

type ListArticlesFilter struct {
	CategoryID *uuid.UUID
	AuthorID   *uuid.UUID
	Search     string
	Limit      int
	Offset     int
}

type ArticleService interface {
	Create(ctx context.Context, authorID uuid.UUID, input CreateArticleInput) (*types.Article, error)
	// Get loads an article for the caller, enforcing exclusive-content access
	// and recording a view for authenticated readers.
	Get(ctx context.Context, articleID uuid.UUID) (*types.Article, error)
	GetBySlug(ctx context.Context, slug string) (*types.Article, error)
	List(ctx context.Context, filter ListArticlesFilter) ([]*types.Article, error)
	Update(ctx context.Context, articleID uuid.UUID, input UpdateArticleInput) (*types.Article, error)
	Delete(ctx context.Context, articleID uuid.UUID) error
	// Publish moves a draft to published and fans out follower alerts. When
	// breaking is set it also broadcasts to every opted-in active user.
	Publish(ctx context.Context, articleID uuid.UUID, breaking bool) (*types.Article, error)
	Archive(ctx context.Context, articleID uuid.UUID) (*types.Article, error)
	Like(ctx context.Context, userID, articleID uuid.UUID) error
	Unlike(ctx context.Context, userID, articleID uuid.UUID) error
	Save(ctx context.Context, userID, articleID uuid.UUID) error
	Unsave(ctx context.Context, userID, articleID uuid.UUID) error
}

type articleService struct {
	db              *gorm.DB
	log             *logger.Logger
	bus             *events.Bus
	articleRepo     repos.ArticleRepo
	categoryRepo    repos.CategoryRepo
	likeRepo        repos.ArticleLikeRepo
	savedRepo       repos.SavedArticleRepo
	recommendations RecommendationService
	notifications   NotificationService
}

func NewArticleService(
	db *gorm.DB,
	log *logger.Logger,
	bus *events.Bus,
	articleRepo repos.ArticleRepo,
	categoryRepo repos.CategoryRepo,
	likeRepo repos.ArticleLikeRepo,
	savedRepo repos.SavedArticleRepo,
	recommendations RecommendationService,
	notifications NotificationService,
) ArticleService {
	return &articleService{
		db:              db,
		log:             log.With("service", "ArticleService"),
		bus:             bus,
		articleRepo:     articleRepo,
		categoryRepo:    categoryRepo,
		likeRepo:        likeRepo,
		savedRepo:       savedRepo,
		recommendations: recommendations,
		notifications:   notifications,
	}
}

func (s *articleService) Create(ctx context.Context, authorID uuid.UUID, input CreateArticleInput) (*types.Article, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", pkgerrors.ErrInvalidArgument)
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", pkgerrors.ErrInvalidArgument)
	}
	if _, err := s.categoryRepo.GetByID(ctx, nil, input.CategoryID); err != nil {
		return nil, fmt.Errorf("invalid category: %w", err)
	}

	article := &types.Article{
		ID:          uuid.New(),
		Title:       title,
		Content:     input.Content,
		Summary:     strings.TrimSpace(input.Summary),
		AuthorID:    authorID,
		CategoryID:  input.CategoryID,
		Status:      types.ArticleStatusDraft,
		IsExclusive: input.IsExclusive,
	}
	article.Slug = utils.Slugify(title) + "-" + article.ID.String()[:8]

	if _, err := s.articleRepo.Create(ctx, nil, []*types.Article{article}); err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}
	s.log.Info("Article created", "article_id", article.ID.String(), "user_id", authorID.String())
	return article, nil
}

func (s *articleService) Get(ctx context.Context, articleID uuid.UUID) (*types.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, nil, articleID)
	if err != nil {
		return nil, err
	}
	return s.presentArticle(ctx, article)
}

func (s *articleService) GetBySlug(ctx context.Context, slug string) (*types.Article, error) {
	article, err := s.articleRepo.GetBySlug(ctx, nil, slug)
	if err != nil {
		return nil, err
	}
	return s.presentArticle(ctx, article)
}

// presentArticle applies read-side policy shared by Get and GetBySlug.
func (s *articleService) presentArticle(ctx context.Context, article *types.Article) (*types.Article, error) {
	rd := ctxutil.GetRequestData(ctx)
	isOwner := rd != nil && (rd.UserID == article.AuthorID || rd.Role == types.RoleAdmin)

	if article.Status != types.ArticleStatusPublished && !isOwner {
		return nil, pkgerrors.ErrNotFound
	}
	if article.IsExclusive && !isOwner {
		if rd == nil {
			return nil, pkgerrors.ErrUnauthorized
		}
		caller := types.User{SubscriptionType: rd.SubscriptionType}
		if !caller.HasPremiumAccess() {
			return nil, pkgerrors.ErrForbidden
		}
	}

	if rd != nil && !isOwner && article.Status == types.ArticleStatusPublished {
		if err := s.recommendations.RecordView(ctx, rd.UserID, article.ID, ""); err != nil {
			s.log.Warn("Failed to record article view", "article_id", article.ID.String(), "error", err)
		}
	}
	return article, nil
}

func (s *articleService) List(ctx context.Context, filter ListArticlesFilter) ([]*types.Article, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	pf := repos.PublishedFilter{
		AuthorID: filter.AuthorID,
		Search:   filter.Search,
		Order:    repos.OrderRecency,
		Offset:   filter.Offset,
	}
	if filter.CategoryID != nil {
		pf.CategoryIDs = []uuid.UUID{*filter.CategoryID}
	}
	return s.articleRepo.FindPublished(ctx, nil, pf, limit)
}

// loadOwned fetches an article and checks the caller may modify it.
func (s *articleService) loadOwned(ctx context.Context, articleID uuid.UUID) (*types.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, nil, articleID)
	if err != nil {
		return nil, err
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	if rd.UserID != article.AuthorID && rd.Role != types.RoleAdmin {
		return nil, pkgerrors.ErrForbidden
	}
	return article, nil
}

func (s *articleService) Update(ctx context.Context, articleID uuid.UUID, input UpdateArticleInput) (*types.Article, error) {
	article, err := s.loadOwned(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", pkgerrors.ErrInvalidArgument)
		}
		article.Title = title
	}
	if input.Content != nil {
		article.Content = *input.Content
	}
	if input.Summary != nil {
		article.Summary = strings.TrimSpace(*input.Summary)
	}
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, nil, *input.CategoryID); err != nil {
			return nil, fmt.Errorf("invalid category: %w", err)
		}
		article.CategoryID = *input.CategoryID
	}
	if input.IsExclusive != nil {
		article.IsExclusive = *input.IsExclusive
	}
	if err := s.articleRepo.Update(ctx, nil, article); err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}
	return article, nil
}

func (s *articleService) Delete(ctx context.Context, articleID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, articleID); err != nil {
		return err
	}
	return s.articleRepo.Delete(ctx, nil, articleID)
}

func (s *articleService) Publish(ctx context.Context, articleID uuid.UUID, breaking bool) (*types.Article, error) {
	article, err := s.loadOwned(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.Status == types.ArticleStatusPublished {
		return nil, fmt.Errorf("%w: article is already published", pkgerrors.ErrInvalidArgument)
	}
	now := time.Now()
	article.Status = types.ArticleStatusPublished
	article.PublishedAt = &now
	if err := s.articleRepo.Update(ctx, nil, article); err != nil {
		return nil, fmt.Errorf("failed to publish article: %w", err)
	}
	s.log.Info("Article published", "article_id", article.ID.String())

	s.bus.Publish(ctx, events.Event{
		Topic: events.TopicArticlePublished,
		Data: map[string]any{
			"article_id": article.ID,
			"author_id":  article.AuthorID,
			"title":      article.Title,
		},
	})

	if breaking {
		sent, err := s.notifications.BroadcastBreakingNews(ctx, &article.ID, article.Title)
		if err != nil {
			s.log.Error("Breaking news broadcast failed", "article_id", article.ID.String(), "error", err)
		} else {
			s.log.Info("Breaking news broadcast", "article_id", article.ID.String(), "sent", sent)
		}
	}
	return article, nil
}

func (s *articleService) Archive(ctx context.Context, articleID uuid.UUID) (*types.Article, error) {
	article, err := s.loadOwned(ctx, articleID)
	if err != nil {
		return nil, err
	}
	article.Status = types.ArticleStatusArchived
	if err := s.articleRepo.Update(ctx, nil, article); err != nil {
		return nil, fmt.Errorf("failed to archive article: %w", err)
	}
	return article, nil
}

func (s *articleService) Like(ctx context.Context, userID, articleID uuid.UUID) error {
	article, err := s.articleRepo.GetByID(ctx, nil, articleID)
	if err != nil {
		return err
	}
	if article.Status != types.ArticleStatusPublished {
		return pkgerrors.ErrNotFound
	}
	var created bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = s.likeRepo.Create(ctx, tx, userID, articleID)
		if err != nil {
			return err
		}
		if !created {
			return nil
		}
		return s.articleRepo.IncrementLikes(ctx, tx, articleID, 1)
	})
	if err != nil {
		return fmt.Errorf("failed to like article: %w", err)
	}
	if !created {
		return nil
	}

	if err := s.recommendations.RecordLike(ctx, userID, articleID); err != nil {
		s.log.Warn("Failed to record like preference", "article_id", articleID.String(), "error", err)
	}
	if article.AuthorID != userID {
		_, err := s.notifications.Dispatch(ctx, article.AuthorID, types.NotificationArticleLike, NotificationPayload{
			Message:   fmt.Sprintf("Someone liked your article '%s'", article.Title),
			ArticleID: &articleID,
		})
		if err != nil {
			s.log.Warn("Failed to notify author of like", "article_id", articleID.String(), "error", err)
		}
	}
	return nil
}

func (s *articleService) Unlike(ctx context.Context, userID, articleID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := s.likeRepo.Delete(ctx, tx, userID, articleID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		return s.articleRepo.IncrementLikes(ctx, tx, articleID, -1)
	})
}

func (s *articleService) Save(ctx context.Context, userID, articleID uuid.UUID) error {
	article, err := s.articleRepo.GetByID(ctx, nil, articleID)
	if err != nil {
		return err
	}
	if article.Status != types.ArticleStatusPublished {
		return pkgerrors.ErrNotFound
	}
	_, err = s.savedRepo.Create(ctx, nil, userID, articleID)
	return err
}

func (s *articleService) Unsave(ctx context.Context, userID, articleID uuid.UUID) error {
	deleted, err := s.savedRepo.Delete(ctx, nil, userID, articleID)
	if err != nil {
		return err
	}
	if !deleted {
		return pkgerrors.ErrNotFound
	}
	return nil
}
