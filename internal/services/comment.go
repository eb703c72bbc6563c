package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsloom/newsloom-backend/internal/pkg/ctxutil"
	pkgerrors "github.com/newsloom/newsloom-backend/internal/pkg/errors"
	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
	"github.com/newsloom/newsloom-backend/internal/repos"
	"github.com/newsloom/newsloom-backend/internal/types"
)

type CreateCommentInput struct {
	Content  string     `json:"content" binding:"required"`
	ParentID *uuid.UUID `json:"parent_id"`
}

type CommentService interface {
	// Create posts a comment on a published article. Replies to another
	// user's comment trigger a comment_reply notification.
	Create(ctx context.Context, userID, articleID uuid.UUID, input CreateCommentInput) (*types.Comment, error)
	ListByArticle(ctx context.Context, articleID uuid.UUID, limit, offset int) ([]*types.Comment, error)
	Update(ctx context.Context, userID, commentID uuid.UUID, content string) (*types.Comment, error)
	Delete(ctx context.Context, userID, commentID uuid.UUID) error
}

type commentService struct {
	db            *gorm.DB
	log           *logger.Logger
	commentRepo   repos.CommentRepo
	articleRepo   repos.ArticleRepo
	notifications NotificationService
}

func NewCommentService(
	db *gorm.DB,
	log *logger.Logger,
	commentRepo repos.CommentRepo,
	articleRepo repos.ArticleRepo,
	notifications NotificationService,
) CommentService {
	return &commentService{
		db:            db,
		log:           log.With("service", "CommentService"),
		commentRepo:   commentRepo,
		articleRepo:   articleRepo,
		notifications: notifications,
	}
}

func (cs *commentService) Create(ctx context.Context, userID, articleID uuid.UUID, input CreateCommentInput) (*types.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is required", pkgerrors.ErrInvalidArgument)
	}
	article, err := cs.articleRepo.GetByID(ctx, nil, articleID)
	if err != nil {
		return nil, err
	}
	if article.Status != types.ArticleStatusPublished {
		return nil, pkgerrors.ErrNotFound
	}

	var parent *types.Comment
	if input.ParentID != nil {
		parent, err = cs.commentRepo.GetByID(ctx, nil, *input.ParentID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent comment: %w", err)
		}
		if parent.ArticleID != articleID {
			return nil, fmt.Errorf("%w: parent comment belongs to a different article", pkgerrors.ErrInvalidArgument)
		}
	}

	comment := &types.Comment{
		ID:        uuid.New(),
		ArticleID: articleID,
		UserID:    userID,
		ParentID:  input.ParentID,
		Content:   content,
	}
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.commentRepo.Create(ctx, tx, []*types.Comment{comment}); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return cs.articleRepo.IncrementComments(ctx, tx, articleID, 1)
	})
	if err != nil {
		return nil, err
	}

	if parent != nil && parent.UserID != userID {
		_, err := cs.notifications.Dispatch(ctx, parent.UserID, types.NotificationCommentReply, NotificationPayload{
			Message:   fmt.Sprintf("Someone replied to your comment on '%s'", article.Title),
			ArticleID: &articleID,
			Data:      map[string]any{"comment_id": comment.ID.String()},
		})
		if err != nil {
			cs.log.Warn("Failed to notify comment author of reply", "comment_id", comment.ID.String(), "error", err)
		}
	}
	return comment, nil
}

func (cs *commentService) ListByArticle(ctx context.Context, articleID uuid.UUID, limit, offset int) ([]*types.Comment, error) {
	if limit <= 0 {
		limit = 50
	}
	return cs.commentRepo.ListByArticle(ctx, nil, articleID, limit, offset)
}

// loadOwned fetches a comment and checks the caller may modify it.
func (cs *commentService) loadOwned(ctx context.Context, userID, commentID uuid.UUID) (*types.Comment, error) {
	comment, err := cs.commentRepo.GetByID(ctx, nil, commentID)
	if err != nil {
		return nil, err
	}
	rd := ctxutil.GetRequestData(ctx)
	isAdmin := rd != nil && rd.Role == types.RoleAdmin
	if comment.UserID != userID && !isAdmin {
		return nil, pkgerrors.ErrForbidden
	}
	return comment, nil
}

func (cs *commentService) Update(ctx context.Context, userID, commentID uuid.UUID, content string) (*types.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is required", pkgerrors.ErrInvalidArgument)
	}
	comment, err := cs.loadOwned(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}
	comment.Content = content
	if err := cs.commentRepo.Update(ctx, nil, comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

func (cs *commentService) Delete(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := cs.loadOwned(ctx, userID, commentID)
	if err != nil {
		return err
	}
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.commentRepo.Delete(ctx, tx, comment.ID); err != nil {
			return err
		}
		return cs.articleRepo.IncrementComments(ctx, tx, comment.ArticleID, -1)
	})
}
