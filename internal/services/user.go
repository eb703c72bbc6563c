package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/newsloom/newsloom-backend/internal/pkg/errors"
	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
	"github.com/newsloom/newsloom-backend/internal/repos"
	"github.com/newsloom/newsloom-backend/internal/types"
)

type UpdateProfileInput struct {
	FullName *string `json:"full_name"`
	Username *string `json:"username"`
}

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*types.User, error)
	FollowAuthor(ctx context.Context, userID, authorID uuid.UUID) error
	UnfollowAuthor(ctx context.Context, userID, authorID uuid.UUID) error
	// GetPreferences returns the user's category affinity scores ordered by
	// score descending.
	GetPreferences(ctx context.Context, userID uuid.UUID) ([]*types.UserPreference, error)
	SetPreference(ctx context.Context, userID, categoryID uuid.UUID, score float64) error
	DeletePreference(ctx context.Context, userID, categoryID uuid.UUID) error
	ListSaved(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.SavedArticle, error)
}

type userService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	followerRepo repos.AuthorFollowerRepo
	prefRepo     repos.UserPreferenceRepo
	savedRepo    repos.SavedArticleRepo
	categoryRepo repos.CategoryRepo
}

func NewUserService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	followerRepo repos.AuthorFollowerRepo,
	prefRepo repos.UserPreferenceRepo,
	savedRepo repos.SavedArticleRepo,
	categoryRepo repos.CategoryRepo,
) UserService {
	return &userService{
		db:           db,
		log:          log.With("service", "UserService"),
		userRepo:     userRepo,
		followerRepo: followerRepo,
		prefRepo:     prefRepo,
		savedRepo:    savedRepo,
		categoryRepo: categoryRepo,
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	return us.userRepo.GetByID(ctx, nil, userID)
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: username cannot be empty", pkgerrors.ErrInvalidArgument)
		}
		if username != user.Username {
			taken, err := us.userRepo.UsernameExists(ctx, nil, username)
			if err != nil {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
			if taken {
				return nil, fmt.Errorf("%w: username already taken", pkgerrors.ErrInvalidArgument)
			}
			user.Username = username
		}
	}
	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if err := us.userRepo.Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (us *userService) FollowAuthor(ctx context.Context, userID, authorID uuid.UUID) error {
	if userID == authorID {
		return fmt.Errorf("%w: cannot follow yourself", pkgerrors.ErrInvalidArgument)
	}
	author, err := us.userRepo.GetByID(ctx, nil, authorID)
	if err != nil {
		return err
	}
	if author.Role != types.RoleAuthor && author.Role != types.RoleAdmin {
		return fmt.Errorf("%w: user is not an author", pkgerrors.ErrInvalidArgument)
	}
	_, err = us.followerRepo.Create(ctx, nil, userID, authorID)
	return err
}

func (us *userService) UnfollowAuthor(ctx context.Context, userID, authorID uuid.UUID) error {
	_, err := us.followerRepo.Delete(ctx, nil, userID, authorID)
	return err
}

func (us *userService) GetPreferences(ctx context.Context, userID uuid.UUID) ([]*types.UserPreference, error) {
	return us.prefRepo.GetByUser(ctx, nil, userID)
}

func (us *userService) SetPreference(ctx context.Context, userID, categoryID uuid.UUID, score float64) error {
	if score < 0 || score > types.PreferenceScoreCap {
		return fmt.Errorf("%w: score must be between 0 and %g", pkgerrors.ErrInvalidArgument, types.PreferenceScoreCap)
	}
	if _, err := us.categoryRepo.GetByID(ctx, nil, categoryID); err != nil {
		return err
	}
	return us.prefRepo.SetScore(ctx, nil, userID, categoryID, score)
}

func (us *userService) DeletePreference(ctx context.Context, userID, categoryID uuid.UUID) error {
	deleted, err := us.prefRepo.Delete(ctx, nil, userID, categoryID)
	if err != nil {
		return err
	}
	if !deleted {
		return pkgerrors.ErrNotFound
	}
	return nil
}

func (us *userService) ListSaved(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.SavedArticle, error) {
	if limit <= 0 {
		limit = 20
	}
	return us.savedRepo.ListByUser(ctx, nil, userID, limit, offset)
}
