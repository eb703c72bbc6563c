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
	"github.com/newsloom/newsloom-backend/internal/utils"
)

type CategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CategoryService interface {
	Create(ctx context.Context, input CategoryInput) (*types.Category, error)
	Get(ctx context.Context, categoryID uuid.UUID) (*types.Category, error)
	GetBySlug(ctx context.Context, slug string) (*types.Category, error)
	List(ctx context.Context) ([]*types.Category, error)
	Update(ctx context.Context, categoryID uuid.UUID, input CategoryInput) (*types.Category, error)
	Delete(ctx context.Context, categoryID uuid.UUID) error
}

type categoryService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.CategoryRepo
}

func NewCategoryService(db *gorm.DB, log *logger.Logger, categoryRepo repos.CategoryRepo) CategoryService {
	return &categoryService{
		db:           db,
		log:          log.With("service", "CategoryService"),
		categoryRepo: categoryRepo,
	}
}

func (cs *categoryService) Create(ctx context.Context, input CategoryInput) (*types.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", pkgerrors.ErrInvalidArgument)
	}
	category := &types.Category{
		ID:          uuid.New(),
		Name:        name,
		Slug:        utils.Slugify(name),
		Description: strings.TrimSpace(input.Description),
	}
	if _, err := cs.categoryRepo.Create(ctx, nil, []*types.Category{category}); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (cs *categoryService) Get(ctx context.Context, categoryID uuid.UUID) (*types.Category, error) {
	return cs.categoryRepo.GetByID(ctx, nil, categoryID)
}

func (cs *categoryService) GetBySlug(ctx context.Context, slug string) (*types.Category, error) {
	return cs.categoryRepo.GetBySlug(ctx, nil, slug)
}

func (cs *categoryService) List(ctx context.Context) ([]*types.Category, error) {
	return cs.categoryRepo.List(ctx, nil)
}

func (cs *categoryService) Update(ctx context.Context, categoryID uuid.UUID, input CategoryInput) (*types.Category, error) {
	category, err := cs.categoryRepo.GetByID(ctx, nil, categoryID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", pkgerrors.ErrInvalidArgument)
	}
	category.Name = name
	category.Slug = utils.Slugify(name)
	category.Description = strings.TrimSpace(input.Description)
	if err := cs.categoryRepo.Update(ctx, nil, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (cs *categoryService) Delete(ctx context.Context, categoryID uuid.UUID) error {
	return cs.categoryRepo.Delete(ctx, nil, categoryID)
}
