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

type SubscriptionTierRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tiers []*types.SubscriptionTier) ([]*types.SubscriptionTier, error)
	GetByID(ctx context.Context, tx *gorm.DB, tierID uuid.UUID) (*types.SubscriptionTier, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.SubscriptionTier, error)
}

type subscriptionTierRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionTierRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionTierRepo {
	return &subscriptionTierRepo{db: db, log: baseLog.With("repo", "SubscriptionTierRepo")}
}

func (tr *subscriptionTierRepo) Create(ctx context.Context, tx *gorm.DB, tiers []*types.SubscriptionTier) ([]*types.SubscriptionTier, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if len(tiers) == 0 {
		return []*types.SubscriptionTier{}, nil
	}
	for _, t := range tiers {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&tiers).Error; err != nil {
		return nil, err
	}
	return tiers, nil
}

func (tr *subscriptionTierRepo) GetByID(ctx context.Context, tx *gorm.DB, tierID uuid.UUID) (*types.SubscriptionTier, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var tier types.SubscriptionTier
	if err := transaction.WithContext(ctx).
		Where("id = ?", tierID).
		First(&tier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &tier, nil
}

func (tr *subscriptionTierRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.SubscriptionTier, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var results []*types.SubscriptionTier
	if err := transaction.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type UserSubscriptionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sub *types.UserSubscription) (*types.UserSubscription, error)
	// GetActiveByUser returns the newest unexpired active subscription, or
	// ErrNotFound when the user has none.
	GetActiveByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserSubscription, error)
	DeactivateByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type userSubscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) UserSubscriptionRepo {
	return &userSubscriptionRepo{db: db, log: baseLog.With("repo", "UserSubscriptionRepo")}
}

func (sr *userSubscriptionRepo) Create(ctx context.Context, tx *gorm.DB, sub *types.UserSubscription) (*types.UserSubscription, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

func (sr *userSubscriptionRepo) GetActiveByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserSubscription, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var sub types.UserSubscription
	if err := transaction.WithContext(ctx).
		Preload("Tier").
		Where("user_id = ? AND is_active = ? AND end_date > ?", userID, true, time.Now()).
		Order("end_date DESC").
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (sr *userSubscriptionRepo) DeactivateByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.UserSubscription{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false).Error
}
