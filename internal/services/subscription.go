package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsloom/newsloom-backend/internal/events"
	pkgerrors "github.com/newsloom/newsloom-backend/internal/pkg/errors"
	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
	"github.com/newsloom/newsloom-backend/internal/repos"
	"github.com/newsloom/newsloom-backend/internal/types"
)

// TierFeatures is the feature set a pricing strategy unlocks.
type TierFeatures struct {
	Ads               bool `json:"ads"`
	ExclusiveArticles bool `json:"exclusive_articles"`
	OfflineReading    bool `json:"offline_reading"`
	MultipleUsers     bool `json:"multiple_users"`
}

// pricingStrategy is a pure price/feature table entry keyed by tier type.
type pricingStrategy struct {
	multiplier float64
	features   TierFeatures
}

var pricingStrategies = map[string]pricingStrategy{
	types.SubscriptionFree: {
		multiplier: 0,
		features:   TierFeatures{Ads: true},
	},
	types.SubscriptionPaid: {
		multiplier: 1,
		features:   TierFeatures{ExclusiveArticles: true, OfflineReading: true},
	},
	types.SubscriptionStudent: {
		multiplier: 0.5,
		features:   TierFeatures{ExclusiveArticles: true, OfflineReading: true},
	},
	types.SubscriptionCorporate: {
		multiplier: 5,
		features:   TierFeatures{ExclusiveArticles: true, OfflineReading: true, MultipleUsers: true},
	},
}

// ResolvePricing returns the strategy for a tier type; unknown types price as
// free.
func ResolvePricing(tierType string) (price func(base float64) float64, features TierFeatures) {
	strategy, ok := pricingStrategies[tierType]
	if !ok {
		strategy = pricingStrategies[types.SubscriptionFree]
	}
	return func(base float64) float64 { return base * strategy.multiplier }, strategy.features
}

// SubscriptionResult is the caller-facing summary of a new subscription.
type SubscriptionResult struct {
	Subscription *types.UserSubscription `json:"subscription"`
	TierName     string                  `json:"tier_name"`
	TierType     string                  `json:"tier_type"`
	Price        float64                 `json:"price"`
	Features     TierFeatures            `json:"features"`
}

type SubscriptionService interface {
	ListTiers(ctx context.Context) ([]*types.SubscriptionTier, error)
	GetCurrent(ctx context.Context, userID uuid.UUID) (*types.UserSubscription, error)
	// Subscribe prices the tier for the user, replaces any active
	// subscription and publishes a subscription.upgraded event for paid
	// tiers.
	Subscribe(ctx context.Context, userID, tierID uuid.UUID) (*SubscriptionResult, error)
	HasPremiumAccess(ctx context.Context, userID uuid.UUID) (bool, error)
}

type subscriptionService struct {
	db       *gorm.DB
	log      *logger.Logger
	bus      *events.Bus
	userRepo repos.UserRepo
	tierRepo repos.SubscriptionTierRepo
	subRepo  repos.UserSubscriptionRepo
}

func NewSubscriptionService(
	db *gorm.DB,
	log *logger.Logger,
	bus *events.Bus,
	userRepo repos.UserRepo,
	tierRepo repos.SubscriptionTierRepo,
	subRepo repos.UserSubscriptionRepo,
) SubscriptionService {
	return &subscriptionService{
		db:       db,
		log:      log.With("service", "SubscriptionService"),
		bus:      bus,
		userRepo: userRepo,
		tierRepo: tierRepo,
		subRepo:  subRepo,
	}
}

func (ss *subscriptionService) ListTiers(ctx context.Context) ([]*types.SubscriptionTier, error) {
	return ss.tierRepo.ListActive(ctx, nil)
}

func (ss *subscriptionService) GetCurrent(ctx context.Context, userID uuid.UUID) (*types.UserSubscription, error) {
	return ss.subRepo.GetActiveByUser(ctx, nil, userID)
}

func (ss *subscriptionService) Subscribe(ctx context.Context, userID, tierID uuid.UUID) (*SubscriptionResult, error) {
	tier, err := ss.tierRepo.GetByID(ctx, nil, tierID)
	if err != nil {
		return nil, fmt.Errorf("invalid subscription tier: %w", err)
	}
	user, err := ss.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, pkgerrors.ErrForbidden
	}

	price, features := ResolvePricing(tier.Type)
	finalPrice := price(tier.Price)

	start := time.Now()
	sub := &types.UserSubscription{
		UserID:    userID,
		TierID:    tier.ID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, tier.DurationDays),
		PricePaid: finalPrice,
		IsActive:  true,
	}
	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ss.subRepo.DeactivateByUser(ctx, tx, userID); err != nil {
			return fmt.Errorf("failed to deactivate prior subscriptions: %w", err)
		}
		if _, err := ss.subRepo.Create(ctx, tx, sub); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		if err := ss.userRepo.SetSubscriptionType(ctx, tx, userID, tier.Type); err != nil {
			return fmt.Errorf("failed to update user subscription type: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if tier.Type != types.SubscriptionFree {
		ss.bus.Publish(ctx, events.Event{
			Topic: events.TopicSubscriptionUpgraded,
			Data: map[string]any{
				"user_id":           userID,
				"subscription_type": tier.Type,
			},
		})
	}

	return &SubscriptionResult{
		Subscription: sub,
		TierName:     tier.Name,
		TierType:     tier.Type,
		Price:        finalPrice,
		Features:     features,
	}, nil
}

func (ss *subscriptionService) HasPremiumAccess(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := ss.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return false, err
	}
	return user.HasPremiumAccess(), nil
}
