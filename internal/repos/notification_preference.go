package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
	"github.com/newsloom/newsloom-backend/internal/types"
)

type NotificationPreferenceRepo interface {
	// GetByUser returns the user's opt-in flags, or an all-true default when
	// no row exists.
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.NotificationPreference, error)
	Upsert(ctx context.Context, tx *gorm.DB, pref *types.NotificationPreference) (*types.NotificationPreference, error)
}

type notificationPreferenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationPreferenceRepo(db *gorm.DB, baseLog *logger.Logger) NotificationPreferenceRepo {
	return &notificationPreferenceRepo{db: db, log: baseLog.With("repo", "NotificationPreferenceRepo")}
}

func (pr *notificationPreferenceRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.NotificationPreference, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var pref types.NotificationPreference
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &types.NotificationPreference{
			UserID:         userID,
			BreakingNews:   true,
			DailyDigest:    true,
			AuthorAlerts:   true,
			CommentReplies: true,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

func (pr *notificationPreferenceRepo) Upsert(ctx context.Context, tx *gorm.DB, pref *types.NotificationPreference) (*types.NotificationPreference, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var existing types.NotificationPreference
	err := transaction.WithContext(ctx).
		Where("user_id = ?", pref.UserID).
		First(&existing).Error
	switch {
	case err == nil:
		existing.BreakingNews = pref.BreakingNews
		existing.DailyDigest = pref.DailyDigest
		existing.AuthorAlerts = pref.AuthorAlerts
		existing.CommentReplies = pref.CommentReplies
		if err := transaction.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if pref.ID == uuid.Nil {
			pref.ID = uuid.New()
		}
		if err := transaction.WithContext(ctx).Create(pref).Error; err != nil {
			return nil, err
		}
		return pref, nil
	default:
		return nil, err
	}
}
