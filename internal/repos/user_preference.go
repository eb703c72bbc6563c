package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
	"github.com/newsloom/newsloom-backend/internal/types"
)

type UserPreferenceRepo interface {
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserPreference, error)
	// AdjustScore applies a read-then-write increment, clamped to [0, cap].
	// Creates the row on first interaction. Concurrent increments to the same
	// pair may lose an update; scores are heuristic, so that is accepted.
	AdjustScore(ctx context.Context, tx *gorm.DB, userID, categoryID uuid.UUID, delta, cap float64) error
	SetScore(ctx context.Context, tx *gorm.DB, userID, categoryID uuid.UUID, score float64) error
	Delete(ctx context.Context, tx *gorm.DB, userID, categoryID uuid.UUID) (bool, error)
}

type userPreferenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserPreferenceRepo(db *gorm.DB, baseLog *logger.Logger) UserPreferenceRepo {
	return &userPreferenceRepo{db: db, log: baseLog.With("repo", "UserPreferenceRepo")}
}

func (pr *userPreferenceRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserPreference, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.UserPreference
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("score DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *userPreferenceRepo) AdjustScore(ctx context.Context, tx *gorm.DB, userID, categoryID uuid.UUID, delta, cap float64) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var pref types.UserPreference
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		First(&pref).Error
	switch {
	case err == nil:
		pref.Score = clampScore(pref.Score+delta, cap)
		return transaction.WithContext(ctx).
			Model(&types.UserPreference{}).
			Where("id = ?", pref.ID).
			Update("score", pref.Score).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		pref = types.UserPreference{
			ID:         uuid.New(),
			UserID:     userID,
			CategoryID: categoryID,
			Score:      clampScore(delta, cap),
		}
		return transaction.WithContext(ctx).Create(&pref).Error
	default:
		return err
	}
}

func (pr *userPreferenceRepo) SetScore(ctx context.Context, tx *gorm.DB, userID, categoryID uuid.UUID, score float64) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	score = clampScore(score, types.PreferenceScoreCap)
	var pref types.UserPreference
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		First(&pref).Error
	switch {
	case err == nil:
		return transaction.WithContext(ctx).
			Model(&types.UserPreference{}).
			Where("id = ?", pref.ID).
			Update("score", score).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		pref = types.UserPreference{
			ID:         uuid.New(),
			UserID:     userID,
			CategoryID: categoryID,
			Score:      score,
		}
		return transaction.WithContext(ctx).Create(&pref).Error
	default:
		return err
	}
}

func (pr *userPreferenceRepo) Delete(ctx context.Context, tx *gorm.DB, userID, categoryID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	res := transaction.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Delete(&types.UserPreference{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func clampScore(score, cap float64) float64 {
	if score > cap {
		return cap
	}
	if score < 0 {
		return 0
	}
	return score
}
