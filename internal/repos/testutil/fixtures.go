package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsloom/newsloom-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:               uuid.New(),
		Username:         email,
		Email:            email,
		Password:         "pw",
		Role:             types.RoleReader,
		SubscriptionType: types.SubscriptionFree,
		IsActive:         true,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedAuthor(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := SeedUser(tb, ctx, tx, email)
	u.Role = types.RoleAuthor
	if err := tx.WithContext(ctx).Save(u).Error; err != nil {
		tb.Fatalf("seed author: %v", err)
	}
	return u
}

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Category {
	tb.Helper()
	c := &types.Category{
		ID:   uuid.New(),
		Name: name,
		Slug: name,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

// SeedArticle creates a published article with the given engagement counts.
// publishedAgo pushes published_at into the past so recency ordering is
// deterministic.
func SeedArticle(tb testing.TB, ctx context.Context, tx *gorm.DB, authorID, categoryID uuid.UUID, title string, views, likes int64, publishedAgo time.Duration) *types.Article {
	tb.Helper()
	publishedAt := time.Now().Add(-publishedAgo)
	a := &types.Article{
		ID:          uuid.New(),
		Title:       title,
		Slug:        fmt.Sprintf("%s-%s", title, uuid.New().String()[:8]),
		Content:     "content",
		AuthorID:    authorID,
		CategoryID:  categoryID,
		Status:      types.ArticleStatusPublished,
		ViewsCount:  views,
		LikesCount:  likes,
		PublishedAt: &publishedAt,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed article: %v", err)
	}
	return a
}

func SeedDraftArticle(tb testing.TB, ctx context.Context, tx *gorm.DB, authorID, categoryID uuid.UUID, title string) *types.Article {
	tb.Helper()
	a := &types.Article{
		ID:         uuid.New(),
		Title:      title,
		Slug:       fmt.Sprintf("%s-%s", title, uuid.New().String()[:8]),
		Content:    "content",
		AuthorID:   authorID,
		CategoryID: categoryID,
		Status:     types.ArticleStatusDraft,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed draft article: %v", err)
	}
	return a
}

func SeedPreference(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, categoryID uuid.UUID, score float64) *types.UserPreference {
	tb.Helper()
	p := &types.UserPreference{
		ID:         uuid.New(),
		UserID:     userID,
		CategoryID: categoryID,
		Score:      score,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed preference: %v", err)
	}
	return p
}

func SeedTier(tb testing.TB, ctx context.Context, tx *gorm.DB, name, tierType string, price float64) *types.SubscriptionTier {
	tb.Helper()
	tier := &types.SubscriptionTier{
		ID:           uuid.New(),
		Name:         name,
		Type:         tierType,
		Price:        price,
		DurationDays: 30,
		IsActive:     true,
	}
	if err := tx.WithContext(ctx).Create(tier).Error; err != nil {
		tb.Fatalf("seed tier: %v", err)
	}
	return tier
}
