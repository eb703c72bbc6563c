package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsloom/newsloom-backend/internal/repos"
	"github.com/newsloom/newsloom-backend/internal/repos/testutil"
	"github.com/newsloom/newsloom-backend/internal/types"
)

func newTestRecommendationService(t *testing.T, tx *gorm.DB) RecommendationService {
	t.Helper()
	log := testutil.Logger(t)
	return NewRecommendationService(
		tx,
		log,
		repos.NewArticleRepo(tx, log),
		repos.NewUserPreferenceRepo(tx, log),
		repos.NewArticleLikeRepo(tx, log),
		repos.NewSavedArticleRepo(tx, log),
		repos.NewArticleViewRepo(tx, log),
	)
}

func articleIDs(articles []*types.Article) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}
	return ids
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func TestRecommendFavoriteCategoriesComeFirst(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newTestRecommendationService(t, tx)
	ctx := context.Background()

	author := testutil.SeedAuthor(t, ctx, tx, "rec-author@example.com")
	tech := testutil.SeedCategory(t, ctx, tx, "rec-tech")
	sport := testutil.SeedCategory(t, ctx, tx, "rec-sport")
	reader := testutil.SeedUser(t, ctx, tx, "rec-reader@example.com")
	testutil.SeedPreference(t, ctx, tx, reader.ID, tech.ID, 3.0)

	techNew := testutil.SeedArticle(t, ctx, tx, author.ID, tech.ID, "tech-new", 0, 0, time.Hour)
	techOld := testutil.SeedArticle(t, ctx, tx, author.ID, tech.ID, "tech-old", 500, 100, 48*time.Hour)
	sportHot := testutil.SeedArticle(t, ctx, tx, author.ID, sport.ID, "sport-hot", 10000, 2000, 2*time.Hour)

	got, err := svc.Recommend(ctx, reader.ID, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	ids := articleIDs(got)
	if len(ids) < 3 {
		t.Fatalf("expected all 3 articles, got %d", len(ids))
	}
	// Favorite-category articles lead, newest first, even when an article
	// elsewhere is far more popular.
	if ids[0] != techNew.ID || ids[1] != techOld.ID {
		t.Fatalf("favorite category must lead recency-first, got %v", ids[:2])
	}
	if !containsID(ids, sportHot.ID) {
		t.Fatalf("trending article outside favorites should still be included")
	}
}

func TestRecommendNeverReturnsLikedOrSaved(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newTestRecommendationService(t, tx)
	log := testutil.Logger(t)
	likeRepo := repos.NewArticleLikeRepo(tx, log)
	savedRepo := repos.NewSavedArticleRepo(tx, log)
	viewRepo := repos.NewArticleViewRepo(tx, log)
	ctx := context.Background()

	author := testutil.SeedAuthor(t, ctx, tx, "rec-excl-author@example.com")
	tech := testutil.SeedCategory(t, ctx, tx, "rec-excl-tech")
	reader := testutil.SeedUser(t, ctx, tx, "rec-excl-reader@example.com")
	testutil.SeedPreference(t, ctx, tx, reader.ID, tech.ID, 3.0)

	liked := testutil.SeedArticle(t, ctx, tx, author.ID, tech.ID, "excl-liked", 0, 0, time.Hour)
	saved := testutil.SeedArticle(t, ctx, tx, author.ID, tech.ID, "excl-saved", 0, 0, 2*time.Hour)
	viewed := testutil.SeedArticle(t, ctx, tx, author.ID, tech.ID, "excl-viewed", 0, 0, 3*time.Hour)

	if _, err := likeRepo.Create(ctx, tx, reader.ID, liked.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := savedRepo.Create(ctx, tx, reader.ID, saved.ID); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := viewRepo.Create(ctx, tx, reader.ID, viewed.ID, "10.0.0.1"); err != nil {
		t.Fatalf("view: %v", err)
	}

	got, err := svc.Recommend(ctx, reader.ID, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	ids := articleIDs(got)
	if containsID(ids, liked.ID) {
		t.Fatalf("liked articles must never be recommended")
	}
	if containsID(ids, saved.ID) {
		t.Fatalf("saved articles must never be recommended")
	}
	// A mere view does not retire an article from the pool.
	if !containsID(ids, viewed.ID) {
		t.Fatalf("viewed-only articles stay eligible")
	}
}

func TestRecommendHonorsLimitWithoutDuplicates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newTestRecommendationService(t, tx)
	ctx := context.Background()

	author := testutil.SeedAuthor(t, ctx, tx, "rec-limit-author@example.com")
	tech := testutil.SeedCategory(t, ctx, tx, "rec-limit-tech")
	sport := testutil.SeedCategory(t, ctx, tx, "rec-limit-sport")
	reader := testutil.SeedUser(t, ctx, tx, "rec-limit-reader@example.com")
	testutil.SeedPreference(t, ctx, tx, reader.ID, tech.ID, 2.0)
	testutil.SeedPreference(t, ctx, tx, reader.ID, sport.ID, 1.0)

	for i, title := range []string{"lim-a", "lim-b", "lim-c", "lim-d"} {
		cat := tech
		if i%2 == 1 {
			cat = sport
		}
		testutil.SeedArticle(t, ctx, tx, author.ID, cat.ID, title, int64(i*10), int64(i), time.Duration(i+1)*time.Hour)
	}

	got, err := svc.Recommend(ctx, reader.ID, 2)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit not honored: got %d articles", len(got))
	}
	if got[0].ID == got[1].ID {
		t.Fatalf("duplicate article in recommendations")
	}
}

func TestRecommendFallsBackToTrending(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newTestRecommendationService(t, tx)
	ctx := context.Background()

	author := testutil.SeedAuthor(t, ctx, tx, "rec-cold-author@example.com")
	tech := testutil.SeedCategory(t, ctx, tx, "rec-cold-tech")
	reader := testutil.SeedUser(t, ctx, tx, "rec-cold-reader@example.com")

	hot := testutil.SeedArticle(t, ctx, tx, author.ID, tech.ID, "cold-hot", 1000, 300, 5*time.Hour)
	mild := testutil.SeedArticle(t, ctx, tx, author.ID, tech.ID, "cold-mild", 10, 1, time.Hour)

	got, err := svc.Recommend(ctx, reader.ID, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	ids := articleIDs(got)
	if len(ids) != 2 {
		t.Fatalf("expected both articles for a cold-start user, got %d", len(ids))
	}
	if ids[0] != hot.ID || ids[1] != mild.ID {
		t.Fatalf("cold-start users get the trending order, got %v", ids)
	}
}

func TestTrendingWeighsLikesOverViews(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newTestRecommendationService(t, tx)
	ctx := context.Background()

	author := testutil.SeedAuthor(t, ctx, tx, "trend-author@example.com")
	tech := testutil.SeedCategory(t, ctx, tx, "trend-tech")

	// views*0.3 + likes*0.7: 50 likes (35) outscore 100 views (30).
	manyViews := testutil.SeedArticle(t, ctx, tx, author.ID, tech.ID, "trend-views", 100, 0, time.Hour)
	manyLikes := testutil.SeedArticle(t, ctx, tx, author.ID, tech.ID, "trend-likes", 0, 50, time.Hour)

	got, err := svc.Trending(ctx, 10)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	ids := articleIDs(got)
	if len(ids) != 2 || ids[0] != manyLikes.ID || ids[1] != manyViews.ID {
		t.Fatalf("trending must weigh likes over views, got %v want [%v %v]", ids, manyLikes.ID, manyViews.ID)
	}
}

func TestRecordViewIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newTestRecommendationService(t, tx)
	log := testutil.Logger(t)
	articleRepo := repos.NewArticleRepo(tx, log)
	prefRepo := repos.NewUserPreferenceRepo(tx, log)
	ctx := context.Background()

	author := testutil.SeedAuthor(t, ctx, tx, "rec-view-author@example.com")
	tech := testutil.SeedCategory(t, ctx, tx, "rec-view-tech")
	reader := testutil.SeedUser(t, ctx, tx, "rec-view-reader@example.com")
	article := testutil.SeedArticle(t, ctx, tx, author.ID, tech.ID, "view-target", 0, 0, time.Hour)

	if err := svc.RecordView(ctx, reader.ID, article.ID, "10.0.0.1"); err != nil {
		t.Fatalf("RecordView: %v", err)
	}
	if err := svc.RecordView(ctx, reader.ID, article.ID, "10.0.0.1"); err != nil {
		t.Fatalf("RecordView repeat: %v", err)
	}

	reloaded, err := articleRepo.GetByID(ctx, tx, article.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.ViewsCount != 1 {
		t.Fatalf("views_count = %d, want 1 after repeated views", reloaded.ViewsCount)
	}

	prefs, err := prefRepo.GetByUser(ctx, tx, reader.ID)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if len(prefs) != 1 {
		t.Fatalf("expected one preference row, got %d", len(prefs))
	}
	if math.Abs(prefs[0].Score-types.PreferenceViewIncrement) > 1e-9 {
		t.Fatalf("preference score = %v, want %v once", prefs[0].Score, types.PreferenceViewIncrement)
	}
}

func TestRecordLikeCapsPreferenceScore(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc := newTestRecommendationService(t, tx)
	log := testutil.Logger(t)
	prefRepo := repos.NewUserPreferenceRepo(tx, log)
	ctx := context.Background()

	author := testutil.SeedAuthor(t, ctx, tx, "rec-like-author@example.com")
	tech := testutil.SeedCategory(t, ctx, tx, "rec-like-tech")
	reader := testutil.SeedUser(t, ctx, tx, "rec-like-reader@example.com")
	article := testutil.SeedArticle(t, ctx, tx, author.ID, tech.ID, "like-target", 0, 0, time.Hour)
	testutil.SeedPreference(t, ctx, tx, reader.ID, tech.ID, 4.5)

	if err := svc.RecordLike(ctx, reader.ID, article.ID); err != nil {
		t.Fatalf("RecordLike: %v", err)
	}

	prefs, err := prefRepo.GetByUser(ctx, tx, reader.ID)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if len(prefs) != 1 {
		t.Fatalf("expected one preference row, got %d", len(prefs))
	}
	if math.Abs(prefs[0].Score-types.PreferenceScoreCap) > 1e-9 {
		t.Fatalf("preference score = %v, want capped at %v", prefs[0].Score, types.PreferenceScoreCap)
	}
}
