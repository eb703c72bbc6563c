package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/newsloom/newsloom-backend/internal/repos/testutil"
	"github.com/newsloom/newsloom-backend/internal/types"
)

func TestArticleRepoFindPublished(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewArticleRepo(db, testutil.Logger(t))
	ctx := context.Background()

	author := testutil.SeedAuthor(t, ctx, tx, "findpub-author@example.com")
	tech := testutil.SeedCategory(t, ctx, tx, "findpub-tech")
	sport := testutil.SeedCategory(t, ctx, tx, "findpub-sport")

	older := testutil.SeedArticle(t, ctx, tx, author.ID, tech.ID, "older", 100, 50, 2*time.Hour)
	newer := testutil.SeedArticle(t, ctx, tx, author.ID, tech.ID, "newer", 10, 1, time.Hour)
	otherCat := testutil.SeedArticle(t, ctx, tx, author.ID, sport.ID, "sporty", 5, 0, time.Hour)
	testutil.SeedDraftArticle(t, ctx, tx, author.ID, tech.ID, "draft")

	got, err := repo.FindPublished(ctx, tx, PublishedFilter{
		CategoryIDs: []uuid.UUID{tech.ID},
		Order:       OrderRecencyThenEngagement,
	}, 10)
	if err != nil {
		t.Fatalf("FindPublished: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("FindPublished: expected 2 tech articles, got %d", len(got))
	}
	if got[0].ID != newer.ID {
		t.Fatalf("recency-first order: expected %q first, got %q", newer.Title, got[0].Title)
	}

	got, err = repo.FindPublished(ctx, tx, PublishedFilter{
		CategoryIDs: []uuid.UUID{tech.ID},
		Order:       OrderEngagementThenRecency,
	}, 10)
	if err != nil {
		t.Fatalf("FindPublished: %v", err)
	}
	if got[0].ID != older.ID {
		t.Fatalf("engagement-first order: expected %q first, got %q", older.Title, got[0].Title)
	}

	got, err = repo.FindPublished(ctx, tx, PublishedFilter{
		CategoryIDs: []uuid.UUID{tech.ID, sport.ID},
		ExcludeIDs:  []uuid.UUID{older.ID, newer.ID},
		Order:       OrderRecency,
	}, 10)
	if err != nil {
		t.Fatalf("FindPublished with exclusions: %v", err)
	}
	if len(got) != 1 || got[0].ID != otherCat.ID {
		t.Fatalf("exclusions: expected only %q, got %d results", otherCat.Title, len(got))
	}
}

func TestArticleRepoTrendingOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewArticleRepo(db, testutil.Logger(t))
	ctx := context.Background()

	author := testutil.SeedAuthor(t, ctx, tx, "trending-author@example.com")
	cat := testutil.SeedCategory(t, ctx, tx, "trending-cat")

	// This pair separates the two popularity blends: the fallback blend
	// (views*0.4 + likes*0.6) scores 40 vs 30, the listing blend
	// (views*0.3 + likes*0.7) scores 30 vs 35.
	manyViews := testutil.SeedArticle(t, ctx, tx, author.ID, cat.ID, "many-views", 100, 0, time.Hour)
	manyLikes := testutil.SeedArticle(t, ctx, tx, author.ID, cat.ID, "many-likes", 0, 50, time.Hour)

	got, err := repo.FindPublished(ctx, tx, PublishedFilter{
		CategoryIDs: []uuid.UUID{cat.ID},
		Order:       OrderTrending,
	}, 10)
	if err != nil {
		t.Fatalf("FindPublished: %v", err)
	}
	if len(got) != 2 || got[0].ID != manyViews.ID || got[1].ID != manyLikes.ID {
		t.Fatalf("fallback blend order: expected [%q %q]", manyViews.Title, manyLikes.Title)
	}

	got, err = repo.FindPublished(ctx, tx, PublishedFilter{
		CategoryIDs: []uuid.UUID{cat.ID},
		Order:       OrderEngagementThenRecency,
	}, 10)
	if err != nil {
		t.Fatalf("FindPublished: %v", err)
	}
	if len(got) != 2 || got[0].ID != manyLikes.ID || got[1].ID != manyViews.ID {
		t.Fatalf("listing blend order: expected [%q %q]", manyLikes.Title, manyViews.Title)
	}
}

func TestArticleRepoCountersAndDistinctCategories(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewArticleRepo(db, testutil.Logger(t))
	viewRepo := NewArticleViewRepo(db, testutil.Logger(t))
	likeRepo := NewArticleLikeRepo(db, testutil.Logger(t))
	ctx := context.Background()

	author := testutil.SeedAuthor(t, ctx, tx, "counters-author@example.com")
	reader := testutil.SeedUser(t, ctx, tx, "counters-reader@example.com")
	tech := testutil.SeedCategory(t, ctx, tx, "counters-tech")
	sport := testutil.SeedCategory(t, ctx, tx, "counters-sport")

	a := testutil.SeedArticle(t, ctx, tx, author.ID, tech.ID, "counted", 0, 0, time.Hour)
	b := testutil.SeedArticle(t, ctx, tx, author.ID, sport.ID, "liked", 0, 0, time.Hour)

	if err := repo.IncrementViews(ctx, tx, a.ID); err != nil {
		t.Fatalf("IncrementViews: %v", err)
	}
	if err := repo.IncrementLikes(ctx, tx, a.ID, 1); err != nil {
		t.Fatalf("IncrementLikes: %v", err)
	}
	reloaded, err := repo.GetByID(ctx, tx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.ViewsCount != 1 || reloaded.LikesCount != 1 {
		t.Fatalf("counters: got views=%d likes=%d", reloaded.ViewsCount, reloaded.LikesCount)
	}

	if _, err := viewRepo.Create(ctx, tx, reader.ID, a.ID, "127.0.0.1"); err != nil {
		t.Fatalf("view.Create: %v", err)
	}
	if _, err := likeRepo.Create(ctx, tx, reader.ID, b.ID); err != nil {
		t.Fatalf("like.Create: %v", err)
	}

	viewed, err := repo.DistinctViewedCategoryIDs(ctx, tx, reader.ID)
	if err != nil {
		t.Fatalf("DistinctViewedCategoryIDs: %v", err)
	}
	if len(viewed) != 1 || viewed[0] != tech.ID {
		t.Fatalf("viewed categories: got %v, want [%v]", viewed, tech.ID)
	}

	liked, err := repo.DistinctLikedCategoryIDs(ctx, tx, reader.ID)
	if err != nil {
		t.Fatalf("DistinctLikedCategoryIDs: %v", err)
	}
	if len(liked) != 1 || liked[0] != sport.ID {
		t.Fatalf("liked categories: got %v, want [%v]", liked, sport.ID)
	}
}

func TestArticleViewCreateIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	viewRepo := NewArticleViewRepo(db, testutil.Logger(t))
	ctx := context.Background()

	author := testutil.SeedAuthor(t, ctx, tx, "viewidem-author@example.com")
	reader := testutil.SeedUser(t, ctx, tx, "viewidem-reader@example.com")
	cat := testutil.SeedCategory(t, ctx, tx, "viewidem-cat")
	a := testutil.SeedArticle(t, ctx, tx, author.ID, cat.ID, "seen", 0, 0, time.Hour)

	created, err := viewRepo.Create(ctx, tx, reader.ID, a.ID, "")
	if err != nil {
		t.Fatalf("first view: %v", err)
	}
	if !created {
		t.Fatalf("first view should report created")
	}

	created, err = viewRepo.Create(ctx, tx, reader.ID, a.ID, "")
	if err != nil {
		t.Fatalf("repeat view: %v", err)
	}
	if created {
		t.Fatalf("repeat view should be a no-op")
	}

	var count int64
	if err := tx.Model(&types.ArticleView{}).Where("user_id = ? AND article_id = ?", reader.ID, a.ID).Count(&count).Error; err != nil {
		t.Fatalf("count views: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one view row, got %d", count)
	}
}

func TestArticleRepoGetByIDNotFound(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewArticleRepo(db, testutil.Logger(t))

	_, err := repo.GetByID(context.Background(), tx, uuid.New())
	if err == nil {
		t.Fatalf("expected error for unknown article")
	}
}
