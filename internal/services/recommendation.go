package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
	"github.com/newsloom/newsloom-backend/internal/repos"
	"github.com/newsloom/newsloom-backend/internal/types"
)

const defaultRecommendationLimit = 10

type RecommendationService interface {
	// Recommend returns up to limit published articles for the user, blending
	// explicit category favorites, liked/viewed category signals and the
	// global trending ranking. Best effort: it degrades stage by stage and
	// only fails when every fallback is down.
	Recommend(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Article, error)
	// Trending is the unpersonalized top-K by weighted popularity.
	Trending(ctx context.Context, limit int) ([]*types.Article, error)
	// RecordView stores a view once per (user, article), bumps the article's
	// view counter on first view and nudges the category preference score.
	RecordView(ctx context.Context, userID, articleID uuid.UUID, ipAddress string) error
	// RecordLike nudges the category preference score for a liked article.
	// The like row and counter belong to the article service.
	RecordLike(ctx context.Context, userID, articleID uuid.UUID) error
}

type recommendationService struct {
	db             *gorm.DB
	log            *logger.Logger
	articleRepo    repos.ArticleRepo
	preferenceRepo repos.UserPreferenceRepo
	likeRepo       repos.ArticleLikeRepo
	savedRepo      repos.SavedArticleRepo
	viewRepo       repos.ArticleViewRepo
}

func NewRecommendationService(
	db *gorm.DB,
	log *logger.Logger,
	articleRepo repos.ArticleRepo,
	preferenceRepo repos.UserPreferenceRepo,
	likeRepo repos.ArticleLikeRepo,
	savedRepo repos.SavedArticleRepo,
	viewRepo repos.ArticleViewRepo,
) RecommendationService {
	return &recommendationService{
		db:             db,
		log:            log.With("service", "RecommendationService"),
		articleRepo:    articleRepo,
		preferenceRepo: preferenceRepo,
		likeRepo:       likeRepo,
		savedRepo:      savedRepo,
		viewRepo:       viewRepo,
	}
}

func (rs *recommendationService) Recommend(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Article, error) {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	articles, degraded := rs.runPipeline(ctx, userID, limit)
	if len(articles) > 0 || !degraded {
		return articles, nil
	}

	// The whole pipeline produced nothing and at least one stage failed.
	// Fall back to global trending with no exclusions, then to plain
	// most-recent published.
	rs.log.Warn("Recommendation pipeline degraded, falling back to trending", "user_id", userID)
	trending, err := rs.articleRepo.FindPublished(ctx, nil, repos.PublishedFilter{Order: repos.OrderTrending}, limit)
	if err == nil {
		return trending, nil
	}
	rs.log.Error("Trending fallback failed, falling back to recent articles", "user_id", userID, "error", err)
	recent, err := rs.articleRepo.FindPublished(ctx, nil, repos.PublishedFilter{Order: repos.OrderRecency}, limit)
	if err != nil {
		return nil, fmt.Errorf("all recommendation fallbacks failed: %w", err)
	}
	return recent, nil
}

// runPipeline executes the staged cascade. Every stage's query failure is
// logged and contributes nothing; degraded reports whether any stage failed.
func (rs *recommendationService) runPipeline(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Article, bool) {
	degraded := false

	// Signal collection: favorites first (score order), then categories the
	// user liked or viewed articles in.
	var favoriteCatIDs []uuid.UUID
	prefs, err := rs.preferenceRepo.GetByUser(ctx, nil, userID)
	if err != nil {
		rs.log.Warn("Failed to load category preferences", "user_id", userID, "error", err)
		degraded = true
	} else {
		for _, p := range prefs {
			favoriteCatIDs = append(favoriteCatIDs, p.CategoryID)
		}
	}

	likedCats, err := rs.articleRepo.DistinctLikedCategoryIDs(ctx, nil, userID)
	if err != nil {
		rs.log.Warn("Failed to load liked categories", "user_id", userID, "error", err)
		degraded = true
	}
	viewedCats, err := rs.articleRepo.DistinctViewedCategoryIDs(ctx, nil, userID)
	if err != nil {
		rs.log.Warn("Failed to load viewed categories", "user_id", userID, "error", err)
		degraded = true
	}

	preferred := mergeCategoryIDs(favoriteCatIDs, likedCats, viewedCats)

	// Hard exclusions: liked and saved article ids. Viewed-only articles stay
	// eligible so favorite categories can saturate the feed.
	hardExcluded := rs.interactedArticleIDs(ctx, userID, &degraded)

	selected := make([]*types.Article, 0, limit)
	seen := make(map[uuid.UUID]struct{})

	appendArticles := func(batch []*types.Article) {
		for _, a := range batch {
			if len(selected) >= limit {
				return
			}
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
			selected = append(selected, a)
		}
	}

	// Stage A: favorite categories, freshest first.
	if len(favoriteCatIDs) > 0 {
		batch, err := rs.articleRepo.FindPublished(ctx, nil, repos.PublishedFilter{
			CategoryIDs: favoriteCatIDs,
			ExcludeIDs:  hardExcluded,
			Order:       repos.OrderRecencyThenEngagement,
		}, limit)
		if err != nil {
			rs.log.Warn("Favorites stage failed", "user_id", userID, "error", err)
			degraded = true
		} else {
			appendArticles(batch)
		}
	}

	// Stage B: top up from favorites. Only already-selected ids are added to
	// the exclusion here; previously viewed favorite-category articles remain
	// fair game so favorites can fill the feed even with seen content.
	if len(selected) < limit && len(favoriteCatIDs) > 0 {
		batch, err := rs.articleRepo.FindPublished(ctx, nil, repos.PublishedFilter{
			CategoryIDs: favoriteCatIDs,
			ExcludeIDs:  unionIDs(hardExcluded, selectedIDs(selected)),
			Order:       repos.OrderRecencyThenEngagement,
		}, limit-len(selected))
		if err != nil {
			rs.log.Warn("Favorites top-up stage failed", "user_id", userID, "error", err)
			degraded = true
		} else {
			appendArticles(batch)
		}
	}

	// Stage C: remaining preferred categories, most popular first.
	if len(selected) < limit {
		otherCats := subtractIDs(preferred, favoriteCatIDs)
		if len(otherCats) > 0 {
			batch, err := rs.articleRepo.FindPublished(ctx, nil, repos.PublishedFilter{
				CategoryIDs: otherCats,
				ExcludeIDs:  unionIDs(hardExcluded, selectedIDs(selected)),
				Order:       repos.OrderEngagementThenRecency,
			}, limit-len(selected))
			if err != nil {
				rs.log.Warn("Preferred categories stage failed", "user_id", userID, "error", err)
				degraded = true
			} else {
				appendArticles(batch)
			}
		}
	}

	// Stage D: global trending fallback.
	if len(selected) < limit {
		batch, err := rs.articleRepo.FindPublished(ctx, nil, repos.PublishedFilter{
			ExcludeIDs: unionIDs(hardExcluded, selectedIDs(selected)),
			Order:      repos.OrderTrending,
		}, limit-len(selected))
		if err != nil {
			rs.log.Warn("Trending stage failed", "user_id", userID, "error", err)
			degraded = true
		} else {
			appendArticles(batch)
		}
	}

	return selected, degraded
}

func (rs *recommendationService) interactedArticleIDs(ctx context.Context, userID uuid.UUID, degraded *bool) []uuid.UUID {
	liked, err := rs.likeRepo.ListArticleIDs(ctx, nil, userID)
	if err != nil {
		rs.log.Warn("Failed to load liked article ids", "user_id", userID, "error", err)
		*degraded = true
	}
	saved, err := rs.savedRepo.ListArticleIDs(ctx, nil, userID)
	if err != nil {
		rs.log.Warn("Failed to load saved article ids", "user_id", userID, "error", err)
		*degraded = true
	}
	return unionIDs(liked, saved)
}

func (rs *recommendationService) Trending(ctx context.Context, limit int) ([]*types.Article, error) {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	return rs.articleRepo.FindPublished(ctx, nil, repos.PublishedFilter{
		Order: repos.OrderEngagementThenRecency,
	}, limit)
}

func (rs *recommendationService) RecordView(ctx context.Context, userID, articleID uuid.UUID, ipAddress string) error {
	return rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := rs.viewRepo.Create(ctx, tx, userID, articleID, ipAddress)
		if err != nil {
			return fmt.Errorf("failed to record article view: %w", err)
		}
		if !created {
			// Already viewed: no double counting, no extra preference bump.
			return nil
		}
		if err := rs.articleRepo.IncrementViews(ctx, tx, articleID); err != nil {
			return fmt.Errorf("failed to increment view counter: %w", err)
		}
		article, err := rs.articleRepo.GetByID(ctx, tx, articleID)
		if err != nil {
			return fmt.Errorf("failed to load article for preference update: %w", err)
		}
		return rs.preferenceRepo.AdjustScore(ctx, tx, userID, article.CategoryID, types.PreferenceViewIncrement, types.PreferenceScoreCap)
	})
}

func (rs *recommendationService) RecordLike(ctx context.Context, userID, articleID uuid.UUID) error {
	article, err := rs.articleRepo.GetByID(ctx, nil, articleID)
	if err != nil {
		return fmt.Errorf("failed to load article for preference update: %w", err)
	}
	return rs.preferenceRepo.AdjustScore(ctx, nil, userID, article.CategoryID, types.PreferenceLikeIncrement, types.PreferenceScoreCap)
}

// ---- id set helpers ----

func mergeCategoryIDs(lists ...[]uuid.UUID) []uuid.UUID {
	var merged []uuid.UUID
	seen := make(map[uuid.UUID]struct{})
	for _, list := range lists {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	return merged
}

func unionIDs(a, b []uuid.UUID) []uuid.UUID {
	return mergeCategoryIDs(a, b)
}

func subtractIDs(from, remove []uuid.UUID) []uuid.UUID {
	drop := make(map[uuid.UUID]struct{}, len(remove))
	for _, id := range remove {
		drop[id] = struct{}{}
	}
	var out []uuid.UUID
	for _, id := range from {
		if _, ok := drop[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func selectedIDs(articles []*types.Article) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}
	return ids
}
