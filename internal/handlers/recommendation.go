package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/newsloom/newsloom-backend/internal/pkg/ctxutil"
	"github.com/newsloom/newsloom-backend/internal/services"
)

type RecommendationHandler struct {
	recommendationService services.RecommendationService
}

func NewRecommendationHandler(recommendationService services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService}
}

func (rh *RecommendationHandler) Recommend(c *gin.Context) {
	limit, _ := pagination(c, 10)
	articles, err := rh.recommendationService.Recommend(c.Request.Context(), ctxutil.UserID(c.Request.Context()), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"articles": articles})
}

func (rh *RecommendationHandler) Trending(c *gin.Context) {
	limit, _ := pagination(c, 10)
	articles, err := rh.recommendationService.Trending(c.Request.Context(), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"articles": articles})
}
