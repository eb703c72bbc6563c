package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/newsloom/newsloom-backend/internal/pkg/ctxutil"
	"github.com/newsloom/newsloom-backend/internal/services"
)

type ArticleHandler struct {
	articleService services.ArticleService
}

func NewArticleHandler(articleService services.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

func (ah *ArticleHandler) Create(c *gin.Context) {
	var req services.CreateArticleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	article, err := ah.articleService.Create(c.Request.Context(), ctxutil.UserID(c.Request.Context()), req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"article": article})
}

func (ah *ArticleHandler) Get(c *gin.Context) {
	articleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	article, err := ah.articleService.Get(c.Request.Context(), articleID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"article": article})
}

func (ah *ArticleHandler) GetBySlug(c *gin.Context) {
	article, err := ah.articleService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"article": article})
}

func (ah *ArticleHandler) List(c *gin.Context) {
	limit, offset := pagination(c, 20)
	filter := services.ListArticlesFilter{
		Search: c.Query("q"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_id", err)
			return
		}
		filter.CategoryID = &categoryID
	}
	if raw := c.Query("author_id"); raw != "" {
		authorID, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_id", err)
			return
		}
		filter.AuthorID = &authorID
	}
	articles, err := ah.articleService.List(c.Request.Context(), filter)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"articles": articles})
}

func (ah *ArticleHandler) Update(c *gin.Context) {
	articleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateArticleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	article, err := ah.articleService.Update(c.Request.Context(), articleID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"article": article})
}

func (ah *ArticleHandler) Delete(c *gin.Context) {
	articleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ah.articleService.Delete(c.Request.Context(), articleID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

func (ah *ArticleHandler) Publish(c *gin.Context) {
	articleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Breaking bool `json:"breaking"`
	}
	// Body is optional, ignore bind errors for empty bodies.
	_ = c.ShouldBindJSON(&req)
	article, err := ah.articleService.Publish(c.Request.Context(), articleID, req.Breaking)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"article": article})
}

func (ah *ArticleHandler) Archive(c *gin.Context) {
	articleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	article, err := ah.articleService.Archive(c.Request.Context(), articleID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"article": article})
}

func (ah *ArticleHandler) Like(c *gin.Context) {
	articleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ah.articleService.Like(c.Request.Context(), ctxutil.UserID(c.Request.Context()), articleID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"liked": true})
}

func (ah *ArticleHandler) Unlike(c *gin.Context) {
	articleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ah.articleService.Unlike(c.Request.Context(), ctxutil.UserID(c.Request.Context()), articleID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"liked": false})
}

func (ah *ArticleHandler) Save(c *gin.Context) {
	articleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ah.articleService.Save(c.Request.Context(), ctxutil.UserID(c.Request.Context()), articleID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"saved": true})
}

func (ah *ArticleHandler) Unsave(c *gin.Context) {
	articleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ah.articleService.Unsave(c.Request.Context(), ctxutil.UserID(c.Request.Context()), articleID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"saved": false})
}
