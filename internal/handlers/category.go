package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/newsloom/newsloom-backend/internal/services"
)

type CategoryHandler struct {
	categoryService services.CategoryService
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (ch *CategoryHandler) Create(c *gin.Context) {
	var req services.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	category, err := ch.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

func (ch *CategoryHandler) List(c *gin.Context) {
	categories, err := ch.categoryService.List(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"categories": categories})
}

func (ch *CategoryHandler) Get(c *gin.Context) {
	categoryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	category, err := ch.categoryService.Get(c.Request.Context(), categoryID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"category": category})
}

func (ch *CategoryHandler) Update(c *gin.Context) {
	categoryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	category, err := ch.categoryService.Update(c.Request.Context(), categoryID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"category": category})
}

func (ch *CategoryHandler) Delete(c *gin.Context) {
	categoryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ch.categoryService.Delete(c.Request.Context(), categoryID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
