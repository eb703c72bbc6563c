package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/newsloom/newsloom-backend/internal/pkg/ctxutil"
	"github.com/newsloom/newsloom-backend/internal/services"
)

type CommentHandler struct {
	commentService services.CommentService
}

func NewCommentHandler(commentService services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (ch *CommentHandler) Create(c *gin.Context) {
	articleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.CreateCommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	comment, err := ch.commentService.Create(c.Request.Context(), ctxutil.UserID(c.Request.Context()), articleID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (ch *CommentHandler) ListByArticle(c *gin.Context) {
	articleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	limit, offset := pagination(c, 50)
	comments, err := ch.commentService.ListByArticle(c.Request.Context(), articleID, limit, offset)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"comments": comments})
}

func (ch *CommentHandler) Update(c *gin.Context) {
	commentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	comment, err := ch.commentService.Update(c.Request.Context(), ctxutil.UserID(c.Request.Context()), commentID, req.Content)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"comment": comment})
}

func (ch *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ch.commentService.Delete(c.Request.Context(), ctxutil.UserID(c.Request.Context()), commentID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
