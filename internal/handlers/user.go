package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/newsloom/newsloom-backend/internal/pkg/ctxutil"
	"github.com/newsloom/newsloom-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// pagination reads limit/offset query params with sane defaults.
func pagination(c *gin.Context, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetProfile(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"user": me})
}

func (uh *UserHandler) UpdateMe(c *gin.Context) {
	var req services.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	me, err := uh.userService.UpdateProfile(c.Request.Context(), ctxutil.UserID(c.Request.Context()), req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"user": me})
}

func (uh *UserHandler) FollowAuthor(c *gin.Context) {
	authorID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := uh.userService.FollowAuthor(c.Request.Context(), ctxutil.UserID(c.Request.Context()), authorID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"following": true})
}

func (uh *UserHandler) UnfollowAuthor(c *gin.Context) {
	authorID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := uh.userService.UnfollowAuthor(c.Request.Context(), ctxutil.UserID(c.Request.Context()), authorID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"following": false})
}

func (uh *UserHandler) GetPreferences(c *gin.Context) {
	prefs, err := uh.userService.GetPreferences(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"preferences": prefs})
}

func (uh *UserHandler) SetPreference(c *gin.Context) {
	var req struct {
		CategoryID uuid.UUID `json:"category_id" binding:"required"`
		Score      float64   `json:"score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	err := uh.userService.SetPreference(c.Request.Context(), ctxutil.UserID(c.Request.Context()), req.CategoryID, req.Score)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"saved": true})
}

func (uh *UserHandler) DeletePreference(c *gin.Context) {
	categoryID, ok := pathUUID(c, "categoryID")
	if !ok {
		return
	}
	err := uh.userService.DeletePreference(c.Request.Context(), ctxutil.UserID(c.Request.Context()), categoryID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

func (uh *UserHandler) ListSaved(c *gin.Context) {
	limit, offset := pagination(c, 20)
	saved, err := uh.userService.ListSaved(c.Request.Context(), ctxutil.UserID(c.Request.Context()), limit, offset)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"saved": saved})
}
