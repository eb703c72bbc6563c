package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/newsloom/newsloom-backend/internal/repos"
	"github.com/newsloom/newsloom-backend/internal/services"
	"github.com/newsloom/newsloom-backend/internal/types"
)

// AdminHandler exposes operator endpoints: user management, tier setup and
// manual notification fan-out.
type AdminHandler struct {
	userRepo            repos.UserRepo
	tierRepo            repos.SubscriptionTierRepo
	notificationService services.NotificationService
}

func NewAdminHandler(
	userRepo repos.UserRepo,
	tierRepo repos.SubscriptionTierRepo,
	notificationService services.NotificationService,
) *AdminHandler {
	return &AdminHandler{
		userRepo:            userRepo,
		tierRepo:            tierRepo,
		notificationService: notificationService,
	}
}

func (ah *AdminHandler) ListUsers(c *gin.Context) {
	limit, offset := pagination(c, 50)
	users, err := ah.userRepo.List(c.Request.Context(), nil, limit, offset)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"users": users})
}

func (ah *AdminHandler) SetUserActive(c *gin.Context) {
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := ah.userRepo.SetActive(c.Request.Context(), nil, userID, *req.Active); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"active": *req.Active})
}

func (ah *AdminHandler) CreateTier(c *gin.Context) {
	var req struct {
		Name         string  `json:"name" binding:"required"`
		Type         string  `json:"type" binding:"required"`
		Price        float64 `json:"price"`
		DurationDays int     `json:"duration_days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	durationDays := req.DurationDays
	if durationDays <= 0 {
		durationDays = 30
	}
	tier := &types.SubscriptionTier{
		ID:           uuid.New(),
		Name:         req.Name,
		Type:         req.Type,
		Price:        req.Price,
		DurationDays: durationDays,
		IsActive:     true,
	}
	if _, err := ah.tierRepo.Create(c.Request.Context(), nil, []*types.SubscriptionTier{tier}); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tier": tier})
}

// BroadcastBreakingNews lets operators push an alert that is not tied to a
// newly published article.
func (ah *AdminHandler) BroadcastBreakingNews(c *gin.Context) {
	var req struct {
		Title     string     `json:"title" binding:"required"`
		ArticleID *uuid.UUID `json:"article_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	sent, err := ah.notificationService.BroadcastBreakingNews(c.Request.Context(), req.ArticleID, req.Title)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"sent": sent})
}
