package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/newsloom/newsloom-backend/internal/pkg/ctxutil"
	"github.com/newsloom/newsloom-backend/internal/services"
)

type SubscriptionHandler struct {
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

func (sh *SubscriptionHandler) ListTiers(c *gin.Context) {
	tiers, err := sh.subscriptionService.ListTiers(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"tiers": tiers})
}

func (sh *SubscriptionHandler) GetCurrent(c *gin.Context) {
	sub, err := sh.subscriptionService.GetCurrent(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"subscription": sub})
}

func (sh *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req struct {
		TierID uuid.UUID `json:"tier_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	result, err := sh.subscriptionService.Subscribe(c.Request.Context(), ctxutil.UserID(c.Request.Context()), req.TierID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
