package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/newsloom/newsloom-backend/internal/pkg/ctxutil"
	"github.com/newsloom/newsloom-backend/internal/services"
	"github.com/newsloom/newsloom-backend/internal/types"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (nh *NotificationHandler) List(c *gin.Context) {
	limit, offset := pagination(c, 50)
	unreadOnly := c.Query("unread") == "true"
	notifications, err := nh.notificationService.ListForUser(c.Request.Context(), ctxutil.UserID(c.Request.Context()), unreadOnly, limit, offset)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"notifications": notifications})
}

func (nh *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := nh.notificationService.CountUnread(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"unread": count})
}

func (nh *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	marked, err := nh.notificationService.MarkRead(c.Request.Context(), notificationID, ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if !marked {
		RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	RespondOK(c, gin.H{"read": true})
}

func (nh *NotificationHandler) MarkAllRead(c *gin.Context) {
	count, err := nh.notificationService.MarkAllRead(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"marked": count})
}

func (nh *NotificationHandler) GetPreferences(c *gin.Context) {
	prefs, err := nh.notificationService.GetPreferences(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"preferences": prefs})
}

func (nh *NotificationHandler) UpdatePreferences(c *gin.Context) {
	var req struct {
		BreakingNews   bool `json:"breaking_news"`
		DailyDigest    bool `json:"daily_digest"`
		AuthorAlerts   bool `json:"author_alerts"`
		CommentReplies bool `json:"comment_replies"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	prefs, err := nh.notificationService.UpdatePreferences(c.Request.Context(), &types.NotificationPreference{
		UserID:         ctxutil.UserID(c.Request.Context()),
		BreakingNews:   req.BreakingNews,
		DailyDigest:    req.DailyDigest,
		AuthorAlerts:   req.AuthorAlerts,
		CommentReplies: req.CommentReplies,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"preferences": prefs})
}

func (nh *NotificationHandler) SendDigest(c *gin.Context) {
	notification, err := nh.notificationService.SendDailyDigest(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if notification == nil {
		RespondOK(c, gin.H{"sent": false, "reason": "no recent articles"})
		return
	}
	RespondOK(c, gin.H{"sent": true, "notification": notification})
}
