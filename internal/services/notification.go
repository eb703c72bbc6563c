package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	pkgerrors "github.com/newsloom/newsloom-backend/internal/pkg/errors"
	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
	"github.com/newsloom/newsloom-backend/internal/repos"
	"github.com/newsloom/newsloom-backend/internal/types"
)

// NotificationPayload carries caller-supplied content for a dispatch. Empty
// fields fall back to the type's template defaults.
type NotificationPayload struct {
	Title     string
	Message   string
	ArticleID *uuid.UUID
	Data      map[string]any
}

// notificationStrategy builds the row for one notification type: the default
// title/message template and whether the article association applies.
type notificationStrategy func(userID uuid.UUID, p NotificationPayload) *types.Notification

var notificationStrategies = map[string]notificationStrategy{
	types.NotificationBreakingNews: func(userID uuid.UUID, p NotificationPayload) *types.Notification {
		return buildNotification(userID, types.NotificationBreakingNews, "Breaking News", "", p, true)
	},
	types.NotificationDailyDigest: func(userID uuid.UUID, p NotificationPayload) *types.Notification {
		// Digests summarize many articles, so no single article association.
		p.ArticleID = nil
		return buildNotification(userID, types.NotificationDailyDigest, "Daily News Digest", "Your daily news digest is ready!", p, false)
	},
	types.NotificationAuthorUpdate: func(userID uuid.UUID, p NotificationPayload) *types.Notification {
		return buildNotification(userID, types.NotificationAuthorUpdate, "New Article from Followed Author", "", p, true)
	},
	types.NotificationCommentReply: func(userID uuid.UUID, p NotificationPayload) *types.Notification {
		return buildNotification(userID, types.NotificationCommentReply, "New Reply to Your Comment", "", p, true)
	},
	types.NotificationArticleLike: func(userID uuid.UUID, p NotificationPayload) *types.Notification {
		return buildNotification(userID, types.NotificationArticleLike, "Your Article Was Liked", "", p, true)
	},
}

func buildNotification(userID uuid.UUID, kind, defaultTitle, defaultMessage string, p NotificationPayload, attachArticle bool) *types.Notification {
	title := p.Title
	if title == "" {
		title = defaultTitle
	}
	message := p.Message
	if message == "" {
		message = defaultMessage
	}
	n := &types.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
	}
	if attachArticle {
		n.ArticleID = p.ArticleID
	}
	return n
}

type NotificationService interface {
	// RegisterChannel adds a delivery channel to the fan-out set. Channels
	// are wired once at startup, before the router starts serving.
	RegisterChannel(channel DeliveryChannel)
	// Dispatch persists one notification for the user and fans it out to all
	// registered channels. Unknown types fail before any row is created.
	Dispatch(ctx context.Context, userID uuid.UUID, kind string, payload NotificationPayload) (*types.Notification, error)
	// BroadcastBreakingNews dispatches one notification per active user opted
	// into breaking news. Returns how many were created; per-user failures
	// are logged and skipped.
	BroadcastBreakingNews(ctx context.Context, articleID *uuid.UUID, title string) (int, error)
	SendDailyDigest(ctx context.Context, userID uuid.UUID) (*types.Notification, error)
	// NotifyAuthorFollowers fans an author_update out to the author's
	// followers who have author alerts enabled.
	NotifyAuthorFollowers(ctx context.Context, authorID, articleID uuid.UUID, title string) (int, error)
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*types.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, notificationID, userID uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	GetPreferences(ctx context.Context, userID uuid.UUID) (*types.NotificationPreference, error)
	UpdatePreferences(ctx context.Context, pref *types.NotificationPreference) (*types.NotificationPreference, error)
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
	preferenceRepo   repos.NotificationPreferenceRepo
	userRepo         repos.UserRepo
	articleRepo      repos.ArticleRepo
	followerRepo     repos.AuthorFollowerRepo
	channels         []DeliveryChannel
}

func NewNotificationService(
	db *gorm.DB,
	log *logger.Logger,
	notificationRepo repos.NotificationRepo,
	preferenceRepo repos.NotificationPreferenceRepo,
	userRepo repos.UserRepo,
	articleRepo repos.ArticleRepo,
	followerRepo repos.AuthorFollowerRepo,
) NotificationService {
	return &notificationService{
		db:               db,
		log:              log.With("service", "NotificationService"),
		notificationRepo: notificationRepo,
		preferenceRepo:   preferenceRepo,
		userRepo:         userRepo,
		articleRepo:      articleRepo,
		followerRepo:     followerRepo,
	}
}

func (ns *notificationService) RegisterChannel(channel DeliveryChannel) {
	if channel == nil {
		return
	}
	ns.channels = append(ns.channels, channel)
}

func (ns *notificationService) Dispatch(ctx context.Context, userID uuid.UUID, kind string, payload NotificationPayload) (*types.Notification, error) {
	strategy, ok := notificationStrategies[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", pkgerrors.ErrUnknownNotificationType, kind)
	}

	notification := strategy(userID, payload)
	if len(payload.Data) > 0 {
		if raw, err := json.Marshal(payload.Data); err != nil {
			ns.log.Warn("Failed to encode notification data payload",
				"user_id", userID,
				"type", kind,
				"error", err,
			)
		} else {
			notification.Data = datatypes.JSON(raw)
		}
	}
	created, err := ns.notificationRepo.Create(ctx, nil, notification)
	if err != nil {
		return nil, fmt.Errorf("failed to persist notification: %w", err)
	}

	// Persistence is done; channel delivery is best effort and isolated.
	ns.fanOut(ctx, created)
	return created, nil
}

func (ns *notificationService) fanOut(ctx context.Context, notification *types.Notification) {
	for _, channel := range ns.channels {
		ns.deliver(ctx, channel, notification)
	}
}

func (ns *notificationService) deliver(ctx context.Context, channel DeliveryChannel, notification *types.Notification) {
	defer func() {
		if r := recover(); r != nil {
			ns.log.Error("Notification channel panicked",
				"channel", channel.Name(),
				"notification_id", notification.ID,
				"panic", r,
			)
		}
	}()
	if err := channel.Deliver(ctx, notification); err != nil {
		ns.log.Warn("Notification channel delivery failed",
			"channel", channel.Name(),
			"notification_id", notification.ID,
			"error", err,
		)
	}
}

func (ns *notificationService) BroadcastBreakingNews(ctx context.Context, articleID *uuid.UUID, title string) (int, error) {
	userIDs, err := ns.userRepo.ListActiveOptedIn(ctx, nil, types.NotificationBreakingNews)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve breaking news audience: %w", err)
	}
	sent := 0
	for _, userID := range userIDs {
		_, err := ns.Dispatch(ctx, userID, types.NotificationBreakingNews, NotificationPayload{
			Message:   title,
			ArticleID: articleID,
		})
		if err != nil {
			ns.log.Warn("Breaking news dispatch failed for user", "user_id", userID, "error", err)
			continue
		}
		sent++
	}
	ns.log.Info("Breaking news broadcast complete", "audience", len(userIDs), "sent", sent)
	return sent, nil
}

func (ns *notificationService) SendDailyDigest(ctx context.Context, userID uuid.UUID) (*types.Notification, error) {
	since := time.Now().Add(-24 * time.Hour)
	articles, err := ns.articleRepo.TopPublishedSince(ctx, nil, since, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to load digest articles: %w", err)
	}
	if len(articles) == 0 {
		ns.log.Debug("No recent articles for daily digest", "user_id", userID)
		return nil, nil
	}
	titles := make([]string, 0, 3)
	for i, a := range articles {
		if i == 3 {
			break
		}
		titles = append(titles, a.Title)
	}
	return ns.Dispatch(ctx, userID, types.NotificationDailyDigest, NotificationPayload{
		Message: "Top stories today: " + strings.Join(titles, "; "),
	})
}

func (ns *notificationService) NotifyAuthorFollowers(ctx context.Context, authorID, articleID uuid.UUID, title string) (int, error) {
	followerIDs, err := ns.followerRepo.ListFollowerIDs(ctx, nil, authorID)
	if err != nil {
		return 0, fmt.Errorf("failed to load author followers: %w", err)
	}
	sent := 0
	for _, followerID := range followerIDs {
		pref, err := ns.preferenceRepo.GetByUser(ctx, nil, followerID)
		if err != nil {
			ns.log.Warn("Failed to load notification preference", "user_id", followerID, "error", err)
			continue
		}
		if !pref.AuthorAlerts {
			continue
		}
		_, err = ns.Dispatch(ctx, followerID, types.NotificationAuthorUpdate, NotificationPayload{
			Message:   title,
			ArticleID: &articleID,
		})
		if err != nil {
			ns.log.Warn("Author update dispatch failed for follower", "user_id", followerID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (ns *notificationService) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*types.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	return ns.notificationRepo.ListByUser(ctx, nil, userID, unreadOnly, limit, offset)
}

func (ns *notificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return ns.notificationRepo.CountUnread(ctx, nil, userID)
}

func (ns *notificationService) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) (bool, error) {
	return ns.notificationRepo.MarkRead(ctx, nil, notificationID, userID)
}

func (ns *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return ns.notificationRepo.MarkAllRead(ctx, nil, userID)
}

func (ns *notificationService) GetPreferences(ctx context.Context, userID uuid.UUID) (*types.NotificationPreference, error) {
	return ns.preferenceRepo.GetByUser(ctx, nil, userID)
}

func (ns *notificationService) UpdatePreferences(ctx context.Context, pref *types.NotificationPreference) (*types.NotificationPreference, error) {
	return ns.preferenceRepo.Upsert(ctx, nil, pref)
}
