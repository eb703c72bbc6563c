package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/newsloom/newsloom-backend/internal/events"
	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
	"github.com/newsloom/newsloom-backend/internal/types"
)

// RegisterObservers subscribes cross-service reactions to domain events.
// Called once from the composition root after all services exist.
func RegisterObservers(bus *events.Bus, log *logger.Logger, notifications NotificationService) {
	obsLog := log.With("component", "observers")

	bus.Subscribe(events.TopicSubscriptionUpgraded, func(ctx context.Context, ev events.Event) {
		userID, ok := ev.Data["user_id"].(uuid.UUID)
		if !ok {
			obsLog.Warn("subscription upgraded event missing user_id", "topic", ev.Topic)
			return
		}
		tierType, _ := ev.Data["subscription_type"].(string)
		if tierType == "" || tierType == types.SubscriptionFree {
			return
		}
		_, err := notifications.Dispatch(ctx, userID, types.NotificationAuthorUpdate, NotificationPayload{
			Title:   "Welcome to Premium!",
			Message: fmt.Sprintf("Your %s subscription is now active. Enjoy exclusive articles and more.", tierType),
			Data:    map[string]any{"subscription_type": tierType},
		})
		if err != nil {
			obsLog.Error("failed to send subscription welcome notification", "user_id", userID.String(), "error", err)
		}
	})

	bus.Subscribe(events.TopicArticlePublished, func(ctx context.Context, ev events.Event) {
		articleID, ok := ev.Data["article_id"].(uuid.UUID)
		if !ok {
			obsLog.Warn("article published event missing article_id", "topic", ev.Topic)
			return
		}
		authorID, ok := ev.Data["author_id"].(uuid.UUID)
		if !ok {
			obsLog.Warn("article published event missing author_id", "topic", ev.Topic)
			return
		}
		title, _ := ev.Data["title"].(string)
		sent, err := notifications.NotifyAuthorFollowers(ctx, authorID, articleID, title)
		if err != nil {
			obsLog.Error("failed to notify author followers", "article_id", articleID.String(), "error", err)
			return
		}
		obsLog.Info("notified author followers", "article_id", articleID.String(), "sent", sent)
	})
}
