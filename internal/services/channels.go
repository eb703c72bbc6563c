package services

import (
	"context"
	"fmt"

	redisclient "github.com/newsloom/newsloom-backend/internal/clients/redis"
	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
	"github.com/newsloom/newsloom-backend/internal/types"
)

// DeliveryChannel receives a persisted notification for out-of-band delivery.
// Channels are registered at startup; a failing channel never affects the
// stored notification or its siblings.
type DeliveryChannel interface {
	Name() string
	Deliver(ctx context.Context, notification *types.Notification) error
}

// =========================
// Email channel
// =========================

// EmailChannel logs the delivery. It stands in for an SMTP integration and
// keeps the fan-out path exercised in every environment.
type EmailChannel struct {
	log *logger.Logger
}

func NewEmailChannel(baseLog *logger.Logger) *EmailChannel {
	return &EmailChannel{log: baseLog.With("channel", "email")}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Deliver(ctx context.Context, notification *types.Notification) error {
	if c == nil || c.log == nil {
		return nil
	}
	c.log.Info("Email notification sent",
		"user_id", notification.UserID,
		"type", notification.Type,
		"title", notification.Title,
	)
	return nil
}

// =========================
// Push channel
// =========================

// PushChannel forwards notifications to the Redis push pub/sub channel for
// delivery gateways to pick up.
type PushChannel struct {
	log *logger.Logger
	bus redisclient.PushBus
}

func NewPushChannel(baseLog *logger.Logger, bus redisclient.PushBus) *PushChannel {
	return &PushChannel{log: baseLog.With("channel", "push"), bus: bus}
}

func (c *PushChannel) Name() string { return "push" }

func (c *PushChannel) Deliver(ctx context.Context, notification *types.Notification) error {
	if c == nil || c.bus == nil {
		return fmt.Errorf("push bus not configured")
	}
	msg := redisclient.PushMessage{
		UserID:  notification.UserID.String(),
		Type:    notification.Type,
		Title:   notification.Title,
		Message: notification.Message,
	}
	if notification.ArticleID != nil {
		msg.ArticleID = notification.ArticleID.String()
	}
	return c.bus.Publish(ctx, msg)
}
