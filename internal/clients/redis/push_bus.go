package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
)

// PushMessage is the payload published to the push channel for delivery to
// connected clients (mobile push gateway, websocket relays).
type PushMessage struct {
	UserID    string `json:"user_id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	ArticleID string `json:"article_id,omitempty"`
}

type PushBus interface {
	Publish(ctx context.Context, msg PushMessage) error
	Close() error
}

type pushBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewPushBus connects to Redis using REDIS_ADDR. Callers treat a nil bus as
// "push delivery disabled" and fall back to log-only channels.
func NewPushBus(log *logger.Logger) (PushBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_PUSH_CHANNEL"))
	if ch == "" {
		ch = "notifications.push"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &pushBus{
		log:     log.With("service", "RedisPushBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *pushBus) Publish(ctx context.Context, msg PushMessage) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis push bus not initialized")
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *pushBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
