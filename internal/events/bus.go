package events

import (
	"context"
	"sync"

	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
)

const (
	TopicSubscriptionUpgraded = "subscription.upgraded"
	TopicArticlePublished     = "article.published"
)

type Event struct {
	Topic string
	Data  map[string]any
}

type Handler func(ctx context.Context, evt Event)

// Bus is a process-local publish/subscribe fan-out. Handlers are wired
// statically at startup; Publish runs each matching handler synchronously and
// isolates failures so one bad handler never blocks the rest.
type Bus struct {
	mu       sync.RWMutex
	log      *logger.Logger
	handlers map[string][]Handler
}

func NewBus(baseLog *logger.Logger) *Bus {
	return &Bus{
		log:      baseLog.With("service", "EventBus"),
		handlers: make(map[string][]Handler),
	}
}

func (b *Bus) Subscribe(topic string, handler Handler) {
	if b == nil || handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

func (b *Bus) Publish(ctx context.Context, evt Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	handlers := b.handlers[evt.Topic]
	b.mu.RUnlock()
	for _, h := range handlers {
		b.invoke(ctx, evt, h)
	}
}

func (b *Bus) invoke(ctx context.Context, evt Event, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("Event handler panicked", "topic", evt.Topic, "panic", r)
		}
	}()
	h(ctx, evt)
}
