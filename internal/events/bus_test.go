package events

import (
	"context"
	"testing"

	"github.com/newsloom/newsloom-backend/internal/pkg/logger"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus(logger.Nop())

	var first, second int
	bus.Subscribe("topic.a", func(ctx context.Context, ev Event) {
		first++
	})
	bus.Subscribe("topic.a", func(ctx context.Context, ev Event) {
		second++
	})
	bus.Subscribe("topic.b", func(ctx context.Context, ev Event) {
		t.Errorf("handler for topic.b should not fire")
	})

	bus.Publish(context.Background(), Event{Topic: "topic.a", Data: map[string]any{"k": "v"}})

	if first != 1 || second != 1 {
		t.Fatalf("expected both topic.a handlers to fire once, got %d and %d", first, second)
	}
}

func TestBusPanicIsolation(t *testing.T) {
	bus := NewBus(logger.Nop())

	var fired bool
	bus.Subscribe("topic.a", func(ctx context.Context, ev Event) {
		panic("handler blew up")
	})
	bus.Subscribe("topic.a", func(ctx context.Context, ev Event) {
		fired = true
	})

	bus.Publish(context.Background(), Event{Topic: "topic.a"})

	if !fired {
		t.Fatalf("a panicking handler must not prevent later handlers from running")
	}
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus(logger.Nop())
	bus.Publish(context.Background(), Event{Topic: "nobody.listens"})
}
