package events

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Listener subscribes to refresh channels and invokes the registered
// handler for each notification. Handlers run on the listener goroutine;
// they are expected to be quick bulk reloads.
type Listener struct {
	rdb      *redis.Client
	handlers map[string]func(context.Context)

	cancel context.CancelFunc
	done   chan struct{}
}

// NewListener creates a listener with no subscriptions.
func NewListener(rdb *redis.Client) *Listener {
	return &Listener{rdb: rdb, handlers: map[string]func(context.Context){}}
}

// Handle registers a handler for one channel. Must be called before Start.
func (l *Listener) Handle(channel string, fn func(context.Context)) {
	l.handlers[channel] = fn
}

// Start launches the subscription loop.
func (l *Listener) Start(ctx context.Context) {
	if l.cancel != nil || len(l.handlers) == 0 {
		return
	}
	ctx, l.cancel = context.WithCancel(ctx)
	l.done = make(chan struct{})

	channels := make([]string, 0, len(l.handlers))
	for ch := range l.handlers {
		channels = append(channels, ch)
	}

	go l.run(ctx, channels)
	slog.Info("Event listener started", "channels", channels)
}

// Stop terminates the subscription loop and waits for it to exit.
func (l *Listener) Stop() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	<-l.done
	slog.Info("Event listener stopped")
}

func (l *Listener) run(ctx context.Context, channels []string) {
	defer close(l.done)

	pubsub := l.rdb.Subscribe(ctx, channels...)
	defer func() {
		_ = pubsub.Close()
	}()

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if msg.Payload != PayloadRefresh {
				slog.Warn("Ignoring unexpected pub/sub payload",
					"channel", msg.Channel, "payload", msg.Payload)
				continue
			}
			if fn := l.handlers[msg.Channel]; fn != nil {
				fn(ctx)
			}
		}
	}
}
