package signal

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisBus fans signals out over Redis pub/sub so every process sharing a
// token store observes token changes and logouts made by its peers.
type RedisBus struct {
	client *redis.Client
	prefix string

	mu     sync.Mutex
	closed bool
	stops  map[*redisSubscription]struct{}
}

type redisSubscription struct {
	pubsub *redis.PubSub
	done   chan struct{}
}

// NewRedisBus creates a bus on client. Channel names are namespaced under
// prefix (default "ketenauth").
func NewRedisBus(client *redis.Client, prefix string) *RedisBus {
	if prefix == "" {
		prefix = "ketenauth"
	}
	return &RedisBus{
		client: client,
		prefix: prefix,
		stops:  make(map[*redisSubscription]struct{}),
	}
}

func (b *RedisBus) channel(kind Kind) string {
	return fmt.Sprintf("%s:%s", b.prefix, kind)
}

// Publish implements [Bus]. The message body is empty; observers re-read
// the store.
func (b *RedisBus) Publish(ctx context.Context, kind Kind) error {
	return b.client.Publish(ctx, b.channel(kind), "").Err()
}

// Subscribe implements [Bus]. Each subscription owns one receive goroutine,
// stopped by the returned cancel func or by [RedisBus.Close].
func (b *RedisBus) Subscribe(kind Kind, fn func(Kind)) (cancel func()) {
	pubsub := b.client.Subscribe(context.Background(), b.channel(kind))
	sub := &redisSubscription{
		pubsub: pubsub,
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		_ = pubsub.Close()
		return func() {}
	}
	b.stops[sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		ch := pubsub.Channel()
		for {
			select {
			case _, ok := <-ch:
				if !ok {
					return
				}
				fn(kind)
			case <-sub.done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.stops, sub)
			b.mu.Unlock()
			close(sub.done)
			_ = pubsub.Close()
		})
	}
}

// Close stops every active subscription. Pending Publish calls are
// unaffected.
func (b *RedisBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := make([]*redisSubscription, 0, len(b.stops))
	for sub := range b.stops {
		subs = append(subs, sub)
	}
	b.stops = make(map[*redisSubscription]struct{})
	b.mu.Unlock()

	for _, sub := range subs {
		close(sub.done)
		_ = sub.pubsub.Close()
	}
}
