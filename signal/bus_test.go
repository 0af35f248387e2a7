package signal

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestLocalBusDelivery(t *testing.T) {
	b := NewLocalBus()

	var tokenChanged, loggedOut atomic.Int64
	cancelToken := b.Subscribe(KindTokenChanged, func(Kind) { tokenChanged.Add(1) })
	defer cancelToken()
	cancelLogout := b.Subscribe(KindLoggedOut, func(Kind) { loggedOut.Add(1) })
	defer cancelLogout()

	if err := b.Publish(context.Background(), KindTokenChanged); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if got := tokenChanged.Load(); got != 1 {
		t.Fatalf("token-changed deliveries = %d, want 1", got)
	}
	if got := loggedOut.Load(); got != 0 {
		t.Fatalf("logged-out deliveries = %d, want 0 (kinds must not cross)", got)
	}

	if err := b.Publish(context.Background(), KindLoggedOut); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if got := loggedOut.Load(); got != 1 {
		t.Fatalf("logged-out deliveries = %d, want 1", got)
	}
}

func TestLocalBusCancel(t *testing.T) {
	b := NewLocalBus()

	var count atomic.Int64
	cancel := b.Subscribe(KindTokenChanged, func(Kind) { count.Add(1) })

	_ = b.Publish(context.Background(), KindTokenChanged)
	cancel()
	cancel() // second cancel must be a no-op
	_ = b.Publish(context.Background(), KindTokenChanged)

	if got := count.Load(); got != 1 {
		t.Fatalf("deliveries after cancel = %d, want 1", got)
	}
}

func TestKindString(t *testing.T) {
	if KindTokenChanged.String() != "token-changed" {
		t.Fatalf("KindTokenChanged = %q", KindTokenChanged.String())
	}
	if KindLoggedOut.String() != "logged-out" {
		t.Fatalf("KindLoggedOut = %q", KindLoggedOut.String())
	}
}

func newTestRedisBus(t *testing.T) (*RedisBus, *RedisBus) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	a := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = a.Close()
		_ = b.Close()
	})

	return NewRedisBus(a, "ka-test"), NewRedisBus(b, "ka-test")
}

func waitFor(t *testing.T, deadline time.Duration, cond func() bool) {
	t.Helper()

	stop := time.Now().Add(deadline)
	for time.Now().Before(stop) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestRedisBusCrossProcessDelivery(t *testing.T) {
	publisher, subscriber := newTestRedisBus(t)
	defer publisher.Close()
	defer subscriber.Close()

	var received atomic.Int64
	cancel := subscriber.Subscribe(KindLoggedOut, func(Kind) { received.Add(1) })
	defer cancel()

	// Pub/sub registration is asynchronous; retry until the subscriber is
	// wired before asserting on a single publish.
	waitFor(t, 2*time.Second, func() bool {
		_ = publisher.Publish(context.Background(), KindLoggedOut)
		return received.Load() > 0
	})
}

func TestRedisBusCancelStopsDelivery(t *testing.T) {
	publisher, subscriber := newTestRedisBus(t)
	defer publisher.Close()
	defer subscriber.Close()

	var received atomic.Int64
	cancel := subscriber.Subscribe(KindTokenChanged, func(Kind) { received.Add(1) })

	waitFor(t, 2*time.Second, func() bool {
		_ = publisher.Publish(context.Background(), KindTokenChanged)
		return received.Load() > 0
	})

	cancel()
	before := received.Load()
	_ = publisher.Publish(context.Background(), KindTokenChanged)
	time.Sleep(50 * time.Millisecond)
	if got := received.Load(); got != before {
		t.Fatalf("deliveries after cancel = %d, want %d", got, before)
	}
}
