package ketenauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ketenapp/ketenauth/signal"
	"github.com/ketenapp/ketenauth/store"
)

type logoutFixture struct {
	ctrl    *Controller
	store   *store.MemoryStore
	bus     *signal.LocalBus
	revoked atomic.Int64
	status  atomic.Int64

	flagDuringRevoke atomic.Value // string
}

func newLogoutFixture(t *testing.T) *logoutFixture {
	t.Helper()

	f := &logoutFixture{
		store: store.NewMemoryStore(),
		bus:   signal.NewLocalBus(),
	}
	f.status.Store(int64(http.StatusNoContent))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("revoke method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("revoke content type = %q, want application/json", ct)
		}
		f.revoked.Add(1)
		if flag, err := f.store.Get(r.Context(), store.KeyLoggingOut); err == nil {
			f.flagDuringRevoke.Store(flag)
		} else {
			f.flagDuringRevoke.Store("")
		}
		w.WriteHeader(int(f.status.Load()))
	}))
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.Audit.Enabled = false
	cfg.API.BaseURL = server.URL

	ctrl, err := New().
		WithConfig(cfg).
		WithStore(f.store).
		WithBus(f.bus).
		WithClock(newFakeClock()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(ctrl.Close)

	f.ctrl = ctrl
	return f
}

func TestLogoutHappyPath(t *testing.T) {
	f := newLogoutFixture(t)
	_ = f.ctrl.SetToken(context.Background(), forgeToken(t, map[string]any{"sub": "u-1"}))

	var loggedOut atomic.Int64
	f.bus.Subscribe(signal.KindLoggedOut, func(signal.Kind) { loggedOut.Add(1) })

	if err := f.ctrl.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if f.ctrl.State().Authenticated {
		t.Fatal("state authenticated after Logout")
	}
	if f.revoked.Load() != 1 {
		t.Fatalf("revoke calls = %d, want 1", f.revoked.Load())
	}
	if loggedOut.Load() == 0 {
		t.Fatal("logged-out signal not broadcast")
	}

	// Token was cleared before the revoke call reached the server, and the
	// advisory flag was visible while it ran.
	if flag, _ := f.flagDuringRevoke.Load().(string); flag != store.LoggingOutValue {
		t.Fatalf("logging-out flag during revoke = %q, want %q", flag, store.LoggingOutValue)
	}
	if _, err := f.store.Get(context.Background(), store.KeyLoggingOut); !errors.Is(err, store.ErrKeyNotFound) {
		t.Fatalf("logging-out flag not cleaned up: err = %v", err)
	}
	if _, err := f.store.Get(context.Background(), store.KeyToken); !errors.Is(err, store.ErrKeyNotFound) {
		t.Fatalf("token not removed from store: err = %v", err)
	}
}

func TestLogoutSucceedsLocallyWhenRevokeFails(t *testing.T) {
	f := newLogoutFixture(t)
	f.status.Store(int64(http.StatusInternalServerError))
	_ = f.ctrl.SetToken(context.Background(), forgeToken(t, map[string]any{"sub": "u-1"}))

	err := f.ctrl.Logout(context.Background())
	if !errors.Is(err, ErrRevokeFailed) {
		t.Fatalf("Logout err = %v, want ErrRevokeFailed diagnostic", err)
	}

	if f.ctrl.State().Authenticated {
		t.Fatal("revoke failure must not keep the local session alive")
	}
	if _, lookupErr := f.store.Get(context.Background(), store.KeyLoggingOut); !errors.Is(lookupErr, store.ErrKeyNotFound) {
		t.Fatalf("logging-out flag not cleaned up on failure path: err = %v", lookupErr)
	}
	if got := f.ctrl.MetricsSnapshot().Counters[MetricLogoutRevokeFailed]; got != 1 {
		t.Fatalf("MetricLogoutRevokeFailed = %d, want 1", got)
	}
}

func TestLogoutUnreachableServer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audit.Enabled = false
	cfg.API.BaseURL = "http://127.0.0.1:1" // nothing listens here

	ctrl, err := New().
		WithConfig(cfg).
		WithStore(store.NewMemoryStore()).
		WithClock(newFakeClock()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(ctrl.Close)

	_ = ctrl.SetToken(context.Background(), forgeToken(t, map[string]any{"sub": "u-1"}))

	if err := ctrl.Logout(context.Background()); !errors.Is(err, ErrRevokeFailed) {
		t.Fatalf("Logout err = %v, want ErrRevokeFailed diagnostic", err)
	}
	if ctrl.State().Authenticated {
		t.Fatal("network failure must not keep the local session alive")
	}
}

func TestLogoutCountsMetric(t *testing.T) {
	f := newLogoutFixture(t)
	_ = f.ctrl.SetToken(context.Background(), forgeToken(t, map[string]any{"sub": "u-1"}))
	_ = f.ctrl.Logout(context.Background())

	if got := f.ctrl.MetricsSnapshot().Counters[MetricLogout]; got != 1 {
		t.Fatalf("MetricLogout = %d, want 1", got)
	}
}
