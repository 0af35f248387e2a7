package ketenauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ketenapp/ketenauth/claims"
	internalaudit "github.com/ketenapp/ketenauth/internal/audit"
	"github.com/ketenapp/ketenauth/signal"
	"github.com/ketenapp/ketenauth/store"
)

// Controller is the single source of truth for "am I logged in, as whom,
// with which roles" within one process. Build one through [Builder.Build];
// methods are safe for concurrent use afterwards.
//
// The controller keeps its in-memory [State] authoritative: store and signal
// failures degrade durability and cross-context visibility but never the
// current process's view of the session.
type Controller struct {
	config     Config
	store      store.Store
	bus        signal.Bus
	clock      Clock
	httpClient *http.Client
	decoder    *claims.Decoder
	audit      *internalaudit.Dispatcher
	metrics    *Metrics

	mu          sync.RWMutex
	state       State
	generation  uint64
	expiryTimer Timer
	closed      bool

	cancelSubs []func()
}

// State returns the current session snapshot.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// HasRole reports whether the current identity carries role. False when
// unauthenticated.
func (c *Controller) HasRole(role string) bool {
	return c.State().HasRole(role)
}

// HasAnyRole reports whether the current identity carries at least one of
// roles. False when unauthenticated.
func (c *Controller) HasAnyRole(roles ...string) bool {
	return c.State().HasAnyRole(roles...)
}

// SetToken installs token as the current session credential. An empty token
// clears the session.
//
// The in-memory state is updated synchronously before SetToken returns, so a
// State call on the same goroutine observes the new value. Persistence to
// the store and the change signal to peers are best-effort afterwards: their
// failure is reported through the returned error (wrapping [ErrPersistFailed]
// or [ErrSignalFailed]) and the state stands regardless.
//
// A token whose exp claim is already in the past is cleared immediately, as
// if it had never been set.
func (c *Controller) SetToken(ctx context.Context, token string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	c.applyTokenLocked(token)
	effective := c.state.Token
	c.mu.Unlock()

	return c.persistAndBroadcast(ctx, effective)
}

// persistAndBroadcast writes the effective token to the store and signals
// peers. Called outside the state lock.
func (c *Controller) persistAndBroadcast(ctx context.Context, token string) error {
	var persistErr, signalErr error
	kind := signal.KindTokenChanged

	if token == "" {
		persistErr = c.store.Delete(ctx, c.config.Session.TokenKey)
		kind = signal.KindLoggedOut
	} else {
		persistErr = c.store.Set(ctx, c.config.Session.TokenKey, token)
	}
	if persistErr != nil {
		c.metrics.Inc(MetricStoreFailure)
		c.emit(ctx, EventStoreDegraded, false, persistErr)
		persistErr = fmt.Errorf("%w: %v", ErrPersistFailed, persistErr)
	}

	if err := c.bus.Publish(ctx, kind); err != nil {
		signalErr = fmt.Errorf("%w: %v", ErrSignalFailed, err)
	}

	return errors.Join(persistErr, signalErr)
}

// applyTokenLocked recomputes state and the expiry timer for token.
// Callers hold c.mu.
func (c *Controller) applyTokenLocked(token string) {
	c.generation++
	if c.expiryTimer != nil {
		c.expiryTimer.Stop()
		c.expiryTimer = nil
	}

	if token == "" {
		if c.state.Token != "" {
			c.metrics.Inc(MetricTokenCleared)
			c.emitLocked(EventTokenCleared, true, nil)
		}
		c.state = State{}
		return
	}

	identity := c.decoder.Decode(token)
	if identity == nil {
		// Present but undecodable: kept for round-tripping, never authenticated.
		c.state = State{Token: token}
		c.metrics.Inc(MetricTokenRejected)
		c.emitLocked(EventTokenRejected, false, nil)
		return
	}

	if identity.ExpiresAt != nil {
		now := c.clock.Now()
		if !identity.ExpiresAt.After(now) {
			c.state = State{}
			c.metrics.Inc(MetricTokenExpired)
			c.emitLocked(EventTokenExpired, true, nil)
			return
		}
		c.scheduleExpiryLocked(identity.ExpiresAt.Sub(now) + c.config.Session.ExpirySkew)
	}

	c.state = State{Token: token, Identity: identity, Authenticated: true}
	c.metrics.Inc(MetricTokenSet)
	c.emitLocked(EventTokenSet, true, nil)
}

func (c *Controller) scheduleExpiryLocked(d time.Duration) {
	generation := c.generation
	c.expiryTimer = c.clock.AfterFunc(d, func() {
		c.onExpiry(generation)
	})
}

// onExpiry clears the token the expiry timer was armed for. A stale firing
// (the token changed since the timer was scheduled) is a no-op.
func (c *Controller) onExpiry(generation uint64) {
	c.mu.Lock()
	if c.closed || c.generation != generation {
		c.mu.Unlock()
		return
	}
	c.generation++
	c.expiryTimer = nil
	c.state = State{}
	c.metrics.Inc(MetricTokenExpired)
	c.emitLocked(EventTokenExpired, true, nil)
	c.mu.Unlock()

	// Same cleanup as an explicit clear, without a revoke call.
	ctx, cancel := context.WithTimeout(context.Background(), c.config.API.Timeout)
	defer cancel()
	_ = c.persistAndBroadcast(ctx, "")
}

// onSignal re-reads the store after a peer announced a change and converges
// the local state on it. Publishing again here would echo forever, so it
// does not.
func (c *Controller) onSignal(kind signal.Kind) {
	c.metrics.Inc(MetricSignalReceived)

	ctx, cancel := context.WithTimeout(context.Background(), c.config.API.Timeout)
	defer cancel()

	token, err := c.store.Get(ctx, c.config.Session.TokenKey)
	if err != nil {
		if !errors.Is(err, store.ErrKeyNotFound) {
			c.metrics.Inc(MetricStoreFailure)
			c.emit(ctx, EventStoreDegraded, false, err)
			return
		}
		token = ""
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || token == c.state.Token {
		return
	}
	c.emitLocked(EventSignalObserved, true, nil)
	c.applyTokenLocked(token)
}

// Close cancels the expiry timer, detaches from the signal bus, and drains
// the audit dispatcher. Idempotent. A closed controller rejects SetToken and
// Logout and keeps returning its final state.
func (c *Controller) Close() {
	if c == nil {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.generation++
	if c.expiryTimer != nil {
		c.expiryTimer.Stop()
		c.expiryTimer = nil
	}
	cancels := c.cancelSubs
	c.cancelSubs = nil
	c.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	c.audit.Close()
}

// MetricsSnapshot returns a copy of the controller's counters.
func (c *Controller) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return c.metrics.Snapshot()
}

// AuditDropped reports how many session events were discarded under
// dispatcher backpressure.
func (c *Controller) AuditDropped() uint64 {
	if c == nil {
		return 0
	}
	return c.audit.Dropped()
}

func (c *Controller) emit(ctx context.Context, eventType string, success bool, cause error) {
	if c.audit == nil {
		return
	}
	event := AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: c.clock.Now(),
		EventType: eventType,
		Success:   success,
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	st := c.State()
	if st.Identity != nil {
		event.Subject = st.Identity.Name
		event.Roles = st.Identity.Roles
	}
	c.audit.Emit(ctx, event)
}

// emitLocked is emit for callers already holding c.mu.
func (c *Controller) emitLocked(eventType string, success bool, cause error) {
	if c.audit == nil {
		return
	}
	event := AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: c.clock.Now(),
		EventType: eventType,
		Success:   success,
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	if c.state.Identity != nil {
		event.Subject = c.state.Identity.Name
		event.Roles = c.state.Identity.Roles
	}
	c.audit.Emit(context.Background(), event)
}
