package ketenauth

import (
	"context"
	"errors"
	"net/http"

	"github.com/ketenapp/ketenauth/claims"
	internalaudit "github.com/ketenapp/ketenauth/internal/audit"
	"github.com/ketenapp/ketenauth/signal"
	"github.com/ketenapp/ketenauth/store"
)

// Builder wires a [Controller]. Construction is allocation-only; the single
// store read that seeds the initial state happens in Build.
type Builder struct {
	config     Config
	store      store.Store
	bus        signal.Bus
	clock      Clock
	httpClient *http.Client
	decoder    *claims.Decoder
	auditSink  AuditSink

	built bool
}

// New creates a builder with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStore sets the token store. Required unless WithMemoryStore suffices.
func (b *Builder) WithStore(s store.Store) *Builder {
	b.store = s
	return b
}

// WithBus sets the change-signal bus. Defaults to an in-process [signal.LocalBus].
func (b *Builder) WithBus(bus signal.Bus) *Builder {
	b.bus = bus
	return b
}

// WithClock sets the time source. Defaults to [SystemClock]. Tests inject a
// fake to drive expiry without real delay.
func (b *Builder) WithClock(clock Clock) *Builder {
	b.clock = clock
	return b
}

// WithHTTPClient sets the client used for the logout revoke call. Give it a
// cookie jar when the identity service keys the session on a cookie.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithDecoder overrides the claim decoder, for deployments whose identity
// provider emits non-default claim keys.
func (b *Builder) WithDecoder(d *claims.Decoder) *Builder {
	b.decoder = d
	return b
}

// WithAuditSink sets the destination for session events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration, seeds the initial state from the store,
// and subscribes to the signal bus. The builder is single-use.
func (b *Builder) Build() (*Controller, error) {
	if b.built {
		return nil, ErrBuilderConsumed
	}
	b.built = true

	if err := validateConfig(&b.config); err != nil {
		return nil, err
	}
	if b.store == nil {
		return nil, ErrStoreRequired
	}
	if b.bus == nil {
		b.bus = signal.NewLocalBus()
	}
	if b.clock == nil {
		b.clock = SystemClock{}
	}
	if b.httpClient == nil {
		b.httpClient = &http.Client{Timeout: b.config.API.Timeout}
	}
	if b.decoder == nil {
		b.decoder = claims.NewDecoder(claims.Config{})
	}

	c := &Controller{
		config:     b.config,
		store:      b.store,
		bus:        b.bus,
		clock:      b.clock,
		httpClient: b.httpClient,
		decoder:    b.decoder,
		metrics:    NewMetrics(b.config.Metrics),
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    b.config.Audit.Enabled,
			BufferSize: b.config.Audit.BufferSize,
			DropIfFull: b.config.Audit.DropIfFull,
		}, b.auditSink),
	}

	// Seed from the store. A failed read degrades to a logged-out state;
	// the store may come back later via signals.
	ctx, cancel := context.WithTimeout(context.Background(), b.config.API.Timeout)
	defer cancel()
	token, err := b.store.Get(ctx, b.config.Session.TokenKey)
	if err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		c.metrics.Inc(MetricStoreFailure)
		token = ""
	}

	c.mu.Lock()
	c.applyTokenLocked(token)
	effective := c.state.Token
	c.mu.Unlock()

	// A token that expired while the process was down is scrubbed from the
	// store too, so peers stop seeing it.
	if effective != token {
		_ = c.persistAndBroadcast(ctx, effective)
	}

	c.cancelSubs = append(c.cancelSubs,
		c.bus.Subscribe(signal.KindTokenChanged, c.onSignal),
		c.bus.Subscribe(signal.KindLoggedOut, c.onSignal),
	)

	return c, nil
}
