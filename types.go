package ketenauth

import (
	"io"

	"github.com/ketenapp/ketenauth/claims"
	internalaudit "github.com/ketenapp/ketenauth/internal/audit"
)

// State is a snapshot of the session as seen by one controller.
//
// Authenticated is true iff Token is non-empty and Identity is non-nil: a
// token that fails to decode is never treated as authenticated, even though
// it is present.
type State struct {
	Token         string
	Identity      *claims.Identity
	Authenticated bool
}

// HasRole reports whether the snapshot's identity carries the given role.
// Always false when unauthenticated.
func (s State) HasRole(role string) bool {
	if !s.Authenticated {
		return false
	}
	return s.Identity.HasRole(role)
}

// HasAnyRole reports whether the snapshot's identity carries at least one of
// the given roles. Always false when unauthenticated.
func (s State) HasAnyRole(roles ...string) bool {
	if !s.Authenticated {
		return false
	}
	return s.Identity.HasAnyRole(roles...)
}

// Session event types emitted to the audit sink.
const (
	EventTokenSet       = "token_set"
	EventTokenCleared   = "token_cleared"
	EventTokenRejected  = "token_rejected"
	EventTokenExpired   = "token_expired"
	EventLogout         = "logout"
	EventStoreDegraded  = "store_degraded"
	EventSignalObserved = "signal_observed"
)

// AuditEvent is a structured session event emitted by the controller.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the controller's dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
