package signal

import "context"

// Kind identifies a session change signal.
type Kind uint8

const (
	// KindTokenChanged fires whenever the stored token is written.
	KindTokenChanged Kind = iota
	// KindLoggedOut fires whenever the stored token is cleared.
	KindLoggedOut
)

// String returns the wire name of the kind, also used as the Redis channel
// suffix.
func (k Kind) String() string {
	switch k {
	case KindTokenChanged:
		return "token-changed"
	case KindLoggedOut:
		return "logged-out"
	default:
		return "unknown"
	}
}

// Bus is the observer surface the session controller depends on.
// Implementations must be safe for concurrent use.
//
// Subscribe registers fn for a kind and returns a cancel func that removes
// the registration; calling cancel more than once is allowed. Callbacks must
// not block: they are invoked from the publisher's goroutine on [LocalBus]
// and from a receive goroutine on [RedisBus].
type Bus interface {
	Publish(ctx context.Context, kind Kind) error
	Subscribe(kind Kind, fn func(Kind)) (cancel func())
}
