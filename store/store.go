package store

import (
	"context"
	"errors"
)

const (
	// KeyToken holds the current access token.
	KeyToken = "token"
	// KeyLoggingOut holds the advisory logout-in-flight marker.
	KeyLoggingOut = "keten-logging-out"

	// LoggingOutValue is the value written under [KeyLoggingOut].
	LoggingOutValue = "1"
)

// ErrKeyNotFound is returned by Get when the key has no value.
var ErrKeyNotFound = errors.New("store key not found")

// ErrStoreUnavailable wraps backend failures (disk, Redis) so callers can
// distinguish "absent" from "could not read".
var ErrStoreUnavailable = errors.New("store unavailable")

// Store is the durability backing for the session controller. Implementations
// must be safe for concurrent use.
//
// Get returns [ErrKeyNotFound] for absent keys. Set and Delete are
// last-write-wins; no implementation provides locking.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
