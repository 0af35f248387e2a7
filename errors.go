package ketenauth

import "errors"

var (
	// ErrControllerClosed is returned by operations on a closed [Controller].
	ErrControllerClosed = errors.New("controller closed")
	// ErrPersistFailed reports that the in-memory state was updated but the
	// token store write did not take. The session is live for this process
	// lifetime and will not be remembered across restarts.
	ErrPersistFailed = errors.New("token persistence failed")
	// ErrSignalFailed reports that peers were not notified of a state change.
	// They converge on their next store read.
	ErrSignalFailed = errors.New("signal publish failed")
	// ErrRevokeFailed reports that the logout revoke call did not reach the
	// identity service. The local session is already cleared.
	ErrRevokeFailed = errors.New("logout revoke call failed")

	// ErrStoreRequired and friends are returned by [Builder.Build] on
	// invalid wiring.
	ErrStoreRequired   = errors.New("builder requires a token store")
	ErrBuilderConsumed = errors.New("builder already consumed by Build")
)
