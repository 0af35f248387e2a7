// Package refresh exchanges an ambient credential (typically an HTTP-only
// session cookie) for a fresh access token when the current one has been
// rejected by the backend.
//
// # Contract
//
// One attempt per call: no retry, no backoff, no loop. The caller decides
// when to invoke it (conventionally once per failed authenticated request,
// retrying that single request afterward) and honors the advisory
// logging-out flag before doing so.
//
// # Architecture boundaries
//
// On success the new token is written to the shared store and announced on
// the signal bus; the session controller picks it up through the same signal
// path as any other cross-context change. This package never touches
// controller state directly and never schedules anything.
package refresh
