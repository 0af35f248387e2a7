// Package ketenauth manages the client-side session lifecycle for the Keten
// ERP: it holds the current access token, derives the signed-in identity and
// role set from it, expires it on the user's own clock, and keeps every
// process sharing a token store convergent through change signals.
//
// Tokens are issued and validated by the Keten identity service; this package
// only consumes them. Losing the token store, the revoke endpoint, or the
// refresh endpoint degrades the session experience but never crashes the
// caller: every operation returns a definite value or a diagnostic error,
// and nothing here panics across the API boundary.
//
// # Architecture boundaries
//
// ketenauth is the public surface. It exposes [Controller], [Builder],
// [Config], and [State]. Claim decoding lives in claims/, durability in
// store/, change signalling in signal/, route gating in guard/, and the
// refresh helper in refresh/. Audit dispatch lives under internal/ and is
// re-exported as type aliases only.
//
// # What this package must NOT do
//
//   - Verify token signatures or talk to the identity service beyond the
//     logout revoke call. Server-side validation is authoritative.
//   - Enforce mutual exclusion on the shared store. Writes are
//     last-write-wins; the logging-out flag is advisory.
//   - Raise a panic for malformed tokens, storage failures, or network
//     failures. The UI shell above needs session state to render anything,
//     including its error screens.
package ketenauth
