// Package store persists the current access token and the advisory
// logging-out flag across process restarts and, with the Redis-backed
// implementation, across cooperating processes.
//
// # Key layout
//
//   - "token"              — the current access token, absent when logged out.
//   - "keten-logging-out"  — "1" while a logout is in flight, absent otherwise.
//     Advisory only; nothing enforces mutual exclusion.
//
// # Failure model
//
// All operations return explicit errors. The session controller treats store
// failures as a degraded "session not remembered" condition and keeps its
// in-memory state authoritative; nothing above this package crashes because
// persistence is unavailable.
package store
