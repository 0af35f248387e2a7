// Package audit defines the session-event model and the asynchronous
// dispatcher that forwards events to a caller-supplied sink.
//
// Events describe session lifecycle transitions (token set, cleared,
// expired, refresh outcomes, storage degradation), never token contents.
// Dispatch must never block or fail a session operation: the dispatcher
// buffers, optionally drops under pressure, and drains on Close.
package audit
