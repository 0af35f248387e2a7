// Package claims decodes externally issued access tokens into the identity
// model used by the session controller.
//
// # Token format
//
// Compact dot-delimited JWS tokens whose payload segment is base64url-encoded
// JSON. Tokens are issued and signed by the Keten identity service; this
// package only reads the payload and never verifies the signature. Server-side
// validation is authoritative and independent.
//
// # Failure model
//
// Decoding is total: any malformed input (missing segments, bad base64,
// invalid UTF-8, invalid JSON) yields a nil [Identity]. No error is returned
// and nothing panics. A nil identity is treated identically to "no token" by
// every consumer.
//
// # Architecture boundaries
//
// This package owns claim-shape knowledge only: which claim keys carry the
// display name, the role set, and the expiry instant. Expiry scheduling,
// storage, and signalling live with the session controller.
package claims
