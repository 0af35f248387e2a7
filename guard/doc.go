// Package guard gates access to protected views based on the session
// controller's state and an optional role requirement.
//
// Exactly three outcomes exist: allow, redirect-to-login because the caller
// is unauthenticated, and redirect-to-login because the caller is
// authenticated but lacks every required role. The last two are told apart
// by the Unauthorized flag so the login view can render a distinct message.
// There is no partial or degraded render.
//
// [Evaluate] is the pure decision function; [Require] adapts it to
// net/http middleware.
package guard
