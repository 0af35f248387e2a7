package guard

import (
	ketenauth "github.com/ketenapp/ketenauth"
)

// Outcome is the routing verdict for one navigation.
type Outcome uint8

const (
	// OutcomeAllow renders the requested view.
	OutcomeAllow Outcome = iota
	// OutcomeRedirectLogin sends the caller to the login view. Check
	// [Decision.Unauthorized] to tell "not authenticated" from
	// "insufficient permissions".
	OutcomeRedirectLogin
)

// Decision is the result of evaluating one navigation against the session.
type Decision struct {
	Outcome Outcome
	// Unauthorized is set when the caller is authenticated but holds none
	// of the required roles.
	Unauthorized bool
	// From preserves the originally requested location so the login flow
	// can return the caller there after success.
	From string
}

// Evaluate decides whether the session may reach a view requiring any of
// required. An empty requirement means "authenticated only"; a single
// matching role suffices otherwise.
func Evaluate(st ketenauth.State, required []string, from string) Decision {
	if !st.Authenticated {
		return Decision{Outcome: OutcomeRedirectLogin, From: from}
	}
	if len(required) > 0 && !st.HasAnyRole(required...) {
		return Decision{Outcome: OutcomeRedirectLogin, Unauthorized: true, From: from}
	}
	return Decision{Outcome: OutcomeAllow, From: from}
}
