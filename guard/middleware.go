package guard

import (
	"context"
	"net/http"
	"net/url"

	ketenauth "github.com/ketenapp/ketenauth"
)

// LoginPath is where redirected navigations land. The originally requested
// location travels in the "from" query parameter; insufficient-permission
// redirects additionally carry "reason=unauthorized".
const LoginPath = "/login"

type stateContextKey struct{}

// StateFromContext returns the session state stashed by [Require] for the
// current request.
func StateFromContext(ctx context.Context) (ketenauth.State, bool) {
	st, ok := ctx.Value(stateContextKey{}).(ketenauth.State)
	return st, ok
}

// Require returns middleware that admits only sessions holding at least one
// of roles (any session when roles is empty). Admitted requests carry the
// session state in their context; everything else is redirected to
// [LoginPath].
func Require(ctrl *ketenauth.Controller, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ctrl == nil {
				redirectLogin(w, r, Decision{Outcome: OutcomeRedirectLogin, From: r.URL.RequestURI()})
				return
			}

			st := ctrl.State()
			decision := Evaluate(st, roles, r.URL.RequestURI())
			if decision.Outcome != OutcomeAllow {
				redirectLogin(w, r, decision)
				return
			}

			ctx := context.WithValue(r.Context(), stateContextKey{}, st)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthenticated is [Require] with no role requirement.
func RequireAuthenticated(ctrl *ketenauth.Controller) func(http.Handler) http.Handler {
	return Require(ctrl)
}

func redirectLogin(w http.ResponseWriter, r *http.Request, decision Decision) {
	query := url.Values{}
	if decision.From != "" {
		query.Set("from", decision.From)
	}
	if decision.Unauthorized {
		query.Set("reason", "unauthorized")
	}

	target := LoginPath
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
