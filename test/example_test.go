package test

import (
	"context"

	"github.com/redis/go-redis/v9"

	ketenauth "github.com/ketenapp/ketenauth"
	"github.com/ketenapp/ketenauth/signal"
	"github.com/ketenapp/ketenauth/store"
)

// ExampleNew demonstrates controller construction with production-style
// dependencies: a Redis-backed token store shared by every process on the
// workstation, and a Redis pub/sub bus for cross-process signals.
func ExampleNew() {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})

	ctrl, _ := ketenauth.New().
		WithStore(store.NewRedisStore(rdb, "keten", 0)).
		WithBus(signal.NewRedisBus(rdb, "keten")).
		Build()
	_ = ctrl
}

// ExampleController_SetToken shows installing a token received from a login
// response and inspecting the resulting session state.
func ExampleController_SetToken() {
	var ctrl *ketenauth.Controller

	if err := ctrl.SetToken(context.Background(), "eyJhbGciOi..."); err != nil {
		// The in-memory state is already updated; the error reports
		// degraded persistence or signaling only.
		_ = err
	}

	st := ctrl.State()
	if st.Authenticated && st.HasRole("muhasebe") {
		_ = st.Identity.Name
	}
}

// ExampleController_Logout shows the local-first logout: the session is gone
// when Logout returns, whatever the revoke endpoint thinks about it.
func ExampleController_Logout() {
	var ctrl *ketenauth.Controller

	if err := ctrl.Logout(context.Background()); err != nil {
		_ = err // diagnostic only
	}
}

// ExampleController_MetricsSnapshot shows how to read in-process counters.
func ExampleController_MetricsSnapshot() {
	var ctrl *ketenauth.Controller
	snapshot := ctrl.MetricsSnapshot()
	_ = snapshot
}
