package internaldefs

import (
	ketenauth "github.com/ketenapp/ketenauth"
)

// CounterDef names one exported counter.
type CounterDef struct {
	ID   ketenauth.MetricID
	Name string
	Help string
}

// CounterDefs lists every counter both exporters expose, in a stable order.
var CounterDefs = []CounterDef{
	{ID: ketenauth.MetricTokenSet, Name: "ketenauth_token_set_total", Help: "Tokens accepted by SetToken."},
	{ID: ketenauth.MetricTokenCleared, Name: "ketenauth_token_cleared_total", Help: "Token clears (logout, explicit clear)."},
	{ID: ketenauth.MetricTokenRejected, Name: "ketenauth_token_rejected_total", Help: "Tokens whose payload failed to decode."},
	{ID: ketenauth.MetricTokenExpired, Name: "ketenauth_token_expired_total", Help: "Tokens cleared by expiry."},
	{ID: ketenauth.MetricLogout, Name: "ketenauth_logout_total", Help: "Logout operations."},
	{ID: ketenauth.MetricLogoutRevokeFailed, Name: "ketenauth_logout_revoke_failed_total", Help: "Logout revoke calls that did not reach the server."},
	{ID: ketenauth.MetricSignalReceived, Name: "ketenauth_signal_received_total", Help: "Cross-context change signals observed."},
	{ID: ketenauth.MetricStoreFailure, Name: "ketenauth_store_failure_total", Help: "Degraded token store reads and writes."},
}

// AuditDroppedName is the counter for session events discarded under
// dispatcher backpressure.
const AuditDroppedName = "ketenauth_audit_dropped_total"
