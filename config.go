package ketenauth

import (
	"errors"
	"strings"
	"time"

	"github.com/ketenapp/ketenauth/store"
)

// Config defines the session controller's tunables. Configure once before
// [Builder.Build] and treat as immutable afterwards.
type Config struct {
	API     APIConfig
	Session SessionConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig locates the identity service endpoints the controller and the
// refresh helper call.
type APIConfig struct {
	// BaseURL prefixes every outbound call, e.g. "https://erp.keten.app".
	// Empty means same-host relative URLs, useful behind a reverse proxy.
	BaseURL string
	// LogoutPath is POSTed with credentials on logout. Response ignored
	// beyond success/failure.
	LogoutPath string
	// RefreshPath is POSTed with credentials by the refresh helper.
	RefreshPath string
	// Timeout bounds each outbound call.
	Timeout time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls store keys and expiry behavior.
type SessionConfig struct {
	// TokenKey is the store key holding the access token.
	TokenKey string
	// LoggingOutKey is the store key holding the advisory logout flag.
	LoggingOutKey string
	// LoggingOutTTL bounds how long the advisory flag may linger after a
	// crashed logout. Store implementations that support TTLs honor it.
	LoggingOutTTL time.Duration
	// ExpirySkew is added to the token's exp instant before the one-shot
	// expiry timer fires, so a token is never cleared while the claim still
	// reads as current on this clock.
	ExpirySkew time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the asynchronous session-event dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull makes Emit non-blocking: events beyond the buffer are
	// counted as dropped instead of stalling session operations.
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the configuration the Keten deployments run with.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			LogoutPath:  "/api/auth/logout",
			RefreshPath: "/api/auth/refresh",
			Timeout:     10 * time.Second,
		},
		Session: SessionConfig{
			TokenKey:      store.KeyToken,
			LoggingOutKey: store.KeyLoggingOut,
			LoggingOutTTL: time.Minute,
			ExpirySkew:    time.Second,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.API.LogoutPath) == "" {
		return errors.New("API.LogoutPath must not be empty")
	}
	if strings.TrimSpace(cfg.API.RefreshPath) == "" {
		return errors.New("API.RefreshPath must not be empty")
	}
	if cfg.API.Timeout < 0 {
		return errors.New("API.Timeout must not be negative")
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 10 * time.Second
	}
	if strings.TrimSpace(cfg.Session.TokenKey) == "" {
		return errors.New("Session.TokenKey must not be empty")
	}
	if strings.TrimSpace(cfg.Session.LoggingOutKey) == "" {
		return errors.New("Session.LoggingOutKey must not be empty")
	}
	if cfg.Session.TokenKey == cfg.Session.LoggingOutKey {
		return errors.New("Session.TokenKey and Session.LoggingOutKey must differ")
	}
	if cfg.Session.LoggingOutTTL < 0 {
		return errors.New("Session.LoggingOutTTL must not be negative")
	}
	if cfg.Session.ExpirySkew < 0 || cfg.Session.ExpirySkew > time.Minute {
		return errors.New("Session.ExpirySkew must be within [0, 1m]")
	}
	if cfg.Audit.Enabled && cfg.Audit.BufferSize < 0 {
		return errors.New("Audit.BufferSize must not be negative")
	}
	return nil
}
