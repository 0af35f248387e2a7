package ketenauth

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "defaults valid",
			mutate:    func(*Config) {},
			wantValid: true,
		},
		{
			name: "logout path blank invalid",
			mutate: func(c *Config) {
				c.API.LogoutPath = "   "
			},
			wantValid: false,
		},
		{
			name: "refresh path blank invalid",
			mutate: func(c *Config) {
				c.API.RefreshPath = ""
			},
			wantValid: false,
		},
		{
			name: "negative timeout invalid",
			mutate: func(c *Config) {
				c.API.Timeout = -time.Second
			},
			wantValid: false,
		},
		{
			name: "zero timeout defaults",
			mutate: func(c *Config) {
				c.API.Timeout = 0
			},
			wantValid: true,
		},
		{
			name: "token key blank invalid",
			mutate: func(c *Config) {
				c.Session.TokenKey = ""
			},
			wantValid: false,
		},
		{
			name: "logging out key blank invalid",
			mutate: func(c *Config) {
				c.Session.LoggingOutKey = " "
			},
			wantValid: false,
		},
		{
			name: "token and flag keys collide invalid",
			mutate: func(c *Config) {
				c.Session.TokenKey = "same"
				c.Session.LoggingOutKey = "same"
			},
			wantValid: false,
		},
		{
			name: "negative flag ttl invalid",
			mutate: func(c *Config) {
				c.Session.LoggingOutTTL = -time.Minute
			},
			wantValid: false,
		},
		{
			name: "skew within bound valid",
			mutate: func(c *Config) {
				c.Session.ExpirySkew = 30 * time.Second
			},
			wantValid: true,
		},
		{
			name: "skew negative invalid",
			mutate: func(c *Config) {
				c.Session.ExpirySkew = -time.Second
			},
			wantValid: false,
		},
		{
			name: "skew above a minute invalid",
			mutate: func(c *Config) {
				c.Session.ExpirySkew = 2 * time.Minute
			},
			wantValid: false,
		},
		{
			name: "negative audit buffer invalid",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.BufferSize = -1
			},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := validateConfig(&cfg)
			if tt.wantValid && err != nil {
				t.Fatalf("expected valid config, got error: %v", err)
			}
			if !tt.wantValid && err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestConfigZeroTimeoutGetsDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Timeout = 0

	if err := validateConfig(&cfg); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Fatalf("Timeout = %v, want 10s default", cfg.API.Timeout)
	}
}
