package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ketenapp/ketenauth/signal"
	"github.com/ketenapp/ketenauth/store"
)

// ErrLogoutInProgress is the diagnostic returned when a refresh is skipped
// because a logout is in flight somewhere.
var ErrLogoutInProgress = errors.New("refresh skipped: logout in progress")

// Config wires a [Client].
type Config struct {
	// URL is the absolute or same-host refresh endpoint,
	// e.g. "https://erp.keten.app/api/auth/refresh".
	URL string
	// HTTPClient must carry the ambient credential (cookie jar). Defaults
	// to a plain client with Timeout.
	HTTPClient *http.Client
	// Store receives the new token on success.
	Store store.Store
	// Bus announces the token change. Optional; nil skips the announcement.
	Bus signal.Bus
	// TokenKey defaults to [store.KeyToken].
	TokenKey string
	// LoggingOutKey defaults to [store.KeyLoggingOut]. When the key is set
	// in the store, TryRefresh abstains rather than racing the logout.
	LoggingOutKey string
	// Timeout bounds the refresh call. Defaults to 10s.
	Timeout time.Duration
}

// Client performs single-shot token refreshes.
type Client struct {
	cfg Config
}

// NewClient validates cfg and returns a refresh client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("refresh URL must not be empty")
	}
	if cfg.Store == nil {
		return nil, errors.New("refresh requires a token store")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.TokenKey == "" {
		cfg.TokenKey = store.KeyToken
	}
	if cfg.LoggingOutKey == "" {
		cfg.LoggingOutKey = store.KeyLoggingOut
	}
	return &Client{cfg: cfg}, nil
}

// TryRefresh attempts one token refresh. The boolean is the outcome; the
// error is diagnostic only and safe to ignore. On any failure the store is
// left untouched.
func (c *Client) TryRefresh(ctx context.Context) (bool, error) {
	// Advisory only: a logout in flight means the user wants out, so a
	// refresh that would re-authenticate them must abstain.
	if flag, err := c.cfg.Store.Get(ctx, c.cfg.LoggingOutKey); err == nil && flag != "" {
		return false, ErrLogoutInProgress
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("refresh endpoint returned %d", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("refresh response malformed: %w", err)
	}
	if body.Token == "" {
		return false, errors.New("refresh response missing token field")
	}

	if err := c.cfg.Store.Set(ctx, c.cfg.TokenKey, body.Token); err != nil {
		return false, err
	}
	if c.cfg.Bus != nil {
		_ = c.cfg.Bus.Publish(ctx, signal.KindTokenChanged)
	}
	return true, nil
}
