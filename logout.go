package ketenauth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ketenapp/ketenauth/store"
)

// Logout ends the session. It always succeeds locally: the token is cleared
// from memory and the store before the identity service is contacted, so the
// caller perceives a completed logout even when the revoke call fails.
//
// Sequence: the advisory logging-out flag is written (so a concurrent
// refresh-and-retry flow can abstain from re-authenticating mid-logout), the
// token is cleared, the revoke endpoint is POSTed best-effort, and the flag
// is removed again on every path.
//
// The returned error is diagnostic only: it wraps [ErrRevokeFailed],
// [ErrPersistFailed], or [ErrSignalFailed] when those best-effort steps
// misfired, and is safe to ignore.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return ErrControllerClosed
	}

	c.metrics.Inc(MetricLogout)

	if err := c.store.Set(ctx, c.config.Session.LoggingOutKey, store.LoggingOutValue); err != nil {
		c.metrics.Inc(MetricStoreFailure)
		c.emit(ctx, EventStoreDegraded, false, err)
	}
	defer func() {
		if err := c.store.Delete(ctx, c.config.Session.LoggingOutKey); err != nil {
			c.metrics.Inc(MetricStoreFailure)
		}
	}()

	clearErr := c.SetToken(ctx, "")

	revokeErr := c.revoke(ctx)
	if revokeErr != nil {
		c.metrics.Inc(MetricLogoutRevokeFailed)
		c.emit(ctx, EventLogout, false, revokeErr)
		revokeErr = fmt.Errorf("%w: %v", ErrRevokeFailed, revokeErr)
	} else {
		c.emit(ctx, EventLogout, true, nil)
	}

	if clearErr != nil {
		return clearErr
	}
	return revokeErr
}

// revoke notifies the identity service that the session ended. The response
// body is irrelevant; any non-2xx status counts as a failure.
func (c *Controller) revoke(ctx context.Context) error {
	url := c.config.API.BaseURL + c.config.API.LogoutPath

	ctx, cancel := context.WithTimeout(ctx, c.config.API.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader("{}"))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("revoke endpoint returned %d", resp.StatusCode)
	}
	return nil
}
