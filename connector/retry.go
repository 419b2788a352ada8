package connector

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

const defaultRetryBaseDelay = 200 * time.Millisecond

// OpenWithRetry calls Open until it succeeds or rc.MaxRetries further
// attempts have failed, backing off exponentially between attempts.
// Malformed addresses fail immediately.
func OpenWithRetry(ctx context.Context, address string, rc RetryConfig, opts ...Option) (*Connection, error) {
	base := rc.BaseDelay
	if base <= 0 {
		base = defaultRetryBaseDelay
	}
	backoff := retry.NewExponential(base)
	if rc.MaxDelay > 0 {
		backoff = retry.WithCappedDuration(rc.MaxDelay, backoff)
	}
	backoff = retry.WithMaxRetries(uint64(max(rc.MaxRetries, 0)), backoff)

	var conn *Connection
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		c, err := Open(ctx, address, opts...)
		if err != nil {
			if errors.Is(err, errInvalidAddress) {
				return err
			}
			return retry.RetryableError(err)
		}
		conn = c
		return nil
	})
	if err != nil {
		if !IsConnectionFailed(err) {
			return nil, connectionFailed(err, "gave up after %d attempts", attempt)
		}
		return nil, err
	}
	return conn, nil
}

// OpenConfig opens a connection described by cfg, retrying when
// cfg.Retry.MaxRetries is positive. opts are applied after the ones derived
// from cfg.
func OpenConfig(ctx context.Context, cfg *Config, opts ...Option) (*Connection, error) {
	if cfg == nil {
		return nil, connectionFailed(nil, "no configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, connectionFailed(err, "invalid configuration")
	}

	all := append(cfg.Options(), opts...)
	if cfg.Retry.MaxRetries > 0 {
		return OpenWithRetry(ctx, cfg.Address, cfg.Retry, all...)
	}
	return Open(ctx, cfg.Address, all...)
}
