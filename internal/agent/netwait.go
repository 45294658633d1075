package agent

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"
)

// NetPolicy bounds the connectivity probe in the Connecting state. The
// reference behaviour was an unconditional infinite wait; this is the
// configurable bounded-retry-with-backoff replacement.
type NetPolicy struct {
	MaxRetries int // 0 means retry forever
	Initial    time.Duration
	MaxWait    time.Duration
}

// WaitForNetwork dials the database host until it is reachable or the
// policy is exhausted.
func WaitForNetwork(ctx context.Context, rawURL string, p NetPolicy, logger *slog.Logger) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}
	host := u.Host
	if u.Port() == "" {
		port := "443"
		if u.Scheme == "http" {
			port = "80"
		}
		host = net.JoinHostPort(u.Hostname(), port)
	}

	dialer := net.Dialer{Timeout: 3 * time.Second}
	wait := p.Initial
	if wait <= 0 {
		wait = 300 * time.Millisecond
	}

	for attempt := 1; ; attempt++ {
		conn, err := dialer.DialContext(ctx, "tcp", host)
		if err == nil {
			if closeErr := conn.Close(); closeErr != nil {
				logger.Debug("close probe connection", "error", closeErr)
			}
			logger.Info("network reachable", "host", host, "attempt", attempt)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if p.MaxRetries > 0 && attempt >= p.MaxRetries {
			return fmt.Errorf("network unreachable after %d attempts: %w", attempt, err)
		}

		logger.Warn("network probe failed", "host", host, "attempt", attempt, "retry_in", wait, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
		if p.MaxWait > 0 && wait > p.MaxWait {
			wait = p.MaxWait
		}
	}
}
