// Package httpx wraps outbound HTTP calls that are allowed to retry (auth
// sign-in, mirror enrichment) with exponential backoff and a circuit
// breaker. Telemetry uploads deliberately do not go through this path: they
// are single-attempt by contract.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Backoff controls exponential backoff behaviour.
type Backoff struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

var (
	ErrRateLimited = errors.New("rate limited")
	ErrServerError = errors.New("server error")

	errNoClient      = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// Do executes the request built by buildRequest with retries, exponential
// backoff and the given circuit breaker. 4xx responses other than 429 are
// returned to the caller without retrying; 429 and 5xx are retried.
func Do(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	backoff Backoff,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if client == nil {
		return nil, errNoClient
	}
	if backoff.MaxRetries < 0 || backoff.InitialInterval <= 0 {
		return nil, errInvalidConfig
	}

	var attempt int
	var lastErr error

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		res, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			if resp.StatusCode == http.StatusTooManyRequests {
				closeBody(resp)
				return nil, ErrRateLimited
			}
			if resp.StatusCode >= 500 {
				closeBody(resp)
				return nil, fmt.Errorf("%w: %d", ErrServerError, resp.StatusCode)
			}
			return resp, nil
		})
		if err == nil {
			resp, ok := res.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		lastErr = err
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("circuit breaker open: %w", err)
		}

		attempt++
		if attempt > backoff.MaxRetries {
			return nil, fmt.Errorf("giving up after %d attempts: %w", attempt, lastErr)
		}

		wait := time.Duration(float64(backoff.InitialInterval) * math.Pow(2, float64(attempt-1)))
		if backoff.MaxInterval > 0 && wait > backoff.MaxInterval {
			wait = backoff.MaxInterval
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func closeBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}
