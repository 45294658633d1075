// Package auth maintains the authenticated identity used to namespace
// telemetry uploads. It signs in against the hosted identity provider's
// password endpoint and keeps the ID token fresh for the process lifetime;
// the uid it reports never changes after the first successful sign-in.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Mikhaerys/Weather-Drone/internal/httpx"
	"github.com/Mikhaerys/Weather-Drone/internal/result"
)

// DefaultEndpoint is the identity provider's email/password sign-in URL.
const DefaultEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// refreshMargin renews the token well before it expires; the provider's
// tokens last an hour and the reference tooling renews at 55 minutes.
const refreshMargin = 5 * time.Minute

const taskID = "authTask"

// Options configures a Session.
type Options struct {
	APIKey   string
	Email    string
	Password string

	// Endpoint overrides DefaultEndpoint; used by tests.
	Endpoint string
}

// Session is the auth/session manager. Start signs in and then keeps the
// token fresh in the background; Ready reports whether uploads may proceed.
type Session struct {
	opts    Options
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker
	backoff httpx.Backoff
	sink    chan<- result.Result

	mu     sync.RWMutex
	uid    string
	token  string
	expiry time.Time
}

// NewSession builds a session. Lifecycle messages are emitted on sink as
// Event/Error results; sink may be nil.
func NewSession(opts Options, sink chan<- result.Result) *Session {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	return &Session{
		opts:  opts,
		httpc: &http.Client{Timeout: 10 * time.Second},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "auth",
			MaxRequests: 2,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
		}),
		backoff: httpx.Backoff{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		sink: sink,
	}
}

// Start performs the initial sign-in and launches the background refresh
// loop. It returns an error when the initial sign-in fails after retries.
func (s *Session) Start(ctx context.Context) error {
	s.emit(result.Result{Kind: result.Event, TaskID: taskID, Message: "authenticating"})
	if err := s.signIn(ctx); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	s.emit(result.Result{Kind: result.Event, TaskID: taskID, Message: "authenticated", Code: http.StatusOK})
	go s.refreshLoop(ctx)
	return nil
}

// Ready reports whether an unexpired token is held.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && time.Now().Before(s.expiry)
}

// UID returns the authenticated user id, or "" before the first sign-in.
func (s *Session) UID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uid
}

// Token returns the current ID token, or "" before the first sign-in.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) signIn(ctx context.Context) error {
	payload, err := json.Marshal(map[string]any{
		"email":             s.opts.Email,
		"password":          s.opts.Password,
		"returnSecureToken": true,
	})
	if err != nil {
		return err
	}

	build := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, s.opts.Endpoint+"?key="+s.opts.APIKey, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	resp, err := httpx.Do(ctx, s.httpc, s.breaker, s.backoff, build)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Debug("auth: close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("sign-in rejected: status %d: %s", resp.StatusCode, body)
	}

	var out struct {
		IDToken   string `json:"idToken"`
		LocalID   string `json:"localId"`
		ExpiresIn string `json:"expiresIn"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode sign-in response: %w", err)
	}
	if out.IDToken == "" || out.LocalID == "" {
		return fmt.Errorf("sign-in response missing token or uid")
	}

	ttl := time.Hour
	if secs, err := strconv.Atoi(out.ExpiresIn); err == nil && secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}

	s.mu.Lock()
	s.uid = out.LocalID
	s.token = out.IDToken
	s.expiry = time.Now().Add(ttl)
	s.mu.Unlock()
	return nil
}

// refreshLoop re-authenticates shortly before the token expires. A failed
// refresh is reported and retried; the session stays ready until the old
// token actually expires.
func (s *Session) refreshLoop(ctx context.Context) {
	for {
		s.mu.RLock()
		expiry := s.expiry
		s.mu.RUnlock()

		wait := time.Until(expiry) - refreshMargin
		if wait < 0 {
			wait = 0
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		if err := s.signIn(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.emit(result.Result{Kind: result.Error, TaskID: taskID, Code: -1, Message: "token refresh failed: " + err.Error()})
			select {
			case <-ctx.Done():
				return
			case <-time.After(30 * time.Second):
			}
			continue
		}
		s.emit(result.Result{Kind: result.Event, TaskID: taskID, Message: "token refreshed"})
	}
}

func (s *Session) emit(r result.Result) {
	if s.sink == nil {
		return
	}
	select {
	case s.sink <- r:
	default:
	}
}
