package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Mikhaerys/Weather-Drone/internal/result"
)

func signInServer(t *testing.T, status int, body map[string]any) (*httptest.Server, *int, *sync.Mutex) {
	t.Helper()
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		if r.Method != http.MethodPost {
			t.Errorf("method = %s; want POST", r.Method)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("key = %q; want test-key", r.URL.Query().Get("key"))
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["returnSecureToken"] != true {
			t.Error("returnSecureToken not set")
		}
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	return srv, &calls, &mu
}

func TestSessionSignInSuccess(t *testing.T) {
	srv, _, _ := signInServer(t, http.StatusOK, map[string]any{
		"idToken":   "tok-abc",
		"localId":   "abc123",
		"expiresIn": "3600",
	})
	defer srv.Close()

	sink := make(chan result.Result, 8)
	s := NewSession(Options{
		APIKey:   "test-key",
		Email:    "drone@example.com",
		Password: "hunter2",
		Endpoint: srv.URL,
	}, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if s.Ready() {
		t.Fatal("Ready() = true before Start")
	}
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !s.Ready() {
		t.Fatal("Ready() = false after successful sign-in")
	}
	if got := s.UID(); got != "abc123" {
		t.Errorf("UID() = %q; want abc123", got)
	}
	if got := s.Token(); got != "tok-abc" {
		t.Errorf("Token() = %q; want tok-abc", got)
	}

	// An "authenticating" then an "authenticated" event must have been emitted.
	first := <-sink
	if first.Kind != result.Event || first.Message != "authenticating" {
		t.Errorf("first sink result = %+v; want authenticating event", first)
	}
	second := <-sink
	if second.Kind != result.Event || second.Message != "authenticated" {
		t.Errorf("second sink result = %+v; want authenticated event", second)
	}
}

func TestSessionSignInRejected(t *testing.T) {
	srv, calls, mu := signInServer(t, http.StatusBadRequest, map[string]any{
		"error": map[string]any{"message": "INVALID_PASSWORD"},
	})
	defer srv.Close()

	s := NewSession(Options{
		APIKey:   "test-key",
		Email:    "drone@example.com",
		Password: "wrong",
		Endpoint: srv.URL,
	}, nil)

	if err := s.Start(context.Background()); err == nil {
		t.Fatal("Start succeeded with rejected credentials")
	}
	if s.Ready() {
		t.Fatal("Ready() = true after rejected sign-in")
	}
	mu.Lock()
	defer mu.Unlock()
	if *calls != 1 {
		t.Errorf("server saw %d calls; want 1 (4xx is not retried)", *calls)
	}
}

func TestSessionMissingUIDRejected(t *testing.T) {
	srv, _, _ := signInServer(t, http.StatusOK, map[string]any{
		"idToken": "tok-abc",
	})
	defer srv.Close()

	s := NewSession(Options{
		APIKey:   "test-key",
		Email:    "drone@example.com",
		Password: "hunter2",
		Endpoint: srv.URL,
	}, nil)

	if err := s.Start(context.Background()); err == nil {
		t.Fatal("Start succeeded without a uid in the response")
	}
}
