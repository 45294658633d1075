package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TokenSource supplies the current auth token for database reads.
type TokenSource interface {
	Token() string
}

// Fetcher reads the station's current telemetry map from the realtime
// database.
type Fetcher struct {
	baseURL string
	uid     string
	tokens  TokenSource
	httpc   *http.Client
}

func NewFetcher(baseURL, uid string, tokens TokenSource) *Fetcher {
	return &Fetcher{
		baseURL: baseURL,
		uid:     uid,
		tokens:  tokens,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch returns the current per-user telemetry, or (nil, nil) when the
// database holds no data yet.
func (f *Fetcher) Fetch(ctx context.Context) (*Record, error) {
	url := f.baseURL + "/UsersData/" + f.uid + ".json"
	if token := f.tokens.Token(); token != "" {
		url += "?auth=" + token
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch telemetry: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("fetch telemetry: status %d: %s", resp.StatusCode, body)
	}

	// The database returns the JSON literal "null" for an empty path.
	var rec *Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode telemetry: %w", err)
	}
	return rec, nil
}
