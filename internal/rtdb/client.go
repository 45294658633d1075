// Package rtdb writes telemetry values to a Firebase-style realtime database
// over its REST interface. Writes are fire-and-forget: Set enqueues one
// independent PUT and returns immediately; the outcome arrives later on the
// shared result stream. There is no retry, no batching and no ordering
// guarantee across writes.
package rtdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/Mikhaerys/Weather-Drone/internal/result"
)

const (
	writeTimeout = 5 * time.Second
	queueSize    = 32
	numWorkers   = 4
)

// TokenSource supplies the current auth token for database requests.
type TokenSource interface {
	Token() string
}

type job struct {
	path  string
	value any
	tag   string
}

// Client issues asynchronous writes against one database URL.
type Client struct {
	baseURL string
	tokens  TokenSource
	httpc   *http.Client
	results chan<- result.Result

	jobs      chan job
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewClient starts the write workers. Outcomes are delivered on results,
// which the caller drains; when the stream is full, outcomes are dropped
// rather than blocking a worker.
func NewClient(baseURL string, tokens TokenSource, results chan<- result.Result) *Client {
	c := &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpc:   &http.Client{Timeout: writeTimeout},
		results: results,
		jobs:    make(chan job, queueSize),
	}
	for i := 0; i < numWorkers; i++ {
		c.wg.Add(1)
		go c.worker()
	}
	return c
}

// Set enqueues one write of value at path. It never blocks: when the queue
// is full the write is dropped and reported as an Error result, matching the
// no-buffering contract.
func (c *Client) Set(path string, value any, tag string) {
	select {
	case c.jobs <- job{path: path, value: value, tag: tag}:
	default:
		c.emit(result.Result{
			Kind:    result.Error,
			TaskID:  tag,
			Code:    -2,
			Message: "write queue full, value dropped",
		})
	}
}

// Close stops accepting writes and waits for in-flight ones to finish.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.jobs) })
	c.wg.Wait()
}

func (c *Client) worker() {
	defer c.wg.Done()
	for j := range c.jobs {
		c.perform(j)
	}
}

func (c *Client) perform(j job) {
	body, err := json.Marshal(j.value)
	if err != nil {
		c.emit(result.Result{Kind: result.Error, TaskID: j.tag, Code: -1, Message: fmt.Sprintf("encode value: %v", err)})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	url := c.baseURL + "/" + j.path + ".json"
	if token := c.tokens.Token(); token != "" {
		url += "?auth=" + token
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		c.emit(result.Result{Kind: result.Error, TaskID: j.tag, Code: -1, Message: fmt.Sprintf("build request: %v", err)})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	c.emit(result.Result{Kind: result.Debug, TaskID: j.tag, Message: "sending PUT " + j.path})

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.emit(result.Result{Kind: result.Error, TaskID: j.tag, Code: -1, Message: err.Error()})
		return
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.emit(result.Result{Kind: result.Debug, TaskID: j.tag, Message: fmt.Sprintf("close response body: %v", closeErr)})
		}
	}()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		c.emit(result.Result{Kind: result.Error, TaskID: j.tag, Code: -1, Message: fmt.Sprintf("read response: %v", err)})
		return
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.emit(result.Result{
			Kind:    result.Error,
			TaskID:  j.tag,
			Code:    resp.StatusCode,
			Message: string(payload),
		})
		return
	}

	c.emit(result.Result{Kind: result.Payload, TaskID: j.tag, Code: resp.StatusCode, Payload: string(payload)})
}

// emit delivers a result without ever blocking a worker.
func (c *Client) emit(r result.Result) {
	select {
	case c.results <- r:
	default:
	}
}
