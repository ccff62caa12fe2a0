package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"privatelives/internal/observability/metrics"
)

// maxBody caps how much of an upstream response is read.
const maxBody = 10 << 20

// Client is a small JSON-over-HTTP client shared by the adapters that have no SDK.
type Client struct {
	Provider   string
	HTTPClient *http.Client
}

// NewClient returns a Client whose requests time out after timeout.
func NewClient(provider string, timeout time.Duration) *Client {
	return &Client{
		Provider:   provider,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// DoJSON executes req and decodes a 2xx JSON body into out. Non-2xx answers
// become *StatusError; undecodable bodies wrap ErrMalformed. The call is
// recorded under operation in the upstream metrics.
func (c *Client) DoJSON(req *http.Request, operation string, out any) (err error) {
	start := time.Now()
	defer func() { metrics.RecordUpstream(c.Provider, operation, time.Since(start), err) }()

	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", c.Provider, operation, ctxErr)
		}
		return fmt.Errorf("%s %s: %w", c.Provider, operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", c.Provider, operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Provider: c.Provider, StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", c.Provider, operation, ErrMalformed, err)
	}
	return nil
}

// Timed records the duration and outcome of an SDK call under provider/operation.
func Timed[T any](ctx context.Context, provider, operation string, call func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	v, err := call(ctx)
	metrics.RecordUpstream(provider, operation, time.Since(start), err)
	return v, err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
