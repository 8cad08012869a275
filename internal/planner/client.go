// Package planner talks to the external itinerary generator.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrUpstream covers every way the generator can fail us: unreachable,
// timed out, non-200, oversized or non-JSON body.
var ErrUpstream = errors.New("planner upstream failure")

// MaxResponseBytes caps the body relayed from the generator.
const MaxResponseBytes = 1 << 20

// Client calls the generator with a bounded timeout.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient returns a Client for baseURL. A zero timeout falls back to 15s.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Generate asks the generator for a days-long itinerary at destination and
// returns its JSON body untouched. All failures wrap ErrUpstream.
func (c *Client) Generate(ctx context.Context, days int, destination string) (json.RawMessage, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("planner.Client.Generate: no generator configured: %w", ErrUpstream)
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("planner.Client.Generate: parse url: %v: %w", err, ErrUpstream)
	}
	q := u.Query()
	q.Set("days", strconv.Itoa(days))
	q.Set("destination", destination)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("planner.Client.Generate: build request: %v: %w", err, ErrUpstream)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("planner.Client.Generate: do: %v: %w", err, ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("planner.Client.Generate: status %d: %w", resp.StatusCode, ErrUpstream)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("planner.Client.Generate: read body: %v: %w", err, ErrUpstream)
	}
	if len(body) > MaxResponseBytes {
		return nil, fmt.Errorf("planner.Client.Generate: body over %d bytes: %w", MaxResponseBytes, ErrUpstream)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("planner.Client.Generate: body is not JSON: %w", ErrUpstream)
	}
	return json.RawMessage(body), nil
}
