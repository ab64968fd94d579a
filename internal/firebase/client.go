// Package firebase pushes readings to a Firebase-RTDB-style JSON store:
// POST <base-url>/<sensor-id>.json, HTTP 200 means accepted. A failed push
// is logged and dropped; there is no retry queue.
package firebase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"airstation/internal/models"
)

const (
	pushTimeout  = 5 * time.Second
	batchTimeout = 10 * time.Second
)

// Client posts readings under a single sensor node.
type Client struct {
	http     *resty.Client
	baseURL  string
	sensorID string
}

// New creates a client for the given base URL and sensor identifier.
func New(baseURL, sensorID string) *Client {
	return &Client{
		http:     resty.New(),
		baseURL:  strings.TrimRight(baseURL, "/"),
		sensorID: sensorID,
	}
}

// URL returns the node endpoint the client posts to.
func (c *Client) URL() string {
	return fmt.Sprintf("%s/%s.json", c.baseURL, c.sensorID)
}

// Push sends a single reading. The store assigns an opaque push identifier;
// nothing here reads it back.
func (c *Client) Push(ctx context.Context, r models.Reading) error {
	return c.post(ctx, r, pushTimeout)
}

// PushBatch sends a batch of already-flattened records, as produced by the
// backfill CSV conversion, in one request.
func (c *Client) PushBatch(ctx context.Context, records []map[string]any) error {
	if len(records) == 0 {
		return fmt.Errorf("firebase: refusing to send an empty batch")
	}
	return c.post(ctx, records, batchTimeout)
}

func (c *Client) post(ctx context.Context, body any, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.URL())
	if err != nil {
		return fmt.Errorf("firebase: posting to %s: %w", c.URL(), err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("firebase: %s returned %s: %s", c.URL(), resp.Status(), resp.String())
	}
	return nil
}
