// Package backup pushes read-only snapshots of the local collections to the
// remote backend. Local data is authoritative: a failed push is logged and
// retried later, never rolled back into local state.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"expensewise/internal/core"
)

// Snapshot is the full local dataset sent to the remote backend.
type Snapshot struct {
	Categories []core.Category `json:"categories"`
	Expenses   []core.Expense  `json:"expenses"`
	Budgets    []core.Budget   `json:"budgets"`
	Settings   core.Settings   `json:"settings"`
	TakenAt    time.Time       `json:"taken_at"`
}

// Client talks to the opaque remote backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// RegisterUser announces this device to the backend.
func (c *Client) RegisterUser(ctx context.Context, settings core.Settings) error {
	return c.do(ctx, http.MethodPost, "/register-user", settings)
}

// UpdateUser pushes changed device settings.
func (c *Client) UpdateUser(ctx context.Context, settings core.Settings) error {
	return c.do(ctx, http.MethodPut, "/update-user", settings)
}

// SetData uploads a full snapshot.
func (c *Client) SetData(ctx context.Context, snapshot Snapshot) error {
	return c.do(ctx, http.MethodPost, "/set-data", snapshot)
}

// Post sends an arbitrary payload to the backend's generic ingest endpoint.
func (c *Client) Post(ctx context.Context, payload any) error {
	return c.do(ctx, http.MethodPost, "/api/post/", payload)
}

func (c *Client) do(ctx context.Context, method, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
