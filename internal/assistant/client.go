// Package assistant feeds a read-only expense snapshot to an opaque
// text-generation endpoint and returns its answer. Failures here never
// touch local data.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"expensewise/internal/core"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Ask sends the user question together with a snapshot of recent expenses.
func (c *Client) Ask(ctx context.Context, question string, recent []core.ExpenseView) (string, error) {
	if c.baseURL == "" {
		return "", errors.New("assistant endpoint not configured")
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: snapshotPrompt(recent)},
			{Role: "user", Content: question},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr chatResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != nil {
			return "", fmt.Errorf("assistant api error: %s", apiErr.Error.Message)
		}
		return "", fmt.Errorf("assistant api error: %s", strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("assistant response missing choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// snapshotPrompt renders the recent expenses as a compact table the model
// can reason over.
func snapshotPrompt(recent []core.ExpenseView) string {
	var b strings.Builder
	b.WriteString("You are a personal finance assistant. ")
	b.WriteString("Answer using only the user's expenses from the last 30 days, listed below as date|category|amount|note.\n")
	if len(recent) == 0 {
		b.WriteString("(no expenses recorded)\n")
		return b.String()
	}
	var total float64
	for _, e := range recent {
		total += e.Amount
		fmt.Fprintf(&b, "%s|%s|%.2f|%s\n", e.Date, e.CategoryName, e.Amount, e.Note)
	}
	fmt.Fprintf(&b, "Total: %.2f over %d expenses.\n", total, len(recent))
	return b.String()
}
