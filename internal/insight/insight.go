// ABOUTME: AI insight collaborator calling the OpenAI chat completions API.
// ABOUTME: Bounded by a client-side timeout and degrades to a placeholder string.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Placeholder is returned whenever insights cannot be generated in time.
// The stats screen renders it instead of blocking.
const Placeholder = "Unable to generate insights at this time."

const (
	defaultURL     = "https://api.openai.com/v1/chat/completions"
	defaultModel   = "gpt-4"
	defaultTimeout = 5 * time.Second
)

// HabitSummary is the slice of habit state the insight prompt is built from.
type HabitSummary struct {
	Name           string
	Description    string
	CompletionRate float64
	CurrentStreak  int
}

// Client generates short text insights for a habit.
type Client struct {
	apiKey string
	model  string
	url    string
	http   *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithModel overrides the completion model.
func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

// WithURL points the client at a different endpoint, mainly for tests.
func WithURL(url string) ClientOption {
	return func(c *Client) { c.url = url }
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates an insight client authenticated with the given API key.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey: apiKey,
		model:  defaultModel,
		url:    defaultURL,
		http:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HabitInsights returns improvement tips and encouragement for a habit.
// It never returns an error: any failure or timeout yields Placeholder so
// the caller's stats view is never blocked or broken by this collaborator.
func (c *Client) HabitInsights(ctx context.Context, s HabitSummary) string {
	text, err := c.fetch(ctx, s)
	if err != nil || text == "" {
		return Placeholder
	}
	return text
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) fetch(ctx context.Context, s HabitSummary) (string, error) {
	prompt := fmt.Sprintf(`Name: %s
Description: %s
Completion rate: %.0f%%
Current streak: %d days

Based on the data, please provide:
- 3 short tips for improvement (under 50 characters each)
- one extremely motivational encouragement sentence (in quotes)`,
		s.Name, s.Description, s.CompletionRate, s.CurrentStreak)

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an expert in habits and personal development."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   1500,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("insight request failed: status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty response")
	}
	return parsed.Choices[0].Message.Content, nil
}
