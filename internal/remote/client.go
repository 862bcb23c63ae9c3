// ABOUTME: HTTP client for the remote habit API with bounded retries.
// ABOUTME: Maps HTTP failures onto the shared error taxonomy.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/harperreed/habits/internal/models"
)

// Client talks to the remote habit API, the authoritative store.
type Client struct {
	baseURL string
	http    *http.Client
	policy  Policy
}

// NewClient creates a client for the API at baseURL. The timeout bounds
// each individual attempt; the policy bounds how many attempts are made.
func NewClient(baseURL string, timeout time.Duration, policy Policy) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		policy:  policy,
	}
}

// ListHabits fetches the full habit collection.
func (c *Client) ListHabits(ctx context.Context) ([]*models.Habit, error) {
	var habits []*models.Habit
	if err := c.do(ctx, http.MethodGet, "/habits", nil, &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

// GetHabit fetches one habit by id.
func (c *Client) GetHabit(ctx context.Context, id string) (*models.Habit, error) {
	var h models.Habit
	if err := c.do(ctx, http.MethodGet, "/habits/"+id, nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// CreateHabit stores a new habit and returns the server's copy, which may
// carry a server-assigned remote id.
func (c *Client) CreateHabit(ctx context.Context, h *models.Habit) (*models.Habit, error) {
	var created models.Habit
	if err := c.do(ctx, http.MethodPost, "/habits", h, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateHabit replaces the stored record with the given one.
func (c *Client) UpdateHabit(ctx context.Context, h *models.Habit) (*models.Habit, error) {
	var updated models.Habit
	if err := c.do(ctx, http.MethodPut, "/habits/"+h.ID, h, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// completionRequest sets membership of one date in completedDates. Unlike a
// toggle, the operation names the target state, so a transparently retried
// request cannot double-toggle.
type completionRequest struct {
	Date string `json:"date"`
	Done bool   `json:"done"`
}

// SetCompletion sets whether the habit is completed on the given date.
func (c *Client) SetCompletion(ctx context.Context, id, date string, done bool) (*models.Habit, error) {
	var updated models.Habit
	req := completionRequest{Date: date, Done: done}
	if err := c.do(ctx, http.MethodPut, "/habits/"+id+"/completion", req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteHabit removes a habit by id.
func (c *Client) DeleteHabit(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/habits/"+id, nil, nil)
}

// do runs one API call under the retry policy. Only transient failures are
// retried; validation and not-found responses surface immediately.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= c.policy.Attempts(); attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(c.policy.Delay(attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := c.attempt(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !models.IsTransient(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// Connectivity failures and per-attempt timeouts are retryable.
		return &models.TransientError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, models.ErrNotFound)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%s %s: %w", method, path, models.ErrConflict)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return &models.TransientError{
			Err: fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode),
		}
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.New(apiMessage(method, path, resp.StatusCode, msg))
	}
}

func apiMessage(method, path string, status int, body []byte) string {
	if len(body) == 0 {
		return fmt.Sprintf("%s %s: status %d", method, path, status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", method, path, status, body)
}
