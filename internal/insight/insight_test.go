// ABOUTME: Tests for the AI insight collaborator.
// ABOUTME: Verifies degradation to the placeholder on failure, timeout, and junk.
package insight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func respond(w http.ResponseWriter, content string) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
}

func TestHabitInsightsSuccess(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		respond(w, "- Tip one\n- Tip two\n- Tip three\n\"Keep going!\"")
	}))
	defer srv.Close()

	c := NewClient("test-key", WithURL(srv.URL))
	got := c.HabitInsights(context.Background(), HabitSummary{
		Name:           "Morning run",
		CompletionRate: 85,
		CurrentStreak:  4,
	})

	if !strings.Contains(got, "Tip one") {
		t.Errorf("insights = %q, want server content", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotReq.Model != "gpt-4" {
		t.Errorf("model = %q, want gpt-4", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || !strings.Contains(gotReq.Messages[1].Content, "Morning run") {
		t.Errorf("messages = %+v, want system + habit prompt", gotReq.Messages)
	}
}

func TestHabitInsightsServerErrorDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("k", WithURL(srv.URL))
	if got := c.HabitInsights(context.Background(), HabitSummary{Name: "x"}); got != Placeholder {
		t.Errorf("insights = %q, want placeholder", got)
	}
}

func TestHabitInsightsTimeoutDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		respond(w, "too late")
	}))
	defer srv.Close()

	c := NewClient("k", WithURL(srv.URL), WithTimeout(20*time.Millisecond))
	if got := c.HabitInsights(context.Background(), HabitSummary{Name: "x"}); got != Placeholder {
		t.Errorf("insights = %q, want placeholder on timeout", got)
	}
}

func TestHabitInsightsEmptyChoicesDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := NewClient("k", WithURL(srv.URL))
	if got := c.HabitInsights(context.Background(), HabitSummary{Name: "x"}); got != Placeholder {
		t.Errorf("insights = %q, want placeholder on empty choices", got)
	}
}

func TestHabitInsightsCanceledContextDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, "never seen")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient("k", WithURL(srv.URL))
	if got := c.HabitInsights(ctx, HabitSummary{Name: "x"}); got != Placeholder {
		t.Errorf("insights = %q, want placeholder on canceled context", got)
	}
}
