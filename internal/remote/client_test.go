// ABOUTME: Tests for the remote API client against an httptest server.
// ABOUTME: Covers retry behavior, status mapping, and wire shapes.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harperreed/habits/internal/models"
)

func fastPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func sampleHabit() *models.Habit {
	return models.NewHabit("run", "", models.Schedule{true, true, true, true, true, true, true})
}

func TestTransientFailuresAreRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode([]*models.Habit{sampleHabit()})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, fastPolicy())
	habits, err := c.ListHabits(context.Background())
	if err != nil {
		t.Fatalf("ListHabits: %v", err)
	}
	if len(habits) != 1 {
		t.Errorf("habits = %d, want 1", len(habits))
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("requests = %d, want 3", got)
	}
}

func TestExhaustedRetriesSurfaceTransient(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, fastPolicy())
	_, err := c.ListHabits(context.Background())
	if !models.IsTransient(err) {
		t.Fatalf("error = %v, want TransientError", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("requests = %d, want all attempts used", got)
	}
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad schedule", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, fastPolicy())
	_, err := c.CreateHabit(context.Background(), sampleHabit())
	if err == nil {
		t.Fatal("expected error")
	}
	if models.IsTransient(err) {
		t.Errorf("400 must not be transient: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("requests = %d, want 1 (no retry)", got)
	}
}

func TestStatusMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/habits/gone":
			w.WriteHeader(http.StatusNotFound)
		case "/habits/busy":
			w.WriteHeader(http.StatusConflict)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, fastPolicy())

	if _, err := c.GetHabit(context.Background(), "gone"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("404: error = %v, want ErrNotFound", err)
	}
	if _, err := c.GetHabit(context.Background(), "busy"); !errors.Is(err, models.ErrConflict) {
		t.Errorf("409: error = %v, want ErrConflict", err)
	}
}

func TestConnectionFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening

	c := NewClient(srv.URL, 100*time.Millisecond, Policy{MaxAttempts: 1})
	_, err := c.ListHabits(context.Background())
	if !models.IsTransient(err) {
		t.Errorf("error = %v, want TransientError", err)
	}
}

func TestCanceledContextStopsRetrying(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient(srv.URL, time.Second, Policy{MaxAttempts: 10, BaseDelay: 50 * time.Millisecond})

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.ListHabits(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if got := atomic.LoadInt32(&calls); got >= 10 {
		t.Errorf("requests = %d, want retries abandoned on cancel", got)
	}
}

func TestSetCompletionWireShape(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_ = json.NewEncoder(w).Encode(sampleHabit())
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, fastPolicy())
	if _, err := c.SetCompletion(context.Background(), "h1", "2026-01-05", true); err != nil {
		t.Fatal(err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %s, want PUT", gotMethod)
	}
	if gotPath != "/habits/h1/completion" {
		t.Errorf("path = %s, want /habits/h1/completion", gotPath)
	}
	if gotBody.Date != "2026-01-05" || !gotBody.Done {
		t.Errorf("body = %+v, want date and target state", gotBody)
	}
}

func TestDeleteHabit(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, fastPolicy())
	if err := c.DeleteHabit(context.Background(), "h1"); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/habits/h1" {
		t.Errorf("request = %s %s, want DELETE /habits/h1", gotMethod, gotPath)
	}
}

func TestPolicyDelay(t *testing.T) {
	p := Policy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: 500 * time.Millisecond}

	tests := []struct {
		retry int
		want  time.Duration
	}{
		{0, 100 * time.Millisecond}, // clamped to first retry
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 500 * time.Millisecond}, // capped
		{5, 500 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := p.Delay(tt.retry); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.retry, got, tt.want)
		}
	}

	if got := (Policy{}).Attempts(); got != 1 {
		t.Errorf("zero policy Attempts() = %d, want 1", got)
	}
}
