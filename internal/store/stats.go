// ABOUTME: Convenience bridge from stored habits to the statistics engine.
// ABOUTME: Injects the store clock so callers and tests share one notion of today.
package store

import (
	"context"

	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/stats"
)

// HabitStats holds a habit alongside its derived metrics.
type HabitStats struct {
	Habit *models.Habit
	Stats stats.Stats
	Stale bool
}

// Stats loads a habit and runs the statistics engine over it. A zero-value
// window means all time since the habit was created.
func (s *Store) Stats(ctx context.Context, id string, window stats.Window) (*HabitStats, error) {
	h, stale, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if window.Days <= 0 && window.Since.IsZero() && !h.CreatedAt.IsZero() {
		window.Since = h.CreatedAt
	}
	st, err := stats.Compute(h.Schedule, h.CompletedDates, s.now(), window)
	if err != nil {
		return nil, err
	}
	return &HabitStats{Habit: h, Stats: st, Stale: stale}, nil
}
