// ABOUTME: Pure statistics engine for habit streaks and completion rates.
// ABOUTME: Deterministic function of (schedule, completed dates, today, window).
package stats

import (
	"time"

	"github.com/harperreed/habits/internal/models"
)

// Stats holds the derived metrics for one habit.
type Stats struct {
	CurrentStreak  int     `json:"currentStreak"`
	BestStreak     int     `json:"bestStreak"`
	CompletionRate float64 `json:"completionRate"`
	TotalDays      int     `json:"totalDays"`
}

// Window bounds the completion-rate denominator.
//
// Days > 0 selects a trailing window of that many calendar days ending at
// today. Otherwise the window is all-time, starting at Since (normally the
// habit's creation date); a zero Since falls back to the earliest completed
// date.
type Window struct {
	Days  int
	Since time.Time
}

// AllTime is the unbounded window starting at the earliest completed date.
var AllTime = Window{}

// LastNDays returns a trailing window of n calendar days ending at today.
func LastNDays(n int) Window {
	return Window{Days: n}
}

// SinceDate returns an all-time window starting at the given date.
func SinceDate(t time.Time) Window {
	return Window{Since: t}
}

// Compute derives streaks and completion rate from a weekly schedule and a
// set of completion dates. It performs no I/O and reads no clock: today is
// injected, so identical inputs always yield identical results.
//
// Only scheduled days count against a streak; unscheduled days are skipped
// without breaking or extending it. If today is scheduled but not yet
// completed it is treated as still pending: the current streak is computed
// as of the most recent scheduled day strictly before today, and only a
// missed day before that breaks it.
//
// Malformed date strings fail with a ValidationError rather than silently
// corrupting the walk.
func Compute(schedule models.Schedule, completedDates []string, today time.Time, window Window) (Stats, error) {
	done := make(map[string]struct{}, len(completedDates))
	var earliest time.Time
	for _, ds := range completedDates {
		day, err := models.ParseDate(ds)
		if err != nil {
			return Stats{}, err
		}
		done[ds] = struct{}{}
		if earliest.IsZero() || day.Before(earliest) {
			earliest = day
		}
	}

	s := Stats{TotalDays: len(done)}

	// With no due days or no completions there is nothing to walk:
	// streaks are zero and the rate is zero by definition.
	if schedule.Empty() || len(done) == 0 {
		return s, nil
	}

	day := truncate(today)
	s.CurrentStreak = currentStreak(schedule, done, day, earliest)
	s.BestStreak = bestStreak(schedule, done, day, earliest)
	s.CompletionRate = completionRate(schedule, done, day, earliest, window)
	return s, nil
}

// currentStreak walks backward from today one calendar day at a time,
// skipping unscheduled days, counting completed scheduled days, and
// stopping at the first scheduled day that was missed.
func currentStreak(schedule models.Schedule, done map[string]struct{}, today, earliest time.Time) int {
	day := today
	if schedule.Due(day.Weekday()) && !isDone(done, day) {
		// Today is due but still pending; it neither breaks nor extends.
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for !day.Before(earliest) {
		if schedule.Due(day.Weekday()) {
			if !isDone(done, day) {
				break
			}
			streak++
		}
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// bestStreak scans every scheduled day between the earliest completion and
// today, tracking the longest run of completed scheduled days.
func bestStreak(schedule models.Schedule, done map[string]struct{}, today, earliest time.Time) int {
	best, run := 0, 0
	for day := earliest; !day.After(today); day = day.AddDate(0, 0, 1) {
		if !schedule.Due(day.Weekday()) {
			continue
		}
		if isDone(done, day) {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

// completionRate divides completed scheduled days by total scheduled days
// inside the window. Completions on unscheduled days never inflate the
// rate, and a zero denominator yields 0 rather than a division error.
func completionRate(schedule models.Schedule, done map[string]struct{}, today, earliest time.Time, window Window) float64 {
	start := earliest
	switch {
	case window.Days > 0:
		start = today.AddDate(0, 0, -(window.Days - 1))
	case !window.Since.IsZero():
		start = truncate(window.Since)
	}
	if start.After(today) {
		return 0
	}

	scheduled, completed := 0, 0
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		if !schedule.Due(day.Weekday()) {
			continue
		}
		scheduled++
		if isDone(done, day) {
			completed++
		}
	}
	if scheduled == 0 {
		return 0
	}
	return float64(completed) / float64(scheduled) * 100
}

func isDone(done map[string]struct{}, day time.Time) bool {
	_, ok := done[models.FormatDate(day)]
	return ok
}

// truncate drops the time-of-day component, pinning the day to UTC
// midnight like parsed completion dates.
func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
