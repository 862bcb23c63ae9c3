// ABOUTME: Habit model with weekly schedule, completion dates, notes and photos.
// ABOUTME: Normalizes legacy records loaded from the remote API or the local cache.
package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the ISO calendar-date format used for completion dates.
const DateLayout = "2006-01-02"

// Schedule marks which weekdays a habit is due, indexed Sunday(0)..Saturday(6).
type Schedule [7]bool

// Due reports whether the habit is due on the given weekday.
func (s Schedule) Due(d time.Weekday) bool {
	return s[int(d)]
}

// Empty reports whether the habit is due on no weekday at all.
func (s Schedule) Empty() bool {
	for _, due := range s {
		if due {
			return false
		}
	}
	return true
}

// String renders the schedule as a seven-letter week, dots for off days.
func (s Schedule) String() string {
	letters := [7]byte{'S', 'M', 'T', 'W', 'T', 'F', 'S'}
	out := make([]byte, 7)
	for i := range s {
		if s[i] {
			out[i] = letters[i]
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}

// UnmarshalJSON enforces that a wire-format schedule has exactly 7 entries.
func (s *Schedule) UnmarshalJSON(data []byte) error {
	var days []bool
	if err := json.Unmarshal(data, &days); err != nil {
		return &ValidationError{Field: "schedule", Reason: err.Error()}
	}
	parsed, err := ScheduleFromSlice(days)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ScheduleFromSlice validates a wire-format schedule and converts it.
func ScheduleFromSlice(days []bool) (Schedule, error) {
	var s Schedule
	if len(days) != 7 {
		return s, &ValidationError{
			Field:  "schedule",
			Reason: fmt.Sprintf("expected 7 entries, got %d", len(days)),
		}
	}
	copy(s[:], days)
	return s, nil
}

// ParseDate parses a completion date string. Only the canonical
// YYYY-MM-DD form is accepted; anything else is a ValidationError.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{
			Field:  "date",
			Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", s),
		}
	}
	return t, nil
}

// FormatDate renders a time as a completion date string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Habit is a user-defined recurring activity with a weekly due-schedule.
// Notes and Photos are keyed by completion date; entries whose date is no
// longer in CompletedDates are tolerated as orphaned history.
type Habit struct {
	ID             string            `json:"id"`
	RemoteID       string            `json:"remoteId,omitempty"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Schedule       Schedule          `json:"schedule"`
	CompletedDates []string          `json:"completedDates"`
	Notes          map[string]string `json:"notes"`
	Photos         map[string]string `json:"photos"`
	Pinned         bool              `json:"pinned"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// NewHabit creates a Habit with a generated UUID and empty collections.
func NewHabit(name, description string, schedule Schedule) *Habit {
	return &Habit{
		ID:             uuid.New().String(),
		Name:           name,
		Description:    description,
		Schedule:       schedule,
		CompletedDates: []string{},
		Notes:          map[string]string{},
		Photos:         map[string]string{},
		CreatedAt:      time.Now(),
	}
}

// Normalize repairs a record loaded from storage: completion dates are
// deduplicated and sorted, nil maps are allocated, and the local/remote id
// pair is resolved so both ids address the same record. Legacy records that
// predate the pinned flag come through with Pinned false.
func (h *Habit) Normalize() {
	seen := make(map[string]struct{}, len(h.CompletedDates))
	dates := make([]string, 0, len(h.CompletedDates))
	for _, d := range h.CompletedDates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	sort.Strings(dates)
	h.CompletedDates = dates

	if h.Notes == nil {
		h.Notes = map[string]string{}
	}
	if h.Photos == nil {
		h.Photos = map[string]string{}
	}
	if h.ID == "" {
		h.ID = h.RemoteID
	}
}

// Matches reports whether the given id addresses this habit, by either
// the local or the remote id.
func (h *Habit) Matches(id string) bool {
	return id != "" && (h.ID == id || h.RemoteID == id)
}

// Completed reports whether the habit was marked done on the given date.
func (h *Habit) Completed(date string) bool {
	for _, d := range h.CompletedDates {
		if d == date {
			return true
		}
	}
	return false
}

// SetCompleted forces completion membership for a date to the given state.
// It is idempotent: setting an already-present date again is a no-op.
func (h *Habit) SetCompleted(date string, done bool) {
	if done {
		if !h.Completed(date) {
			h.CompletedDates = append(h.CompletedDates, date)
			sort.Strings(h.CompletedDates)
		}
		return
	}
	kept := h.CompletedDates[:0]
	for _, d := range h.CompletedDates {
		if d != date {
			kept = append(kept, d)
		}
	}
	h.CompletedDates = kept
}

// Clone returns a deep copy. The store hands clones to callers so that
// snapshots held by one caller are never mutated by another.
func (h *Habit) Clone() *Habit {
	c := *h
	c.CompletedDates = append([]string(nil), h.CompletedDates...)
	c.Notes = make(map[string]string, len(h.Notes))
	for k, v := range h.Notes {
		c.Notes[k] = v
	}
	c.Photos = make(map[string]string, len(h.Photos))
	for k, v := range h.Photos {
		c.Photos[k] = v
	}
	return &c
}
