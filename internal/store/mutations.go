// ABOUTME: Mutating operations on habit records: create, merge-update, toggles.
// ABOUTME: Every mutation is a read-modify-write serialized per habit id.
package store

import (
	"context"
	"strings"

	"github.com/harperreed/habits/internal/models"
)

// Draft is the input to Create.
type Draft struct {
	Name        string
	Description string
	Schedule    models.Schedule
}

// Patch names the fields an Update touches. Nil fields are left alone.
// Notes and Photos are merged key-by-key into the stored maps, never
// replacing them wholesale, so an unrelated update cannot drop entries.
type Patch struct {
	Name        *string
	Description *string
	Schedule    *models.Schedule
	Pinned      *bool
	Notes       map[string]string
	Photos      map[string]string
}

// Create validates a draft and stores the new habit.
func (s *Store) Create(ctx context.Context, draft Draft) (*models.Habit, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if draft.Schedule.Empty() {
		return nil, &models.ValidationError{Field: "schedule", Reason: "at least one day must be scheduled"}
	}

	h := models.NewHabit(strings.TrimSpace(draft.Name), draft.Description, draft.Schedule)

	octx, cancel := s.opCtx(ctx)
	defer cancel()
	created, err := s.remote.CreateHabit(octx, h)
	if err != nil {
		return nil, err
	}
	created.Normalize()
	if created.ID != h.ID && created.RemoteID == "" {
		// Server minted its own id; keep both resolvable.
		created.RemoteID = created.ID
		created.ID = h.ID
	}
	s.upsertCached(created)
	return created.Clone(), nil
}

// Update applies a patch to the stored record, preserving every field the
// patch does not mention.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (*models.Habit, error) {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()
	return s.updateLocked(ctx, id, patch)
}

func (s *Store) updateLocked(ctx context.Context, id string, patch Patch) (*models.Habit, error) {
	octx, cancel := s.opCtx(ctx)
	defer cancel()

	cur, err := s.remote.GetHabit(octx, id)
	if err != nil {
		return nil, err
	}
	cur.Normalize()

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, &models.ValidationError{Field: "name", Reason: "must not be empty"}
		}
		cur.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		cur.Description = *patch.Description
	}
	if patch.Schedule != nil {
		if patch.Schedule.Empty() {
			return nil, &models.ValidationError{Field: "schedule", Reason: "at least one day must be scheduled"}
		}
		cur.Schedule = *patch.Schedule
	}
	if patch.Pinned != nil {
		cur.Pinned = *patch.Pinned
	}
	for date, note := range patch.Notes {
		cur.Notes[date] = note
	}
	for date, ref := range patch.Photos {
		cur.Photos[date] = ref
	}

	updated, err := s.remote.UpdateHabit(octx, cur)
	if err != nil {
		return nil, err
	}
	updated.Normalize()
	s.upsertCached(updated)
	return updated.Clone(), nil
}

// ToggleCompletion flips completion membership for one date. The store
// reads the current membership and sends the target state to the remote,
// so a transparently retried request is idempotent rather than a
// double-toggle. Removing a date keeps its note and photo as orphaned
// history; the calendar surfaces them if the date is completed again.
func (s *Store) ToggleCompletion(ctx context.Context, id, date string) (h *models.Habit, nowDone bool, err error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, false, err
	}

	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	octx, cancel := s.opCtx(ctx)
	defer cancel()

	cur, err := s.remote.GetHabit(octx, id)
	if err != nil {
		return nil, false, err
	}
	cur.Normalize()

	done := !cur.Completed(date)
	updated, err := s.remote.SetCompletion(octx, cur.ID, date, done)
	if err != nil {
		return nil, false, err
	}
	updated.Normalize()
	s.upsertCached(updated)
	return updated.Clone(), done, nil
}

// SetNote attaches a note to a date. The date need not be completed yet;
// the entry simply stays orphaned until it is.
func (s *Store) SetNote(ctx context.Context, id, date, note string) (*models.Habit, error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, err
	}
	return s.Update(ctx, id, Patch{Notes: map[string]string{date: note}})
}

// SetPhoto attaches an opaque photo reference to a date.
func (s *Store) SetPhoto(ctx context.Context, id, date, ref string) (*models.Habit, error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, err
	}
	return s.Update(ctx, id, Patch{Photos: map[string]string{date: ref}})
}

// TogglePin flips the pinned flag.
func (s *Store) TogglePin(ctx context.Context, id string) (*models.Habit, error) {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	octx, cancel := s.opCtx(ctx)
	defer cancel()

	cur, err := s.remote.GetHabit(octx, id)
	if err != nil {
		return nil, err
	}
	cur.Normalize()

	pinned := !cur.Pinned
	return s.updateUnlockedWith(octx, cur, Patch{Pinned: &pinned})
}

// updateUnlockedWith applies a patch to an already-fetched record under an
// already-derived op context. Caller holds the per-id lock.
func (s *Store) updateUnlockedWith(octx context.Context, cur *models.Habit, patch Patch) (*models.Habit, error) {
	if patch.Pinned != nil {
		cur.Pinned = *patch.Pinned
	}
	for date, note := range patch.Notes {
		cur.Notes[date] = note
	}
	for date, ref := range patch.Photos {
		cur.Photos[date] = ref
	}
	updated, err := s.remote.UpdateHabit(octx, cur)
	if err != nil {
		return nil, err
	}
	updated.Normalize()
	s.upsertCached(updated)
	return updated.Clone(), nil
}

// Delete removes a habit. Deleted is terminal: the record leaves both the
// remote and the cached snapshot.
func (s *Store) Delete(ctx context.Context, id string) error {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	octx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.remote.DeleteHabit(octx, id); err != nil {
		return err
	}
	s.removeCached(id)
	return nil
}
