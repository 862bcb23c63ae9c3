// ABOUTME: Tests for the habit store over in-memory fakes.
// ABOUTME: Covers merge semantics, idempotent toggles, serialization, and fallback.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/harperreed/habits/internal/cache"
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/stats"
)

// fakeRemote is an in-memory stand-in for the remote habit API. UpdateHabit
// replaces the whole record, like the real API, so lost updates are visible
// when the store fails to serialize read-modify-write cycles.
type fakeRemote struct {
	mu      sync.Mutex
	habits  map[string]*models.Habit
	offline bool

	setCompletionCalls []bool
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{habits: map[string]*models.Habit{}}
}

func (f *fakeRemote) add(h *models.Habit) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.habits[h.ID] = h.Clone()
}

func (f *fakeRemote) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.offline {
		return &models.TransientError{Err: errors.New("connection refused")}
	}
	return nil
}

func (f *fakeRemote) ListHabits(ctx context.Context) ([]*models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx); err != nil {
		return nil, err
	}
	out := make([]*models.Habit, 0, len(f.habits))
	for _, h := range f.habits {
		out = append(out, h.Clone())
	}
	return out, nil
}

func (f *fakeRemote) GetHabit(ctx context.Context, id string) (*models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx); err != nil {
		return nil, err
	}
	for _, h := range f.habits {
		if h.Matches(id) {
			return h.Clone(), nil
		}
	}
	return nil, fmt.Errorf("GET /habits/%s: %w", id, models.ErrNotFound)
}

func (f *fakeRemote) CreateHabit(ctx context.Context, h *models.Habit) (*models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx); err != nil {
		return nil, err
	}
	stored := h.Clone()
	f.habits[stored.ID] = stored
	return stored.Clone(), nil
}

func (f *fakeRemote) UpdateHabit(ctx context.Context, h *models.Habit) (*models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx); err != nil {
		return nil, err
	}
	if _, ok := f.habits[h.ID]; !ok {
		return nil, fmt.Errorf("PUT /habits/%s: %w", h.ID, models.ErrNotFound)
	}
	f.habits[h.ID] = h.Clone()
	return h.Clone(), nil
}

func (f *fakeRemote) SetCompletion(ctx context.Context, id, date string, done bool) (*models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx); err != nil {
		return nil, err
	}
	h, ok := f.habits[id]
	if !ok {
		return nil, fmt.Errorf("PUT /habits/%s/completion: %w", id, models.ErrNotFound)
	}
	f.setCompletionCalls = append(f.setCompletionCalls, done)
	h.SetCompleted(date, done)
	return h.Clone(), nil
}

func (f *fakeRemote) DeleteHabit(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(ctx); err != nil {
		return err
	}
	if _, ok := f.habits[id]; !ok {
		return fmt.Errorf("DELETE /habits/%s: %w", id, models.ErrNotFound)
	}
	delete(f.habits, id)
	return nil
}

func (f *fakeRemote) setOffline(offline bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = offline
}

// fakeCache is an in-memory snapshot holder.
type fakeCache struct {
	mu   sync.Mutex
	snap *cache.Snapshot
}

func (f *fakeCache) Get() (*cache.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snap == nil {
		return nil, cache.ErrNoSnapshot
	}
	return f.snap, nil
}

func (f *fakeCache) Put(snap *cache.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = snap
	return nil
}

func newTestStore(t *testing.T) (*Store, *fakeRemote) {
	t.Helper()
	remote := newFakeRemote()
	return New(remote, &fakeCache{}), remote
}

func seedHabit(t *testing.T, s *Store, name string) *models.Habit {
	t.Helper()
	h, err := s.Create(context.Background(), Draft{
		Name:     name,
		Schedule: models.Schedule{true, true, true, true, true, true, true},
	})
	if err != nil {
		t.Fatalf("Create(%s): %v", name, err)
	}
	return h
}

func TestCreateValidation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, Draft{Name: "  ", Schedule: models.Schedule{true}}); !models.IsValidation(err) {
		t.Errorf("empty name: error = %v, want ValidationError", err)
	}
	if _, err := s.Create(ctx, Draft{Name: "x"}); !models.IsValidation(err) {
		t.Errorf("empty schedule: error = %v, want ValidationError", err)
	}
}

func TestToggleCompletionRoundTrip(t *testing.T) {
	s, remote := newTestStore(t)
	ctx := context.Background()
	h := seedHabit(t, s, "run")

	got, done, err := s.ToggleCompletion(ctx, h.ID, "2026-01-05")
	if err != nil {
		t.Fatal(err)
	}
	if !done || !got.Completed("2026-01-05") {
		t.Fatalf("first toggle: done=%v dates=%v, want completed", done, got.CompletedDates)
	}

	got, done, err = s.ToggleCompletion(ctx, h.ID, "2026-01-05")
	if err != nil {
		t.Fatal(err)
	}
	if done || got.Completed("2026-01-05") {
		t.Fatalf("second toggle: done=%v dates=%v, want membership restored", done, got.CompletedDates)
	}

	// The wire never carries a blind "toggle": each call names the target
	// membership, so a transparent retry of either request is idempotent.
	want := []bool{true, false}
	if len(remote.setCompletionCalls) != 2 ||
		remote.setCompletionCalls[0] != want[0] ||
		remote.setCompletionCalls[1] != want[1] {
		t.Errorf("SetCompletion calls = %v, want %v", remote.setCompletionCalls, want)
	}
}

func TestToggleCompletionRejectsMalformedDate(t *testing.T) {
	s, _ := newTestStore(t)
	h := seedHabit(t, s, "run")

	_, _, err := s.ToggleCompletion(context.Background(), h.ID, "05-01-2026")
	if !models.IsValidation(err) {
		t.Errorf("error = %v, want ValidationError", err)
	}
}

func TestDuplicateDatesFromRemoteAreNormalized(t *testing.T) {
	s, remote := newTestStore(t)
	h := models.NewHabit("dup", "", models.Schedule{true, true, true, true, true, true, true})
	h.CompletedDates = []string{"2026-01-05", "2026-01-05", "2026-01-04"}
	remote.add(h)

	got, _, err := s.Get(context.Background(), h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.CompletedDates) != 2 {
		t.Errorf("CompletedDates = %v, want deduplicated", got.CompletedDates)
	}
}

func TestMergePreservesUnrelatedFields(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	h := seedHabit(t, s, "read")

	if _, _, err := s.ToggleCompletion(ctx, h.ID, "2026-01-05"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetNote(ctx, h.ID, "2026-01-05", "chapter 3"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetPhoto(ctx, h.ID, "2026-01-05", "img://abc"); err != nil {
		t.Fatal(err)
	}

	// An unrelated pin toggle must not drop the note or photo.
	if _, err := s.TogglePin(ctx, h.ID); err != nil {
		t.Fatal(err)
	}
	// Nor must a name change.
	name := "read more"
	if _, err := s.Update(ctx, h.ID, Patch{Name: &name}); err != nil {
		t.Fatal(err)
	}

	got, _, err := s.Get(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Notes["2026-01-05"] != "chapter 3" {
		t.Errorf("note = %q, want preserved", got.Notes["2026-01-05"])
	}
	if got.Photos["2026-01-05"] != "img://abc" {
		t.Errorf("photo = %q, want preserved", got.Photos["2026-01-05"])
	}
	if !got.Pinned {
		t.Error("expected habit to be pinned")
	}
	if got.Name != "read more" {
		t.Errorf("name = %q, want read more", got.Name)
	}
}

func TestRemovedCompletionKeepsOrphanedNote(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	h := seedHabit(t, s, "run")

	if _, _, err := s.ToggleCompletion(ctx, h.ID, "2026-01-05"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetNote(ctx, h.ID, "2026-01-05", "rainy"); err != nil {
		t.Fatal(err)
	}

	got, _, err := s.ToggleCompletion(ctx, h.ID, "2026-01-05")
	if err != nil {
		t.Fatal(err)
	}
	if got.Completed("2026-01-05") {
		t.Fatal("expected completion to be removed")
	}
	if got.Notes["2026-01-05"] != "rainy" {
		t.Errorf("note = %q, want orphaned entry retained", got.Notes["2026-01-05"])
	}
}

func TestConcurrentMutationsOnOneHabitAreSerialized(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	h := seedHabit(t, s, "write")

	// Each SetNote is a read-modify-write where the write replaces the whole
	// record. Without per-id serialization some of these would be lost.
	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			date := fmt.Sprintf("2026-01-%02d", i+1)
			if _, err := s.SetNote(ctx, h.ID, date, "note"); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	got, _, err := s.Get(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Notes) != n {
		t.Errorf("notes = %d, want %d (lost updates)", len(got.Notes), n)
	}
}

func TestListFallsBackToCacheWhenOffline(t *testing.T) {
	s, remote := newTestStore(t)
	ctx := context.Background()
	seedHabit(t, s, "run")
	seedHabit(t, s, "read")

	// Prime the cache with a fresh read.
	if _, stale, err := s.List(ctx); err != nil || stale {
		t.Fatalf("online list: stale=%v err=%v", stale, err)
	}

	remote.setOffline(true)

	habits, stale, err := s.List(ctx)
	if err != nil {
		t.Fatalf("offline list: %v", err)
	}
	if !stale {
		t.Error("expected stale flag on cache fallback")
	}
	if len(habits) != 2 {
		t.Errorf("habits = %d, want 2", len(habits))
	}

	// Same fallback for single-record reads.
	h, stale, err := s.Get(ctx, habits[0].ID)
	if err != nil {
		t.Fatalf("offline get: %v", err)
	}
	if !stale || h == nil {
		t.Errorf("offline get: stale=%v habit=%v", stale, h)
	}
}

func TestListSurfacesErrorWithoutCache(t *testing.T) {
	s, remote := newTestStore(t)
	remote.setOffline(true)

	_, _, err := s.List(context.Background())
	if !models.IsTransient(err) {
		t.Errorf("error = %v, want TransientError", err)
	}
}

func TestWritesNeverFallBackToCache(t *testing.T) {
	s, remote := newTestStore(t)
	ctx := context.Background()
	h := seedHabit(t, s, "run")
	if _, _, err := s.List(ctx); err != nil {
		t.Fatal(err)
	}

	remote.setOffline(true)

	_, _, err := s.ToggleCompletion(ctx, h.ID, "2026-01-05")
	if !models.IsTransient(err) {
		t.Errorf("offline write: error = %v, want TransientError", err)
	}
}

func TestNotFoundSurfaces(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, _, err := s.Get(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Get: error = %v, want ErrNotFound", err)
	}
	if _, err := s.TogglePin(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("TogglePin: error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Delete: error = %v, want ErrNotFound", err)
	}
}

func TestAbandonedCallerDoesNotAbortWrite(t *testing.T) {
	s, _ := newTestStore(t)
	h := seedHabit(t, s, "run")

	// The caller walked away before the write started. The store runs the
	// mutation under its own timeout, so the write still lands and the
	// cache stays consistent with the remote.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, done, err := s.ToggleCompletion(ctx, h.ID, "2026-01-05")
	if err != nil {
		t.Fatalf("canceled caller: %v", err)
	}
	if !done || !got.Completed("2026-01-05") {
		t.Error("expected the write to complete despite cancellation")
	}
}

func TestResolvePrefix(t *testing.T) {
	s, remote := newTestStore(t)
	ctx := context.Background()

	a := models.NewHabit("alpha", "", models.Schedule{true, true, true, true, true, true, true})
	a.ID = "aaa111"
	b := models.NewHabit("beta", "", models.Schedule{true, true, true, true, true, true, true})
	b.ID = "abb222"
	remote.add(a)
	remote.add(b)

	id, err := s.Resolve(ctx, "aaa")
	if err != nil || id != "aaa111" {
		t.Errorf("Resolve(aaa) = %q, %v", id, err)
	}

	if _, err := s.Resolve(ctx, "a"); !models.IsValidation(err) {
		t.Errorf("ambiguous prefix: error = %v, want ValidationError", err)
	}

	if _, err := s.Resolve(ctx, "zzz"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown prefix: error = %v, want ErrNotFound", err)
	}
}

func TestDeleteRemovesFromCache(t *testing.T) {
	s, remote := newTestStore(t)
	ctx := context.Background()
	h := seedHabit(t, s, "run")
	keep := seedHabit(t, s, "read")
	if _, _, err := s.List(ctx); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(ctx, h.ID); err != nil {
		t.Fatal(err)
	}

	remote.setOffline(true)
	habits, stale, err := s.List(ctx)
	if err != nil || !stale {
		t.Fatalf("offline list: stale=%v err=%v", stale, err)
	}
	if len(habits) != 1 || habits[0].ID != keep.ID {
		t.Errorf("cached habits = %v, want only %s", habits, keep.ID)
	}
}

func TestStatsUsesInjectedClock(t *testing.T) {
	remote := newFakeRemote()
	today := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)
	s := New(remote, &fakeCache{}, WithClock(func() time.Time { return today }))

	h := models.NewHabit("run", "", models.Schedule{true, true, true, true, true, true, true})
	h.CreatedAt = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	h.CompletedDates = []string{"2026-01-05", "2026-01-06", "2026-01-07"}
	remote.add(h)

	hs, err := s.Stats(context.Background(), h.ID, stats.Window{})
	if err != nil {
		t.Fatal(err)
	}
	if hs.Stats.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3", hs.Stats.CurrentStreak)
	}
	if hs.Stats.CompletionRate != 100 {
		t.Errorf("CompletionRate = %f, want 100 (window should default to creation)", hs.Stats.CompletionRate)
	}
}
