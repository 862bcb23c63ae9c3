// ABOUTME: Habit store combining the authoritative remote API with the local cache.
// ABOUTME: Reads fall back to the last cached snapshot when the remote is unreachable.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/harperreed/habits/internal/cache"
	"github.com/harperreed/habits/internal/models"
)

// Remote is the authoritative habit API. internal/remote implements it;
// tests substitute an in-memory fake.
type Remote interface {
	ListHabits(ctx context.Context) ([]*models.Habit, error)
	GetHabit(ctx context.Context, id string) (*models.Habit, error)
	CreateHabit(ctx context.Context, h *models.Habit) (*models.Habit, error)
	UpdateHabit(ctx context.Context, h *models.Habit) (*models.Habit, error)
	SetCompletion(ctx context.Context, id, date string, done bool) (*models.Habit, error)
	DeleteHabit(ctx context.Context, id string) error
}

// Cache is the local snapshot store used for offline reads and
// write-through updates.
type Cache interface {
	Get() (*cache.Snapshot, error)
	Put(*cache.Snapshot) error
}

// Store is the sole writer of habit records. Mutations on the same habit id
// are serialized; different ids proceed in parallel.
type Store struct {
	remote  Remote
	cache   Cache
	timeout time.Duration
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithWriteTimeout bounds each mutation, independent of the caller's context.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// WithClock injects the clock used for snapshot timestamps and stats.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store over the given collaborators.
func New(remote Remote, c Cache, opts ...Option) *Store {
	s := &Store{
		remote:  remote,
		cache:   c,
		timeout: 10 * time.Second,
		now:     time.Now,
		locks:   map[string]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lockFor returns the mutex serializing mutations for one habit id.
func (s *Store) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// opCtx derives the context a mutation runs under. It is detached from the
// caller's cancellation so an abandoned caller cannot leave the remote and
// the cache disagreeing: the write runs to completion under the store's own
// timeout and the caller simply never sees the result.
func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
}

// List returns all habits, pinned first. When the remote fails transiently
// and a cached snapshot exists, the snapshot is served instead and stale is
// true; the caller decides how loudly to warn.
func (s *Store) List(ctx context.Context) (habits []*models.Habit, stale bool, err error) {
	fetched, rerr := s.remote.ListHabits(ctx)
	if rerr == nil {
		for _, h := range fetched {
			h.Normalize()
		}
		s.putSnapshot(fetched)
		return cloneAll(fetched), false, nil
	}
	if !models.IsTransient(rerr) {
		return nil, false, rerr
	}

	snap, cerr := s.cache.Get()
	if cerr != nil {
		// No usable cache; surface the remote failure.
		return nil, false, rerr
	}
	for _, h := range snap.Habits {
		h.Normalize()
	}
	return cloneAll(snap.Habits), true, nil
}

// Get returns one habit by local or remote id, falling back to the cache
// on transient remote failure.
func (s *Store) Get(ctx context.Context, id string) (h *models.Habit, stale bool, err error) {
	fetched, rerr := s.remote.GetHabit(ctx, id)
	if rerr == nil {
		fetched.Normalize()
		s.upsertCached(fetched)
		return fetched.Clone(), false, nil
	}
	if !models.IsTransient(rerr) {
		return nil, false, rerr
	}

	snap, cerr := s.cache.Get()
	if cerr != nil {
		return nil, false, rerr
	}
	for _, cached := range snap.Habits {
		if cached.Matches(id) {
			cached.Normalize()
			return cached.Clone(), true, nil
		}
	}
	return nil, false, rerr
}

// Resolve expands an id prefix to the full habit id. An ambiguous prefix is
// an error; reads tolerate a stale snapshot.
func (s *Store) Resolve(ctx context.Context, idOrPrefix string) (string, error) {
	habits, _, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	var match string
	for _, h := range habits {
		if h.Matches(idOrPrefix) {
			return h.ID, nil
		}
		if hasPrefix(h.ID, idOrPrefix) || hasPrefix(h.RemoteID, idOrPrefix) {
			if match != "" && match != h.ID {
				return "", &models.ValidationError{
					Field:  "id",
					Reason: "prefix " + idOrPrefix + " matches multiple habits",
				}
			}
			match = h.ID
		}
	}
	if match == "" {
		return "", models.ErrNotFound
	}
	return match, nil
}

// putSnapshot replaces the whole cached document. Cache writes are best
// effort: a cache failure never fails the operation that produced the data.
func (s *Store) putSnapshot(habits []*models.Habit) {
	_ = s.cache.Put(&cache.Snapshot{FetchedAt: s.now(), Habits: habits})
}

// upsertCached merges one record into the cached document.
func (s *Store) upsertCached(h *models.Habit) {
	snap, err := s.cache.Get()
	if err != nil {
		snap = &cache.Snapshot{}
	}
	replaced := false
	for i, cached := range snap.Habits {
		if cached.Matches(h.ID) || (h.RemoteID != "" && cached.Matches(h.RemoteID)) {
			snap.Habits[i] = h
			replaced = true
			break
		}
	}
	if !replaced {
		snap.Habits = append(snap.Habits, h)
	}
	s.putSnapshot(snap.Habits)
}

// removeCached drops one record from the cached document.
func (s *Store) removeCached(id string) {
	snap, err := s.cache.Get()
	if err != nil {
		return
	}
	kept := snap.Habits[:0]
	for _, cached := range snap.Habits {
		if !cached.Matches(id) {
			kept = append(kept, cached)
		}
	}
	s.putSnapshot(kept)
}

func cloneAll(habits []*models.Habit) []*models.Habit {
	out := make([]*models.Habit, len(habits))
	for i, h := range habits {
		out[i] = h.Clone()
	}
	return out
}

func hasPrefix(s, prefix string) bool {
	return prefix != "" && len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
