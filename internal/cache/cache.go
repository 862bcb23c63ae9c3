// ABOUTME: Local persistent cache for the habit collection.
// ABOUTME: Stores one JSON document under a fixed key in a badger KV store.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/harperreed/habits/internal/models"
)

// docKey is the single key the whole collection lives under. The document
// is read and written wholesale, so a write is atomic across the collection
// but callers must not assume finer-grained atomicity.
const docKey = "habits:v1"

// ErrNoSnapshot is returned when nothing has been cached yet.
var ErrNoSnapshot = errors.New("cache: no snapshot stored")

// Snapshot is the cached habit collection plus the time it was fetched,
// so callers can tell how stale an offline read is.
type Snapshot struct {
	FetchedAt time.Time       `json:"fetchedAt"`
	Habits    []*models.Habit `json:"habits"`
}

// Cache is a badger-backed blob store for the habit document.
type Cache struct {
	db *badger.DB
}

// Open opens or creates the cache at the given directory.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Put replaces the cached snapshot.
func (c *Cache) Put(snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(docKey), data)
	})
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Get returns the last cached snapshot, or ErrNoSnapshot.
func (c *Cache) Get() (*Snapshot, error) {
	var snap Snapshot
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(docKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return &snap, nil
}

// Clear drops the cached snapshot.
func (c *Cache) Clear() error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(docKey))
	})
}

// Close closes the underlying store.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
