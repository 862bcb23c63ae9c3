// ABOUTME: Charm Cloud KV backup for the habit collection document.
// ABOUTME: Pushes and pulls the same JSON snapshot the local cache stores.
package cloud

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"

	"github.com/harperreed/habits/internal/cache"
)

const (
	dbName    = "habits"
	charmHost = "charm.2389.dev"
	docKey    = "habits:v1"
)

// Client wraps a Charm KV database holding the habit document backup.
type Client struct {
	kv *kv.KV
	mu sync.Mutex
}

// Open opens the Charm KV database, falling back to read-only if another
// process holds the lock.
func Open() (*Client, error) {
	// Set server before opening KV
	if err := os.Setenv("CHARM_HOST", charmHost); err != nil {
		return nil, err
	}
	db, err := kv.OpenWithDefaultsFallback(dbName)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}
	return &Client{kv: db}, nil
}

// Close closes the KV database.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// Push uploads the snapshot to Charm Cloud.
func (c *Client) Push(snap *cache.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return fmt.Errorf("cannot push: database is locked by another process")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.kv.Set([]byte(docKey), data); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return c.kv.Sync()
}

// Pull syncs from Charm Cloud and returns the stored snapshot.
func (c *Client) Pull() (*cache.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.kv.IsReadOnly() {
		if err := c.kv.Sync(); err != nil {
			return nil, fmt.Errorf("sync from cloud: %w", err)
		}
	}

	data, err := c.kv.Get([]byte(docKey))
	if err != nil {
		return nil, fmt.Errorf("no backup found: %w", err)
	}
	var snap cache.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}
