// ABOUTME: Charm KV backend for calorie slots with automatic cloud sync.
// ABOUTME: Implements storage.KV; writes fail while another process holds the lock.
package charm

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	badger "github.com/dgraph-io/badger/v3"
	"github.com/harperreed/calories/internal/storage"
)

const (
	dbName    = "calories"
	charmHost = "charm.2389.dev"

	// SlotPrefix namespaces ledger slots inside the Charm KV database.
	SlotPrefix = "slot:"
)

// ErrReadOnly is returned by writes when the database is opened read-only.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

// database is the part of *kv.KV the client uses.
type database interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Sync() error
	Close() error
}

// readOnlyReporter is implemented by Charm KV builds that open read-only
// when another process holds the lock.
type readOnlyReporter interface {
	IsReadOnly() bool
}

// Client wraps a Charm KV database.
type Client struct {
	kv       database
	autoSync bool
	mu       sync.RWMutex
}

// Compile-time checks.
var (
	_ storage.KV = (*Client)(nil)
	_ database   = (*kv.KV)(nil)
)

// Open opens the calories Charm KV database and pulls remote state.
func Open() (*Client, error) {
	// Set server before opening KV
	if os.Getenv("CHARM_HOST") == "" {
		if err := os.Setenv("CHARM_HOST", charmHost); err != nil {
			return nil, err
		}
	}

	db, err := kv.OpenWithDefaults(dbName)
	if err != nil {
		return nil, fmt.Errorf("open charm kv (is another calories process running?): %w", err)
	}

	c := newClient(db)

	// Pull remote data on startup (skip in read-only mode)
	if !c.IsReadOnly() {
		_ = db.Sync()
	}

	return c, nil
}

func newClient(db database) *Client {
	return &Client{
		kv:       db,
		autoSync: true,
	}
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	ro, ok := c.kv.(readOnlyReporter)
	return ok && ro.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Get returns the value stored under a slot key.
func (c *Client) Get(key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := c.kv.Get(slotKey(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return data, nil
}

// Set stores a value under a slot key.
func (c *Client) Set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.IsReadOnly() {
		return ErrReadOnly
	}

	if err := c.kv.Set(slotKey(key), data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	c.syncIfEnabled()
	return nil
}

// Delete removes a slot key. Missing keys are ignored.
func (c *Client) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.IsReadOnly() {
		return ErrReadOnly
	}

	if err := c.kv.Delete(slotKey(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	c.syncIfEnabled()
	return nil
}

// syncIfEnabled calls Sync if autoSync is enabled.
func (c *Client) syncIfEnabled() {
	if c.autoSync && !c.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

// slotKey returns the namespaced key for a slot.
func slotKey(key string) []byte {
	return []byte(SlotPrefix + key)
}
