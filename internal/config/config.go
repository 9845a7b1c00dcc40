// ABOUTME: Calories configuration management with backend selection.
// ABOUTME: Handles settings, preferences, and storage backend factory function.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/calories/internal/charm"
	"github.com/harperreed/calories/internal/storage"
	"go.uber.org/zap"
)

// Supported storage backends.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendCharm  = "charm"
	BackendMemory = "memory"
)

// Backends lists every supported backend name.
var Backends = []string{BackendSQLite, BackendBadger, BackendCharm, BackendMemory}

// Config stores calories tool configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "badger",
	// "charm", or "memory".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts calories.db here. Badger puts a badger/ folder here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/calories.
	DataDir string `json:"data_dir,omitempty"`

	// DefaultLimit is the daily calorie limit used until one is set.
	DefaultLimit float64 `json:"default_limit,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetDefaultLimit returns the configured default limit, falling back to
// storage.DefaultCalorieLimit.
func (c *Config) GetDefaultLimit() float64 {
	if c.DefaultLimit <= 0 {
		return storage.DefaultCalorieLimit
	}
	return c.DefaultLimit
}

// IsValidBackend reports whether name is a supported backend.
func IsValidBackend(name string) bool {
	for _, b := range Backends {
		if b == strings.ToLower(name) {
			return true
		}
	}
	return false
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenKV opens the raw key-value backend for the configured backend.
func (c *Config) OpenKV() (storage.KV, error) {
	backend := c.GetBackend()
	dataDir := c.GetDataDir()

	switch backend {
	case BackendSQLite:
		return storage.Open(filepath.Join(dataDir, "calories.db"))
	case BackendBadger:
		return storage.OpenBadger(filepath.Join(dataDir, "badger"))
	case BackendCharm:
		return charm.Open()
	case BackendMemory:
		return storage.NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// OpenStorage creates a Store over the configured backend.
func (c *Config) OpenStorage(log *zap.Logger) (storage.Store, error) {
	kv, err := c.OpenKV()
	if err != nil {
		return nil, err
	}
	return c.NewStore(kv, log), nil
}

// NewStore wraps an already opened backend with the configured defaults.
func (c *Config) NewStore(kv storage.KV, log *zap.Logger) storage.Store {
	return storage.NewSlotStore(kv,
		storage.WithDefaultLimit(c.GetDefaultLimit()),
		storage.WithLogger(log),
	)
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "calories", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
