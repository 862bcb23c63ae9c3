// ABOUTME: Habits tool configuration: API endpoint, data dir, insight key.
// ABOUTME: JSON file under the XDG config directory with zero-value defaults.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config stores habits tool configuration.
type Config struct {
	// APIURL is the base URL of the remote habit API.
	APIURL string `json:"api_url,omitempty"`

	// DataDir is the root directory for the local cache.
	// Supports ~ expansion. Defaults to ~/.local/share/habits.
	DataDir string `json:"data_dir,omitempty"`

	// OpenAIKey authenticates AI insight calls. The OPENAI_API_KEY
	// environment variable takes precedence when set.
	OpenAIKey string `json:"openai_api_key,omitempty"`

	// InsightModel selects the completion model for insights.
	InsightModel string `json:"insight_model,omitempty"`

	// RequestTimeoutSeconds bounds each remote API attempt.
	RequestTimeoutSeconds int `json:"request_timeout_seconds,omitempty"`
}

// GetAPIURL returns the configured API base URL or the local default.
func (c *Config) GetAPIURL() string {
	if c.APIURL == "" {
		return "http://localhost:5000/api"
	}
	return strings.TrimRight(c.APIURL, "/")
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetOpenAIKey returns the insight API key, env var first.
func (c *Config) GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return c.OpenAIKey
}

// GetRequestTimeout returns the per-attempt timeout for remote calls.
func (c *Config) GetRequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// CacheDir returns the directory holding the badger cache.
func (c *Config) CacheDir() string {
	return filepath.Join(c.GetDataDir(), "cache")
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "habits")
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

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "habits", "config.json")
}

// Load reads config from disk. A missing file yields defaults.
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
		return nil, err
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
