package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// ChannelConfig holds live-channel connection settings
type ChannelConfig struct {
	// SocketURL is the websocket endpoint of the backend (ws:// or wss://)
	SocketURL string `json:"socket_url"`

	// ReconnectDelay is how long to wait after an abnormal close before
	// the single scheduled reconnect attempt
	ReconnectDelay string `json:"reconnect_delay"`
}

// CacheConfig holds local snapshot store settings
type CacheConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// PaginationConfig holds client-side pagination settings. Label email
// browsing pages are sized by the server and carry continuation tokens,
// so only the queue tabs take a local page size.
type PaginationConfig struct {
	// QueuePageSize is the client-side page size for action-queue tabs
	QueuePageSize int `json:"queue_page_size"`
}

// NotificationConfig gates which log pushes surface a visible alert
type NotificationConfig struct {
	NewDraft     bool `json:"new_draft"`
	PriorityItem bool `json:"priority_item"`
	NewLearning  bool `json:"new_learning"`
}

// Config holds all configuration for the MailPilot console client
type Config struct {
	// ServerURL is the HTTP base URL of the backend API
	ServerURL string `json:"server_url"`

	Channel       ChannelConfig      `json:"channel"`
	Cache         CacheConfig        `json:"cache"`
	Pagination    PaginationConfig   `json:"pagination"`
	Notifications NotificationConfig `json:"notifications"`

	// RequestTimeout bounds every action-gateway call (Go duration string)
	RequestTimeout string `json:"request_timeout"`

	// Logging
	LogFile string `json:"log_file"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ServerURL: "http://localhost:8000",
		Channel: ChannelConfig{
			SocketURL:      "ws://localhost:8000/ws",
			ReconnectDelay: "3s",
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    defaultCachePath(),
		},
		Pagination: PaginationConfig{
			QueuePageSize: 10,
		},
		Notifications: NotificationConfig{
			NewDraft:     true,
			PriorityItem: true,
			NewLearning:  true,
		},
		RequestTimeout: "30s",
	}
}

// LoadConfig loads configuration from a JSON file, applying defaults for
// anything the file does not set. A missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	return cfg, nil
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mailpilot", "config.json")
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mailpilot", "cache.sqlite3")
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// GetReconnectDelay parses the channel reconnect delay, defaulting to 3s
func (c *Config) GetReconnectDelay() time.Duration {
	if d, err := time.ParseDuration(c.Channel.ReconnectDelay); err == nil && d > 0 {
		return d
	}
	return 3 * time.Second
}

// GetRequestTimeout parses the gateway request timeout, defaulting to 30s
func (c *Config) GetRequestTimeout() time.Duration {
	if d, err := time.ParseDuration(c.RequestTimeout); err == nil && d > 0 {
		return d
	}
	return 30 * time.Second
}

// TriggerEnabled reports whether the given notification kind should
// surface a visible alert. Unknown kinds default to enabled, matching the
// backend's own gating.
func (c *Config) TriggerEnabled(kind string) bool {
	switch kind {
	case "new_draft":
		return c.Notifications.NewDraft
	case "priority_item":
		return c.Notifications.PriorityItem
	case "new_learning":
		return c.Notifications.NewLearning
	default:
		return true
	}
}
