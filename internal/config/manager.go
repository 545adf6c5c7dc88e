package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Manager provides centralized configuration management with validation
// and change notification
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	watchers []func(*Config)

	configPath string
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{
		config:   DefaultConfig(),
		watchers: make([]func(*Config), 0),
	}
}

// LoadFromFile loads configuration from a file with validation
func (m *Manager) LoadFromFile(configPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Expand ~ to home directory if present
	if strings.HasPrefix(configPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot expand home directory: %w", err)
		}
		configPath = filepath.Join(home, strings.TrimPrefix(configPath, "~/"))
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := m.validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	m.config = cfg
	m.configPath = configPath

	m.notifyWatchers(cfg)
	return nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Watch registers a callback invoked whenever the configuration changes
func (m *Manager) Watch(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchers = append(m.watchers, fn)
}

// Update replaces the configuration after validation and notifies watchers
func (m *Manager) Update(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := m.validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()

	m.notifyWatchers(cfg)
	return nil
}

func (m *Manager) validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.ServerURL) == "" {
		return fmt.Errorf("server_url cannot be empty")
	}
	u, err := url.Parse(cfg.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("server_url must be an http(s) URL")
	}
	if strings.TrimSpace(cfg.Channel.SocketURL) == "" {
		return fmt.Errorf("channel.socket_url cannot be empty")
	}
	w, err := url.Parse(cfg.Channel.SocketURL)
	if err != nil || (w.Scheme != "ws" && w.Scheme != "wss") {
		return fmt.Errorf("channel.socket_url must be a ws(s) URL")
	}
	if cfg.Pagination.QueuePageSize <= 0 {
		return fmt.Errorf("pagination.queue_page_size must be positive")
	}
	return nil
}

func (m *Manager) notifyWatchers(cfg *Config) {
	for _, fn := range m.watchers {
		fn(cfg)
	}
}
