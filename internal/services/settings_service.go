package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/mailpilot/console/internal/api"
	"github.com/mailpilot/console/internal/models"
)

// SettingsServiceImpl implements SettingsService. The last fetched
// settings are kept so notification-trigger lookups do not need a round
// trip per log push.
type SettingsServiceImpl struct {
	client *api.Client

	mu      sync.RWMutex
	current *models.Settings
}

// NewSettingsService creates a new settings service
func NewSettingsService(client *api.Client) *SettingsServiceImpl {
	return &SettingsServiceImpl{client: client}
}

// Get fetches the current effective settings
func (s *SettingsServiceImpl) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := s.client.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()
	return settings, nil
}

// Save persists updated settings
func (s *SettingsServiceImpl) Save(ctx context.Context, settings *models.Settings) error {
	if settings == nil {
		return fmt.Errorf("settings cannot be nil: %w", ErrInvalidInput)
	}
	if err := s.client.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()
	return nil
}

// Reset restores default settings and returns them
func (s *SettingsServiceImpl) Reset(ctx context.Context) (*models.Settings, error) {
	settings, err := s.client.ResetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reset settings: %w", err)
	}
	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()
	return settings, nil
}

// TriggerEnabled reports whether the given notification kind should
// surface an alert. Unknown kinds and missing settings default to
// enabled, matching the backend's own gating.
func (s *SettingsServiceImpl) TriggerEnabled(kind string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || s.current.NotificationTriggers == nil {
		return true
	}
	enabled, ok := s.current.NotificationTriggers[kind]
	if !ok {
		return true
	}
	return enabled
}
