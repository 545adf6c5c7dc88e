package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailpilot/console/internal/models"
)

func TestSettingsService_TriggerEnabledDefaults(t *testing.T) {
	// Before any fetch every kind is enabled
	svc := NewSettingsService(newTestClient(t, okHandler()))
	assert.True(t, svc.TriggerEnabled(models.NotifyNewDraft))
	assert.True(t, svc.TriggerEnabled("unknown_kind"))
}

func TestSettingsService_GetCachesTriggers(t *testing.T) {
	svc := NewSettingsService(newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.Settings{
			NotificationTriggers: map[string]bool{
				models.NotifyNewDraft:     false,
				models.NotifyPriorityItem: true,
			},
		})
	}))

	_, err := svc.Get(context.Background())
	require.NoError(t, err)

	assert.False(t, svc.TriggerEnabled(models.NotifyNewDraft))
	assert.True(t, svc.TriggerEnabled(models.NotifyPriorityItem))
	// A kind the settings never mention defaults to enabled
	assert.True(t, svc.TriggerEnabled(models.NotifyNewLearning))
}

func TestSettingsService_SaveUpdatesCache(t *testing.T) {
	svc := NewSettingsService(newTestClient(t, okHandler()))

	require.NoError(t, svc.Save(context.Background(), &models.Settings{
		NotificationTriggers: map[string]bool{models.NotifyNewLearning: false},
	}))
	assert.False(t, svc.TriggerEnabled(models.NotifyNewLearning))

	assert.ErrorIs(t, svc.Save(context.Background(), nil), ErrInvalidInput)
}

func TestSettingsService_Reset(t *testing.T) {
	svc := NewSettingsService(newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.Settings{CheckIntervalSeconds: 300})
	}))

	settings, err := svc.Reset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 300, settings.CheckIntervalSeconds)
}
