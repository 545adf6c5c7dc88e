package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailpilot/console/internal/models"
	"github.com/mailpilot/console/internal/state"
)

func TestPriorityService_KeepPatchesSeen(t *testing.T) {
	store := state.NewStore(nil)
	seedStore(t, store, models.TypePriorityUpdate, []models.QueueItem{
		{ID: "p1", Subject: "urgent", Seen: false},
	})

	svc := NewPriorityService(newTestClient(t, okHandler()), store)
	require.NoError(t, svc.Keep(context.Background(), "p1"))

	item, ok := store.Item(models.QueuePriority, "p1")
	require.True(t, ok)
	assert.True(t, item.Seen)
	assert.Equal(t, "urgent", item.Subject)
	// Kept items stay in the queue
	assert.Len(t, store.Queue(models.QueuePriority), 1)
}

func TestPriorityService_KeepFailureRestoresSeen(t *testing.T) {
	store := state.NewStore(nil)
	seedStore(t, store, models.TypePriorityUpdate, []models.QueueItem{{ID: "p1", Seen: false}})

	svc := NewPriorityService(newTestClient(t, failHandler(http.StatusBadGateway, "backend down")), store)
	require.Error(t, svc.Keep(context.Background(), "p1"))

	item, _ := store.Item(models.QueuePriority, "p1")
	assert.False(t, item.Seen)
}

func TestPriorityService_DismissRemoves(t *testing.T) {
	store := state.NewStore(nil)
	seedStore(t, store, models.TypePriorityUpdate, []models.QueueItem{{ID: "p1"}, {ID: "p2"}})

	svc := NewPriorityService(newTestClient(t, okHandler()), store)
	require.NoError(t, svc.Dismiss(context.Background(), "p2"))
	got := store.Queue(models.QueuePriority)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)
}

func TestPriorityService_DismissFailureRollsBack(t *testing.T) {
	store := state.NewStore(nil)
	seedStore(t, store, models.TypePriorityUpdate, []models.QueueItem{{ID: "p1"}, {ID: "p2"}})

	svc := NewPriorityService(newTestClient(t, failHandler(http.StatusNotFound, "not found")), store)
	require.Error(t, svc.Dismiss(context.Background(), "p2"))
	assert.Len(t, store.Queue(models.QueuePriority), 2)
}
