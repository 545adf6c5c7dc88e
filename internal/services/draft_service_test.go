package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailpilot/console/internal/models"
	"github.com/mailpilot/console/internal/state"
)

func TestDraftService_SendRemovesOptimistically(t *testing.T) {
	store := state.NewStore(nil)
	seedStore(t, store, models.TypeDraftsUpdate, []models.QueueItem{{ID: "d1"}, {ID: "d2"}})

	svc := NewDraftService(newTestClient(t, okHandler()), store)
	require.NoError(t, svc.Send(context.Background(), "d1"))

	got := store.Queue(models.QueueDrafts)
	require.Len(t, got, 1)
	assert.Equal(t, "d2", got[0].ID)
}

func TestDraftService_SendFailureRollsBack(t *testing.T) {
	store := state.NewStore(nil)
	seedStore(t, store, models.TypeDraftsUpdate, []models.QueueItem{{ID: "d1"}, {ID: "d2"}})

	svc := NewDraftService(newTestClient(t, failHandler(http.StatusInternalServerError, "gmail unavailable")), store)
	err := svc.Send(context.Background(), "d1")
	require.Error(t, err)

	// The item is back at its original position
	got := store.Queue(models.QueueDrafts)
	require.Len(t, got, 2)
	assert.Equal(t, "d1", got[0].ID)
}

func TestDraftService_DiscardUnknownItemStillCalls(t *testing.T) {
	store := state.NewStore(nil)
	var called bool
	svc := NewDraftService(newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	}), store)

	// Item not in the local queue (e.g. acted on from a label view)
	require.NoError(t, svc.Discard(context.Background(), "elsewhere"))
	assert.True(t, called)
}

func TestDraftService_EmptyID(t *testing.T) {
	svc := NewDraftService(newTestClient(t, okHandler()), state.NewStore(nil))
	assert.True(t, errors.Is(svc.Send(context.Background(), "  "), ErrInvalidInput))
	assert.True(t, errors.Is(svc.Discard(context.Background(), ""), ErrInvalidInput))
}
