package services

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailpilot/console/internal/db"
	"github.com/mailpilot/console/internal/models"
)

func openSnapshots(t *testing.T) *db.SnapshotStore {
	t.Helper()
	store, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "cache.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return db.NewSnapshotStore(store)
}

func TestLabelService_ListMirrorsForColdStart(t *testing.T) {
	snapshots := openSnapshots(t)
	svc := NewLabelService(newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.Label{
			{ID: "Label_7", Name: "Receipts"},
			{ID: "Label_9", Name: "Travel"},
		})
	}), snapshots)

	labels, err := svc.ListLabels(context.Background())
	require.NoError(t, err)
	assert.Len(t, labels, 2)

	// A fresh service over the same snapshots can render before any fetch
	offline := NewLabelService(newTestClient(t, failHandler(http.StatusBadGateway, "down")), snapshots)
	cached := offline.CachedLabels(context.Background())
	require.Len(t, cached, 2)
	assert.Equal(t, "Receipts", cached[0].Name)
}

func TestLabelService_CachedLabelsEmptyWithoutSnapshot(t *testing.T) {
	svc := NewLabelService(newTestClient(t, okHandler()), nil)
	assert.Empty(t, svc.CachedLabels(context.Background()))

	svc = NewLabelService(newTestClient(t, okHandler()), openSnapshots(t))
	assert.Empty(t, svc.CachedLabels(context.Background()))
}

func TestLabelService_EmailsByLabel(t *testing.T) {
	svc := NewLabelService(newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/emails-by-label/Label_7", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.EmailPage{
			Emails:        []models.QueueItem{{ID: "e1"}},
			NextPageToken: "tok-1",
		})
	}), nil)

	page, err := svc.EmailsByLabel(context.Background(), "Label_7", "", "")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", page.NextPageToken)

	_, err = svc.EmailsByLabel(context.Background(), " ", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
