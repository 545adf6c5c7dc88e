package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mailpilot/console/internal/api"
	"github.com/mailpilot/console/internal/models"
	"github.com/mailpilot/console/internal/state"
)

// newTestClient builds an api client against a local test server
func newTestClient(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.NewClient(api.ClientOptions{BaseURL: srv.URL})
}

// okHandler answers every request with a generic success body
func okHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	}
}

// failHandler answers every request with a backend error
func failHandler(status int, detail string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
	}
}

// seedStore applies one queue replace push to a fresh store
func seedStore(t *testing.T, store *state.Store, msgType string, items []models.QueueItem) {
	t.Helper()
	env, err := models.NewEnvelope(msgType, items)
	require.NoError(t, err)
	store.Apply(context.Background(), env)
}
