package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailpilot/console/internal/models"
	"github.com/mailpilot/console/internal/state"
)

func TestKnowledgeService_ListRefreshesStoreView(t *testing.T) {
	store := state.NewStore(nil)
	svc := NewKnowledgeService(newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.Fact{
			{ID: "f1", Fact: "prefers short replies"},
			{ID: "f2", Fact: "travels in June"},
		})
	}), store)

	facts, err := svc.ListFacts(context.Background())
	require.NoError(t, err)
	assert.Len(t, facts, 2)
	assert.Len(t, store.Facts(), 2)
}

func TestKnowledgeService_AddFactAppendsLocally(t *testing.T) {
	store := state.NewStore(nil)
	store.SetFacts([]models.Fact{{ID: "f1", Fact: "existing"}})

	svc := NewKnowledgeService(newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.Fact{ID: "f2", Fact: "new fact"})
	}), store)

	added, err := svc.AddFact(context.Background(), "new fact")
	require.NoError(t, err)
	assert.Equal(t, "f2", added.ID)
	assert.Len(t, store.Facts(), 2)

	_, err = svc.AddFact(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestKnowledgeService_DeleteFactPrunesLocally(t *testing.T) {
	store := state.NewStore(nil)
	store.SetFacts([]models.Fact{{ID: "f1"}, {ID: "f2"}, {ID: "f3"}})

	svc := NewKnowledgeService(newTestClient(t, okHandler()), store)
	require.NoError(t, svc.DeleteFact(context.Background(), "f2"))

	facts := store.Facts()
	require.Len(t, facts, 2)
	assert.Equal(t, "f1", facts[0].ID)
	assert.Equal(t, "f3", facts[1].ID)

	assert.ErrorIs(t, svc.DeleteFact(context.Background(), ""), ErrInvalidInput)
}

func TestKnowledgeService_ClearAll(t *testing.T) {
	store := state.NewStore(nil)
	store.SetFacts([]models.Fact{{ID: "f1"}})

	svc := NewKnowledgeService(newTestClient(t, okHandler()), store)
	require.NoError(t, svc.ClearAll(context.Background()))
	assert.Empty(t, store.Facts())
}

func TestKnowledgeService_BackendFailureLeavesViewAlone(t *testing.T) {
	store := state.NewStore(nil)
	store.SetFacts([]models.Fact{{ID: "f1"}})

	svc := NewKnowledgeService(newTestClient(t, failHandler(http.StatusInternalServerError, "db locked")), store)
	require.Error(t, svc.ClearAll(context.Background()))
	assert.Len(t, store.Facts(), 1)
}
