package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mailpilot/console/internal/api"
	"github.com/mailpilot/console/internal/models"
	"github.com/mailpilot/console/internal/state"
)

// KnowledgeServiceImpl implements KnowledgeService
type KnowledgeServiceImpl struct {
	client *api.Client
	store  *state.Store
}

// NewKnowledgeService creates a new knowledge service
func NewKnowledgeService(client *api.Client, store *state.Store) *KnowledgeServiceImpl {
	return &KnowledgeServiceImpl{client: client, store: store}
}

// ListFacts fetches all facts and refreshes the store's knowledge view
func (s *KnowledgeServiceImpl) ListFacts(ctx context.Context) ([]models.Fact, error) {
	facts, err := s.client.ListFacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list facts: %w", err)
	}
	if s.store != nil {
		s.store.SetFacts(facts)
	}
	return facts, nil
}

// AddFact adds one fact to the knowledge base
func (s *KnowledgeServiceImpl) AddFact(ctx context.Context, fact string) (*models.Fact, error) {
	if strings.TrimSpace(fact) == "" {
		return nil, fmt.Errorf("fact cannot be empty: %w", ErrInvalidInput)
	}
	added, err := s.client.AddFact(ctx, fact)
	if err != nil {
		return nil, fmt.Errorf("failed to add fact: %w", err)
	}
	if s.store != nil {
		s.store.SetFacts(append(s.store.Facts(), *added))
	}
	return added, nil
}

// DeleteFact removes one fact from the knowledge base
func (s *KnowledgeServiceImpl) DeleteFact(ctx context.Context, factID string) error {
	if strings.TrimSpace(factID) == "" {
		return fmt.Errorf("factID cannot be empty: %w", ErrInvalidInput)
	}
	if err := s.client.DeleteFact(ctx, factID); err != nil {
		return fmt.Errorf("failed to delete fact: %w", err)
	}
	if s.store != nil {
		facts := s.store.Facts()
		for i := range facts {
			if facts[i].ID == factID {
				s.store.SetFacts(append(facts[:i:i], facts[i+1:]...))
				break
			}
		}
	}
	return nil
}

// ClearAll removes every fact from the knowledge base
func (s *KnowledgeServiceImpl) ClearAll(ctx context.Context) error {
	if err := s.client.ClearFacts(ctx); err != nil {
		return fmt.Errorf("failed to clear knowledge base: %w", err)
	}
	if s.store != nil {
		s.store.SetFacts(nil)
	}
	return nil
}
