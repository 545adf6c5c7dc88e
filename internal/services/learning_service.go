package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mailpilot/console/internal/api"
	"github.com/mailpilot/console/internal/models"
	"github.com/mailpilot/console/internal/state"
)

// LearningServiceImpl implements LearningService
type LearningServiceImpl struct {
	client *api.Client
	store  *state.Store
}

// NewLearningService creates a new learning service
func NewLearningService(client *api.Client, store *state.Store) *LearningServiceImpl {
	return &LearningServiceImpl{client: client, store: store}
}

// Approve approves a learning proposal so its fact enters the knowledge
// base. The proposal is removed optimistically; the server confirms with
// remove_learning (and new_fact_added).
func (s *LearningServiceImpl) Approve(ctx context.Context, messageID string) error {
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("messageID cannot be empty: %w", ErrInvalidInput)
	}

	corrID, _ := s.store.OptimisticRemove(ctx, models.QueueLearning, messageID)
	if err := s.client.ApproveLearning(ctx, messageID); err != nil {
		if corrID != "" {
			s.store.Rollback(ctx, corrID)
		}
		return fmt.Errorf("failed to approve learning proposal: %w", err)
	}
	if corrID != "" {
		s.store.Confirm(corrID)
	}
	return nil
}

// Reject rejects a learning proposal, optimistically removing it locally
func (s *LearningServiceImpl) Reject(ctx context.Context, messageID string) error {
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("messageID cannot be empty: %w", ErrInvalidInput)
	}

	corrID, _ := s.store.OptimisticRemove(ctx, models.QueueLearning, messageID)
	if err := s.client.RejectLearning(ctx, messageID); err != nil {
		if corrID != "" {
			s.store.Rollback(ctx, corrID)
		}
		return fmt.Errorf("failed to reject learning proposal: %w", err)
	}
	if corrID != "" {
		s.store.Confirm(corrID)
	}
	return nil
}
