package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mailpilot/console/internal/api"
	"github.com/mailpilot/console/internal/models"
	"github.com/mailpilot/console/internal/state"
)

// PriorityServiceImpl implements PriorityService
type PriorityServiceImpl struct {
	client *api.Client
	store  *state.Store
}

// NewPriorityService creates a new priority service
func NewPriorityService(client *api.Client, store *state.Store) *PriorityServiceImpl {
	return &PriorityServiceImpl{client: client, store: store}
}

// Keep acknowledges a priority item, marking it seen but leaving it in
// the queue. The seen flag is patched optimistically; the server later
// sends either update_priority_item or a full priority_update, both of
// which are valid confirmations.
func (s *PriorityServiceImpl) Keep(ctx context.Context, messageID string) error {
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("messageID cannot be empty: %w", ErrInvalidInput)
	}

	corrID, _ := s.store.OptimisticPatch(ctx, models.QueuePriority, messageID, func(item *models.QueueItem) {
		item.Seen = true
	})
	if err := s.client.KeepPriority(ctx, messageID); err != nil {
		if corrID != "" {
			s.store.Rollback(ctx, corrID)
		}
		return fmt.Errorf("failed to keep priority item: %w", err)
	}
	if corrID != "" {
		s.store.Confirm(corrID)
	}
	return nil
}

// Dismiss removes a priority item, optimistically removing it locally
func (s *PriorityServiceImpl) Dismiss(ctx context.Context, messageID string) error {
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("messageID cannot be empty: %w", ErrInvalidInput)
	}

	corrID, _ := s.store.OptimisticRemove(ctx, models.QueuePriority, messageID)
	if err := s.client.DismissPriority(ctx, messageID); err != nil {
		if corrID != "" {
			s.store.Rollback(ctx, corrID)
		}
		return fmt.Errorf("failed to dismiss priority item: %w", err)
	}
	if corrID != "" {
		s.store.Confirm(corrID)
	}
	return nil
}
