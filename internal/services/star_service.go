package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mailpilot/console/internal/api"
	"github.com/mailpilot/console/internal/models"
	"github.com/mailpilot/console/internal/state"
)

// StarServiceImpl implements StarService
type StarServiceImpl struct {
	client *api.Client
	store  *state.Store
}

// NewStarService creates a new star service
func NewStarService(client *api.Client, store *state.Store) *StarServiceImpl {
	return &StarServiceImpl{client: client, store: store}
}

// Star adds the star to an email. If the email is in the priority queue
// its is_starred flag is patched optimistically; the starred queue itself
// is refreshed by the server's starred_update push.
func (s *StarServiceImpl) Star(ctx context.Context, messageID string) error {
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("messageID cannot be empty: %w", ErrInvalidInput)
	}

	corrID, _ := s.store.OptimisticPatch(ctx, models.QueuePriority, messageID, func(item *models.QueueItem) {
		item.IsStarred = true
	})
	if err := s.client.StarEmail(ctx, messageID); err != nil {
		if corrID != "" {
			s.store.Rollback(ctx, corrID)
		}
		return fmt.Errorf("failed to star email: %w", err)
	}
	if corrID != "" {
		s.store.Confirm(corrID)
	}
	return nil
}

// Unstar removes the star from an email, optimistically removing it from
// the starred queue
func (s *StarServiceImpl) Unstar(ctx context.Context, messageID string) error {
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("messageID cannot be empty: %w", ErrInvalidInput)
	}

	corrID, _ := s.store.OptimisticRemove(ctx, models.QueueStarred, messageID)
	if err := s.client.UnstarEmail(ctx, messageID); err != nil {
		if corrID != "" {
			s.store.Rollback(ctx, corrID)
		}
		return fmt.Errorf("failed to unstar email: %w", err)
	}
	if corrID != "" {
		s.store.Confirm(corrID)
	}
	return nil
}

// Delete moves an email to the trash. There is no corresponding push, so
// the item is removed optimistically from the starred queue when present.
func (s *StarServiceImpl) Delete(ctx context.Context, messageID string) error {
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("messageID cannot be empty: %w", ErrInvalidInput)
	}

	corrID, _ := s.store.OptimisticRemove(ctx, models.QueueStarred, messageID)
	if err := s.client.DeleteEmail(ctx, messageID); err != nil {
		if corrID != "" {
			s.store.Rollback(ctx, corrID)
		}
		return fmt.Errorf("failed to delete email: %w", err)
	}
	if corrID != "" {
		s.store.Confirm(corrID)
	}
	return nil
}

// BulkUnstar removes the star from multiple emails in one gateway call.
// All items are removed optimistically; the single call either confirms
// or rolls back every one of them.
func (s *StarServiceImpl) BulkUnstar(ctx context.Context, messageIDs []string) error {
	if len(messageIDs) == 0 {
		return fmt.Errorf("no message IDs provided: %w", ErrInvalidInput)
	}

	corrIDs := make([]string, 0, len(messageIDs))
	for _, id := range messageIDs {
		if corrID, ok := s.store.OptimisticRemove(ctx, models.QueueStarred, id); ok {
			corrIDs = append(corrIDs, corrID)
		}
	}
	if err := s.client.BulkUnstar(ctx, messageIDs); err != nil {
		for _, corrID := range corrIDs {
			s.store.Rollback(ctx, corrID)
		}
		return fmt.Errorf("failed to bulk unstar: %w", err)
	}
	for _, corrID := range corrIDs {
		s.store.Confirm(corrID)
	}
	return nil
}
