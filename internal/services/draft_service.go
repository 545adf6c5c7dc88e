package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mailpilot/console/internal/api"
	"github.com/mailpilot/console/internal/models"
	"github.com/mailpilot/console/internal/state"
)

// DraftServiceImpl implements DraftService
type DraftServiceImpl struct {
	client *api.Client
	store  *state.Store
	logger *log.Logger // Optional - for debug logging
}

// NewDraftService creates a new draft service
func NewDraftService(client *api.Client, store *state.Store) *DraftServiceImpl {
	return &DraftServiceImpl{client: client, store: store}
}

// SetLogger sets the logger for debug output
func (s *DraftServiceImpl) SetLogger(logger *log.Logger) {
	s.logger = logger
}

// Send sends the pending draft. The item is removed optimistically and
// restored if the gateway call fails; on success the server's own
// drafts_update push confirms the removal.
func (s *DraftServiceImpl) Send(ctx context.Context, messageID string) error {
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("messageID cannot be empty: %w", ErrInvalidInput)
	}

	corrID, _ := s.store.OptimisticRemove(ctx, models.QueueDrafts, messageID)
	if err := s.client.SendDraft(ctx, messageID); err != nil {
		if corrID != "" {
			s.store.Rollback(ctx, corrID)
		}
		return fmt.Errorf("failed to send draft: %w", err)
	}
	if corrID != "" {
		s.store.Confirm(corrID)
	}
	return nil
}

// Discard discards the pending draft, optimistically removing it locally
func (s *DraftServiceImpl) Discard(ctx context.Context, messageID string) error {
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("messageID cannot be empty: %w", ErrInvalidInput)
	}

	corrID, _ := s.store.OptimisticRemove(ctx, models.QueueDrafts, messageID)
	if err := s.client.DiscardDraft(ctx, messageID); err != nil {
		if corrID != "" {
			s.store.Rollback(ctx, corrID)
		}
		return fmt.Errorf("failed to discard draft: %w", err)
	}
	if corrID != "" {
		s.store.Confirm(corrID)
	}
	return nil
}
