package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mailpilot/console/internal/api"
	"github.com/mailpilot/console/internal/channel"
)

// ChatServiceImpl implements ChatService
type ChatServiceImpl struct {
	client  *api.Client
	command CommandPort
}

// NewChatService creates a new chat service. command is the outbound side
// of the live channel, used for smart-reply requests.
func NewChatService(client *api.Client, command CommandPort) *ChatServiceImpl {
	return &ChatServiceImpl{client: client, command: command}
}

// Send sends one user message to the agent. Both the user entry and the
// agent's reply arrive asynchronously as chat_update pushes.
func (s *ChatServiceImpl) Send(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message cannot be empty: %w", ErrInvalidInput)
	}
	if err := s.client.SendChat(ctx, message); err != nil {
		return fmt.Errorf("failed to send chat message: %w", err)
	}
	return nil
}

// ClearHistory clears the conversation. The local history is cleared by
// the server's chat_history_cleared push.
func (s *ChatServiceImpl) ClearHistory(ctx context.Context) error {
	if err := s.client.ClearChat(ctx); err != nil {
		return fmt.Errorf("failed to clear chat history: %w", err)
	}
	return nil
}

// RequestSmartReplies asks for reply suggestions over the live channel.
// It fails fast while the channel is disconnected.
func (s *ChatServiceImpl) RequestSmartReplies(ctx context.Context, emailID string) error {
	if strings.TrimSpace(emailID) == "" {
		return fmt.Errorf("emailID cannot be empty: %w", ErrInvalidInput)
	}
	if s.command == nil {
		return ErrChannelClosed
	}
	if err := s.command.RequestSmartReplies(ctx, emailID); err != nil {
		if errors.Is(err, channel.ErrNotConnected) {
			return fmt.Errorf("cannot request smart replies: %w", ErrChannelClosed)
		}
		return fmt.Errorf("failed to request smart replies: %w", err)
	}
	return nil
}
