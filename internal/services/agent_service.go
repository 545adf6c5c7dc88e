package services

import (
	"context"
	"fmt"

	"github.com/mailpilot/console/internal/api"
)

// AgentServiceImpl implements AgentService
type AgentServiceImpl struct {
	client *api.Client
}

// NewAgentService creates a new agent service
func NewAgentService(client *api.Client) *AgentServiceImpl {
	return &AgentServiceImpl{client: client}
}

// TriggerCheck starts the remote agent's processing loop. Status changes
// arrive as status_update pushes.
func (s *AgentServiceImpl) TriggerCheck(ctx context.Context) error {
	if err := s.client.TriggerCheck(ctx); err != nil {
		return fmt.Errorf("failed to start agent: %w", err)
	}
	return nil
}

// StopCheck stops the remote agent's processing loop
func (s *AgentServiceImpl) StopCheck(ctx context.Context) error {
	if err := s.client.StopCheck(ctx); err != nil {
		return fmt.Errorf("failed to stop agent: %w", err)
	}
	return nil
}
