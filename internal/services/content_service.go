package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/mailpilot/console/internal/api"
	"github.com/mailpilot/console/internal/render"
)

// ContentServiceImpl implements ContentService. Every fetch is tagged
// with the focus token current at issue time; a response whose token no
// longer matches the current focus is discarded, so navigating away while
// a fetch is in flight can never apply a stale body.
type ContentServiceImpl struct {
	client *api.Client

	focus atomic.Uint64
}

// NewContentService creates a new content service
func NewContentService(client *api.Client) *ContentServiceImpl {
	return &ContentServiceImpl{client: client}
}

// Focus records that messageID is now the expanded item and returns the
// request token fetches on its behalf must carry
func (s *ContentServiceImpl) Focus(messageID string) uint64 {
	return s.focus.Add(1)
}

// Blur invalidates all outstanding fetches (content panel closed)
func (s *ContentServiceImpl) Blur() {
	s.focus.Add(1)
}

// Fetch retrieves the full parsed body of one email, rendered to plain
// text. It returns ErrStaleResult when focus moved on while the request
// was in flight.
func (s *ContentServiceImpl) Fetch(ctx context.Context, messageID string, token uint64) (string, error) {
	if strings.TrimSpace(messageID) == "" {
		return "", fmt.Errorf("messageID cannot be empty: %w", ErrInvalidInput)
	}

	content, err := s.client.GetEmailContent(ctx, messageID)
	if err != nil {
		if s.focus.Load() != token {
			return "", ErrStaleResult
		}
		return "", fmt.Errorf("failed to fetch email content: %w", err)
	}

	if s.focus.Load() != token {
		return "", ErrStaleResult
	}

	text, err := render.HTMLToText(content)
	if err != nil {
		// Unrenderable bodies fall back to the raw content
		return content, nil
	}
	return text, nil
}
