package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mailpilot/console/internal/api"
	"github.com/mailpilot/console/internal/models"
)

// SearchServiceImpl implements SearchService
type SearchServiceImpl struct {
	client *api.Client
}

// NewSearchService creates a new search service
func NewSearchService(client *api.Client) *SearchServiceImpl {
	return &SearchServiceImpl{client: client}
}

// Search performs the federated search across emails, Drive files and
// the knowledge base
func (s *SearchServiceImpl) Search(ctx context.Context, query string) (*models.SearchResults, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty: %w", ErrInvalidInput)
	}
	results, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return results, nil
}
