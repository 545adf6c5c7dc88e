package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mailpilot/console/internal/api"
	"github.com/mailpilot/console/internal/db"
	"github.com/mailpilot/console/internal/models"
)

// snapshot key for the label list
const keyLabels = "labels"

// LabelServiceImpl implements LabelService
type LabelServiceImpl struct {
	client    *api.Client
	snapshots *db.SnapshotStore // Optional - cold-start mirror
}

// NewLabelService creates a new label service. snapshots may be nil.
func NewLabelService(client *api.Client, snapshots *db.SnapshotStore) *LabelServiceImpl {
	return &LabelServiceImpl{client: client, snapshots: snapshots}
}

// ListLabels fetches all user-defined labels, mirroring the result for
// cold-start rendering
func (s *LabelServiceImpl) ListLabels(ctx context.Context) ([]models.Label, error) {
	labels, err := s.client.GetLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	if s.snapshots != nil {
		if data, err := json.Marshal(labels); err == nil {
			_ = s.snapshots.Save(ctx, keyLabels, string(data))
		}
	}
	return labels, nil
}

// CachedLabels returns the last mirrored label list, or an empty list if
// the snapshot is missing or corrupt
func (s *LabelServiceImpl) CachedLabels(ctx context.Context) []models.Label {
	if s.snapshots == nil {
		return []models.Label{}
	}
	raw, found, err := s.snapshots.Load(ctx, keyLabels)
	if err != nil || !found {
		return []models.Label{}
	}
	var labels []models.Label
	if err := json.Unmarshal([]byte(raw), &labels); err != nil || labels == nil {
		return []models.Label{}
	}
	return labels
}

// EmailsByLabel fetches one page of a label-scoped email listing
func (s *LabelServiceImpl) EmailsByLabel(ctx context.Context, labelID, query, pageToken string) (*models.EmailPage, error) {
	if strings.TrimSpace(labelID) == "" {
		return nil, fmt.Errorf("labelID cannot be empty: %w", ErrInvalidInput)
	}
	page, err := s.client.EmailsByLabel(ctx, labelID, query, pageToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list emails for label %s: %w", labelID, err)
	}
	return page, nil
}
