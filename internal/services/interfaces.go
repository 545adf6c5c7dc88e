package services

import (
	"context"

	"github.com/mailpilot/console/internal/models"
)

// DraftService handles draft review actions
type DraftService interface {
	Send(ctx context.Context, messageID string) error
	Discard(ctx context.Context, messageID string) error
}

// PriorityService handles priority item actions
type PriorityService interface {
	Keep(ctx context.Context, messageID string) error
	Dismiss(ctx context.Context, messageID string) error
}

// LearningService handles learning proposal actions
type LearningService interface {
	Approve(ctx context.Context, messageID string) error
	Reject(ctx context.Context, messageID string) error
}

// StarService handles star/unstar/delete email actions
type StarService interface {
	Star(ctx context.Context, messageID string) error
	Unstar(ctx context.Context, messageID string) error
	Delete(ctx context.Context, messageID string) error
	BulkUnstar(ctx context.Context, messageIDs []string) error
}

// ChatService handles the conversational pane
type ChatService interface {
	Send(ctx context.Context, message string) error
	ClearHistory(ctx context.Context) error
	RequestSmartReplies(ctx context.Context, emailID string) error
}

// AgentService controls the remote agent's processing loop
type AgentService interface {
	TriggerCheck(ctx context.Context) error
	StopCheck(ctx context.Context) error
}

// KnowledgeService handles knowledge-base CRUD
type KnowledgeService interface {
	ListFacts(ctx context.Context) ([]models.Fact, error)
	AddFact(ctx context.Context, fact string) (*models.Fact, error)
	DeleteFact(ctx context.Context, factID string) error
	ClearAll(ctx context.Context) error
}

// SettingsService handles backend settings and notification triggers
type SettingsService interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
	Reset(ctx context.Context) (*models.Settings, error)
	TriggerEnabled(kind string) bool
}

// LabelService handles label listing and label-scoped email browsing
type LabelService interface {
	ListLabels(ctx context.Context) ([]models.Label, error)
	EmailsByLabel(ctx context.Context, labelID, query, pageToken string) (*models.EmailPage, error)
}

// SearchService handles the federated global search
type SearchService interface {
	Search(ctx context.Context, query string) (*models.SearchResults, error)
}

// ContentService fetches full email bodies with staleness protection:
// a response that arrives after focus moved elsewhere is discarded.
type ContentService interface {
	Focus(messageID string) uint64
	Blur()
	Fetch(ctx context.Context, messageID string, token uint64) (string, error)
}

// CommandPort is the outbound side of the live channel used by services
type CommandPort interface {
	RequestSmartReplies(ctx context.Context, emailID string) error
}

// NotificationLevel classifies a transient notification
type NotificationLevel string

const (
	NotifyInfo    NotificationLevel = "info"
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
)

// Notification is one transient, dismissible alert for the presentation
// layer
type Notification struct {
	Level   NotificationLevel
	Kind    string
	Message string
}

// Notifier surfaces transient notifications
type Notifier interface {
	Notify(n Notification)
}
