package models

// Queue identifies one of the named, ordered item collections
type Queue string

const (
	QueuePriority Queue = "priority"
	QueueDrafts   Queue = "draft"
	QueueLearning Queue = "learning"
	QueueStarred  Queue = "starred"
)

// QueueItem is the superset record used across all action queues. Identity
// is the Gmail message ID; merge operations are keyed on it. Fields not
// relevant to a given queue are simply left at their zero value.
type QueueItem struct {
	ID           string  `json:"id"`
	ThreadID     string  `json:"threadId,omitempty"`
	GmailDraftID string  `json:"gmailDraftId,omitempty"`
	From         string  `json:"from,omitempty"`
	Subject      string  `json:"subject,omitempty"`
	Summary      string  `json:"summary,omitempty"`
	Snippet      string  `json:"snippet,omitempty"`
	Body         string  `json:"body,omitempty"`
	Fact         string  `json:"fact,omitempty"`
	FromEmail    string  `json:"fromEmail,omitempty"`
	Category     string  `json:"category,omitempty"`
	Timestamp    float64 `json:"timestamp,omitempty"`
	ProposedAt   float64 `json:"proposed_at,omitempty"`
	Seen         bool    `json:"seen,omitempty"`
	IsStarred    bool    `json:"is_starred,omitempty"`
}

// PriorityItemPatch is the partial-update payload for update_priority_item.
// Only Seen is patched; all other fields on the target item are preserved.
type PriorityItemPatch struct {
	ID   string `json:"id"`
	Seen bool   `json:"seen"`
}

// RemovedItem is the payload for remove_learning
type RemovedItem struct {
	ID string `json:"id"`
}
