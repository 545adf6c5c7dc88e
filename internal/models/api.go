package models

import "encoding/json"

// Label is one user-defined Gmail label as reported by the backend
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EmailPage is one page of a label-scoped email listing. NextPageToken is
// the opaque continuation token for the following page; empty means last
// page.
type EmailPage struct {
	Emails        []QueueItem `json:"emails"`
	NextPageToken string      `json:"nextPageToken,omitempty"`
}

// SearchResults is the response of the federated search endpoint
type SearchResults struct {
	Emails        []QueueItem `json:"emails"`
	DriveFiles    []DriveFile `json:"drive_files"`
	KnowledgeBase []Fact      `json:"knowledge_base"`
}

// DriveFile is one Drive hit from federated search
type DriveFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType,omitempty"`
	WebLink  string `json:"webViewLink,omitempty"`
}

// Fact is one knowledge-base entry
type Fact struct {
	ID   string `json:"id,omitempty"`
	Fact string `json:"fact"`
}

// Settings mirrors the backend's effective settings document
type Settings struct {
	LLMModelName         string          `json:"llm_model_name,omitempty"`
	LLMTemperature       float64         `json:"llm_temperature,omitempty"`
	CheckIntervalSeconds int             `json:"check_interval_seconds,omitempty"`
	StartOnLaunch        bool            `json:"start_on_launch,omitempty"`
	NotificationTriggers map[string]bool `json:"notification_triggers,omitempty"`
}

// InitialState is the full application snapshot delivered on connect
// (and by GET /api/state).
type InitialState struct {
	AgentStatus   AgentStatus     `json:"agent_status"`
	LastChecked   string          `json:"last_checked,omitempty"`
	ActivityFeed  []ActivityEntry `json:"activity_feed"`
	DraftsQueue   []QueueItem     `json:"drafts_queue"`
	LearningQueue []QueueItem     `json:"learning_queue"`
	PriorityQueue []QueueItem     `json:"priority_queue"`
	StarredQueue  []QueueItem     `json:"starred_queue"`
	ChatHistory   []ChatMessage   `json:"chat_history"`
}

// EmailContent is the parsed body returned by get-email-content
type EmailContent struct {
	Content string `json:"content"`
}

// DecodeList unmarshals a raw payload into a queue item slice, treating
// null as an empty list.
func DecodeList(raw json.RawMessage) ([]QueueItem, error) {
	if len(raw) == 0 {
		return []QueueItem{}, nil
	}
	var items []QueueItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []QueueItem{}
	}
	return items, nil
}
