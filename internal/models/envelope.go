package models

import "encoding/json"

// Push message types delivered over the live channel.
const (
	TypeInitialState       = "initial_state"
	TypeStarredUpdate      = "starred_update"
	TypeDraftsUpdate       = "drafts_update"
	TypePriorityUpdate     = "priority_update"
	TypeLearningUpdate     = "learning_update"
	TypeUpdatePriorityItem = "update_priority_item"
	TypeRemoveLearning     = "remove_learning"
	TypeNewFactAdded       = "new_fact_added"
	TypeLog                = "log"
	TypeStatusUpdate       = "status_update"
	TypeChatUpdate         = "chat_update"
	TypeChatHistoryCleared = "chat_history_cleared"
	TypeSmartReplies       = "smart_reply_suggestions"

	// Outbound command types.
	TypeGetSmartReplies = "get_smart_replies"
)

// Notification trigger kinds attached to log pushes.
const (
	NotifyNewDraft     = "new_draft"
	NotifyPriorityItem = "priority_item"
	NotifyNewLearning  = "new_learning"
)

// Envelope is the wire format for every message on the live channel,
// in both directions. Payload stays raw until the type is known.
type Envelope struct {
	Type             string          `json:"type"`
	Payload          json.RawMessage `json:"payload,omitempty"`
	NotificationType string          `json:"notification_type,omitempty"`
}

// NewEnvelope marshals payload into an outbound envelope
func NewEnvelope(msgType string, payload interface{}) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: msgType, Payload: raw}, nil
}
