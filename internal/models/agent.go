package models

// AgentStatus is the single scalar describing what the remote agent (or
// the connection to it) is doing. Server-sent values come from
// status_update / initial_state; connection values are set locally by the
// live channel.
type AgentStatus string

const (
	// Server-reported statuses
	StatusStopped    AgentStatus = "Stopped"
	StatusIdle       AgentStatus = "Idle"
	StatusProcessing AgentStatus = "Processing"
	StatusError      AgentStatus = "Error"

	// Connection-derived statuses
	StatusConnecting   AgentStatus = "Connecting…"
	StatusConnected    AgentStatus = "Connected"
	StatusDisconnected AgentStatus = "Disconnected"
)

// StatusPayload is the payload of a status_update push
type StatusPayload struct {
	AgentStatus AgentStatus `json:"agent_status"`
}

// ChatMessage is one entry in the conversational pane. Role is "user" or
// "agent", or the structural marker "tool_use" emitted while the agent is
// running a tool.
type ChatMessage struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	ToolName string `json:"tool_name,omitempty"`
}

const (
	RoleUser    = "user"
	RoleAgent   = "agent"
	RoleToolUse = "tool_use"
)

// ActivityEntry is one line of the activity feed: newest first, immutable
// once created, never individually deleted.
type ActivityEntry struct {
	Time    string `json:"time"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ActivityFeedCap bounds the client-side activity feed, mirroring the
// server's own cap so a long-lived session cannot grow without limit.
const ActivityFeedCap = 100

// SmartReplyPayload carries transient reply suggestions for one email
type SmartReplyPayload struct {
	EmailID     string   `json:"emailId,omitempty"`
	Suggestions []string `json:"suggestions"`
}

// SmartReplyRequest is the outbound get_smart_replies command payload
type SmartReplyRequest struct {
	EmailID string `json:"emailId"`
}
