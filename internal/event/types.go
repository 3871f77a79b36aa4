package event

// EventType identifies what happened.
type EventType string

const (
	ApprovalRequired EventType = "approval.required"
	ApprovalResolved EventType = "approval.resolved"
	CommandBlocked   EventType = "command.blocked"
	ConfigReloaded   EventType = "config.reloaded"
)

// Event carries a typed payload to subscribers.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// ApprovalRequiredData is published when a soft-denied command needs an
// interactive decision.
type ApprovalRequiredData struct {
	ID        string   `json:"id"`
	SessionID string   `json:"sessionID"`
	Command   string   `json:"command"`
	Patterns  []string `json:"patterns,omitempty"`
}

// ApprovalResolvedData is published once the user answered.
type ApprovalResolvedData struct {
	ID      string `json:"id"`
	Granted bool   `json:"granted"`
}

// CommandBlockedData is published for hard denials.
type CommandBlockedData struct {
	Command string `json:"command"`
	Reason  string `json:"reason"`
}

// ConfigReloadedData is published when the policy file changes on disk.
type ConfigReloadedData struct {
	Path string `json:"path"`
}
