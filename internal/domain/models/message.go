package models

// Message roles. A conversation is an ordered sequence of messages;
// messages are immutable once sent except the in-flight assistant
// message, which the stream relay finalizes exactly once.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in a conversation thread.
type Message struct {
	ID      string `json:"id,omitempty"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ValidRole reports whether role is one of the three message roles.
func ValidRole(role string) bool {
	switch role {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}
