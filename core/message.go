package core

// Conversation roles. Ordering of messages is insertion order and defines the
// conversational context sent to a model backend.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged text turn.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// SystemMessage returns a system turn.
func SystemMessage(text string) Message { return Message{Role: RoleSystem, Text: text} }

// UserMessage returns a user turn.
func UserMessage(text string) Message { return Message{Role: RoleUser, Text: text} }

// AssistantMessage returns an assistant turn.
func AssistantMessage(text string) Message { return Message{Role: RoleAssistant, Text: text} }

// LastUserText returns the text of the most recent user turn, or "" if the
// history contains none.
func LastUserText(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Text
		}
	}
	return ""
}
