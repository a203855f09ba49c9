package entity

// Chat roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single turn of a conversation with the assistant.
// Only user and assistant turns are accepted from clients.
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content"`
}

// LastUserMessage returns the content of the most recent user turn.
// ok is false when the transcript contains no user message.
func LastUserMessage(messages []ChatMessage) (content string, ok bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content, true
		}
	}
	return "", false
}
