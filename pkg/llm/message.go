package llm

// Conversation roles understood by OpenAI-compatible chat APIs.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message represents a single turn in a conversation.
type Message struct {
	Role    string `json:"role"`    // RoleSystem or RoleUser
	Content string `json:"content"` // The message content
}
