package entities

// Conversation roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationMessage is one turn of a document chat.
type ConversationMessage struct {
	Role      string `json:"role" dynamodbav:"role"`
	Content   string `json:"content" dynamodbav:"content"`
	Timestamp string `json:"timestamp" dynamodbav:"timestamp"`
}

// Speaker returns the label used when replaying history to the agent.
func (m ConversationMessage) Speaker() string {
	if m.Role == RoleUser {
		return "User"
	}
	return "Assistant"
}
