package chat

import "time"

// Message roles as seen by API clients.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a follow-up conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
