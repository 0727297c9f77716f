package chat

import (
	"time"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat message. Messages are immutable once appended to a
// session.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	ToolsUsed []string  `json:"tools_used,omitempty"`
}

// Session is one conversation thread. The message list is append-only and
// the title stays mutable only until the first user message arrives.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const defaultTitle = "New Chat"

// titleMaxLen is the rune budget for a derived session title
const titleMaxLen = 50

// deriveTitle shortens content to the title budget, appending an ellipsis
// only when something was actually cut
func deriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleMaxLen {
		return content
	}
	return string(runes[:titleMaxLen]) + "..."
}
