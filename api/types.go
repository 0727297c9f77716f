package api

import (
	"time"
)

// StreamEventType identifies the kind of frame emitted on the research stream
type StreamEventType string

const (
	EventToolStart     StreamEventType = "tool_start"
	EventToolComplete  StreamEventType = "tool_complete"
	EventFinalResponse StreamEventType = "final_response"
	EventDone          StreamEventType = "done"
	EventError         StreamEventType = "error"
)

// StreamEvent is a single server-sent event from the research stream
type StreamEvent struct {
	Type      StreamEventType `json:"type"`
	Tool      string          `json:"tool,omitempty"`
	Response  string          `json:"response,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Terminal reports whether no further events follow this one
func (e StreamEvent) Terminal() bool {
	return e.Type == EventDone || e.Type == EventError
}

// ResearchRequest is the body for research queries (plain and streaming)
type ResearchRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

// ResearchResponse is the answer to a plain research query
type ResearchResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id,omitempty"`
}

// HistoryRecord is one persisted query/response pair
type HistoryRecord struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Sources   []string  `json:"sources,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryResponse wraps the persisted research history
type HistoryResponse struct {
	History []HistoryRecord `json:"history"`
}

// GenerateRequest asks the backend to draft a LinkedIn post
type GenerateRequest struct {
	Content      string `json:"content"`
	Style        string `json:"style,omitempty"`
	Tone         string `json:"tone,omitempty"`
	TargetLength int    `json:"target_length,omitempty"`
}

// GeneratedPost is a drafted LinkedIn post broken into its parts
type GeneratedPost struct {
	Hook           string   `json:"hook"`
	MainContent    string   `json:"main_content"`
	CTA            string   `json:"cta"`
	Hashtags       []string `json:"hashtags"`
	FullPost       string   `json:"full_post"`
	EmojisUsed     []string `json:"emojis_used"`
	CharacterCount int      `json:"character_count"`
}

// SavePostRequest persists a generated post along with its inputs
type SavePostRequest struct {
	OriginalContent string   `json:"original_content"`
	Hook            string   `json:"hook"`
	MainContent     string   `json:"main_content"`
	CTA             string   `json:"cta"`
	Hashtags        []string `json:"hashtags"`
	FullPost        string   `json:"full_post"`
	EmojisUsed      []string `json:"emojis_used"`
	CharacterCount  int      `json:"character_count"`
	Style           string   `json:"style,omitempty"`
	Tone            string   `json:"tone,omitempty"`
	TargetLength    int      `json:"target_length,omitempty"`
}

// SavedPost is the stored-record echo returned by save and history
type SavedPost struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	FullPost       string    `json:"full_post"`
	CharacterCount int       `json:"character_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// PostHistoryResponse wraps saved LinkedIn posts
type PostHistoryResponse struct {
	Posts []SavedPost `json:"posts"`
}

// HashtagsRequest asks for hashtag suggestions
type HashtagsRequest struct {
	Content string `json:"content"`
	Count   int    `json:"count"`
}

// HashtagsResponse carries suggested hashtags
type HashtagsResponse struct {
	Hashtags []string `json:"hashtags"`
}

// SyncUserResponse echoes the identity fields synced to the backend
type SyncUserResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// HealthResponse is the liveness probe reply
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}
