package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when an operation names an unknown session
var ErrSessionNotFound = errors.New("session not found")

// Store holds the session list (newest first), the current session id, and
// the transient loading/error UI state. It is an explicit container meant
// to be constructed once and passed where needed; mutations are guarded by
// a mutex so TUI command goroutines can touch it safely.
type Store struct {
	mu        sync.RWMutex
	sessions  []Session
	currentID string
	loading   bool
	err       string
}

// NewStore creates an empty store with no sessions
func NewStore() *Store {
	return &Store{}
}

// NewSession prepends a new empty session, makes it current, and clears any
// stored error. Returns the new session id.
func (s *Store) NewSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	session := Session{
		ID:        "session-" + uuid.NewString(),
		Title:     defaultTitle,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.sessions = append([]Session{session}, s.sessions...)
	s.currentID = session.ID
	s.err = ""
	return session.ID
}

// AddMessage appends an id-assigned, timestamped message to the named
// session. The first user message also sets the session title. Unknown
// session ids are a no-op; ok reports whether the message was added.
func (s *Store) AddMessage(sessionID string, role Role, content string, toolsUsed []string) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(sessionID)
	if idx < 0 {
		return Message{}, false
	}

	now := time.Now()
	msg := Message{
		ID:        "msg-" + uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: now,
		ToolsUsed: toolsUsed,
	}

	session := &s.sessions[idx]
	if len(session.Messages) == 0 && role == RoleUser {
		session.Title = deriveTitle(content)
	}
	session.Messages = append(session.Messages, msg)
	session.UpdatedAt = now
	return msg, true
}

// SwitchSession makes the named session current and clears any stored
// error. Unknown ids are rejected rather than leaving the current pointer
// dangling.
func (s *Store) SwitchSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(sessionID) < 0 {
		return ErrSessionNotFound
	}
	s.currentID = sessionID
	s.err = ""
	return nil
}

// DeleteSession removes the named session. If it was current, the first
// remaining session becomes current, or none if the list is now empty.
func (s *Store) DeleteSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(sessionID)
	if idx < 0 {
		return
	}
	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)

	if s.currentID == sessionID {
		if len(s.sessions) > 0 {
			s.currentID = s.sessions[0].ID
		} else {
			s.currentID = ""
		}
	}
}

// CurrentSession returns a snapshot of the current session
func (s *Store) CurrentSession() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(s.currentID)
	if idx < 0 {
		return Session{}, false
	}
	return copySession(s.sessions[idx]), true
}

// CurrentID returns the current session id, empty if none
func (s *Store) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentID
}

// Sessions returns a snapshot of all sessions, newest first
func (s *Store) Sessions() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Session, len(s.sessions))
	for i, session := range s.sessions {
		out[i] = copySession(session)
	}
	return out
}

// Len returns the number of sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SetLoading records whether a request is in flight
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Loading reports whether a request is in flight
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetError records a user-visible error message, empty to clear
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
}

// Err returns the stored error message, empty if none
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// indexOf returns the position of a session id, -1 if absent. Callers hold
// the lock.
func (s *Store) indexOf(sessionID string) int {
	if sessionID == "" {
		return -1
	}
	for i := range s.sessions {
		if s.sessions[i].ID == sessionID {
			return i
		}
	}
	return -1
}

func copySession(in Session) Session {
	out := in
	out.Messages = make([]Message, len(in.Messages))
	copy(out.Messages, in.Messages)
	return out
}
