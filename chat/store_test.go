package chat

import (
	"errors"
	"strings"
	"testing"
)

func TestNewSessionBecomesCurrent(t *testing.T) {
	s := NewStore()
	id := s.NewSession()

	if s.CurrentID() != id {
		t.Fatalf("expected current %q, got %q", id, s.CurrentID())
	}
	session, ok := s.CurrentSession()
	if !ok {
		t.Fatal("expected a current session")
	}
	if session.Title != "New Chat" {
		t.Fatalf("expected default title, got %q", session.Title)
	}
	if len(session.Messages) != 0 {
		t.Fatalf("expected empty session, got %d messages", len(session.Messages))
	}
}

func TestNewSessionPrepends(t *testing.T) {
	s := NewStore()
	first := s.NewSession()
	second := s.NewSession()

	sessions := s.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != second || sessions[1].ID != first {
		t.Fatal("expected newest session first")
	}
}

func TestAddMessageScenario(t *testing.T) {
	s := NewStore()
	id := s.NewSession()

	if _, ok := s.AddMessage(id, RoleUser, "hello", nil); !ok {
		t.Fatal("expected user message to be added")
	}
	if _, ok := s.AddMessage(id, RoleAssistant, "hi there", nil); !ok {
		t.Fatal("expected assistant message to be added")
	}

	session, _ := s.CurrentSession()
	if session.Title != "hello" {
		t.Fatalf("expected title %q, got %q", "hello", session.Title)
	}
	if len(session.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(session.Messages))
	}
	if session.Messages[0].Role != RoleUser || session.Messages[1].Role != RoleAssistant {
		t.Fatal("unexpected message roles")
	}
	if session.Messages[0].ID == "" || session.Messages[0].Timestamp.IsZero() {
		t.Fatal("expected message to get an id and timestamp")
	}
}

func TestTitleTruncationBoundary(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantTitle string
	}{
		{"short", "hello", "hello"},
		{"exactly 50", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"51 chars", strings.Repeat("a", 51), strings.Repeat("a", 50) + "..."},
		{"long", strings.Repeat("x", 200), strings.Repeat("x", 50) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			id := s.NewSession()
			s.AddMessage(id, RoleUser, tt.content, nil)

			session, _ := s.CurrentSession()
			if session.Title != tt.wantTitle {
				t.Fatalf("expected title %q, got %q", tt.wantTitle, session.Title)
			}
		})
	}
}

func TestTitleOnlyFromFirstUserMessage(t *testing.T) {
	s := NewStore()
	id := s.NewSession()

	// An assistant message first does not set the title
	s.AddMessage(id, RoleAssistant, "welcome", nil)
	session, _ := s.CurrentSession()
	if session.Title != "New Chat" {
		t.Fatalf("expected default title, got %q", session.Title)
	}

	// The session already has messages, so a later user message does
	// not retitle it either
	s.AddMessage(id, RoleUser, "first question", nil)
	session, _ = s.CurrentSession()
	if session.Title != "New Chat" {
		t.Fatalf("expected title unchanged, got %q", session.Title)
	}
}

func TestAddMessageUnknownSessionIsNoop(t *testing.T) {
	s := NewStore()
	s.NewSession()

	if _, ok := s.AddMessage("nope", RoleUser, "hello", nil); ok {
		t.Fatal("expected unknown session to be rejected")
	}
	session, _ := s.CurrentSession()
	if len(session.Messages) != 0 {
		t.Fatal("expected no messages added")
	}
}

func TestSwitchSession(t *testing.T) {
	s := NewStore()
	first := s.NewSession()
	s.NewSession()

	s.SetError("old error")
	if err := s.SwitchSession(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.CurrentID() != first {
		t.Fatalf("expected current %q, got %q", first, s.CurrentID())
	}
	if s.Err() != "" {
		t.Fatalf("expected error cleared, got %q", s.Err())
	}
}

func TestSwitchSessionUnknownID(t *testing.T) {
	s := NewStore()
	id := s.NewSession()

	err := s.SwitchSession("missing")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if s.CurrentID() != id {
		t.Fatal("expected current session unchanged")
	}
}

func TestDeleteOnlySession(t *testing.T) {
	s := NewStore()
	id := s.NewSession()

	s.DeleteSession(id)

	if s.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", s.Len())
	}
	if s.CurrentID() != "" {
		t.Fatalf("expected no current session, got %q", s.CurrentID())
	}
	if _, ok := s.CurrentSession(); ok {
		t.Fatal("expected CurrentSession to report none")
	}
}

func TestDeleteCurrentFallsBackToFirst(t *testing.T) {
	s := NewStore()
	s.NewSession()
	second := s.NewSession()
	third := s.NewSession()

	// third is current and first in list order
	s.DeleteSession(third)
	if s.CurrentID() != second {
		t.Fatalf("expected current to fall back to %q, got %q", second, s.CurrentID())
	}
}

func TestDeleteNonCurrentKeepsCurrent(t *testing.T) {
	s := NewStore()
	first := s.NewSession()
	second := s.NewSession()

	s.DeleteSession(first)
	if s.CurrentID() != second {
		t.Fatalf("expected current unchanged, got %q", s.CurrentID())
	}
}

func TestCurrentAlwaysValidOrEmpty(t *testing.T) {
	s := NewStore()

	// Random-ish interleaving of creates and deletes; after every step the
	// current id must reference an existing session or be empty.
	check := func() {
		t.Helper()
		current := s.CurrentID()
		if current == "" {
			if _, ok := s.CurrentSession(); ok {
				t.Fatal("empty current id but CurrentSession returned a session")
			}
			return
		}
		found := false
		for _, session := range s.Sessions() {
			if session.ID == current {
				found = true
			}
		}
		if !found {
			t.Fatalf("current id %q does not reference an existing session", current)
		}
	}

	ids := make([]string, 0, 8)
	for i := 0; i < 5; i++ {
		ids = append(ids, s.NewSession())
		check()
	}
	for _, id := range []string{ids[2], ids[4], ids[0], "bogus", ids[1], ids[3]} {
		s.DeleteSession(id)
		check()
	}
	if s.Len() != 0 {
		t.Fatalf("expected all sessions deleted, got %d", s.Len())
	}
}
