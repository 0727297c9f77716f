package chat

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jmorales/scout/api"
)

func TestLoadHistoryUngroupedRecords(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	records := make([]api.HistoryRecord, 3)
	for i := range records {
		records[i] = api.HistoryRecord{
			ID:        fmt.Sprintf("rec-%d", i),
			Query:     fmt.Sprintf("question %d", i),
			Response:  fmt.Sprintf("answer %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}

	s := NewStore()
	s.LoadHistory(records)

	sessions := s.Sessions()
	if len(sessions) != 3 {
		t.Fatalf("expected 3 singleton sessions, got %d", len(sessions))
	}

	for _, session := range sessions {
		if !strings.HasPrefix(session.ID, "single-") {
			t.Fatalf("expected singleton session id, got %q", session.ID)
		}
		if len(session.Messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(session.Messages))
		}
		if session.Messages[0].Role != RoleUser || session.Messages[1].Role != RoleAssistant {
			t.Fatal("expected user then assistant message")
		}
		if !session.Messages[0].Timestamp.Equal(session.Messages[1].Timestamp) {
			t.Fatal("expected both messages to share the record timestamp")
		}
	}
}

func TestLoadHistoryGroupsBySessionID(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	// Deliberately out of chronological order
	records := []api.HistoryRecord{
		{ID: "b", Query: "second question", Response: "second answer", SessionID: "sess-1", CreatedAt: base.Add(time.Hour)},
		{ID: "a", Query: "first question", Response: "first answer", SessionID: "sess-1", CreatedAt: base},
		{ID: "c", Query: "third question", Response: "third answer", SessionID: "sess-1", CreatedAt: base.Add(2 * time.Hour)},
	}

	s := NewStore()
	s.LoadHistory(records)

	sessions := s.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 grouped session, got %d", len(sessions))
	}

	session := sessions[0]
	if session.ID != "sess-1" {
		t.Fatalf("expected session id sess-1, got %q", session.ID)
	}
	if len(session.Messages) != 6 {
		t.Fatalf("expected 6 messages, got %d", len(session.Messages))
	}

	// Messages must be in ascending created_at order across records
	var last time.Time
	for _, msg := range session.Messages {
		if msg.Timestamp.Before(last) {
			t.Fatal("expected messages in ascending timestamp order")
		}
		last = msg.Timestamp
	}
	if session.Messages[0].Content != "first question" {
		t.Fatalf("expected oldest record first, got %q", session.Messages[0].Content)
	}

	if session.Title != "first question" {
		t.Fatalf("expected title from first query, got %q", session.Title)
	}
	if !session.CreatedAt.Equal(base) {
		t.Fatalf("expected CreatedAt from oldest record, got %v", session.CreatedAt)
	}
	if !session.UpdatedAt.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("expected UpdatedAt from newest record, got %v", session.UpdatedAt)
	}
}

func TestLoadHistorySortsSessionsByRecency(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []api.HistoryRecord{
		{ID: "a", Query: "old", Response: "r", SessionID: "old-sess", CreatedAt: base},
		{ID: "b", Query: "new", Response: "r", SessionID: "new-sess", CreatedAt: base.Add(time.Hour)},
	}

	s := NewStore()
	s.LoadHistory(records)

	sessions := s.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != "new-sess" {
		t.Fatalf("expected most recent session first, got %q", sessions[0].ID)
	}
	if s.CurrentID() != "new-sess" {
		t.Fatalf("expected most recent session current, got %q", s.CurrentID())
	}
}

func TestLoadHistoryTitleTruncation(t *testing.T) {
	longQuery := strings.Repeat("q", 80)
	records := []api.HistoryRecord{
		{ID: "a", Query: longQuery, Response: "r", CreatedAt: time.Now()},
	}

	s := NewStore()
	s.LoadHistory(records)

	session, _ := s.CurrentSession()
	want := strings.Repeat("q", 50) + "..."
	if session.Title != want {
		t.Fatalf("expected truncated title %q, got %q", want, session.Title)
	}
}

func TestLoadHistoryEmpty(t *testing.T) {
	s := NewStore()
	s.NewSession()

	s.LoadHistory(nil)

	if s.Len() != 0 {
		t.Fatalf("expected store replaced with empty history, got %d sessions", s.Len())
	}
	if s.CurrentID() != "" {
		t.Fatalf("expected no current session, got %q", s.CurrentID())
	}
}
