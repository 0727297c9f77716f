package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// chunkReader yields one predefined chunk per Read call
type chunkReader struct {
	chunks [][]byte
	pos    int
	reads  int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	r.reads++
	if r.pos >= len(r.chunks) {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[r.pos])
	r.pos++
	return n, nil
}

func collectEvents(t *testing.T, r io.Reader) []StreamEvent {
	t.Helper()
	events := make(chan StreamEvent)
	go func() {
		defer close(events)
		readStream(context.Background(), r, events)
	}()

	var out []StreamEvent
	for event := range events {
		out = append(out, event)
	}
	return out
}

func TestReadStreamReassemblesSplitFrame(t *testing.T) {
	r := &chunkReader{chunks: [][]byte{
		[]byte(`data: {"type":"a`),
		[]byte("_event\"}\n\n"),
	}}

	events := collectEvents(t, r)
	if len(events) != 1 {
		t.Fatalf("expected exactly 1 event, got %d", len(events))
	}
	if events[0].Type != "a_event" {
		t.Fatalf("expected type a_event, got %q", events[0].Type)
	}
}

func TestReadStreamStopsAfterDone(t *testing.T) {
	// Everything arrives in one chunk; the frames after done must never
	// be delivered.
	r := &chunkReader{chunks: [][]byte{
		[]byte("data: {\"type\":\"done\"}\ndata: {\"type\":\"final_response\",\"response\":\"late\"}\n"),
	}}

	events := collectEvents(t, r)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != EventDone {
		t.Fatalf("expected done, got %q", events[0].Type)
	}
	// One read for the chunk; the reader must not be drained afterwards
	if r.reads > 2 {
		t.Fatalf("expected reading to stop after done, got %d reads", r.reads)
	}
}

func TestReadStreamStopsAfterError(t *testing.T) {
	r := &chunkReader{chunks: [][]byte{
		[]byte("data: {\"type\":\"error\",\"error\":\"boom\"}\ndata: {\"type\":\"done\"}\n"),
	}}

	events := collectEvents(t, r)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != EventError || events[0].Error != "boom" {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}

func TestReadStreamSkipsMalformedFrames(t *testing.T) {
	r := &chunkReader{chunks: [][]byte{
		[]byte("data: {not json}\n"),
		[]byte("data: {\"type\":\"final_response\",\"response\":\"ok\"}\n"),
		[]byte("data: {\"type\":\"done\"}\n"),
	}}

	events := collectEvents(t, r)
	if len(events) != 2 {
		t.Fatalf("expected malformed frame skipped, got %d events", len(events))
	}
	if events[0].Type != EventFinalResponse || events[0].Response != "ok" {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
}

func TestReadStreamIgnoresNonDataLines(t *testing.T) {
	r := &chunkReader{chunks: [][]byte{
		[]byte(": comment\nevent: progress\n\ndata: {\"type\":\"done\"}\n"),
	}}

	events := collectEvents(t, r)
	if len(events) != 1 || events[0].Type != EventDone {
		t.Fatalf("expected only the done event, got %+v", events)
	}
}

func TestReadStreamOrderPreserved(t *testing.T) {
	var chunks [][]byte
	for i := 0; i < 5; i++ {
		chunks = append(chunks, []byte(fmt.Sprintf("data: {\"type\":\"tool_start\",\"tool\":\"t%d\"}\n", i)))
	}
	chunks = append(chunks, []byte("data: {\"type\":\"done\"}\n"))

	events := collectEvents(t, &chunkReader{chunks: chunks})
	if len(events) != 6 {
		t.Fatalf("expected 6 events, got %d", len(events))
	}
	for i := 0; i < 5; i++ {
		if events[i].Tool != fmt.Sprintf("t%d", i) {
			t.Fatalf("expected arrival order preserved, got %q at %d", events[i].Tool, i)
		}
	}
}

func TestResearchStreamEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer header, got %q", got)
		}
		if r.URL.Path != "/api/research/stream" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		frames := []string{
			`data: {"type":"tool_start","tool":"google_search"}`,
			`data: {"type":"tool_complete","tool":"google_search"}`,
			`data: {"type":"final_response","response":"the answer"}`,
			`data: {"type":"done"}`,
		}
		for _, frame := range frames {
			fmt.Fprintf(w, "%s\n\n", frame)
			flusher.Flush()
		}
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithToken("tok"))
	events, err := client.ResearchStream(context.Background(), "q", "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []StreamEvent
	for event := range events {
		got = append(got, event)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 events, got %d", len(got))
	}
	if got[2].Response != "the answer" {
		t.Fatalf("unexpected final response: %q", got[2].Response)
	}
	if got[3].Type != EventDone {
		t.Fatalf("expected done last, got %q", got[3].Type)
	}
}

func TestResearchStreamNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"research failed"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithToken("tok"))
	_, err := client.ResearchStream(context.Background(), "q", "")
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", apiErr.StatusCode)
	}
}

func TestResearchStreamRequiresToken(t *testing.T) {
	client := NewClient(WithBaseURL("http://example.invalid"))
	_, err := client.ResearchStream(context.Background(), "q", "")
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestReadStreamContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	defer pw.Close()

	events := make(chan StreamEvent)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(events)
		readStream(ctx, pr, events)
	}()

	// One event, then the reader blocks on the pipe
	go pw.Write([]byte("data: {\"type\":\"tool_start\",\"tool\":\"google_search\"}\n"))
	select {
	case <-events:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first event")
	}

	// Cancel while the next delivery would block; close the pipe to
	// unblock the scanner read
	cancel()
	pw.Write([]byte("data: {\"type\":\"done\"}\n"))
	pw.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reader did not stop after cancel")
	}
}
