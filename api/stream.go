package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jmorales/scout/internal/logger"
)

// maxFrameSize bounds a single SSE line. Research answers arrive as one
// final_response frame, so this needs headroom beyond Scanner's default.
const maxFrameSize = 1024 * 1024

// ResearchStream opens a streaming research query and returns a channel of
// events in arrival order. The reader splits the body into complete lines
// before parsing, so a frame split across reads is reassembled and partial
// trailing data is carried over to the next read. Reading stops at
// end-of-stream or immediately after a terminal done/error event, even if
// more bytes are buffered. Malformed frames are logged and skipped.
func (c *Client) ResearchStream(ctx context.Context, query, sessionID string) (<-chan StreamEvent, error) {
	if c.options.Token == "" {
		return nil, ErrNoToken
	}

	body, err := json.Marshal(ResearchRequest{
		Query:     query,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.options.BaseURL+"/api/research/stream", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, true)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	events := make(chan StreamEvent)

	go func() {
		defer close(events)
		defer resp.Body.Close()

		readStream(ctx, resp.Body, events)
	}()

	return events, nil
}

// readStream decodes SSE frames from r onto events until a terminal event,
// end of data, or ctx cancellation
func readStream(ctx context.Context, r io.Reader, events chan<- StreamEvent) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

	for scanner.Scan() {
		line := scanner.Text()

		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")

		var event StreamEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			logger.Debugf("stream: skipping malformed frame: %v", err)
			continue
		}

		select {
		case events <- event:
		case <-ctx.Done():
			return
		}

		if event.Terminal() {
			return
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		logger.Debugf("stream: read error: %v", err)
	}
}
