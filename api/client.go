package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL   = "http://localhost:8000"
	defaultUserAgent = "scout/1.0"

	researchTimeout = 60 * time.Second
	generateTimeout = 120 * time.Second
	historyTimeout  = 30 * time.Second
	saveTimeout     = 30 * time.Second
	hashtagsTimeout = 30 * time.Second
	syncTimeout     = 10 * time.Second
	healthTimeout   = 5 * time.Second
)

// Client talks to the research backend. Every authenticated call attaches
// the bearer token and runs under a fixed per-operation deadline. There is
// no retry at this layer.
type Client struct {
	options    ClientOptions
	httpClient *http.Client
}

// ClientOptions contains options for creating a backend client
type ClientOptions struct {
	BaseURL    string
	Token      string
	UserAgent  string
	HTTPClient *http.Client
}

// ClientOption is a functional option for configuring the client
type ClientOption func(*ClientOptions)

// WithBaseURL sets the backend base URL
func WithBaseURL(base string) ClientOption {
	return func(o *ClientOptions) {
		o.BaseURL = base
	}
}

// WithToken sets the bearer token attached to authenticated requests
func WithToken(token string) ClientOption {
	return func(o *ClientOptions) {
		o.Token = token
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(o *ClientOptions) {
		o.UserAgent = ua
	}
}

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(o *ClientOptions) {
		o.HTTPClient = hc
	}
}

// NewClient creates a backend client
func NewClient(opts ...ClientOption) *Client {
	options := ClientOptions{
		BaseURL:   defaultBaseURL,
		UserAgent: defaultUserAgent,
	}

	for _, opt := range opts {
		opt(&options)
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		// Timeouts are applied per request via context, not on the client
		httpClient = &http.Client{}
	}

	return &Client{
		options:    options,
		httpClient: httpClient,
	}
}

// Research sends a plain research query and waits for the full answer
func (c *Client) Research(ctx context.Context, query, sessionID string) (*ResearchResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, researchTimeout)
	defer cancel()

	var out ResearchResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/research", ResearchRequest{
		Query:     query,
		SessionID: sessionID,
	}, &out, true)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ResearchHistory fetches the persisted query/response pairs for this user
func (c *Client) ResearchHistory(ctx context.Context) (*HistoryResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, historyTimeout)
	defer cancel()

	var out HistoryResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/research/history", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// GeneratePost asks the backend to draft a LinkedIn post from content.
// Generation is search augmented on the backend, so it gets the longest
// deadline of any operation.
func (c *Client) GeneratePost(ctx context.Context, req GenerateRequest) (*GeneratedPost, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	var out GeneratedPost
	if err := c.doJSON(ctx, http.MethodPost, "/api/linkedin/generate", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// SavePost persists a generated post and returns the stored record
func (c *Client) SavePost(ctx context.Context, req SavePostRequest) (*SavedPost, error) {
	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()

	var out SavedPost
	if err := c.doJSON(ctx, http.MethodPost, "/api/linkedin/save", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// PostHistory lists saved LinkedIn posts, newest first
func (c *Client) PostHistory(ctx context.Context, limit, offset int) (*PostHistoryResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, historyTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var out PostHistoryResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/linkedin/history?"+q.Encode(), nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Hashtags returns suggested hashtags for content
func (c *Client) Hashtags(ctx context.Context, content string, count int) (*HashtagsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, hashtagsTimeout)
	defer cancel()

	var out HashtagsResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/linkedin/hashtags", HashtagsRequest{
		Content: content,
		Count:   count,
	}, &out, true)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SyncUser ensures the authenticated identity exists on the backend
func (c *Client) SyncUser(ctx context.Context) (*SyncUserResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()

	var out SyncUserResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/sync-user", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health probes backend liveness. No auth required.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON runs one request/response round trip and decodes the JSON body
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}, authed bool) error {
	if authed && c.options.Token == "" {
		return ErrNoToken
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.options.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, authed)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("request to %s: %w", path, ctx.Err())
		}
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, authed bool) {
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.options.Token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.options.UserAgent)
}

// newAPIError builds an APIError, pulling the detail field out of FastAPI
// style {"detail": "..."} bodies when present
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Body:       string(body),
	}
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil {
		apiErr.Detail = detail.Detail
	}
	return apiErr
}
