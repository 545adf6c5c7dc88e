// Package api implements the thin request/response transport to the
// remote email-automation backend. All intelligence lives server-side;
// this client only triggers actions and fetches state.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mailpilot/console/internal/models"
)

// ClientOptions configures a backend API client
type ClientOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

// Client is the HTTP action gateway for the backend API
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *log.Logger // Optional - for debug logging
}

// NewClient creates a backend API client
func NewClient(opts ClientOptions) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		userAgent:  strings.TrimSpace(opts.UserAgent),
	}
}

// SetLogger sets the logger for debug output
func (c *Client) SetLogger(logger *log.Logger) {
	c.logger = logger
}

// do performs one JSON request/response round trip. A non-2xx response is
// returned as a *StatusError carrying the server-provided detail message
// when one is present.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if c == nil || c.httpClient == nil {
		return fmt.Errorf("api client not initialized")
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	if c.logger != nil {
		c.logger.Printf("api: %s %s", method, path)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// GetState fetches the full application snapshot
func (c *Client) GetState(ctx context.Context) (*models.InitialState, error) {
	var out models.InitialState
	if err := c.do(ctx, http.MethodGet, "/api/state", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLabels lists all user-defined labels
func (c *Client) GetLabels(ctx context.Context) ([]models.Label, error) {
	var out []models.Label
	if err := c.do(ctx, http.MethodGet, "/api/labels", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EmailsByLabel fetches one page of a label-scoped email listing
func (c *Client) EmailsByLabel(ctx context.Context, labelID, query, pageToken string) (*models.EmailPage, error) {
	if strings.TrimSpace(labelID) == "" {
		return nil, fmt.Errorf("labelID cannot be empty")
	}
	q := url.Values{}
	if query != "" {
		q.Set("query", query)
	}
	if pageToken != "" {
		q.Set("page_token", pageToken)
	}
	path := "/api/emails-by-label/" + url.PathEscape(labelID)
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	var out models.EmailPage
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out.Emails == nil {
		out.Emails = []models.QueueItem{}
	}
	return &out, nil
}

// TriggerCheck starts the backend's background processing loop
func (c *Client) TriggerCheck(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/trigger-check", nil, nil)
}

// StopCheck stops the backend's background processing loop
func (c *Client) StopCheck(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/stop-check", nil, nil)
}

// Search performs a federated search across emails, Drive files and the
// knowledge base
func (c *Client) Search(ctx context.Context, query string) (*models.SearchResults, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	var out models.SearchResults
	body := map[string]string{"query": query}
	if err := c.do(ctx, http.MethodPost, "/api/search", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendChat sends one user chat message to the agent. The user and agent
// entries arrive asynchronously as chat_update pushes.
func (c *Client) SendChat(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	return c.do(ctx, http.MethodPost, "/api/chat", map[string]string{"message": message}, nil)
}

// ClearChat clears the server-side chat history
func (c *Client) ClearChat(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/chat/clear", nil, nil)
}

// SendDraft sends the pending draft for the given message
func (c *Client) SendDraft(ctx context.Context, messageID string) error {
	return c.actionPost(ctx, "send-draft", messageID)
}

// DiscardDraft discards the pending draft for the given message
func (c *Client) DiscardDraft(ctx context.Context, messageID string) error {
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("messageID cannot be empty")
	}
	return c.do(ctx, http.MethodDelete, "/api/actions/discard-draft/"+url.PathEscape(messageID), nil, nil)
}

// ApproveLearning approves a learning proposal
func (c *Client) ApproveLearning(ctx context.Context, messageID string) error {
	return c.actionPost(ctx, "approve-learning", messageID)
}

// RejectLearning rejects a learning proposal
func (c *Client) RejectLearning(ctx context.Context, messageID string) error {
	return c.actionPost(ctx, "reject-learning", messageID)
}

// KeepPriority acknowledges a priority item, keeping it for later review
func (c *Client) KeepPriority(ctx context.Context, messageID string) error {
	return c.actionPost(ctx, "keep-priority", messageID)
}

// DismissPriority dismisses a priority item
func (c *Client) DismissPriority(ctx context.Context, messageID string) error {
	return c.actionPost(ctx, "dismiss-priority", messageID)
}

// StarEmail adds the star to an email
func (c *Client) StarEmail(ctx context.Context, messageID string) error {
	return c.actionPost(ctx, "star-email", messageID)
}

// UnstarEmail removes the star from an email
func (c *Client) UnstarEmail(ctx context.Context, messageID string) error {
	return c.actionPost(ctx, "unstar-email", messageID)
}

// DeleteEmail moves an email to the trash
func (c *Client) DeleteEmail(ctx context.Context, messageID string) error {
	return c.actionPost(ctx, "delete-email", messageID)
}

// BulkUnstar removes the star from multiple emails in one call
func (c *Client) BulkUnstar(ctx context.Context, messageIDs []string) error {
	if len(messageIDs) == 0 {
		return fmt.Errorf("no message IDs provided")
	}
	return c.do(ctx, http.MethodPost, "/api/actions/bulk-unstar", messageIDs, nil)
}

// GetEmailContent fetches the full parsed body of one email
func (c *Client) GetEmailContent(ctx context.Context, messageID string) (string, error) {
	if strings.TrimSpace(messageID) == "" {
		return "", fmt.Errorf("messageID cannot be empty")
	}
	var out models.EmailContent
	if err := c.do(ctx, http.MethodGet, "/api/actions/get-email-content/"+url.PathEscape(messageID), nil, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

// GetSettings fetches the current effective settings
func (c *Client) GetSettings(ctx context.Context) (*models.Settings, error) {
	var out models.Settings
	if err := c.do(ctx, http.MethodGet, "/api/settings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveSettings persists updated settings
func (c *Client) SaveSettings(ctx context.Context, settings *models.Settings) error {
	if settings == nil {
		return fmt.Errorf("settings cannot be nil")
	}
	return c.do(ctx, http.MethodPost, "/api/settings", settings, nil)
}

// ResetSettings restores default settings and returns them
func (c *Client) ResetSettings(ctx context.Context) (*models.Settings, error) {
	var out models.Settings
	if err := c.do(ctx, http.MethodPost, "/api/settings/reset", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListFacts fetches all knowledge-base facts
func (c *Client) ListFacts(ctx context.Context) ([]models.Fact, error) {
	var out []models.Fact
	if err := c.do(ctx, http.MethodGet, "/api/knowledge-base", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddFact adds one fact to the knowledge base
func (c *Client) AddFact(ctx context.Context, fact string) (*models.Fact, error) {
	if strings.TrimSpace(fact) == "" {
		return nil, fmt.Errorf("fact cannot be empty")
	}
	var out models.Fact
	if err := c.do(ctx, http.MethodPost, "/api/knowledge-base", map[string]string{"fact": fact}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFact deletes one fact from the knowledge base
func (c *Client) DeleteFact(ctx context.Context, factID string) error {
	if strings.TrimSpace(factID) == "" {
		return fmt.Errorf("factID cannot be empty")
	}
	return c.do(ctx, http.MethodDelete, "/api/knowledge-base/"+url.PathEscape(factID), nil, nil)
}

// ClearFacts removes every fact from the knowledge base
func (c *Client) ClearFacts(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/knowledge-base/all", nil, nil)
}

func (c *Client) actionPost(ctx context.Context, action, messageID string) error {
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("messageID cannot be empty")
	}
	return c.do(ctx, http.MethodPost, "/api/actions/"+action+"/"+url.PathEscape(messageID), nil, nil)
}
