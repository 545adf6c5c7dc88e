package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailpilot/console/internal/models"
)

// recorded captures the last request seen by the test server
type recorded struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

func testServer(t *testing.T, status int, response string, rec *recorded) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec != nil {
			rec.Method = r.Method
			rec.Path = r.URL.Path
			rec.Query = r.URL.RawQuery
			rec.Body, _ = io.ReadAll(r.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return NewClient(ClientOptions{BaseURL: srv.URL})
}

func TestGetState(t *testing.T) {
	var rec recorded
	client := testServer(t, http.StatusOK, `{
		"agent_status": "Idle",
		"last_checked": "2026-08-24 10:00",
		"drafts_queue": [{"id": "d1", "subject": "re: budget"}],
		"priority_queue": [],
		"learning_queue": null,
		"starred_queue": [],
		"activity_feed": [],
		"chat_history": []
	}`, &rec)

	st, err := client.GetState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, rec.Method)
	assert.Equal(t, "/api/state", rec.Path)
	assert.Equal(t, models.StatusIdle, st.AgentStatus)
	require.Len(t, st.DraftsQueue, 1)
	assert.Equal(t, "re: budget", st.DraftsQueue[0].Subject)
}

func TestEmailsByLabel_QueryParams(t *testing.T) {
	var rec recorded
	client := testServer(t, http.StatusOK,
		`{"emails": [{"id": "e1"}], "nextPageToken": "tok-2"}`, &rec)

	page, err := client.EmailsByLabel(context.Background(), "Label_7", "invoices", "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "/api/emails-by-label/Label_7", rec.Path)
	assert.Contains(t, rec.Query, "query=invoices")
	assert.Contains(t, rec.Query, "page_token=tok-1")
	assert.Equal(t, "tok-2", page.NextPageToken)
	require.Len(t, page.Emails, 1)
}

func TestEmailsByLabel_NullEmails(t *testing.T) {
	client := testServer(t, http.StatusOK, `{"emails": null}`, nil)
	page, err := client.EmailsByLabel(context.Background(), "Label_7", "", "")
	require.NoError(t, err)
	assert.NotNil(t, page.Emails)
	assert.Empty(t, page.Emails)
}

func TestEmailsByLabel_EmptyLabelID(t *testing.T) {
	client := testServer(t, http.StatusOK, `{}`, nil)
	_, err := client.EmailsByLabel(context.Background(), "  ", "", "")
	assert.Error(t, err)
}

func TestActionEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		call       func(c *Client) error
		wantMethod string
		wantPath   string
	}{
		{"send draft", func(c *Client) error { return c.SendDraft(context.Background(), "m1") },
			http.MethodPost, "/api/actions/send-draft/m1"},
		{"discard draft", func(c *Client) error { return c.DiscardDraft(context.Background(), "m1") },
			http.MethodDelete, "/api/actions/discard-draft/m1"},
		{"approve learning", func(c *Client) error { return c.ApproveLearning(context.Background(), "m1") },
			http.MethodPost, "/api/actions/approve-learning/m1"},
		{"reject learning", func(c *Client) error { return c.RejectLearning(context.Background(), "m1") },
			http.MethodPost, "/api/actions/reject-learning/m1"},
		{"keep priority", func(c *Client) error { return c.KeepPriority(context.Background(), "m1") },
			http.MethodPost, "/api/actions/keep-priority/m1"},
		{"dismiss priority", func(c *Client) error { return c.DismissPriority(context.Background(), "m1") },
			http.MethodPost, "/api/actions/dismiss-priority/m1"},
		{"star email", func(c *Client) error { return c.StarEmail(context.Background(), "m1") },
			http.MethodPost, "/api/actions/star-email/m1"},
		{"unstar email", func(c *Client) error { return c.UnstarEmail(context.Background(), "m1") },
			http.MethodPost, "/api/actions/unstar-email/m1"},
		{"delete email", func(c *Client) error { return c.DeleteEmail(context.Background(), "m1") },
			http.MethodPost, "/api/actions/delete-email/m1"},
		{"trigger check", func(c *Client) error { return c.TriggerCheck(context.Background()) },
			http.MethodPost, "/api/trigger-check"},
		{"stop check", func(c *Client) error { return c.StopCheck(context.Background()) },
			http.MethodPost, "/api/stop-check"},
		{"clear chat", func(c *Client) error { return c.ClearChat(context.Background()) },
			http.MethodDelete, "/api/chat/clear"},
		{"clear facts", func(c *Client) error { return c.ClearFacts(context.Background()) },
			http.MethodDelete, "/api/knowledge-base/all"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec recorded
			client := testServer(t, http.StatusOK, `{"status": "ok"}`, &rec)
			require.NoError(t, tt.call(client))
			assert.Equal(t, tt.wantMethod, rec.Method)
			assert.Equal(t, tt.wantPath, rec.Path)
		})
	}
}

func TestActionPost_EmptyID(t *testing.T) {
	client := testServer(t, http.StatusOK, `{}`, nil)
	assert.Error(t, client.SendDraft(context.Background(), ""))
	assert.Error(t, client.KeepPriority(context.Background(), "   "))
}

func TestBulkUnstar_ArrayBody(t *testing.T) {
	var rec recorded
	client := testServer(t, http.StatusOK, `{"status": "ok"}`, &rec)

	require.NoError(t, client.BulkUnstar(context.Background(), []string{"m1", "m2"}))
	assert.Equal(t, "/api/actions/bulk-unstar", rec.Path)

	var ids []string
	require.NoError(t, json.Unmarshal(rec.Body, &ids))
	assert.Equal(t, []string{"m1", "m2"}, ids)

	assert.Error(t, client.BulkUnstar(context.Background(), nil))
}

func TestSearch(t *testing.T) {
	var rec recorded
	client := testServer(t, http.StatusOK, `{
		"emails": [{"id": "e1"}],
		"drive_files": [{"id": "f1", "name": "notes.pdf"}],
		"knowledge_base": [{"id": "k1", "fact": "likes brief emails"}]
	}`, &rec)

	res, err := client.Search(context.Background(), "quarterly")
	require.NoError(t, err)
	assert.Equal(t, "/api/search", rec.Path)
	assert.Len(t, res.Emails, 1)
	assert.Len(t, res.DriveFiles, 1)
	assert.Len(t, res.KnowledgeBase, 1)

	_, err = client.Search(context.Background(), "  ")
	assert.Error(t, err)
}

func TestGetEmailContent(t *testing.T) {
	client := testServer(t, http.StatusOK, `{"content": "Hello,\n\nSee attached."}`, nil)
	content, err := client.GetEmailContent(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Hello,\n\nSee attached.", content)
}

func TestSettingsRoundTrip(t *testing.T) {
	var rec recorded
	client := testServer(t, http.StatusOK, `{
		"llm_model_name": "claude-sonnet",
		"check_interval_seconds": 300,
		"notification_triggers": {"new_draft": true, "priority_item": false}
	}`, &rec)

	settings, err := client.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 300, settings.CheckIntervalSeconds)
	assert.False(t, settings.NotificationTriggers["priority_item"])

	require.NoError(t, client.SaveSettings(context.Background(), settings))
	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/api/settings", rec.Path)

	assert.Error(t, client.SaveSettings(context.Background(), nil))
}

func TestStatusError_DetailExtraction(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"fastapi detail", http.StatusNotFound, `{"detail": "Draft not found"}`, "Draft not found"},
		{"error field", http.StatusBadRequest, `{"error": "bad id"}`, "bad id"},
		{"no body", http.StatusInternalServerError, ``, "Internal Server Error"},
		{"non-json body", http.StatusBadGateway, `upstream exploded`, "Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testServer(t, tt.status, tt.body, nil)
			err := client.SendDraft(context.Background(), "m1")
			require.Error(t, err)
			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.wantDetail, se.Detail)
		})
	}
}

func TestIsNotFound(t *testing.T) {
	client := testServer(t, http.StatusNotFound, `{"detail": "gone"}`, nil)
	err := client.DeleteFact(context.Background(), "f1")
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(errors.New("other")))
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(ClientOptions{BaseURL: "http://example.test/"})
	assert.Equal(t, "http://example.test", client.baseURL)

	client = NewClient(ClientOptions{})
	assert.Equal(t, "http://localhost:8000", client.baseURL)
	assert.NotNil(t, client.httpClient)
}
