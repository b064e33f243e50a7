package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftforge/draftforge/content"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("secret-token", "db-1", WithBaseURL(server.URL))
	require.NoError(t, err)
	return client, server
}

func TestFetchPending(t *testing.T) {
	var captured map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/databases/db-1/query", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, apiVersion, r.Header.Get("Notion-Version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		fmt.Fprint(w, `{
			"results": [
				{
					"id": "page-1",
					"created_time": "2026-08-01T10:00:00Z",
					"properties": {
						"Name": {"title": [{"plain_text": "Async onboarding"}]},
						"Goal": {"select": {"name": "Thought Leadership"}},
						"Context/Notes": {"rich_text": [{"plain_text": "mention the survey"}]}
					}
				},
				{
					"id": "page-2",
					"created_time": "2026-08-02T10:00:00Z",
					"properties": {
						"Name": {"title": [{"plain_text": "Bad goal page"}]},
						"Goal": {"select": {"name": "Nonsense"}}
					}
				}
			]
		}`)
	}))

	items, err := client.FetchPending(context.Background(), time.Time{})
	require.NoError(t, err)

	// Unparseable pages are skipped, not fatal.
	require.Len(t, items, 1)
	assert.Equal(t, "page-1", items[0].ID)
	assert.Equal(t, content.GoalThoughtLeadership, items[0].Goal)
	assert.Equal(t, "mention the survey", items[0].Context)

	// Without a checkpoint the filter is status-only.
	filter := captured["filter"].(map[string]any)
	assert.Equal(t, "Status", filter["property"])
}

func TestFetchPendingWithCheckpoint(t *testing.T) {
	var captured map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		fmt.Fprint(w, `{"results": []}`)
	}))

	since := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	items, err := client.FetchPending(context.Background(), since)
	require.NoError(t, err)
	assert.Empty(t, items)

	filter := captured["filter"].(map[string]any)
	conditions, ok := filter["and"].([]any)
	require.True(t, ok, "checkpointed query must combine status and created_time")
	require.Len(t, conditions, 2)
	timeCond := conditions[1].(map[string]any)["created_time"].(map[string]any)
	assert.Equal(t, "2026-08-15T12:00:00Z", timeCond["after"])
}

func TestMarkStatus(t *testing.T) {
	var captured map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v1/pages/page-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		fmt.Fprint(w, `{}`)
	}))

	require.NoError(t, client.MarkStatus(context.Background(), "page-1", StatusResearching))

	status := captured["properties"].(map[string]any)["Status"].(map[string]any)
	assert.Equal(t, StatusResearching,
		status["status"].(map[string]any)["name"])
}

func completedRun() *content.RunState {
	run := content.NewRunState(content.WorkItem{
		ID:    "page-1",
		Topic: "Async onboarding",
		Goal:  content.GoalThoughtLeadership,
	})
	run.Brief = &content.ResearchBrief{KeyInsights: []string{"insight"}}
	run.Draft = &content.Draft{
		Hooks:    []string{"hook one", "hook two", "hook three"},
		Body:     "Body text.",
		CTA:      "Comment below.",
		Hashtags: []string{"#RemoteWork", "#Onboarding"},
		Visual:   content.VisualAsset{Format: "carousel", Suggestion: "five slides"},
	}
	_ = run.Finish(content.StatusCompleted, "")
	return run
}

func TestCommitCompletedRun(t *testing.T) {
	var captured map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		fmt.Fprint(w, `{}`)
	}))

	require.NoError(t, client.Commit(context.Background(), completedRun()))

	props := captured["properties"].(map[string]any)
	assert.Equal(t, StatusReady,
		props["Status"].(map[string]any)["status"].(map[string]any)["name"])
	assert.Contains(t, props, "Hook Option 1")
	assert.Contains(t, props, "Hook Option 3")
	assert.Contains(t, props, "Draft Body")
	assert.Equal(t, "#RemoteWork #Onboarding",
		props["Hashtags"].(map[string]any)["rich_text"].([]any)[0].(map[string]any)["text"].(map[string]any)["content"])
	assert.Equal(t, "carousel",
		props["Format Type"].(map[string]any)["select"].(map[string]any)["name"])
	assert.Contains(t, props, "Read Time")
}

func TestCommitFailedRunResetsStatus(t *testing.T) {
	var captured map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		fmt.Fprint(w, `{}`)
	}))

	run := content.NewRunState(content.WorkItem{ID: "page-1", Topic: "t", Goal: content.GoalProduct})
	require.NoError(t, run.Finish(content.StatusFailedExhausted, "draft rejected"))

	require.NoError(t, client.Commit(context.Background(), run))

	status := captured["properties"].(map[string]any)["Status"].(map[string]any)
	assert.Equal(t, StatusIdea, status["status"].(map[string]any)["name"])
}

func TestCommitRejectsNonTerminalRun(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a non-terminal run")
	}))

	run := content.NewRunState(content.WorkItem{ID: "page-1", Topic: "t", Goal: content.GoalProduct})
	assert.Error(t, client.Commit(context.Background(), run))
}

func TestRichTextPropTruncates(t *testing.T) {
	long := make([]byte, richTextLimit+500)
	for i := range long {
		long[i] = 'a'
	}

	prop := richTextProp(string(long))
	got := prop["rich_text"].([]any)[0].(map[string]any)["text"].(map[string]any)["content"].(string)
	assert.Len(t, got, richTextLimit)
}

func TestClientAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"message": "rate limited"}`)
	}))

	err := client.MarkStatus(context.Background(), "page-1", StatusIdea)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
