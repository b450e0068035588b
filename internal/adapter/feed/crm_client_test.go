package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/replywatch/replywatch/internal/domain"
)

func newTestClient(t *testing.T, serverURL string, pageSize, maxPages int) *Client {
	t.Helper()
	return NewClient(Config{
		BaseURL:        serverURL,
		AccessToken:    "secret-token",
		PageSize:       pageSize,
		MaxPages:       maxPages,
		RequestTimeout: 2 * time.Second,
	}, nil)
}

func TestClient_FetchEvents_Paginates(t *testing.T) {
	var requests []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v4/events", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "1000", r.URL.Query().Get("filter[created_at][from]"))
		assert.Equal(t, "2000", r.URL.Query().Get("filter[created_at][to]"))
		assert.Contains(t, r.URL.Query()["filter[type][]"], "incoming_chat_message")

		page := r.URL.Query().Get("page")
		requests = append(requests, page)

		w.Header().Set("Content-Type", "application/json")
		switch page {
		case "1":
			fmt.Fprint(w, `{"_embedded":{"events":[
				{"type":"incoming_chat_message","entity_id":1,"created_by":5,"created_at":1100},
				{"type":"entity_responsible_changed","entity_id":1,"created_by":5,"created_at":1050,
				 "value_after":[{"responsible_user":{"id":42}}]}
			]}}`)
		case "2":
			fmt.Fprint(w, `{"_embedded":{"events":[
				{"type":"outgoing_chat_message","entity_id":1,"created_by":42,"created_at":1400}
			]}}`)
		default:
			t.Errorf("Unexpected page request: %s", page)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2, 10)
	result := client.FetchEvents(context.Background(), domain.ReportEventTypes, 1000, 2000)

	assert.True(t, result.Complete)
	assert.Len(t, result.Events, 3)
	assert.Equal(t, []string{"1", "2"}, requests)

	ownership := result.Events[1]
	assert.Equal(t, domain.EventTypeOwnershipChanged, ownership.Type)
	assert.Equal(t, int64(42), ownership.NewResponsibleID)
	assert.Equal(t, int64(5), ownership.ActorID)
}

func TestClient_FetchEvents_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 100, 10)
	result := client.FetchEvents(context.Background(), domain.ReportEventTypes, 1000, 2000)

	assert.True(t, result.Complete)
	assert.Empty(t, result.Events)
}

func TestClient_FetchEvents_PartialOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, `{"_embedded":{"events":[
				{"type":"incoming_chat_message","entity_id":1,"created_by":5,"created_at":1100}
			]}}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	// Page size of one keeps pagination going until the failing page
	client := newTestClient(t, server.URL, 1, 10)
	result := client.FetchEvents(context.Background(), domain.ReportEventTypes, 1000, 2000)

	assert.False(t, result.Complete)
	assert.Len(t, result.Events, 1)
}

func TestClient_FetchEvents_MalformedPageTreatedAsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"_embedded":{"events":[`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 100, 10)
	result := client.FetchEvents(context.Background(), domain.ReportEventTypes, 1000, 2000)

	assert.True(t, result.Complete)
	assert.Empty(t, result.Events)
}

func TestClient_FetchEvents_PageCeiling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Always a full page: pagination would never end naturally
		fmt.Fprint(w, `{"_embedded":{"events":[
			{"type":"incoming_chat_message","entity_id":1,"created_by":5,"created_at":1100}
		]}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 1, 3)
	result := client.FetchEvents(context.Background(), domain.ReportEventTypes, 1000, 2000)

	assert.False(t, result.Complete)
	assert.Len(t, result.Events, 3)
}

func TestClient_FetchEvents_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"_embedded":{"events":[]}}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(t, server.URL, 100, 10)
	result := client.FetchEvents(ctx, domain.ReportEventTypes, 1000, 2000)

	assert.False(t, result.Complete)
	assert.Empty(t, result.Events)
}
