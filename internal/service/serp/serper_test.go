package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chynybekuuludastan/conclusion_generator/internal/service/llm"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestFetchCompetitorSnippets_FormatsResultsInOrder(t *testing.T) {
	var gotRequest SearchRequest
	var gotKey, gotContentType string
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotRequest)

		_, _ = w.Write([]byte(`{"organic": [
			{"title": "A", "snippet": "x"},
			{"title": "B", "snippet": ""},
			{"title": "C", "snippet": "z", "link": "https://example.com/c"}
		]}`))
	})
	client := NewClient(WithBaseURL(server.URL))

	result := client.FetchCompetitorSnippets(context.Background(), "ai marketing tools", "serper-key")

	assert.False(t, result.RateLimited)
	assert.False(t, result.Failed)
	assert.Equal(t, []string{"A — x", "B", "C — z"}, result.Snippets)
	assert.Equal(t, "serper-key", gotKey)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, NewSearchRequest("ai marketing tools"), gotRequest)
}

func TestFetchCompetitorSnippets_Status429IsRateLimited(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	client := NewClient(WithBaseURL(server.URL))

	result := client.FetchCompetitorSnippets(context.Background(), "query", "serper-key")

	assert.True(t, result.RateLimited)
	assert.Empty(t, result.Snippets)
}

func TestFetchCompetitorSnippets_QuotaBodyIsRateLimited(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "Not enough credits. Quota exceeded.", "statusCode": 400}`))
	})
	client := NewClient(WithBaseURL(server.URL))

	result := client.FetchCompetitorSnippets(context.Background(), "query", "serper-key")

	assert.True(t, result.RateLimited)
}

func TestFetchCompetitorSnippets_NoKeyMakesNoRequest(t *testing.T) {
	t.Setenv(llm.SerperAPIKeyEnv, "")
	server, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"organic": [{"title": "A", "snippet": "x"}]}`))
	})
	client := NewClient(WithBaseURL(server.URL))

	result := client.FetchCompetitorSnippets(context.Background(), "query", "")

	assert.False(t, result.RateLimited)
	assert.NotNil(t, result.Snippets)
	assert.Empty(t, result.Snippets)
	assert.True(t, result.Skipped)
	assert.False(t, result.Failed)
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestFetchCompetitorSnippets_UsesEnvironmentKey(t *testing.T) {
	t.Setenv(llm.SerperAPIKeyEnv, "env-key")
	var gotKey string
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		_, _ = w.Write([]byte(`{"organic": []}`))
	})
	client := NewClient(WithBaseURL(server.URL))

	result := client.FetchCompetitorSnippets(context.Background(), "query", "")

	assert.Equal(t, "env-key", gotKey)
	assert.Empty(t, result.Snippets)
}

func TestFetchCompetitorSnippets_DegradesToEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("internal error"))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, hits := newTestServer(t, tt.handler)
			client := NewClient(WithBaseURL(server.URL))

			result := client.FetchCompetitorSnippets(context.Background(), "query", "serper-key")

			assert.False(t, result.RateLimited)
			assert.True(t, result.Failed)
			assert.Empty(t, result.Snippets)
			assert.Equal(t, int32(1), atomic.LoadInt32(hits))
		})
	}
}

func TestFetchCompetitorSnippets_NoOrganicResultsIsNotAFailure(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"searchParameters": {}}`))
	})
	client := NewClient(WithBaseURL(server.URL))

	result := client.FetchCompetitorSnippets(context.Background(), "query", "serper-key")

	assert.False(t, result.Failed)
	assert.False(t, result.RateLimited)
	assert.Empty(t, result.Snippets)
}

func TestFetchCompetitorSnippets_TransportFailure(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	client := NewClient(WithBaseURL(server.URL), WithTimeout(20*time.Millisecond))

	result := client.FetchCompetitorSnippets(context.Background(), "query", "serper-key")

	assert.False(t, result.RateLimited)
	assert.True(t, result.Failed)
	assert.Empty(t, result.Snippets)
}

func TestBuildSnippets(t *testing.T) {
	results := make([]OrganicResult, 0, 12)
	for i := 0; i < 12; i++ {
		results = append(results, OrganicResult{Title: fmt.Sprintf("T%d", i), Snippet: fmt.Sprintf("S%d", i)})
	}

	snippets := BuildSnippets(results)
	require.Len(t, snippets, MaxSnippets)
	assert.Equal(t, "T0 — S0", snippets[0])
	assert.Equal(t, "T9 — S9", snippets[9])

	mixed := BuildSnippets([]OrganicResult{
		{Title: "", Snippet: "orphan"},
		{Title: "Only title"},
		{Title: "Both", Snippet: "parts"},
	})
	assert.Equal(t, []string{"Only title", "Both — parts"}, mixed)

	assert.Empty(t, BuildSnippets(nil))
}

func TestNewSearchRequest(t *testing.T) {
	req := NewSearchRequest("q")

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"q":"q","gl":"us","hl":"en","num":10,"autocorrect":true,"page":1,"type":"search","engine":"google"}`, string(data))
}
