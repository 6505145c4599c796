package conclusion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chynybekuuludastan/conclusion_generator/internal/metrics"
	"github.com/chynybekuuludastan/conclusion_generator/internal/repository/cache"
	"github.com/chynybekuuludastan/conclusion_generator/internal/service/llm"
	"github.com/chynybekuuludastan/conclusion_generator/internal/service/serp"
)

type fakeFetcher struct {
	result  serp.Result
	results []serp.Result // consumed in order before result
	calls   int
	queries []string
}

func (f *fakeFetcher) FetchCompetitorSnippets(_ context.Context, query, _ string) serp.Result {
	f.calls++
	f.queries = append(f.queries, query)
	if len(f.results) > 0 {
		next := f.results[0]
		f.results = f.results[1:]
		return next
	}
	return f.result
}

type fakeGenerator struct {
	result  llm.GenerationResult
	prompts []string
	keys    []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt, apiKey string) llm.GenerationResult {
	g.prompts = append(g.prompts, prompt)
	g.keys = append(g.keys, apiKey)
	return g.result
}

type failingCache struct{}

func (failingCache) GetSnippets(context.Context, string) ([]string, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingCache) CacheSnippets(context.Context, string, []string) error {
	return errors.New("connection refused")
}

func TestSnippets_CachesSuccessfulLookups(t *testing.T) {
	fetcher := &fakeFetcher{result: serp.Result{Snippets: []string{"A — x"}}}
	service := NewService(ServiceOptions{
		Fetcher: fetcher,
		Cache:   cache.NewRepository(nil, 0),
	})
	ctx := context.Background()

	first := service.Snippets(ctx, "  ai tools ", "key")
	second := service.Snippets(ctx, "ai tools", "key")

	assert.Equal(t, []string{"A — x"}, first.Snippets)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, []string{"ai tools"}, fetcher.queries)

	service.Snippets(ctx, "ai tools", "other-key")
	assert.Equal(t, 2, fetcher.calls)
}

func TestSnippets_DoesNotCacheRateLimits(t *testing.T) {
	fetcher := &fakeFetcher{result: serp.Result{Snippets: []string{}, RateLimited: true}}
	service := NewService(ServiceOptions{
		Fetcher: fetcher,
		Cache:   cache.NewRepository(nil, 0),
	})
	ctx := context.Background()

	assert.True(t, service.Snippets(ctx, "q", "key").RateLimited)
	assert.True(t, service.Snippets(ctx, "q", "key").RateLimited)
	assert.Equal(t, 2, fetcher.calls)
}

func TestSnippets_DoesNotCacheFailedLookups(t *testing.T) {
	fetcher := &fakeFetcher{
		results: []serp.Result{{Snippets: []string{}, Failed: true}},
		result:  serp.Result{Snippets: []string{"Recovered — ok"}},
	}
	service := NewService(ServiceOptions{
		Fetcher: fetcher,
		Cache:   cache.NewRepository(nil, 0),
	})
	ctx := context.Background()

	first := service.Snippets(ctx, "q", "key")
	second := service.Snippets(ctx, "q", "key")
	third := service.Snippets(ctx, "q", "key")

	assert.Empty(t, first.Snippets)
	assert.Equal(t, []string{"Recovered — ok"}, second.Snippets)
	assert.Equal(t, []string{"Recovered — ok"}, third.Snippets)
	assert.Equal(t, 2, fetcher.calls)
}

func TestSnippets_UpstreamErrorIsRetriedOnNextRequest(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"organic": [{"title": "A", "snippet": "x"}]}`))
	}))
	defer server.Close()

	service := NewService(ServiceOptions{
		Fetcher: serp.NewClient(serp.WithBaseURL(server.URL)),
		Cache:   cache.NewRepository(nil, 0),
	})
	ctx := context.Background()

	first := service.Snippets(ctx, "q", "k")
	second := service.Snippets(ctx, "q", "k")
	third := service.Snippets(ctx, "q", "k")

	assert.Empty(t, first.Snippets)
	assert.Equal(t, []string{"A — x"}, second.Snippets)
	assert.Equal(t, []string{"A — x"}, third.Snippets)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSnippets_DoesNotCacheSkippedLookups(t *testing.T) {
	fetcher := &fakeFetcher{result: serp.Result{Snippets: []string{}, Skipped: true}}
	service := NewService(ServiceOptions{
		Fetcher: fetcher,
		Cache:   cache.NewRepository(nil, 0),
	})
	ctx := context.Background()

	service.Snippets(ctx, "q", "")
	service.Snippets(ctx, "q", "")

	assert.Equal(t, 2, fetcher.calls)
}

func TestSnippets_CachesEmptySuccessfulLookups(t *testing.T) {
	fetcher := &fakeFetcher{result: serp.Result{Snippets: []string{}}}
	service := NewService(ServiceOptions{
		Fetcher: fetcher,
		Cache:   cache.NewRepository(nil, 0),
	})
	ctx := context.Background()

	service.Snippets(ctx, "q", "key")
	result := service.Snippets(ctx, "q", "key")

	assert.Empty(t, result.Snippets)
	assert.Equal(t, 1, fetcher.calls)
}

func TestSnippets_CountsOutcomes(t *testing.T) {
	outcomes := []struct {
		label  string
		result serp.Result
	}{
		{label: "fetched", result: serp.Result{Snippets: []string{"A"}}},
		{label: "skipped", result: serp.Result{Snippets: []string{}, Skipped: true}},
		{label: "failed", result: serp.Result{Snippets: []string{}, Failed: true}},
		{label: "rate_limited", result: serp.Result{Snippets: []string{}, RateLimited: true}},
	}

	for _, tt := range outcomes {
		t.Run(tt.label, func(t *testing.T) {
			counter := metrics.SnippetFetchesTotal.WithLabelValues(tt.label)
			before := testutil.ToFloat64(counter)
			fetched := testutil.ToFloat64(metrics.SnippetFetchesTotal.WithLabelValues("fetched"))

			service := NewService(ServiceOptions{Fetcher: &fakeFetcher{result: tt.result}})
			service.Snippets(context.Background(), "counted-"+tt.label, "key")

			assert.Equal(t, before+1, testutil.ToFloat64(counter))
			if tt.label != "fetched" {
				assert.Equal(t, fetched, testutil.ToFloat64(metrics.SnippetFetchesTotal.WithLabelValues("fetched")))
			}
		})
	}
}

func TestSnippets_EmptyQuerySkipsSearch(t *testing.T) {
	fetcher := &fakeFetcher{}
	service := NewService(ServiceOptions{Fetcher: fetcher})

	result := service.Snippets(context.Background(), "   ", "key")

	assert.Empty(t, result.Snippets)
	assert.NotNil(t, result.Snippets)
	assert.False(t, result.RateLimited)
	assert.Zero(t, fetcher.calls)
}

func TestSnippets_CacheErrorsFallThrough(t *testing.T) {
	fetcher := &fakeFetcher{result: serp.Result{Snippets: []string{"B"}}}
	service := NewService(ServiceOptions{Fetcher: fetcher, Cache: failingCache{}})

	result := service.Snippets(context.Background(), "q", "key")

	assert.Equal(t, []string{"B"}, result.Snippets)
	assert.Equal(t, 1, fetcher.calls)
}

func TestGenerate_SendsRenderedPrompt(t *testing.T) {
	generator := &fakeGenerator{result: llm.GenerationResult{Status: llm.StatusOK, Text: "1. One", Attempts: 1}}
	service := NewService(ServiceOptions{Generator: generator})
	request := llm.GenerationRequest{
		Title:              "Title",
		Tone:               llm.ToneFriendly,
		Language:           "German",
		NumVariants:        2,
		LengthHint:         llm.LengthLong,
		CompetitorSnippets: []string{"A — x"},
	}

	result := service.Generate(context.Background(), request, "gemini-key")

	require.True(t, result.OK())
	assert.Equal(t, "1. One", result.Text)
	require.Len(t, generator.prompts, 1)
	assert.Equal(t, service.Prompt(request), generator.prompts[0])
	assert.Contains(t, generator.prompts[0], "A — x")
	assert.Equal(t, []string{"gemini-key"}, generator.keys)
}

func TestGenerate_PassesThroughRateLimit(t *testing.T) {
	generator := &fakeGenerator{result: llm.GenerationResult{Status: llm.StatusRateLimited, Attempts: 1}}
	service := NewService(ServiceOptions{Generator: generator})

	result := service.Generate(context.Background(), llm.GenerationRequest{Title: "T", NumVariants: 3}, "")

	assert.True(t, result.RateLimited())
}

func TestSplitVariants(t *testing.T) {
	raw := "1. First conclusion.\n\n2) Second\n  3. Third one  \n...\n- dash kept\nPlain line"

	assert.Equal(t, []string{
		"First conclusion.",
		") Second",
		"Third one",
		"- dash kept",
		"Plain line",
	}, SplitVariants(raw))

	assert.Empty(t, SplitVariants(""))
	assert.NotNil(t, SplitVariants("\n\n"))
	assert.Equal(t, []string{"was a big year"}, SplitVariants("2024 was a big year"))
}
