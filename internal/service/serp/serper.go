package serp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chynybekuuludastan/conclusion_generator/internal/service/llm"
)

// Constants for API configuration
const (
	DefaultURL     = "https://google.serper.dev/search"
	DefaultTimeout = 30 * time.Second
	MaxSnippets    = 10
)

// snippetSeparator joins a result title and its description.
const snippetSeparator = " — "

// SearchRequest is the JSON body sent to the search endpoint
type SearchRequest struct {
	Query       string `json:"q"`
	Country     string `json:"gl"`
	Language    string `json:"hl"`
	Num         int    `json:"num"`
	Autocorrect bool   `json:"autocorrect"`
	Page        int    `json:"page"`
	Type        string `json:"type"`
	Engine      string `json:"engine"`
}

// OrganicResult is a single organic search result
type OrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link,omitempty"`
	Snippet string `json:"snippet"`
}

// SearchResponse is the subset of the search response the client reads
type SearchResponse struct {
	Organic []OrganicResult `json:"organic"`
}

// Result holds competitor snippets or a rate limit signal. Skipped is set when
// no key was available and Failed when the lookup degraded to an empty list
// after a transport, status or decoding error.
type Result struct {
	Snippets    []string `json:"snippets"`
	RateLimited bool     `json:"rate_limited"`
	Skipped     bool     `json:"-"`
	Failed      bool     `json:"-"`
}

// Client fetches competitor snippets from the Serper search API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     llm.Logger
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the search endpoint
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger llm.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new search client
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		baseURL:    DefaultURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     &llm.DefaultLogger{},
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// FetchCompetitorSnippets runs one search for query and returns up to
// MaxSnippets snippets in result order.
//
// Without a resolvable key no request is made and the result is empty. Any
// transport or decoding failure yields an empty result marked Failed; nothing
// is retried.
func (c *Client) FetchCompetitorSnippets(ctx context.Context, query, apiKey string) Result {
	key := llm.ResolveAPIKey(apiKey, llm.SerperAPIKeyEnv)
	if key == "" {
		c.logger.Debug("Serper API key not set, skipping competitor search")
		return Result{Snippets: []string{}, Skipped: true}
	}

	status, body, err := c.search(ctx, query, key)
	if err != nil && status != http.StatusTooManyRequests {
		c.logger.Error("Serper API request failed", "error", err, "query", query)
		return Result{Snippets: []string{}, Failed: true}
	}

	if status == http.StatusTooManyRequests || llm.IsRateLimitText(string(body)) {
		c.logger.Info("Serper API rate limit or quota reached", "status", status)
		return Result{Snippets: []string{}, RateLimited: true}
	}

	if status != http.StatusOK {
		c.logger.Error("Unexpected Serper API status", "status", status, "query", query)
		return Result{Snippets: []string{}, Failed: true}
	}

	var response SearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		c.logger.Error("Failed to decode Serper API response", "error", err)
		return Result{Snippets: []string{}, Failed: true}
	}

	snippets := BuildSnippets(response.Organic)
	c.logger.Debug("Fetched competitor snippets", "query", query, "count", len(snippets))

	return Result{Snippets: snippets}
}

func (c *Client) search(ctx context.Context, query, apiKey string) (int, []byte, error) {
	payload, err := json.Marshal(NewSearchRequest(query))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("X-API-KEY", apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read search response: %w", err)
	}

	return resp.StatusCode, body, nil
}

// NewSearchRequest returns the fixed English/US search parameters for query
func NewSearchRequest(query string) SearchRequest {
	return SearchRequest{
		Query:       query,
		Country:     "us",
		Language:    "en",
		Num:         MaxSnippets,
		Autocorrect: true,
		Page:        1,
		Type:        "search",
		Engine:      "google",
	}
}

// BuildSnippets converts the first MaxSnippets results into snippet strings.
// Results without a title are skipped.
func BuildSnippets(results []OrganicResult) []string {
	if len(results) > MaxSnippets {
		results = results[:MaxSnippets]
	}

	snippets := make([]string, 0, len(results))
	for _, item := range results {
		switch {
		case item.Title != "" && item.Snippet != "":
			snippets = append(snippets, item.Title+snippetSeparator+item.Snippet)
		case item.Title != "":
			snippets = append(snippets, item.Title)
		}
	}

	return snippets
}
