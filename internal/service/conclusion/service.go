package conclusion

import (
	"context"
	"strings"
	"time"

	"github.com/chynybekuuludastan/conclusion_generator/internal/metrics"
	"github.com/chynybekuuludastan/conclusion_generator/internal/repository/cache"
	"github.com/chynybekuuludastan/conclusion_generator/internal/service/llm"
	"github.com/chynybekuuludastan/conclusion_generator/internal/service/llm/prompts"
	"github.com/chynybekuuludastan/conclusion_generator/internal/service/llm/tokens"
	"github.com/chynybekuuludastan/conclusion_generator/internal/service/serp"
)

// SnippetFetcher looks up competitor snippets for a query
type SnippetFetcher interface {
	FetchCompetitorSnippets(ctx context.Context, query, apiKey string) serp.Result
}

// TextGenerator sends a prompt to a generative model
type TextGenerator interface {
	Generate(ctx context.Context, prompt, apiKey string) llm.GenerationResult
}

// SnippetCache stores snippet lists between requests
type SnippetCache interface {
	GetSnippets(ctx context.Context, key string) ([]string, bool, error)
	CacheSnippets(ctx context.Context, key string, snippets []string) error
}

// Service wires search, prompt construction and generation for one request
type Service struct {
	fetcher   SnippetFetcher
	generator TextGenerator
	cache     SnippetCache
	prompts   *prompts.Generator
	modelName string
	logger    llm.Logger
}

// ServiceOptions contains the collaborators of the conclusion service
type ServiceOptions struct {
	Fetcher   SnippetFetcher
	Generator TextGenerator
	Cache     SnippetCache
	ModelName string // Used for token and cost estimates
	Logger    llm.Logger
}

// NewService creates a new conclusion service. Cache may be nil.
func NewService(opts ServiceOptions) *Service {
	if opts.Logger == nil {
		opts.Logger = &llm.DefaultLogger{}
	}
	if opts.ModelName == "" {
		opts.ModelName = llm.DefaultModel
	}

	return &Service{
		fetcher:   opts.Fetcher,
		generator: opts.Generator,
		cache:     opts.Cache,
		prompts:   prompts.NewGenerator(),
		modelName: opts.ModelName,
		logger:    opts.Logger,
	}
}

// Snippets returns competitor snippets for query, consulting the cache first.
// Only successful lookups are cached; rate limited, skipped and failed ones
// are retried by the next request.
func (s *Service) Snippets(ctx context.Context, query, serperKey string) serp.Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return serp.Result{Snippets: []string{}}
	}

	cacheKey := cache.SnippetKey(query, serperKey)
	if s.cache != nil {
		snippets, ok, err := s.cache.GetSnippets(ctx, cacheKey)
		if err != nil {
			s.logger.Error("Failed to read snippet cache", "error", err)
		} else if ok {
			s.logger.Debug("Cache hit for competitor snippets", "query", query)
			metrics.SnippetFetchesTotal.WithLabelValues("cached").Inc()
			return serp.Result{Snippets: snippets}
		}
	}

	result := s.fetcher.FetchCompetitorSnippets(ctx, query, serperKey)
	switch {
	case result.RateLimited:
		metrics.SnippetFetchesTotal.WithLabelValues("rate_limited").Inc()
		return result
	case result.Skipped:
		metrics.SnippetFetchesTotal.WithLabelValues("skipped").Inc()
		return result
	case result.Failed:
		metrics.SnippetFetchesTotal.WithLabelValues("failed").Inc()
		return result
	}
	metrics.SnippetFetchesTotal.WithLabelValues("fetched").Inc()

	if s.cache != nil {
		if err := s.cache.CacheSnippets(ctx, cacheKey, result.Snippets); err != nil {
			s.logger.Error("Failed to cache competitor snippets", "error", err)
		}
	}

	return result
}

// Prompt renders the conclusion prompt for request
func (s *Service) Prompt(request llm.GenerationRequest) string {
	return s.prompts.ConclusionPrompt(request)
}

// Generate builds the prompt for request and sends it to the generator
func (s *Service) Generate(ctx context.Context, request llm.GenerationRequest, geminiKey string) llm.GenerationResult {
	startTime := time.Now()

	prompt := s.Prompt(request)
	if !tokens.FitsContext(s.modelName, prompt, int(llm.DefaultSampling.MaxOutputTokens)) {
		s.logger.Info("Prompt may exceed the model context window",
			"model", s.modelName,
			"prompt_tokens", tokens.EstimateTokens(prompt))
	}

	result := s.generator.Generate(ctx, prompt, geminiKey)

	metrics.GenerationsTotal.WithLabelValues(result.Status.String()).Inc()
	metrics.GenerationAttempts.Observe(float64(result.Attempts))
	metrics.GenerationDuration.Observe(time.Since(startTime).Seconds())

	usage := tokens.Estimate(s.modelName, prompt, result.Text)
	if result.Attempts > 0 {
		metrics.GenerationTokens.WithLabelValues(s.modelName, "prompt").Add(float64(usage.PromptTokens * result.Attempts))
		metrics.GenerationTokens.WithLabelValues(s.modelName, "completion").Add(float64(usage.CompletionTokens))
		metrics.GenerationCost.WithLabelValues(s.modelName).Add(usage.PromptCost*float64(result.Attempts) + usage.CompletionCost)
	}

	s.logger.Info("Conclusion generation finished",
		"status", result.Status.String(),
		"attempts", result.Attempts,
		"variants", request.NumVariants,
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
		"time", time.Since(startTime))

	return result
}

// SplitVariants splits raw model output into individual conclusions. Blank
// lines are dropped and list numbering is stripped from each line.
func SplitVariants(raw string) []string {
	variants := []string{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimLeft(line, "0123456789. ")
		if line == "" {
			continue
		}
		variants = append(variants, line)
	}
	return variants
}
