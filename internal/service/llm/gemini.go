package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultModel is the Gemini model used when none is configured
const DefaultModel = "gemini-1.5-flash"

// SamplingConfig holds the generation parameters sent with every call
type SamplingConfig struct {
	Temperature     float32
	TopP            float32
	TopK            int32
	MaxOutputTokens int32
}

// DefaultSampling is the fixed sampling policy for conclusion generation
var DefaultSampling = SamplingConfig{
	Temperature:     0.6,
	TopP:            0.3,
	TopK:            1,
	MaxOutputTokens: 1024,
}

// RetryPolicy bounds the attempts made by GeminiClient.Generate
type RetryPolicy struct {
	MaxAttempts uint
	MinWait     time.Duration
	MaxWait     time.Duration
}

// DefaultRetryPolicy allows 6 attempts with a random exponential wait between 1s and 60s
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 6,
	MinWait:     1 * time.Second,
	MaxWait:     60 * time.Second,
}

// Completion is the text-bearing part of a provider response. StatusCode is
// set by providers that expose an HTTP-like status and is zero otherwise.
type Completion struct {
	Text       string
	StatusCode int
}

// Model performs a single generation call against a configured provider model
type Model interface {
	Complete(ctx context.Context, prompt string) (*Completion, error)
	Close() error
}

// Dialer configures a provider model for one attempt
type Dialer func(ctx context.Context, apiKey, modelName string, sampling SamplingConfig) (Model, error)

// GeminiClient sends prompts to Gemini with bounded retries
type GeminiClient struct {
	modelName string
	sampling  SamplingConfig
	retry     RetryPolicy
	dial      Dialer
	jitter    func() float64
	logger    Logger
	reporter  ErrorReporter
}

// GeminiOption configures a GeminiClient
type GeminiOption func(*GeminiClient)

// WithModelName overrides the Gemini model name
func WithModelName(name string) GeminiOption {
	return func(c *GeminiClient) {
		if name != "" {
			c.modelName = name
		}
	}
}

// WithRetryPolicy overrides the retry bounds
func WithRetryPolicy(policy RetryPolicy) GeminiOption {
	return func(c *GeminiClient) {
		c.retry = policy
	}
}

// WithDialer replaces the function used to configure the provider model
func WithDialer(dial Dialer) GeminiOption {
	return func(c *GeminiClient) {
		c.dial = dial
	}
}

// WithLogger sets the logger
func WithLogger(logger Logger) GeminiOption {
	return func(c *GeminiClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithErrorReporter sets the reporter used when the call context carries none
func WithErrorReporter(reporter ErrorReporter) GeminiOption {
	return func(c *GeminiClient) {
		c.reporter = reporter
	}
}

// NewGeminiClient creates a new Gemini client. Credentials are resolved per call.
func NewGeminiClient(opts ...GeminiOption) *GeminiClient {
	c := &GeminiClient{
		modelName: DefaultModel,
		sampling:  DefaultSampling,
		retry:     DefaultRetryPolicy,
		dial:      DialGemini,
		jitter:    rand.Float64,
		logger:    &DefaultLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retry.MaxAttempts == 0 {
		c.retry.MaxAttempts = DefaultRetryPolicy.MaxAttempts
	}
	return c
}

// Generate sends prompt to Gemini and classifies the outcome.
//
// A missing key is reported and returned as StatusFailed without any attempt.
// A rate limit or quota signal ends the call with StatusRateLimited. Other faults
// are reported and retried until the policy is exhausted.
func (c *GeminiClient) Generate(ctx context.Context, prompt, apiKey string) GenerationResult {
	reporter := reporterFrom(ctx, c.reporter)

	key := ResolveAPIKey(apiKey, GeminiAPIKeyEnv)
	if key == "" {
		err := fmt.Errorf("%w: provide a Gemini API key or set %s", ErrMissingCredential, GeminiAPIKeyEnv)
		c.logger.Error("Gemini API key is missing")
		reporter.Report(ctx, err)
		return failedResult(err, 0)
	}

	attempts := 0
	operation := func() (GenerationResult, error) {
		attempts++
		result, err := c.attempt(ctx, key, prompt)
		if err != nil {
			c.logger.Error("Gemini API request failed",
				"error", err,
				"attempt", attempts,
				"model", c.modelName)
			reporter.Report(ctx, fmt.Errorf("failed to get response from Gemini: %w", err))
			return GenerationResult{}, err
		}
		return result, nil
	}

	result, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(&jitterBackOff{policy: c.retry, jitter: c.jitter}),
		backoff.WithMaxTries(c.retry.MaxAttempts),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.logger.Info("Retrying Gemini API request",
				"attempt", attempts+1,
				"wait", wait,
				"model", c.modelName)
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return failedResult(fmt.Errorf("%w: %v", ErrAPIRequestFailed, err), attempts)
		}
		return failedResult(fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempts, err), attempts)
	}

	result.Attempts = attempts
	if result.RateLimited() {
		c.logger.Info("Gemini rate limit or quota reached", "attempt", attempts)
	} else {
		c.logger.Info("Generated content successfully",
			"model", c.modelName,
			"attempts", attempts,
			"length", len(result.Text))
	}
	return result
}

// attempt configures the model and performs one call. A nil error means the
// result is final, including the rate limited case.
func (c *GeminiClient) attempt(ctx context.Context, apiKey, prompt string) (GenerationResult, error) {
	model, err := c.dial(ctx, apiKey, c.modelName, c.sampling)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("failed to configure Gemini: %w", err)
	}
	defer model.Close()

	c.logger.Debug("Sending prompt to Gemini", "prompt_length", len(prompt))

	completion, err := model.Complete(ctx, prompt)
	if err != nil {
		if isRateLimitError(err) {
			return rateLimitedResult(err, 0), nil
		}
		return GenerationResult{}, err
	}
	if completion == nil {
		return GenerationResult{}, ErrEmptyResponse
	}
	if completion.StatusCode == http.StatusTooManyRequests || IsRateLimitText(completion.Text) {
		return rateLimitedResult(nil, 0), nil
	}
	return okResult(completion.Text, 0), nil
}

func isRateLimitError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	return IsRateLimitText(err.Error())
}

// jitterBackOff waits a random duration in [MinWait, min(MaxWait, MinWait*2^(n-1))]
// before retry n.
type jitterBackOff struct {
	policy RetryPolicy
	jitter func() float64
	n      int
}

func (b *jitterBackOff) Reset() {
	b.n = 0
}

func (b *jitterBackOff) NextBackOff() time.Duration {
	b.n++
	low, high := b.policy.MinWait, b.policy.MaxWait
	if low <= 0 {
		return 0
	}
	ceiling := low
	for i := 1; i < b.n && ceiling < high; i++ {
		ceiling *= 2
	}
	if ceiling > high {
		ceiling = high
	}
	if ceiling <= low {
		return low
	}
	return low + time.Duration(b.jitter()*float64(ceiling-low))
}

type geminiModel struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// DialGemini creates a Gemini model for apiKey with the given sampling parameters
func DialGemini(ctx context.Context, apiKey, modelName string, sampling SamplingConfig) (Model, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(sampling.Temperature)
	model.SetTopP(sampling.TopP)
	model.SetTopK(sampling.TopK)
	model.SetMaxOutputTokens(sampling.MaxOutputTokens)

	return &geminiModel{client: client, model: model}, nil
}

func (m *geminiModel) Complete(ctx context.Context, prompt string) (*Completion, error) {
	resp, err := m.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return nil, fmt.Errorf("%w: prompt blocked: %s", ErrEmptyResponse, resp.PromptFeedback.BlockReason)
		}
		return nil, ErrEmptyResponse
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			text += string(textPart)
		}
	}

	return &Completion{Text: text}, nil
}

func (m *geminiModel) Close() error {
	return m.client.Close()
}
