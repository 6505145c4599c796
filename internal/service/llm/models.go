package llm

import (
	"errors"
	"fmt"
	"strings"
)

// Tone values offered to callers. Any non-empty string is accepted by the prompt builder.
const (
	ToneNeutral      = "Neutral"
	ToneConfident    = "Confident"
	ToneFriendly     = "Friendly"
	ToneProfessional = "Professional"
	TonePersuasive   = "Persuasive"
	ToneEducational  = "Educational"
)

// Length hints offered to callers.
const (
	LengthShort  = "Short (1-2 sentences)"
	LengthMedium = "Medium (3-5 sentences)"
	LengthLong   = "Long (1-2 paragraphs)"
)

// Bounds for the number of requested conclusion variants.
const (
	MinVariants = 1
	MaxVariants = 10
)

// GenerationRequest represents one request for article conclusions
type GenerationRequest struct {
	Title              string   `json:"title,omitempty"`               // Optional article title
	Content            string   `json:"content,omitempty"`             // Optional article body
	Tone               string   `json:"tone"`                          // Desired tone
	Audience           string   `json:"audience,omitempty"`            // Optional target audience
	Language           string   `json:"language"`                      // Output language
	NumVariants        int      `json:"num_variants"`                  // Number of variants to ask for
	LengthHint         string   `json:"length"`                        // Length guidance
	CompetitorSnippets []string `json:"competitor_snippets,omitempty"` // Context from search results
}

// Validate checks the caller-level preconditions of a request. The prompt builder
// itself never calls this and renders whatever it is given.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" && strings.TrimSpace(r.Content) == "" {
		return fmt.Errorf("%w: provide either content or a title", ErrInvalidRequest)
	}
	if r.NumVariants < MinVariants || r.NumVariants > MaxVariants {
		return fmt.Errorf("%w: num_variants must be between %d and %d, got %d",
			ErrInvalidRequest, MinVariants, MaxVariants, r.NumVariants)
	}
	return nil
}

// Status tags the outcome of a generation call
type Status int

const (
	// StatusFailed means no usable text was produced
	StatusFailed Status = iota
	// StatusOK means Text holds the provider's payload
	StatusOK
	// StatusRateLimited means the provider rejected the call for quota or throughput reasons
	StatusRateLimited
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusRateLimited:
		return "rate_limited"
	default:
		return "failed"
	}
}

// GenerationResult is the tagged outcome of GeminiClient.Generate
type GenerationResult struct {
	Status   Status
	Text     string
	Err      error
	Attempts int
}

// OK reports whether the result carries provider text
func (r GenerationResult) OK() bool {
	return r.Status == StatusOK
}

// RateLimited reports whether the provider signalled a quota or rate limit
func (r GenerationResult) RateLimited() bool {
	return r.Status == StatusRateLimited
}

// Error returns the error describing a non-OK result, nil for successful ones
func (r GenerationResult) Error() error {
	switch r.Status {
	case StatusOK:
		return nil
	case StatusRateLimited:
		if r.Err != nil {
			return r.Err
		}
		return ErrRateLimitExceeded
	default:
		if r.Err != nil {
			return r.Err
		}
		return ErrAPIRequestFailed
	}
}

func okResult(text string, attempts int) GenerationResult {
	return GenerationResult{Status: StatusOK, Text: text, Attempts: attempts}
}

func rateLimitedResult(err error, attempts int) GenerationResult {
	if err == nil {
		err = ErrRateLimitExceeded
	} else if !errors.Is(err, ErrRateLimitExceeded) {
		err = fmt.Errorf("%w: %v", ErrRateLimitExceeded, err)
	}
	return GenerationResult{Status: StatusRateLimited, Err: err, Attempts: attempts}
}

func failedResult(err error, attempts int) GenerationResult {
	return GenerationResult{Status: StatusFailed, Err: err, Attempts: attempts}
}
