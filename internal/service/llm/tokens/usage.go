package tokens

import (
	"unicode/utf8"
)

// Models maps Gemini model names to pricing and context information
var Models = map[string]ModelInfo{
	"gemini-1.5-flash": {
		TokensPerPromptDollar: 1000.0 / 0.00035, // $0.00035 per 1K input tokens
		TokensPerOutputDollar: 1000.0 / 0.00105, // $0.00105 per 1K output tokens
		MaxContextTokens:      1000000,
		Name:                  "gemini-1.5-flash",
	},
	"gemini-1.5-pro": {
		TokensPerPromptDollar: 1000.0 / 0.00350, // $0.0035 per 1K input tokens
		TokensPerOutputDollar: 1000.0 / 0.01050, // $0.0105 per 1K output tokens
		MaxContextTokens:      2000000,
		Name:                  "gemini-1.5-pro",
	},
	"gemini-pro": {
		TokensPerPromptDollar: 1000.0 / 0.000125,
		TokensPerOutputDollar: 1000.0 / 0.000375,
		MaxContextTokens:      32760,
		Name:                  "gemini-pro",
	},
}

// fallbackModel prices models missing from Models
const fallbackModel = "gemini-1.5-flash"

// ModelInfo contains pricing information for a model
type ModelInfo struct {
	TokensPerPromptDollar float64 // Tokens per dollar for input
	TokensPerOutputDollar float64 // Tokens per dollar for output
	MaxContextTokens      int     // Maximum context length
	Name                  string  // Model name
}

// Usage is the estimated token usage and cost of one generation
type Usage struct {
	Model            string
	PromptTokens     int
	CompletionTokens int
	PromptCost       float64
	CompletionCost   float64
}

// TotalCost returns the combined prompt and completion cost in dollars
func (u Usage) TotalCost() float64 {
	return u.PromptCost + u.CompletionCost
}

// Lookup returns the information for model, falling back to gemini-1.5-flash
func Lookup(model string) ModelInfo {
	if info, ok := Models[model]; ok {
		return info
	}
	return Models[fallbackModel]
}

// EstimateTokens estimates the number of tokens in a string.
// Roughly 4 characters per token; non-empty text counts as at least one token.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	if n < 4 {
		return 1
	}
	return n / 4
}

// Estimate returns the estimated usage of sending prompt to model and receiving completion
func Estimate(model, prompt, completion string) Usage {
	info := Lookup(model)
	usage := Usage{
		Model:            model,
		PromptTokens:     EstimateTokens(prompt),
		CompletionTokens: EstimateTokens(completion),
	}
	usage.PromptCost = float64(usage.PromptTokens) / info.TokensPerPromptDollar
	usage.CompletionCost = float64(usage.CompletionTokens) / info.TokensPerOutputDollar
	return usage
}

// FitsContext reports whether prompt leaves reserve tokens of model context for the output
func FitsContext(model, prompt string, reserve int) bool {
	return EstimateTokens(prompt)+reserve <= Lookup(model).MaxContextTokens
}
