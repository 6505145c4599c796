package llm

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
)

// Logger interface for service logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Common errors
var (
	ErrAPIRequestFailed  = errors.New("LLM API request failed")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrMissingCredential = errors.New("API key is missing")
	ErrRetriesExhausted  = errors.New("retry attempts exhausted")
	ErrEmptyResponse     = errors.New("empty response from LLM")
	ErrInvalidRequest    = errors.New("invalid generation request")
)

// Environment variables consulted when a caller does not pass a key explicitly.
const (
	GeminiAPIKeyEnv = "GEMINI_API_KEY"
	SerperAPIKeyEnv = "SERPER_API_KEY"
)

// DefaultLogger provides a basic implementation of the Logger interface
type DefaultLogger struct{}

func (l *DefaultLogger) Debug(msg string, keysAndValues ...interface{}) {
	log.Printf("[DEBUG] %s %v", msg, keysAndValues)
}

func (l *DefaultLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Printf("[INFO] %s %v", msg, keysAndValues)
}

func (l *DefaultLogger) Error(msg string, keysAndValues ...interface{}) {
	log.Printf("[ERROR] %s %v", msg, keysAndValues)
}

// ErrorReporter receives failures that the caller should surface to its user.
// Reporting never changes the outcome returned to the caller.
type ErrorReporter interface {
	Report(ctx context.Context, err error)
}

// ReporterFunc adapts a function to the ErrorReporter interface
type ReporterFunc func(ctx context.Context, err error)

// Report calls f(ctx, err)
func (f ReporterFunc) Report(ctx context.Context, err error) {
	f(ctx, err)
}

type nopReporter struct{}

func (nopReporter) Report(context.Context, error) {}

type reporterKey struct{}

// WithReporter returns a context carrying r. GeminiClient reports to it in
// preference to its own configured reporter, so a caller can collect the
// failures of a single call.
func WithReporter(ctx context.Context, r ErrorReporter) context.Context {
	return context.WithValue(ctx, reporterKey{}, r)
}

func reporterFrom(ctx context.Context, fallback ErrorReporter) ErrorReporter {
	if r, ok := ctx.Value(reporterKey{}).(ErrorReporter); ok && r != nil {
		return r
	}
	if fallback != nil {
		return fallback
	}
	return nopReporter{}
}

// ResolveAPIKey returns explicit when set, otherwise the value of envVar.
// An empty result means no credential is available.
func ResolveAPIKey(explicit, envVar string) string {
	if key := strings.TrimSpace(explicit); key != "" {
		return key
	}
	return strings.TrimSpace(os.Getenv(envVar))
}

// IsRateLimitText reports whether text carries a rate limit or quota marker
func IsRateLimitText(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "rate limit") || strings.Contains(lower, "quota")
}
