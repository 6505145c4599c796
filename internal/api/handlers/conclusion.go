package handlers

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/chynybekuuludastan/conclusion_generator/internal/service/conclusion"
	"github.com/chynybekuuludastan/conclusion_generator/internal/service/llm"
)

// User-facing messages
const (
	msgGeminiRateLimited = "Gemini API rate limit or quota exceeded. Try later or use a different key."
	msgSerperRateLimited = "Serper API rate limit or quota exceeded. Try later or use a different key."
	msgGenerationFailed  = "Failed to generate conclusions. Please try again."
)

// Defaults applied to omitted request fields
const (
	defaultTone        = llm.ToneNeutral
	defaultLanguage    = "English"
	defaultLength      = llm.LengthMedium
	defaultNumVariants = 3
)

// ConclusionHandler handles conclusion generation requests
type ConclusionHandler struct {
	Service  *conclusion.Service
	validate *validator.Validate
}

// NewConclusionHandler creates a new conclusion handler
func NewConclusionHandler(service *conclusion.Service) *ConclusionHandler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ConclusionHandler{
		Service:  service,
		validate: validate,
	}
}

// ConclusionRequest represents a request for article conclusions
type ConclusionRequest struct {
	Title        string `json:"title" validate:"required_without=Content" example:"10 AI Tools That Transform Digital Marketing"`
	Content      string `json:"content" validate:"required_without=Title" example:"Full article body..."`
	Tone         string `json:"tone" example:"Neutral"`
	Audience     string `json:"audience" example:"for Marketers"`
	Language     string `json:"language" example:"English"`
	NumVariants  *int   `json:"num_variants" validate:"omitempty,min=1,max=10" example:"3"`
	Length       string `json:"length" example:"Medium (3-5 sentences)"`
	SerperAPIKey string `json:"serper_api_key,omitempty"`
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`
}

// SnippetRequest represents a request for competitor snippets
type SnippetRequest struct {
	Query        string `json:"query" validate:"required" example:"10 AI Tools That Transform Digital Marketing"`
	SerperAPIKey string `json:"serper_api_key,omitempty"`
}

// ConclusionData is the data part of a successful conclusion response
type ConclusionData struct {
	ID                  string   `json:"id" example:"1f0c5c9e-7c3e-4a55-9d8b-2f4c8f1b6f11"`
	Status              string   `json:"status" example:"ok"`
	Raw                 string   `json:"raw"`
	Variants            []string `json:"variants"`
	Snippets            []string `json:"snippets"`
	SnippetsRateLimited bool     `json:"snippets_rate_limited"`
	Warnings            []string `json:"warnings,omitempty"`
}

// ConclusionResponse represents the conclusion generation response
type ConclusionResponse struct {
	Success bool           `json:"success" example:"true"`
	Data    ConclusionData `json:"data"`
}

// SnippetData is the data part of a snippet response
type SnippetData struct {
	Snippets    []string `json:"snippets"`
	RateLimited bool     `json:"rate_limited"`
}

// SnippetResponse represents the competitor snippet response
type SnippetResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    SnippetData `json:"data"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success  bool     `json:"success" example:"false"`
	Error    string   `json:"error" example:"Something went wrong"`
	Code     string   `json:"code,omitempty" example:"rate_limited"`
	Warnings []string `json:"warnings,omitempty"`
}

// errorCollector gathers the failures reported during one request
type errorCollector struct {
	mu       sync.Mutex
	messages []string
}

func (e *errorCollector) Report(_ context.Context, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.messages = append(e.messages, err.Error())
}

func (e *errorCollector) list() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.messages))
	copy(out, e.messages)
	return out
}

// @Summary Generate article conclusions
// @Description Fetch competitor snippets for the title and generate conclusion variants with Gemini
// @Tags conclusions
// @Accept json
// @Produce json
// @Param request body handlers.ConclusionRequest true "Article and generation settings"
// @Success 200 {object} handlers.ConclusionResponse "Generated conclusions"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request or missing API key"
// @Failure 429 {object} handlers.ErrorResponse "Provider rate limit or quota exceeded"
// @Failure 502 {object} handlers.ErrorResponse "Generation failed"
// @Router /conclusions [post]
func (h *ConclusionHandler) GenerateConclusions(c *fiber.Ctx) error {
	req := new(ConclusionRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: validationMessage(err),
			Code:  "invalid_request",
		})
	}

	request := req.toGenerationRequest()
	if err := request.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: err.Error(),
			Code:  "invalid_request",
		})
	}

	collector := &errorCollector{}
	ctx := llm.WithReporter(c.UserContext(), collector)

	var warnings []string
	snippets := []string{}
	snippetsRateLimited := false
	if strings.TrimSpace(request.Title) != "" {
		result := h.Service.Snippets(ctx, request.Title, req.SerperAPIKey)
		if result.RateLimited {
			snippetsRateLimited = true
			warnings = append(warnings, msgSerperRateLimited)
		} else {
			snippets = result.Snippets
		}
	}
	request.CompetitorSnippets = snippets

	result := h.Service.Generate(ctx, request, req.GeminiAPIKey)
	warnings = append(warnings, collector.list()...)

	switch result.Status {
	case llm.StatusRateLimited:
		return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
			Error:    msgGeminiRateLimited,
			Code:     "rate_limited",
			Warnings: warnings,
		})
	case llm.StatusFailed:
		status := fiber.StatusBadGateway
		code := "generation_failed"
		if errors.Is(result.Err, llm.ErrMissingCredential) {
			status = fiber.StatusBadRequest
			code = "missing_credential"
		}
		return c.Status(status).JSON(ErrorResponse{
			Error:    msgGenerationFailed,
			Code:     code,
			Warnings: warnings,
		})
	}

	if strings.TrimSpace(result.Text) == "" {
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error:    msgGenerationFailed,
			Code:     "empty_response",
			Warnings: warnings,
		})
	}

	return c.JSON(ConclusionResponse{
		Success: true,
		Data: ConclusionData{
			ID:                  uuid.New().String(),
			Status:              result.Status.String(),
			Raw:                 result.Text,
			Variants:            conclusion.SplitVariants(result.Text),
			Snippets:            snippets,
			SnippetsRateLimited: snippetsRateLimited,
			Warnings:            warnings,
		},
	})
}

// @Summary Fetch competitor snippets
// @Description Search Google through Serper and return up to 10 competitor snippets
// @Tags conclusions
// @Accept json
// @Produce json
// @Param request body handlers.SnippetRequest true "Search query"
// @Success 200 {object} handlers.SnippetResponse "Competitor snippets"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Router /snippets [post]
func (h *ConclusionHandler) GetSnippets(c *fiber.Ctx) error {
	req := new(SnippetRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: validationMessage(err),
			Code:  "invalid_request",
		})
	}

	result := h.Service.Snippets(c.UserContext(), req.Query, req.SerperAPIKey)
	snippets := result.Snippets
	if snippets == nil {
		snippets = []string{}
	}

	return c.JSON(SnippetResponse{
		Success: true,
		Data: SnippetData{
			Snippets:    snippets,
			RateLimited: result.RateLimited,
		},
	})
}

func (r *ConclusionRequest) toGenerationRequest() llm.GenerationRequest {
	request := llm.GenerationRequest{
		Title:       r.Title,
		Content:     r.Content,
		Tone:        r.Tone,
		Audience:    r.Audience,
		Language:    r.Language,
		NumVariants: defaultNumVariants,
		LengthHint:  r.Length,
	}

	if request.Tone == "" {
		request.Tone = defaultTone
	}
	if request.Language == "" {
		request.Language = defaultLanguage
	}
	if request.LengthHint == "" {
		request.LengthHint = defaultLength
	}
	if r.NumVariants != nil {
		request.NumVariants = *r.NumVariants
	}

	return request
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		switch fe.Tag() {
		case "required_without":
			messages = append(messages, "provide either content or a title")
		case "min", "max":
			messages = append(messages, fe.Field()+" must be between 1 and 10")
		default:
			messages = append(messages, fe.Field()+" is "+fe.Tag())
		}
	}

	return strings.Join(uniqueStrings(messages), "; ")
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
