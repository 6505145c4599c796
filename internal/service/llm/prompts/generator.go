package prompts

import (
	"fmt"
	"strings"

	"github.com/chynybekuuludastan/conclusion_generator/internal/service/llm"
)

// Generator creates prompts for LLM services
type Generator struct{}

// NewGenerator creates a new prompt generator
func NewGenerator() *Generator {
	return &Generator{}
}

// ConclusionPrompt renders the conclusion instruction for request.
//
// All fields are substituted verbatim, without escaping. NumVariants is not
// clamped; range checks belong to the caller. The result depends only on the
// request, and the request is not modified.
func (g *Generator) ConclusionPrompt(request llm.GenerationRequest) string {
	var sb strings.Builder

	audience := request.Audience
	if audience == "" {
		audience = noAudience
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Generate %d different conclusion variants for the article below.\n\n", request.NumVariants))

	sb.WriteString("Rules:\n")
	sb.WriteString("- Keep each conclusion cohesive and self-contained.\n")
	sb.WriteString(fmt.Sprintf("- Match tone: %s.\n", request.Tone))
	sb.WriteString(fmt.Sprintf("- Write in: %s.\n", request.Language))
	sb.WriteString(fmt.Sprintf("- If target audience is provided, mention or imply it: %s.\n", audience))
	sb.WriteString("- Encourage reader action when appropriate (subscribe, share, comment, explore next steps).\n")
	sb.WriteString("- Be SEO-aware but natural; avoid keyword stuffing.\n")
	sb.WriteString("- Avoid repeating the same phrasing across variants.\n")
	sb.WriteString("- Do not copy from competitor snippets.\n\n")

	sb.WriteString(fmt.Sprintf("Length guidance: %s.\n\n", request.LengthHint))

	sb.WriteString(fmt.Sprintf("Article title (optional): %s\n", request.Title))
	sb.WriteString("Article content (if provided):\n")
	sb.WriteString(request.Content)
	sb.WriteString("\n\n")

	sb.WriteString(CompetitorSection)
	sb.WriteString("\n")
	sb.WriteString(strings.Join(request.CompetitorSnippets, "\n"))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Only list the %d conclusions, one per line or numbered list. Do not add anything else.\n", request.NumVariants))

	return sb.String()
}
