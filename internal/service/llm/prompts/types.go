package prompts

// Heading of the context section that carries competitor snippets.
const CompetitorSection = "Competitor snippets (for context, do not copy):"

// Value rendered when no target audience is given.
const noAudience = "N/A"
