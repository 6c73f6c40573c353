package nlq

import (
	"context"
	"fmt"
	"strings"

	"github.com/askdb/askdb/internal/logging"
)

// Fixed messages returned when the generation capability is unconfigured.
// Explanation and advice are conveniences; their absence never blocks query
// execution, so these paths degrade to text instead of failing.
const (
	explainUnavailable = "Query explanation unavailable (no text-generation provider configured)"
	adviceUnavailable  = "Query improvement suggestions unavailable (no text-generation provider configured)"
)

const explainPromptTemplate = `Explain what this SQL query does in simple, non-technical terms:

%s

Provide a clear, concise explanation that a business user would understand.`

const advisePromptTemplate = `Analyze this SQL query and suggest improvements for performance, readability, or best practices:

%s

Provide specific, actionable suggestions.`

// Explain returns a plain-language description of a query. It never returns
// an error: capability failures become a message embedding the reason.
func (g *Generator) Explain(ctx context.Context, query string) string {
	if g.gen == nil {
		return explainUnavailable
	}

	response, err := g.gen.GenerateText(ctx, fmt.Sprintf(explainPromptTemplate, query))
	if err != nil {
		logging.ErrorWithErr("failed to explain query", err)
		return fmt.Sprintf("Could not explain query: %v", err)
	}

	return strings.TrimSpace(response)
}

// Advise returns improvement suggestions for a query. Same degradation
// contract as Explain.
func (g *Generator) Advise(ctx context.Context, query string) string {
	if g.gen == nil {
		return adviceUnavailable
	}

	response, err := g.gen.GenerateText(ctx, fmt.Sprintf(advisePromptTemplate, query))
	if err != nil {
		logging.ErrorWithErr("failed to generate suggestions", err)
		return fmt.Sprintf("Could not generate suggestions: %v", err)
	}

	return strings.TrimSpace(response)
}
