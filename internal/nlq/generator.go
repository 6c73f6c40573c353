// Package nlq converts natural-language questions into candidate SQL
// statements using a text-generation capability, and produces plain-language
// explanations and improvement suggestions for finished queries.
package nlq

import (
	"context"
	"fmt"
	"strings"

	"github.com/askdb/askdb/internal/errors"
	"github.com/askdb/askdb/internal/llm"
	"github.com/askdb/askdb/internal/logging"
)

// DefaultResultLimit is the cap applied when the user's question doesn't
// bound the result set.
const DefaultResultLimit = 100

// Generator turns user questions into SQL candidates. A nil llm.Generator
// means the capability is unconfigured; GenerateSQL reports that as a config
// error before any call is attempted.
type Generator struct {
	gen          llm.Generator
	dialect      string
	defaultLimit int
}

// NewGenerator creates a query generator targeting the given SQL dialect.
func NewGenerator(gen llm.Generator, dialect string, defaultLimit int) *Generator {
	if defaultLimit <= 0 {
		defaultLimit = DefaultResultLimit
	}

	return &Generator{gen: gen, dialect: dialect, defaultLimit: defaultLimit}
}

// sqlPromptTemplate encodes the generation contract: statement only, explicit
// joins, full-row projection for named entities, bounded result sets, and
// worked aggregation examples to bias GROUP BY/HAVING usage.
// Substitutions: dialect, schema, limit x3, dialect, utterance.
const sqlPromptTemplate = `You are an expert SQL developer. Convert the following natural language query to a valid %[1]s SQL query.

Database Schema Information:
%[2]s

IMPORTANT RULES:
1. Return ONLY the SQL query, no explanations, no markdown formatting, no code blocks
2. Use proper %[1]s syntax
3. For queries involving counts or aggregations, use appropriate GROUP BY and HAVING clauses
4. Always use INNER JOIN, LEFT JOIN, or RIGHT JOIN explicitly - never implicit joins
5. Use table aliases for joins (c for customers, o for orders, and so on)
6. Use table and column names exactly as shown in the schema
7. When the question does not bound the result set, add LIMIT %[3]d

EXAMPLES OF COMPLEX QUERIES:
- "customers who ordered exactly once": SELECT c.* FROM customers c INNER JOIN (SELECT customer_id FROM orders GROUP BY customer_id HAVING COUNT(*) = 1) single_orders ON c.id = single_orders.customer_id LIMIT %[3]d;
- "customers with most orders": SELECT c.*, COUNT(o.id) AS order_count FROM customers c LEFT JOIN orders o ON c.id = o.customer_id GROUP BY c.id ORDER BY order_count DESC LIMIT 10;
- "customer information for those who ordered only one thing": SELECT c.* FROM customers c INNER JOIN (SELECT customer_id FROM orders GROUP BY customer_id HAVING COUNT(*) = 1) single_orders ON c.id = single_orders.customer_id LIMIT %[3]d;

IMPORTANT: When asked about a named entity, return its full rows (c.* or customers.*), not just its key column.

Natural Language Query: "%[4]s"

Generate the SQL query:`

// GenerateSQL converts a natural-language question into a SQL candidate.
//
// The returned text is a candidate, not a verified statement: it has had
// markdown fences stripped but receives no SQL validation, dialect
// rewriting, or injection sanitization. Executing it is the caller's
// decision.
func (g *Generator) GenerateSQL(ctx context.Context, utterance, formattedSchema string) (string, error) {
	if g.gen == nil {
		return "", errors.NewUnconfiguredError()
	}

	prompt := fmt.Sprintf(sqlPromptTemplate, g.dialect, formattedSchema, g.defaultLimit, utterance)

	raw, err := g.gen.GenerateText(ctx, prompt)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrTypeGeneration, "failed to generate SQL")
	}

	candidate := StripFences(raw)
	logging.Debugf("generated SQL candidate for question: %.50s", utterance)

	return candidate, nil
}

// fence markers the strip rules know about, in match order: the tagged
// variant must be tried before the plain one.
var leadingFences = []string{"```sql", "```"}

const trailingFence = "```"

// StripFences removes markdown code-fence artifacts from generation output.
// It tolerates any subset of the markers being absent and does nothing else:
// the remaining text is returned verbatim apart from whitespace trimming.
func StripFences(s string) string {
	s = strings.TrimSpace(s)

	for _, fence := range leadingFences {
		if strings.HasPrefix(s, fence) {
			s = s[len(fence):]
			break
		}
	}

	s = strings.TrimSuffix(s, trailingFence)

	return strings.TrimSpace(s)
}
