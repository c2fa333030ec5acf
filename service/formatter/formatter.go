// Package formatter turns query result rows into a short prose answer.
package formatter

import (
	"bealive-agent-backend/service/llm"
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

const systemPrompt = `You are the assistant of BeAlive, a platform of social activities.
You receive the rows returned by a database query as JSON, together with a description of what was queried.
Summarize the rows for the user in plain, friendly prose. Mention every row and keep names, numbers and dates exact.
Do not mention databases, queries, JSON or column names.

Query: %s`

type Formatter struct {
	llm llms.Model
}

func New(model llms.Model) *Formatter {
	return &Formatter{llm: model}
}

// Format describes rows, the result of the query described by description, in prose.
func (f *Formatter) Format(ctx context.Context, rows any, description string) (string, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("failed to marshal rows: %w", err)
	}
	return llm.Complete(ctx, f.llm, fmt.Sprintf(systemPrompt, description), "Rows: "+string(data))
}
