package session

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/tmc/langchaingo/llms"
)

//go:embed prompts/summary.txt
var summaryPrompt string

var summaryTemplate = template.Must(template.New("summary").Parse(summaryPrompt))

// Summarizer regenerates the running summary from the prior summary and one new turn.
type Summarizer interface {
	Summarize(ctx context.Context, prior string, turn Turn) (string, error)
}

type LLMSummarizer struct {
	llm llms.Model
}

var _ Summarizer = (*LLMSummarizer)(nil)

func NewLLMSummarizer(llm llms.Model) *LLMSummarizer {
	return &LLMSummarizer{llm: llm}
}

func (s *LLMSummarizer) Summarize(ctx context.Context, prior string, turn Turn) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Summary string
		Human   string
		AI      string
	}{
		Summary: prior,
		Human:   turn.Human,
		AI:      turn.AI,
	}
	if err := summaryTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	resp, err := llms.GenerateFromSinglePrompt(ctx, s.llm, buf.String(), llms.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("llm call error: %w", err)
	}
	return strings.TrimSpace(resp), nil
}
