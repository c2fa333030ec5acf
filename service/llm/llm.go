package llm

import (
	"bealive-agent-backend/config"
	"bealive-agent-backend/utils"
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const embeddingBatchSize = 10

// New creates the chat completion client described by config.Cfg.Model.
func New() (*openai.LLM, error) {
	opts := []openai.Option{
		openai.WithModel(config.Cfg.Model.ChatModel),
		openai.WithToken(config.Cfg.Model.APIKey),
		openai.WithHTTPClient(utils.NewHTTPClient(
			utils.WithTimeout(config.Cfg.Model.Timeout),
		)),
	}
	if config.Cfg.Model.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.Cfg.Model.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}
	return client, nil
}

// NewEmbedder creates the embedder used by the similarity indexes.
func NewEmbedder() (embeddings.Embedder, error) {
	opts := []openai.Option{
		openai.WithEmbeddingModel(config.Cfg.Model.EmbeddingModel),
		openai.WithToken(config.Cfg.Model.APIKey),
		openai.WithHTTPClient(utils.DefaultHTTPClient()),
	}
	if config.Cfg.Model.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.Cfg.Model.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client,
		embeddings.WithBatchSize(embeddingBatchSize),
		embeddings.WithStripNewLines(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return embedder, nil
}

// Complete runs one deterministic system+human completion and returns the trimmed text.
func Complete(ctx context.Context, model llms.Model, system, human string, opts ...llms.CallOption) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, human),
	}

	resp, err := model.GenerateContent(ctx, messages, append([]llms.CallOption{llms.WithTemperature(0)}, opts...)...)
	if err != nil {
		return "", fmt.Errorf("llm call error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}
