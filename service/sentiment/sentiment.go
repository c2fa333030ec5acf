// Package sentiment scores how positive a review text is.
package sentiment

import (
	"bealive-agent-backend/config"
	"bealive-agent-backend/service/extract"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/tmc/langchaingo/llms"
)

const positiveLabel = "POSITIVE"

var ErrNoPositiveLabel = errors.New("classifier response has no POSITIVE label")

// Scorer returns a positivity in [0,1] that grows with how positive text reads.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// New builds the scorer selected by cfg.
func New(cfg *config.Config, model llms.Model, client *http.Client) (Scorer, error) {
	switch cfg.Sentiment.Provider {
	case config.SentimentProviderLLM:
		return NewLLMScorer(extract.New(model)), nil
	case config.SentimentProviderHTTP:
		return NewHTTPScorer(client, cfg.Sentiment.Endpoint, cfg.Sentiment.Token), nil
	default:
		return nil, fmt.Errorf("unknown sentiment provider %q", cfg.Sentiment.Provider)
	}
}

func clamp(v float64) float64 {
	return min(max(v, 0), 1)
}

// HTTPScorer calls a text-classification endpoint that answers with label/score pairs.
type HTTPScorer struct {
	client   *http.Client
	endpoint string
	token    string
}

func NewHTTPScorer(client *http.Client, endpoint, token string) *HTTPScorer {
	return &HTTPScorer{client: client, endpoint: endpoint, token: token}
}

type label struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (s *HTTPScorer) Score(ctx context.Context, text string) (float64, error) {
	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return 0, err
	}

	var body []byte
	err = retry.Do(
		func() error {
			body, err = s.post(ctx, payload)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return 0, err
	}

	labels, err := parseLabels(body)
	if err != nil {
		return 0, err
	}
	for _, l := range labels {
		if strings.EqualFold(l.Label, positiveLabel) {
			return clamp(l.Score), nil
		}
	}
	return 0, ErrNoPositiveLabel
}

func (s *HTTPScorer) post(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sentiment request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read sentiment response: %w", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("sentiment endpoint returned %d: %s", resp.StatusCode, body)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, retry.Unrecoverable(fmt.Errorf("sentiment endpoint returned %d: %s", resp.StatusCode, body))
	}
	return body, nil
}

// parseLabels accepts both the flat and the batched ([[...]]) classifier response.
func parseLabels(body []byte) ([]label, error) {
	var batched [][]label
	if err := json.Unmarshal(body, &batched); err == nil && len(batched) > 0 {
		return batched[0], nil
	}
	var flat []label
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("unexpected sentiment response %q: %w", body, err)
	}
	return flat, nil
}

type positivity struct {
	Positivity float64 `json:"positivity" validate:"gte=0,lte=1" jsonschema:"minimum=0,maximum=1" jsonschema_description:"0 is entirely negative, 1 is entirely positive"`
}

const llmInstructions = `You rate the sentiment of a review written on a social activity platform.
Return how positive the review is as a number between 0 and 1.`

// LLMScorer asks the completion model for a positivity value.
type LLMScorer struct {
	extractor *extract.Extractor
}

func NewLLMScorer(extractor *extract.Extractor) *LLMScorer {
	return &LLMScorer{extractor: extractor}
}

func (s *LLMScorer) Score(ctx context.Context, text string) (float64, error) {
	out, err := extract.Extract[positivity](ctx, s.extractor, extract.Task{
		Name:         "sentiment",
		Instructions: llmInstructions,
		Input:        text,
	})
	if err != nil {
		return 0, err
	}
	return clamp(out.Positivity), nil
}
