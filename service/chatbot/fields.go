package chatbot

import (
	"bealive-agent-backend/service/extract"
	"context"
)

// Narrow second-pass extractions run over a payload's description.

type searchInfo struct {
	City           *string `json:"city" jsonschema:"nullable"`
	DateRangeStart *string `json:"date_range_start" jsonschema:"nullable" validate:"omitnil,datetime=2006-01-02"`
	DateRangeEnd   *string `json:"date_range_end" jsonschema:"nullable" validate:"omitnil,datetime=2006-01-02"`
}

type ratingValue struct {
	Rating int `json:"rating" jsonschema_description:"integer rating from 1 to 5, or -1 when none was given" validate:"oneof=-1 1 2 3 4 5"`
}

type reviewText struct {
	Review string `json:"review" validate:"required"`
}

type reservationMessage struct {
	Message string `json:"message"`
}

func extractField[T any](ctx context.Context, e *extract.Extractor, name string, data any, input string) (T, error) {
	instructions, err := render(name, data)
	if err != nil {
		var zero T
		return zero, err
	}
	return extract.Extract[T](ctx, e, extract.Task{
		Name:         name,
		Instructions: instructions,
		Input:        input,
	})
}

func (h *Handlers) searchInfo(ctx context.Context, description string) (searchInfo, error) {
	data := struct{ Today string }{Today: h.now().Format(dateLayout)}
	return extractField[searchInfo](ctx, h.extractor, "search_info", data, description)
}

func (h *Handlers) rating(ctx context.Context, description string) (int, error) {
	out, err := extractField[ratingValue](ctx, h.extractor, "rating", nil, description)
	return out.Rating, err
}

func (h *Handlers) reviewText(ctx context.Context, description string) (string, error) {
	out, err := extractField[reviewText](ctx, h.extractor, "review", nil, description)
	return out.Review, err
}

func (h *Handlers) reservationMessage(ctx context.Context, description string) (string, error) {
	out, err := extractField[reservationMessage](ctx, h.extractor, "message", nil, description)
	return out.Message, err
}
