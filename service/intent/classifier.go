package intent

import (
	"bealive-agent-backend/service/extract"
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"text/template"
)

//go:embed prompts/classify.txt
var classifyPrompt string

var classifyTemplate = template.Must(template.New("classify").Parse(classifyPrompt))

type classification struct {
	Intent string `json:"intent" jsonschema:"enum=company_information,enum=delete_activities,enum=activity_search,enum=review_user,enum=review_activity,enum=make_reservation,enum=accept_reservation,enum=reject_reservation,enum=check_reservations,enum=check_reviews,enum=check_number_reservations,enum=chitchat" validate:"required,oneof=company_information delete_activities activity_search review_user review_activity make_reservation accept_reservation reject_reservation check_reservations check_reviews check_number_reservations chitchat"`
}

type Classifier struct {
	extractor *extract.Extractor
}

func NewClassifier(extractor *extract.Extractor) *Classifier {
	return &Classifier{extractor: extractor}
}

// Classify returns the single intent of utterance. On failure it returns Chitchat
// together with the error so callers always hold a valid intent.
func (c *Classifier) Classify(ctx context.Context, utterance, history string) (Intent, error) {
	var buf bytes.Buffer
	if err := classifyTemplate.Execute(&buf, struct{ History string }{History: history}); err != nil {
		return Chitchat, fmt.Errorf("failed to execute template: %w", err)
	}

	out, err := extract.Extract[classification](ctx, c.extractor, extract.Task{
		Name:         "classify_intent",
		Instructions: buf.String(),
		Input:        "User message: " + utterance,
	})
	if err != nil {
		return Chitchat, err
	}

	in, ok := Parse(out.Intent)
	if !ok {
		return Chitchat, &extract.Failure{Task: "classify_intent", Err: fmt.Errorf("unknown intent %q", out.Intent)}
	}
	return in, nil
}
