package slots

import (
	"bealive-agent-backend/service/extract"
	"bealive-agent-backend/service/intent"
	"bytes"
	"context"
	"embed"
	"fmt"
	"text/template"
)

//go:embed prompts/slots.txt
var promptFS embed.FS

var slotTemplates = template.Must(template.ParseFS(promptFS, "prompts/slots.txt"))

// Stage performs the coarse, intent-conditioned extraction of a turn.
type Stage struct {
	extractor *extract.Extractor
}

func NewStage(extractor *extract.Extractor) *Stage {
	return &Stage{extractor: extractor}
}

// Extract returns the payload for in. The current utterance takes priority over history.
func (s *Stage) Extract(ctx context.Context, in intent.Intent, utterance, history string) (Payload, error) {
	instructions, err := render(in, history)
	if err != nil {
		return nil, err
	}
	task := extract.Task{
		Name:         "slots_" + in.String(),
		Instructions: instructions,
		Input:        "User message: " + utterance,
	}

	switch in {
	case intent.CompanyInformation:
		return run[CompanyInformation](ctx, s.extractor, task)
	case intent.DeleteActivities:
		return run[DeleteActivities](ctx, s.extractor, task)
	case intent.ActivitySearch:
		return run[ActivitySearch](ctx, s.extractor, task)
	case intent.ReviewUser:
		return run[ReviewUser](ctx, s.extractor, task)
	case intent.ReviewActivity:
		return run[ReviewActivity](ctx, s.extractor, task)
	case intent.MakeReservation:
		return run[MakeReservation](ctx, s.extractor, task)
	case intent.AcceptReservation:
		return run[AcceptReservation](ctx, s.extractor, task)
	case intent.RejectReservation:
		return run[RejectReservation](ctx, s.extractor, task)
	case intent.CheckReservations:
		return run[CheckReservations](ctx, s.extractor, task)
	case intent.CheckReviews:
		return run[CheckReviews](ctx, s.extractor, task)
	case intent.CheckNumberReservations:
		return run[CheckNumberReservations](ctx, s.extractor, task)
	case intent.Chitchat:
		return run[Chitchat](ctx, s.extractor, task)
	}
	return nil, fmt.Errorf("no slot template for intent %v", in)
}

func run[T any, P interface {
	*T
	Payload
}](ctx context.Context, e *extract.Extractor, task extract.Task) (Payload, error) {
	v, err := extract.Extract[T](ctx, e, task)
	if err != nil {
		return nil, err
	}
	return P(&v), nil
}

func render(in intent.Intent, history string) (string, error) {
	data := struct {
		Intent  string
		History string
	}{
		Intent:  in.String(),
		History: history,
	}

	var buf bytes.Buffer
	if err := slotTemplates.ExecuteTemplate(&buf, "header", data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	if err := slotTemplates.ExecuteTemplate(&buf, in.String(), data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", in, err)
	}
	return buf.String(), nil
}
