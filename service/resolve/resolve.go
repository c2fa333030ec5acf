// Package resolve maps free-text references to one id of an authorization-scoped candidate list.
package resolve

import (
	"bealive-agent-backend/model"
	"bealive-agent-backend/service/extract"
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"text/template"
)

type Kind string

const (
	KindActivity Kind = "activity"
	KindUser     Kind = "user"

	notFound = -1
)

//go:embed prompts/resolve.txt
var resolvePrompt string

var resolveTemplate = template.Must(template.New("resolve").Parse(resolvePrompt))

// Resolution is the outcome of resolving a reference. Found is false when no candidate matched.
type Resolution struct {
	ID    int64
	Found bool
}

type entityID struct {
	EntityID int64 `json:"entity_id" jsonschema_description:"id of the matching entry, or -1 when nothing matches" validate:"gte=-1"`
}

type Resolver struct {
	extractor *extract.Extractor
}

func New(extractor *extract.Extractor) *Resolver {
	return &Resolver{extractor: extractor}
}

// Resolve picks the candidate reference points to. An empty candidate list resolves to
// not-found without consulting the model, and an id outside candidates is treated as not-found.
func (r *Resolver) Resolve(ctx context.Context, kind Kind, reference string, candidates []model.Candidate) (Resolution, error) {
	if len(candidates) == 0 {
		return Resolution{}, nil
	}

	var buf bytes.Buffer
	data := struct {
		Kind       Kind
		Candidates []model.Candidate
	}{
		Kind:       kind,
		Candidates: candidates,
	}
	if err := resolveTemplate.Execute(&buf, data); err != nil {
		return Resolution{}, fmt.Errorf("failed to execute template: %w", err)
	}

	out, err := extract.Extract[entityID](ctx, r.extractor, extract.Task{
		Name:         "resolve_" + string(kind),
		Instructions: buf.String(),
		Input:        fmt.Sprintf("Reference: %s", reference),
	})
	if err != nil {
		return Resolution{}, err
	}
	if out.EntityID == notFound {
		return Resolution{}, nil
	}

	for _, c := range candidates {
		if c.ID == out.EntityID {
			return Resolution{ID: c.ID, Found: true}, nil
		}
	}
	return Resolution{}, nil
}
