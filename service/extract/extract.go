// Package extract turns natural-language input into validated structured values.
//
// Every call communicates the target JSON schema to the model, parses the reply
// against it and validates the result. Any failure is reported as a *Failure;
// nothing is retried.
package extract

import (
	"bealive-agent-backend/service/llm"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/tmc/langchaingo/llms"
)

var (
	ErrMalformedOutput = errors.New("model output is not a JSON object")
	ErrInvalidOutput   = errors.New("model output does not satisfy the schema")
)

// Failure is the uniform error of a structured extraction.
type Failure struct {
	Task string
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("extraction %q failed: %v", f.Task, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Task describes one extraction.
type Task struct {
	// Name identifies the extraction in errors and logs.
	Name string

	// Instructions is the system prompt; the schema is appended to it.
	Instructions string

	// Input is the text to extract from.
	Input string
}

type Extractor struct {
	llm      llms.Model
	validate *validator.Validate
	schemas  sync.Map // reflect.Type -> string
}

func New(model llms.Model) *Extractor {
	return &Extractor{
		llm:      model,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Model exposes the underlying completion model for free-text calls.
func (e *Extractor) Model() llms.Model {
	return e.llm
}

// Extract runs task and decodes the reply into a T.
func Extract[T any](ctx context.Context, e *Extractor, task Task) (T, error) {
	var out T

	schema, err := e.schemaOf(reflect.TypeOf(out))
	if err != nil {
		return out, &Failure{Task: task.Name, Err: err}
	}

	system := task.Instructions + formatInstructions + schema + "\n```"
	reply, err := llm.Complete(ctx, e.llm, system, task.Input, llms.WithJSONMode())
	if err != nil {
		return out, &Failure{Task: task.Name, Err: err}
	}

	body, ok := jsonObject(reply)
	if !ok {
		return out, &Failure{Task: task.Name, Err: fmt.Errorf("%w: %q", ErrMalformedOutput, reply)}
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return out, &Failure{Task: task.Name, Err: fmt.Errorf("%w: %v", ErrMalformedOutput, err)}
	}
	if err := e.validate.Struct(out); err != nil {
		return out, &Failure{Task: task.Name, Err: fmt.Errorf("%w: %v", ErrInvalidOutput, err)}
	}
	return out, nil
}

const formatInstructions = `

The output must be a single JSON object that conforms to the JSON schema below.
Use null for any nullable field whose value cannot be determined. Do not add commentary.

` + "```json\n"

func (e *Extractor) schemaOf(t reflect.Type) (string, error) {
	if s, ok := e.schemas.Load(t); ok {
		return s.(string), nil
	}
	if t == nil || t.Kind() != reflect.Struct {
		return "", fmt.Errorf("extraction target must be a struct, got %v", t)
	}

	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
		Anonymous:      true,
	}
	schema := r.ReflectFromType(t)
	schema.Version = ""
	data, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}

	s := string(data)
	e.schemas.Store(t, s)
	return s, nil
}

// jsonObject extracts the outermost JSON object from a reply that may be wrapped in
// markdown fences or prose.
func jsonObject(reply string) (string, bool) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end < start {
		return "", false
	}
	return reply[start : end+1], true
}
