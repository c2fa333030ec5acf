package chatbot

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed prompts/handlers.txt
var promptFS embed.FS

var prompts = template.Must(template.ParseFS(promptFS, "prompts/handlers.txt"))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}
