// Package llmtest provides a scripted llms.Model for tests.
package llmtest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// ErrNoRule is returned when no rule matches a prompt.
var ErrNoRule = errors.New("llmtest: no rule matches prompt")

type rule struct {
	contains []string
	reply    func(prompt string) (string, error)
	once     bool
	used     bool
}

// Model answers prompts by the first rule whose substrings all appear in the prompt.
type Model struct {
	mu    sync.Mutex
	rules []*rule
	calls []string
}

var _ llms.Model = (*Model)(nil)

func New() *Model {
	return &Model{}
}

// On replies with reply whenever every substring in contains appears in the prompt.
func (m *Model) On(reply string, contains ...string) *Model {
	return m.OnFunc(func(string) (string, error) { return reply, nil }, contains...)
}

// Once is like On but the rule is consumed by its first match.
func (m *Model) Once(reply string, contains ...string) *Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, &rule{
		contains: contains,
		reply:    func(string) (string, error) { return reply, nil },
		once:     true,
	})
	return m
}

// Fail returns err whenever every substring in contains appears in the prompt.
func (m *Model) Fail(err error, contains ...string) *Model {
	return m.OnFunc(func(string) (string, error) { return "", err }, contains...)
}

func (m *Model) OnFunc(reply func(prompt string) (string, error), contains ...string) *Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, &rule{contains: contains, reply: reply})
	return m
}

// Calls returns every prompt received so far.
func (m *Model) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallsContaining counts the prompts that contain substr.
func (m *Model) CallsContaining(substr string) int {
	n := 0
	for _, c := range m.Calls() {
		if strings.Contains(c, substr) {
			n++
		}
	}
	return n
}

func (m *Model) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				sb.WriteString(text.Text)
				sb.WriteString("\n")
			}
		}
	}
	prompt := sb.String()

	m.mu.Lock()
	m.calls = append(m.calls, prompt)
	var matched *rule
	for _, r := range m.rules {
		if r.once && r.used {
			continue
		}
		if containsAll(prompt, r.contains) {
			matched = r
			r.used = true
			break
		}
	}
	m.mu.Unlock()

	if matched == nil {
		return nil, fmt.Errorf("%w: %.120q", ErrNoRule, prompt)
	}
	reply, err := matched.reply(prompt)
	if err != nil {
		return nil, err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: reply}},
	}, nil
}

func (m *Model) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
