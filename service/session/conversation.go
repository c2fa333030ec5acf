// Package session holds per-session conversation memory: a rolling window of the most
// recent exchanges and a running summary of the whole conversation.
package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/memory"
)

// Turn is one exchange between the user and the assistant.
type Turn struct {
	Human string `json:"human"`
	AI    string `json:"ai"`
}

// State is the persisted form of a conversation.
type State struct {
	Window  []Turn `json:"window"`
	Summary string `json:"summary"`
}

// Conversation is the memory of a single session.
type Conversation struct {
	windowSize int
	history    *memory.ChatMessageHistory
	summary    string
}

func newConversation(windowSize int, state State) *Conversation {
	messages := make([]llms.ChatMessage, 0, 2*len(state.Window))
	for _, t := range state.Window {
		messages = append(messages,
			llms.HumanChatMessage{Content: t.Human},
			llms.AIChatMessage{Content: t.AI},
		)
	}
	return &Conversation{
		windowSize: windowSize,
		history:    memory.NewChatMessageHistory(memory.WithPreviousMessages(messages)),
		summary:    state.Summary,
	}
}

func (c *Conversation) Summary() string {
	return c.summary
}

// Window returns the retained exchanges, oldest first.
func (c *Conversation) Window(ctx context.Context) ([]Turn, error) {
	messages, err := c.history.Messages(ctx)
	if err != nil {
		return nil, err
	}

	var turns []Turn
	for i := 0; i+1 < len(messages); i += 2 {
		turns = append(turns, Turn{
			Human: messages[i].GetContent(),
			AI:    messages[i+1].GetContent(),
		})
	}
	return turns, nil
}

// Context renders the summary and window as prompt context.
func (c *Conversation) Context(ctx context.Context) (string, error) {
	messages, err := c.history.Messages(ctx)
	if err != nil {
		return "", err
	}
	buffer, err := llms.GetBufferString(messages, "Human", "AI")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if c.summary != "" {
		fmt.Fprintf(&sb, "Summary of earlier conversation: %s\n", c.summary)
	}
	if buffer != "" {
		fmt.Fprintf(&sb, "Recent messages:\n%s", buffer)
	}
	if sb.Len() == 0 {
		return "(no previous conversation)", nil
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// append adds a turn to the window, evicting the oldest exchanges beyond the window size.
func (c *Conversation) append(ctx context.Context, turn Turn) error {
	if err := c.history.AddUserMessage(ctx, turn.Human); err != nil {
		return err
	}
	if err := c.history.AddAIMessage(ctx, turn.AI); err != nil {
		return err
	}

	messages, err := c.history.Messages(ctx)
	if err != nil {
		return err
	}
	if keep := 2 * c.windowSize; len(messages) > keep {
		return c.history.SetMessages(ctx, messages[len(messages)-keep:])
	}
	return nil
}

func (c *Conversation) state(ctx context.Context) (State, error) {
	window, err := c.Window(ctx)
	if err != nil {
		return State{}, err
	}
	return State{Window: window, Summary: c.summary}, nil
}
