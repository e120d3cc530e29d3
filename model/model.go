package model

import (
	"context"
	"fmt"

	"github.com/ragrelay/ragrelay/core"
)

// ToolDefinition declaratively exposes a callable tool to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input produced by the agent: a system
// preamble (with retrieved context already folded in), the declared tools and
// the conversation so far.
type Request struct {
	Instructions string           `json:"instructions"`
	Contents     []core.Content   `json:"contents"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// Finish reasons reported by Completion.
const (
	FinishStop      = "stop"
	FinishToolCalls = "tool_calls"
	FinishLength    = "length"
)

// Completion is the model's answer to a Request: either final assistant text
// or an assistant turn carrying function calls.
type Completion struct {
	Content      core.Content `json:"content"`
	FinishReason string       `json:"finish_reason"`
	ID           string       `json:"id,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", ...
}

// Completer is the minimal completion capability required by the agent.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Completion, error)

	// Info returns information about the model implementation.
	Info() Info
}

// Embedder is the text-embedding capability required by the context store.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// MockCompleter replays a scripted sequence of completions. Useful for tests
// and examples; the script is consumed one entry per Complete call.
type MockCompleter struct {
	Script []Completion
	Err    error // returned instead of a completion when set

	// Requests records every request received, in order.
	Requests []Request

	next int
}

// Complete implements Completer by returning the next scripted completion.
func (m *MockCompleter) Complete(_ context.Context, req Request) (*Completion, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.next >= len(m.Script) {
		return nil, fmt.Errorf("mock completer: script exhausted after %d calls", m.next)
	}
	c := m.Script[m.next]
	m.next++
	return &c, nil
}

// Info implements Completer.
func (m *MockCompleter) Info() Info { return Info{Name: "scripted", Provider: "mock"} }

// TextCompletion is a convenience constructor for a final-text script entry.
func TextCompletion(text string) Completion {
	return Completion{
		Content:      core.Content{Role: core.RoleAssistant, Parts: []core.Part{core.TextPart{Text: text}}},
		FinishReason: FinishStop,
	}
}

// ToolCallCompletion is a convenience constructor for a tool-call script entry.
func ToolCallCompletion(id, name, arguments string) Completion {
	return Completion{
		Content:      core.NewAssistantCallContent(core.FunctionCall{ID: id, Name: name, Arguments: arguments}),
		FinishReason: FinishToolCalls,
	}
}

// MockEmbedder derives a deterministic embedding from the input text. The
// default vector is a character-class histogram, good enough to make related
// test strings rank above unrelated ones.
type MockEmbedder struct {
	Fn  func(text string) []float64
	Err error
}

// Embed implements Embedder.
func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Fn != nil {
		return m.Fn(text), nil
	}
	vec := make([]float64, 8)
	for _, r := range text {
		vec[int(r)%len(vec)]++
	}
	return vec, nil
}
