// Package core defines the conversation vocabulary shared by the model
// adapters and the agent: role-tagged content composed of ordered parts
// (text, function calls, function responses).
package core

import "strings"

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Content holds a conversation role plus its ordered parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// NewUserContent builds a single-text user turn.
func NewUserContent(text string) Content {
	return Content{Role: RoleUser, Parts: []Part{TextPart{Text: text}}}
}

// NewAssistantCallContent builds an assistant turn carrying one function call.
func NewAssistantCallContent(call FunctionCall) Content {
	return Content{Role: RoleAssistant, Parts: []Part{FunctionCallPart{FunctionCall: call}}}
}

// NewToolContent builds a tool turn carrying one function response.
func NewToolContent(resp FunctionResponse) Content {
	return Content{Role: RoleTool, Parts: []Part{FunctionResponsePart{FunctionResponse: resp}}}
}

// Text concatenates all text parts of the content in order.
func (c Content) Text() string {
	var b strings.Builder
	for _, p := range c.Parts {
		if tp, ok := p.(TextPart); ok {
			b.WriteString(tp.Text)
		}
	}
	return b.String()
}

// FunctionCalls returns the function calls embedded in the content, in order.
func (c Content) FunctionCalls() []FunctionCall {
	var calls []FunctionCall
	for _, p := range c.Parts {
		if fc, ok := p.(FunctionCallPart); ok {
			calls = append(calls, fc.FunctionCall)
		}
	}
	return calls
}
