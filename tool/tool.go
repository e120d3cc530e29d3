// Package tool implements the function calling subsystem that lets the agent
// invoke structured external capabilities with schema validated arguments,
// consistent error handling and rich metadata for LLM guidance.
package tool

import (
	"context"
	"fmt"
)

// Tool defines the interface for extending the agent with external functions.
//
// Tools are registered once at startup and dispatched by name when the model
// requests them. Implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define proper JSON schema for parameters
//   - Hold no mutable state shared with other tools
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique identifier for this tool (snake_case recommended).
	Name() string

	// Description returns a human-readable description of what this tool does.
	// It is provided to the LLM to help it decide when to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected input format.
	Parameters() map[string]any

	// Call executes the tool with already-decoded arguments and returns the
	// output text handed back to the model.
	Call(ctx context.Context, args map[string]any) (string, error)
}

// Error codes used by ToolError.
const (
	CodeValidation = "VALIDATION_ERROR" // schema / argument mismatch
	CodeExecution  = "EXECUTION_ERROR"  // tool's own network/logic step failed
)

// ToolError represents errors that occur during tool dispatch or execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}

// NotFoundError reports a dispatch against an unregistered tool name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool not found: %s", e.Name)
}
