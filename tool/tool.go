// Package tool implements the capability subsystem that lets agents invoke
// structured operations (APIs, computations, side effects) with schema
// validated arguments, consistent error handling and descriptions for model
// guidance. It also provides the free-text call adapter that turns a model's
// natural-language action instruction into a concrete tool invocation.
package tool

import (
	"context"
	"fmt"

	"github.com/archon-ai/archon/internal/util"
)

// Tool is the interface for extending agent capabilities with external
// functions. Tools are registered with agents so reasoning stages can act on
// the environment beyond text generation.
//
// Implementations should:
//   - Provide clear, descriptive names and descriptions (the description is
//     shown to the model to help it decide when to call the tool)
//   - Define a proper JSON-schema-like parameter map
//   - Be safe for concurrent use if shared between agents
type Tool interface {
	// Name returns the unique identifier for this tool. Names are matched
	// case-insensitively when resolving model-issued calls.
	Name() string

	// Description returns a human-readable description of what this tool does.
	Description() string

	// Parameters returns a JSON-schema-like map describing the expected
	// argument shape, used for validation and model guidance.
	Parameters() map[string]any

	// Execute runs the tool with already-decoded arguments. The declared
	// parameter contract is checked by the tool itself, not by callers.
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// ValidationError reports a schema/argument mismatch.
type ValidationError = util.ValidationError

// ToolError represents errors that occur during tool execution.
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

// NewToolError creates a ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}
