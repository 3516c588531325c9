package tools

import "strings"

// ToolError is a failure a tool reports back into the conversation. Msg says
// what went wrong; Hint, when non-empty, tells the model how to recover.
// The registry converts it to text at the boundary so the model can see the
// error and self-correct; it never propagates past the registry.
type ToolError struct {
	Msg  string
	Hint string
}

func (e *ToolError) Error() string {
	if e.Hint != "" {
		return e.Msg + ". " + e.Hint
	}
	return e.Msg
}

// Errorf creates a ToolError with a message and optional recovery hint.
func Errorf(msg, hint string) *ToolError {
	return &ToolError{Msg: msg, Hint: hint}
}

// FormatResults joins items with newlines for list output.
func FormatResults(items []string) string {
	return strings.Join(items, "\n")
}
