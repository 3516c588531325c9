package agent

import "github.com/minuted/minuted/internal/tools"

// EventKind discriminates progress events emitted during one turn.
type EventKind string

const (
	// EventToolStarted fires before a requested tool call executes.
	EventToolStarted EventKind = "tool_started"
	// EventToolFinished fires after a tool call returned its text result.
	EventToolFinished EventKind = "tool_finished"
	// EventAnswer carries the final assistant content, emitted exactly once
	// per turn.
	EventAnswer EventKind = "answer"
)

// Event is one typed progress notification. Tool and Category are set for
// tool events; Content is set for tool results and the final answer.
type Event struct {
	Kind     EventKind
	Tool     string
	Category tools.Category
	Content  string
}

// EventFunc receives progress events. A nil EventFunc disables progress
// reporting without changing turn behavior.
type EventFunc func(Event)
