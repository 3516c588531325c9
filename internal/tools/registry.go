package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/minuted/minuted/internal/metrics"
)

// Tool is one model-invocable operation. Invoke returns either a text result
// or an error; the registry converts errors to text, so nothing a tool does
// ever breaks the conversation loop.
type Tool interface {
	Definition() llms.Tool
	Invoke(ctx context.Context, sessionID string, args json.RawMessage) (string, error)
}

// Category classifies a tool for progress reporting.
type Category string

const (
	CategorySearch        Category = "searching"
	CategoryTranscription Category = "transcription"
	CategoryUpload        Category = "uploading"
	CategoryDocStore      Category = "document_store"
	CategoryWorkflow      Category = "workflow"
)

// Registry is the explicit dispatch table from tool name to implementation.
type Registry struct {
	tools      map[string]Tool
	categories map[string]Category
	order      []string
	logger     *slog.Logger
	metrics    *metrics.Collector
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger, collector *metrics.Collector) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tools:      make(map[string]Tool),
		categories: make(map[string]Category),
		logger:     logger,
		metrics:    collector,
	}
}

// Register adds a tool under its declared name.
func (r *Registry) Register(t Tool, category Category) {
	name := t.Definition().Function.Name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
	r.categories[name] = category
}

// Definitions returns all tool schemas in registration order, for binding
// to the model.
func (r *Registry) Definitions() []llms.Tool {
	defs := make([]llms.Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// CategoryOf returns the progress category for a tool name.
func (r *Registry) CategoryOf(name string) Category {
	if c, ok := r.categories[name]; ok {
		return c
	}
	return CategoryWorkflow
}

// Execute runs one tool call and always returns text. Unknown tools,
// malformed arguments and tool failures all become readable messages that
// feed back into the model's next turn.
func (r *Registry) Execute(ctx context.Context, sessionID, name string, args json.RawMessage) string {
	tool, ok := r.tools[name]
	if !ok {
		r.logger.Warn("unknown tool requested", "tool", name)
		return fmt.Sprintf("Error: unknown tool %q. Use one of the provided tools.", name)
	}

	start := time.Now()
	result, err := tool.Invoke(ctx, sessionID, args)
	r.metrics.RecordTiming(metrics.OpToolExec, time.Since(start))

	if err != nil {
		r.logger.Warn("tool failed", "tool", name, "error", err)
		return "Error: " + err.Error()
	}

	r.logger.Info("tool executed", "tool", name, "duration_ms", time.Since(start).Milliseconds())
	return result
}

// RegisterAll wires the full tool set against the given dependencies.
func RegisterAll(r *Registry, deps *Dependencies) {
	r.Register(&SearchMeetings{deps}, CategorySearch)
	r.Register(&GetMeetingMetadata{deps}, CategorySearch)
	r.Register(&ListRecentMeetings{deps}, CategorySearch)

	r.Register(&SaveText{deps}, CategoryUpload)
	r.Register(&ImportDocument{deps}, CategoryDocStore)

	r.Register(&RequestVideoUpload{deps}, CategoryWorkflow)
	r.Register(&TranscribeVideo{deps}, CategoryTranscription)
	r.Register(&RequestTranscriptEdit{deps}, CategoryWorkflow)
	r.Register(&ApplyTranscriptEdit{deps}, CategoryWorkflow)
	r.Register(&RenameSpeakers{deps}, CategoryWorkflow)
	r.Register(&SaveTranscript{deps}, CategoryUpload)
	r.Register(&CancelWorkflow{deps}, CategoryWorkflow)
}
