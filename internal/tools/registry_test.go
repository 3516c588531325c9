package tools

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type stubTool struct {
	name   string
	result string
	err    error
}

func (s *stubTool) Definition() llms.Tool {
	return llms.Tool{
		Type:     "function",
		Function: &llms.FunctionDefinition{Name: s.name},
	}
}

func (s *stubTool) Invoke(_ context.Context, _ string, _ json.RawMessage) (string, error) {
	return s.result, s.err
}

func newTestRegistry() *Registry {
	return NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

func TestRegistry_UnknownTool(t *testing.T) {
	r := newTestRegistry()

	out := r.Execute(context.Background(), "s1", "nope", nil)

	assert.Equal(t, `Error: unknown tool "nope". Use one of the provided tools.`, out)
}

func TestRegistry_ErrorBecomesText(t *testing.T) {
	r := newTestRegistry()
	r.Register(&stubTool{name: "boom", err: Errorf("Something broke", "Try again")}, CategoryWorkflow)

	out := r.Execute(context.Background(), "s1", "boom", nil)

	assert.Equal(t, "Error: Something broke. Try again", out)
}

func TestRegistry_SuccessPassesThrough(t *testing.T) {
	r := newTestRegistry()
	r.Register(&stubTool{name: "ok", result: "all good"}, CategorySearch)

	out := r.Execute(context.Background(), "s1", "ok", json.RawMessage(`{}`))

	assert.Equal(t, "all good", out)
}

func TestRegistry_DefinitionsInRegistrationOrder(t *testing.T) {
	r := newTestRegistry()
	RegisterAll(r, newTestDeps(&fakeStore{}))

	defs := r.Definitions()
	require.Len(t, defs, 12)
	assert.Equal(t, "search_meetings", defs[0].Function.Name)
	assert.Equal(t, "cancel_workflow", defs[len(defs)-1].Function.Name)

	names := make(map[string]bool)
	for _, def := range defs {
		assert.False(t, names[def.Function.Name], "duplicate tool %s", def.Function.Name)
		names[def.Function.Name] = true
	}
}

func TestRegistry_CategoryOf(t *testing.T) {
	r := newTestRegistry()
	RegisterAll(r, newTestDeps(&fakeStore{}))

	assert.Equal(t, CategorySearch, r.CategoryOf("search_meetings"))
	assert.Equal(t, CategoryTranscription, r.CategoryOf("transcribe_video"))
	assert.Equal(t, CategoryUpload, r.CategoryOf("save_transcript"))
	assert.Equal(t, CategoryWorkflow, r.CategoryOf("never_registered"))
}
