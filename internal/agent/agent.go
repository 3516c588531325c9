// Package agent drives one conversational turn as an explicit finite-state
// machine: prepare the message list, call the model, route on tool calls,
// execute them in order, and loop until a plain answer appears.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"

	"github.com/minuted/minuted/internal/llm"
	"github.com/minuted/minuted/internal/models"
	"github.com/minuted/minuted/internal/tools"
)

// State is one phase of the turn state machine.
type State int

const (
	StatePrepare State = iota
	StateModelCall
	StateRoute
	StateToolExec
	StateEnd
)

// DefaultMaxToolRounds bounds how many tool-execution rounds one turn may
// run before the agent stops and answers anyway.
const DefaultMaxToolRounds = 10

// roundLimitAnswer is returned when the model keeps requesting tools past
// the round limit. The turn always ends with an answer, never a hang.
const roundLimitAnswer = "I had to stop before finishing: this request needed more tool calls than I allow in one turn. Try narrowing the request or splitting it into steps."

// Agent orchestrates conversation turns against a model and the tool
// registry. Safe for concurrent use; all per-turn state lives on the stack.
type Agent struct {
	caller    llm.Caller
	registry  *tools.Registry
	maxRounds int
	logger    *slog.Logger
}

// New creates an agent. maxRounds <= 0 selects DefaultMaxToolRounds.
func New(caller llm.Caller, registry *tools.Registry, maxRounds int, logger *slog.Logger) *Agent {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxToolRounds
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{caller: caller, registry: registry, maxRounds: maxRounds, logger: logger}
}

// turn is the mutable state of one Respond call.
type turn struct {
	messages []llms.MessageContent
	choice   *llms.ContentChoice
	answer   string
	rounds   int
}

// Respond runs one user turn to completion and returns the assistant's
// answer. History must already be normalized to canonical messages; use
// models.HistoryFromPairs or models.HistoryFromRecords at the boundary.
// onEvent, when non-nil, receives progress events; the final answer is
// emitted exactly once.
func (a *Agent) Respond(ctx context.Context, sessionID, userMessage string, history []models.Message, onEvent EventFunc) (string, error) {
	t := &turn{}
	state := StatePrepare

	for state != StateEnd {
		switch state {
		case StatePrepare:
			t.messages = prepareMessages(history, userMessage)
			state = StateModelCall

		case StateModelCall:
			resp, err := a.caller.Call(ctx, t.messages, a.registry.Definitions())
			if err != nil {
				// Model failures short-circuit the whole turn.
				return "", fmt.Errorf("model call: %w", err)
			}
			t.choice = resp.Choices[0]
			state = StateRoute

		case StateRoute:
			switch {
			case len(t.choice.ToolCalls) == 0:
				t.answer = t.choice.Content
				state = StateEnd
			case t.rounds >= a.maxRounds:
				a.logger.Warn("tool round limit reached", "rounds", t.rounds)
				t.answer = roundLimitAnswer
				state = StateEnd
			default:
				state = StateToolExec
			}

		case StateToolExec:
			t.rounds++
			a.execToolCalls(ctx, sessionID, t, onEvent)
			state = StateModelCall
		}
	}

	if onEvent != nil {
		onEvent(Event{Kind: EventAnswer, Content: t.answer})
	}
	return t.answer, nil
}

// execToolCalls appends the assistant's tool-call message, then runs each
// requested call in request order, appending one tool response per call.
func (a *Agent) execToolCalls(ctx context.Context, sessionID string, t *turn, onEvent EventFunc) {
	assistant := llms.MessageContent{Role: llms.ChatMessageTypeAI}
	if t.choice.Content != "" {
		assistant.Parts = append(assistant.Parts, llms.TextPart(t.choice.Content))
	}
	for _, call := range t.choice.ToolCalls {
		assistant.Parts = append(assistant.Parts, call)
	}
	t.messages = append(t.messages, assistant)

	for _, call := range t.choice.ToolCalls {
		name := call.FunctionCall.Name
		category := a.registry.CategoryOf(name)
		if onEvent != nil {
			onEvent(Event{Kind: EventToolStarted, Tool: name, Category: category})
		}

		result := a.registry.Execute(ctx, sessionID, name, json.RawMessage(call.FunctionCall.Arguments))

		if onEvent != nil {
			onEvent(Event{Kind: EventToolFinished, Tool: name, Category: category, Content: result})
		}

		t.messages = append(t.messages, llms.MessageContent{
			Role: llms.ChatMessageTypeTool,
			Parts: []llms.ContentPart{llms.ToolCallResponse{
				ToolCallID: call.ID,
				Name:       name,
				Content:    result,
			}},
		})
	}
}

// prepareMessages builds system prompt + history + new user utterance.
func prepareMessages(history []models.Message, userMessage string) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(history)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	for _, msg := range history {
		switch msg.Role {
		case models.RoleAssistant:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeAI, msg.Content))
		case models.RoleUser:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))
		}
	}
	return append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userMessage))
}
