package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/minuted/minuted/internal/config"
	"github.com/minuted/minuted/internal/metrics"
)

// Caller is the narrow surface the agent loop needs from a chat model.
// A successful Call always returns at least one choice.
type Caller interface {
	Call(ctx context.Context, messages []llms.MessageContent, tools []llms.Tool) (*llms.ContentResponse, error)
}

// Model wraps a langchaingo chat model with tool-calling support.
type Model struct {
	llm       llms.Model
	modelName string
	metrics   *metrics.Collector
	streamFn  func(ctx context.Context, chunk []byte) error
}

// NewModel creates a chat model based on configuration.
func NewModel(cfg config.Config, collector *metrics.Collector) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:       model,
		modelName: cfg.LLMModel,
		metrics:   collector,
	}, nil
}

// SetStreamFunc registers a callback that receives raw token chunks as the
// model produces text. Tool-call turns typically stream nothing.
func (m *Model) SetStreamFunc(fn func(ctx context.Context, chunk []byte) error) {
	m.streamFn = fn
}

// Call sends the conversation to the model with the given tool schemas bound
// and returns the full response, which may contain tool calls instead of
// (or alongside) text content.
func (m *Model) Call(ctx context.Context, messages []llms.MessageContent, tools []llms.Tool) (*llms.ContentResponse, error) {
	opts := []llms.CallOption{}
	if len(tools) > 0 {
		opts = append(opts, llms.WithTools(tools))
	}
	if m.streamFn != nil {
		opts = append(opts, llms.WithStreamingFunc(m.streamFn))
	}

	start := time.Now()
	response, err := m.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no response choices")
	}

	in, out := tokenUsage(response)
	m.metrics.RecordLLMUsage(metrics.OpLLMGenerate, time.Since(start), in, out)
	return response, nil
}

// GenerateWithSystem generates text with a system prompt and no tools.
func (m *Model) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	start := time.Now()
	response, err := m.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate with system: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	in, out := tokenUsage(response)
	m.metrics.RecordLLMUsage(metrics.OpLLMGenerate, time.Since(start), in, out)
	return response.Choices[0].Content, nil
}

// Model returns the chat model name.
func (m *Model) Model() string {
	return m.modelName
}

// tokenUsage pulls prompt/completion token counts out of the provider's
// generation info when it reports them.
func tokenUsage(resp *llms.ContentResponse) (int64, int64) {
	info := resp.Choices[0].GenerationInfo
	return infoInt(info, "PromptTokens"), infoInt(info, "CompletionTokens")
}

func infoInt(info map[string]any, key string) int64 {
	switch v := info[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}
