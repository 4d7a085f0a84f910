package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system", "tool"
	Content string

	// ToolCalls is set on assistant messages that request tool invocations
	ToolCalls []ToolCall

	// ToolCallID links a "tool" role message back to the invocation it answers
	ToolCallID string
}

// ToolCall is a structured tool invocation requested by the model
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON argument object
}

// ToolSpec describes an invocable tool offered to the model
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]interface{} // JSON schema of the argument object
}

// ChatResult is the structured outcome of a tool-enabled chat request.
// Either Content or ToolCalls is populated; both empty means the model
// returned nothing usable and callers should degrade.
type ChatResult struct {
	Content   string
	ToolCalls []ToolCall
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	ToolChoice  string // "auto" (default) or "required"
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithRequiredToolChoice forces the model to answer with a tool call.
func WithRequiredToolChoice() Option {
	return func(o *Options) {
		o.ToolChoice = "required"
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response text
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// ChatWithTools sends a chat history plus tool signatures and returns
	// either response text or the tool invocations the model requested
	ChatWithTools(ctx context.Context, history []Message, tools []ToolSpec, options ...Option) (*ChatResult, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
