package llm

import (
	"context"
	"encoding/json"
)

// Role constants for chat messages
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system", "tool"
	Content string

	// Tool calling fields
	ToolCalls  []ToolCall // Set on assistant messages that request tools
	ToolCallID string     // Set on tool messages, pairs the result with its request
}

// ToolCall is a model-requested invocation of a registered tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolDefinition describes a callable tool to the model.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{} // JSON Schema object
}

// Response is the full result of a model call. Either Content or
// ToolCalls is populated; both empty means the model produced nothing.
type Response struct {
	Content   string
	ToolCalls []ToolCall
	Usage     *TokenUsage
}

// TokenUsage reports token consumption for one call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	JSONOutput  bool   // Request structured JSON output where supported
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithJSONOutput() Option {
	return func(o *Options) {
		o.JSONOutput = true
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// ChatWithTools sends a chat history plus tool definitions. The
	// response carries either content or tool-call requests.
	ChatWithTools(ctx context.Context, history []Message, tools []ToolDefinition, options ...Option) (*Response, error)

	// StreamChat streams the response token-by-token into chunks.
	// The channel is NOT closed by the provider; the caller owns it.
	StreamChat(ctx context.Context, history []Message, chunks chan<- string, options ...Option) error
}
