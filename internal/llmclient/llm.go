// Package llmclient provides chat-completion clients speaking the
// OpenAI-compatible function-calling protocol: the model may answer a
// completion with tool_calls, whose results are fed back as role="tool"
// messages keyed by the originating call id before the model produces prose.
package llmclient

import (
	"context"
	"errors"
)

var (
	// ErrEmptyResponse is returned when the provider answered without any choice.
	ErrEmptyResponse = errors.New("llmclient: empty response from LLM")
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// FunctionCall is the model's request to run one named tool. Arguments is the
// raw JSON string as sent by the provider; it may be malformed and callers
// must tolerate that.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall is one entry of an assistant message's tool_calls list.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// Message is a single conversation turn.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// FunctionSpec declares one callable tool to the model.
type FunctionSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Tool wraps a FunctionSpec in the provider's catalog envelope.
type Tool struct {
	Type     string       `json:"type"`
	Function FunctionSpec `json:"function"`
}

// NewTool builds a function-type catalog entry.
func NewTool(name, description string, parameters map[string]any) Tool {
	return Tool{Type: "function", Function: FunctionSpec{
		Name:        name,
		Description: description,
		Parameters:  parameters,
	}}
}

// ChatRequest is a single chat-completion call.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Tools       []Tool    `json:"tools,omitempty"`
	ToolChoice  string    `json:"tool_choice,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float32   `json:"temperature"`
}

// Choice is one completion alternative; only the first is ever used here.
type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage reports token consumption for one call.
type Usage struct {
	TotalTokens int `json:"total_tokens"`
}

// ChatResponse is the provider's answer to a ChatRequest.
type ChatResponse struct {
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Message0 returns the first choice's message, or a zero Message when the
// response carried no choices.
func (r *ChatResponse) Message0() Message {
	if r == nil || len(r.Choices) == 0 {
		return Message{}
	}
	return r.Choices[0].Message
}

// ChatClient is the provider contract used by the orchestrator.
type ChatClient interface {
	Name() string
	Close() error
	CreateChatCompletion(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}
