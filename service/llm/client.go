// Package llm is the model-inference boundary.  The dispatcher only ever
// talks to the Client interface so runs can be driven by any
// OpenAI-compatible backend, or by a scripted client in tests.
package llm

import "context"

// Message roles as exchanged with the model.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a single conversation entry sent to the model.
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

// ToolCall is a model request to invoke a named tool with raw JSON arguments.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Tool describes a callable tool offered to the model.  Parameters holds a
// JSON schema object.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// GenerateRequest carries the full conversation and tool inventory for one
// model call.
type GenerateRequest struct {
	Messages []Message
	Tools    []Tool
}

// GenerateResponse is the model turn: free text, tool calls, or both.
type GenerateResponse struct {
	Content   string
	ToolCalls []ToolCall
}

// Client generates a single model turn.
type Client interface {
	Generate(ctx context.Context, request *GenerateRequest) (*GenerateResponse, error)
}
