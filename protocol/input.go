package protocol

import "encoding/json"

// RunInput is the normalized incoming run payload.  It is produced by the
// transport shim from either the direct AG-UI shape or the wrapped
// {method, body} shape.
type RunInput struct {
	ThreadID string           `json:"threadId,omitempty"`
	RunID    string           `json:"runId,omitempty"`
	Messages []*Message       `json:"messages,omitempty"`
	Tools    []*ToolDescriptor `json:"tools,omitempty"`
	State    json.RawMessage  `json:"state,omitempty"`
}

// Message is a single conversation entry supplied by the UI.
type Message struct {
	ID         string      `json:"id,omitempty"`
	Role       string      `json:"role"`
	Content    string      `json:"content,omitempty"`
	ToolCalls  []*ToolCall `json:"toolCalls,omitempty"`
	ToolCallID string      `json:"toolCallId,omitempty"`
}

// ToolCall mirrors the OpenAI-style tool call entry embedded in assistant
// messages.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type,omitempty"`
	Function FunctionCall `json:"function"`
}

// FunctionCall carries a tool name and its JSON-encoded arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDescriptor describes a callable tool.  Descriptors arriving from the UI
// under the request tools key are passed through to the model unmodified; the
// backend neither validates nor executes them itself.
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}
