package protocol

import (
	"github.com/viant/agui/internal/clock"
	"github.com/viant/agui/model/state"
)

// EventType identifies a discrete AG-UI protocol event.
type EventType string

const (
	EventRunStarted         EventType = "RUN_STARTED"
	EventRunFinished        EventType = "RUN_FINISHED"
	EventRunError           EventType = "RUN_ERROR"
	EventTextMessageStart   EventType = "TEXT_MESSAGE_START"
	EventTextMessageContent EventType = "TEXT_MESSAGE_CONTENT"
	EventTextMessageEnd     EventType = "TEXT_MESSAGE_END"
	EventToolCallStart      EventType = "TOOL_CALL_START"
	EventToolCallArgs       EventType = "TOOL_CALL_ARGS"
	EventToolCallEnd        EventType = "TOOL_CALL_END"
	EventToolCallResult     EventType = "TOOL_CALL_RESULT"
	EventStateSnapshot      EventType = "STATE_SNAPSHOT"
)

// Event is a single protocol event.  One struct covers the whole vocabulary;
// fields irrelevant to a given type stay empty and are omitted on the wire.
type Event struct {
	Type            EventType       `json:"type"`
	Timestamp       int64           `json:"timestamp,omitempty"`
	ThreadID        string          `json:"threadId,omitempty"`
	RunID           string          `json:"runId,omitempty"`
	MessageID       string          `json:"messageId,omitempty"`
	Role            string          `json:"role,omitempty"`
	Delta           string          `json:"delta,omitempty"`
	ToolCallID      string          `json:"toolCallId,omitempty"`
	ToolCallName    string          `json:"toolCallName,omitempty"`
	ParentMessageID string          `json:"parentMessageId,omitempty"`
	Content         string          `json:"content,omitempty"`
	Snapshot        *state.Document `json:"snapshot,omitempty"`
	Message         string          `json:"message,omitempty"`
}

// IsTerminal reports whether the event ends the stream.
func (e *Event) IsTerminal() bool {
	return e.Type == EventRunFinished || e.Type == EventRunError
}

func newEvent(eventType EventType) *Event {
	return &Event{Type: eventType, Timestamp: clock.Now().UnixMilli()}
}

// NewRunStarted signals the beginning of a run.
func NewRunStarted(threadID, runID string) *Event {
	ret := newEvent(EventRunStarted)
	ret.ThreadID = threadID
	ret.RunID = runID
	return ret
}

// NewRunFinished signals successful completion of a run.
func NewRunFinished(threadID, runID string) *Event {
	ret := newEvent(EventRunFinished)
	ret.ThreadID = threadID
	ret.RunID = runID
	return ret
}

// NewRunError signals abnormal termination of a run.
func NewRunError(message string) *Event {
	ret := newEvent(EventRunError)
	ret.Message = message
	return ret
}

// NewTextMessageStart opens an assistant text message.
func NewTextMessageStart(messageID string) *Event {
	ret := newEvent(EventTextMessageStart)
	ret.MessageID = messageID
	ret.Role = "assistant"
	return ret
}

// NewTextMessageContent carries a chunk of assistant text.
func NewTextMessageContent(messageID, delta string) *Event {
	ret := newEvent(EventTextMessageContent)
	ret.MessageID = messageID
	ret.Delta = delta
	return ret
}

// NewTextMessageEnd closes an assistant text message.
func NewTextMessageEnd(messageID string) *Event {
	ret := newEvent(EventTextMessageEnd)
	ret.MessageID = messageID
	return ret
}

// NewToolCallStart opens a tool call on the given parent message.
func NewToolCallStart(toolCallID, toolCallName, parentMessageID string) *Event {
	ret := newEvent(EventToolCallStart)
	ret.ToolCallID = toolCallID
	ret.ToolCallName = toolCallName
	ret.ParentMessageID = parentMessageID
	return ret
}

// NewToolCallArgs carries the tool call argument payload.
func NewToolCallArgs(toolCallID, delta string) *Event {
	ret := newEvent(EventToolCallArgs)
	ret.ToolCallID = toolCallID
	ret.Delta = delta
	return ret
}

// NewToolCallEnd closes a tool call.
func NewToolCallEnd(toolCallID string) *Event {
	ret := newEvent(EventToolCallEnd)
	ret.ToolCallID = toolCallID
	return ret
}

// NewToolCallResult reports the textual result of an executed tool call.
func NewToolCallResult(messageID, toolCallID, content string) *Event {
	ret := newEvent(EventToolCallResult)
	ret.MessageID = messageID
	ret.ToolCallID = toolCallID
	ret.Content = content
	ret.Role = "tool"
	return ret
}

// NewStateSnapshot carries a full serialization of the shared document.
func NewStateSnapshot(snapshot *state.Document) *Event {
	ret := newEvent(EventStateSnapshot)
	ret.Snapshot = snapshot
	return ret
}
