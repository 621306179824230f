package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/agui/extension"
	"github.com/viant/agui/model/state"
	"github.com/viant/agui/policy"
	"github.com/viant/agui/protocol"
	"github.com/viant/agui/service/action/hitl"
	"github.com/viant/agui/service/llm"
	"github.com/viant/agui/service/messaging"
)

type scriptedClient struct {
	mu       sync.Mutex
	steps    []func(request *llm.GenerateRequest) (*llm.GenerateResponse, error)
	requests []*llm.GenerateRequest
}

func (c *scriptedClient) Generate(_ context.Context, request *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, request)
	if len(c.steps) == 0 {
		return nil, fmt.Errorf("no scripted step left")
	}
	step := c.steps[0]
	c.steps = c.steps[1:]
	return step(request)
}

func textStep(content string) func(*llm.GenerateRequest) (*llm.GenerateResponse, error) {
	return func(*llm.GenerateRequest) (*llm.GenerateResponse, error) {
		return &llm.GenerateResponse{Content: content}, nil
	}
}

func toolStep(calls ...llm.ToolCall) func(*llm.GenerateRequest) (*llm.GenerateResponse, error) {
	return func(*llm.GenerateRequest) (*llm.GenerateResponse, error) {
		return &llm.GenerateResponse{ToolCalls: calls}, nil
	}
}

func newActions(document *state.Document) *extension.Actions {
	actions := extension.NewActions()
	actions.Register(hitl.New(document))
	return actions
}

func drain(t *testing.T, queue messaging.Queue[protocol.Event]) []*protocol.Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var events []*protocol.Event
	for {
		message, err := queue.Consume(ctx)
		if !assert.NoError(t, err) {
			return events
		}
		event := message.T()
		_ = message.Ack()
		events = append(events, event)
		if event.IsTerminal() {
			return events
		}
	}
}

func eventTypes(events []*protocol.Event) []protocol.EventType {
	ret := make([]protocol.EventType, 0, len(events))
	for _, event := range events {
		ret = append(ret, event.Type)
	}
	return ret
}

func findEvent(events []*protocol.Event, eventType protocol.EventType) *protocol.Event {
	for _, event := range events {
		if event.Type == eventType {
			return event
		}
	}
	return nil
}

func TestRunTextOnly(t *testing.T) {
	client := &scriptedClient{steps: []func(*llm.GenerateRequest) (*llm.GenerateResponse, error){
		textStep("Hello there"),
	}}
	svc := New(client, newActions, WithInstructions("You are a helpful assistant."))

	queue := svc.Run(context.Background(), &protocol.RunInput{
		ThreadID: "thread-1",
		RunID:    "run-1",
		Messages: []*protocol.Message{{Role: "user", Content: "hi"}},
	})
	events := drain(t, queue)

	assert.EqualValues(t, []protocol.EventType{
		protocol.EventRunStarted,
		protocol.EventTextMessageStart,
		protocol.EventTextMessageContent,
		protocol.EventTextMessageEnd,
		protocol.EventRunFinished,
	}, eventTypes(events))
	assert.Equal(t, "thread-1", events[0].ThreadID)
	assert.Equal(t, "run-1", events[0].RunID)
	assert.Equal(t, "Hello there", events[2].Delta)

	request := client.requests[0]
	assert.Equal(t, llm.RoleSystem, request.Messages[0].Role)
	assert.Equal(t, "hi", request.Messages[1].Content)
	names := map[string]bool{}
	for _, tool := range request.Tools {
		names[tool.Name] = true
	}
	for _, name := range []string{"propose_action", "execute_approved_actions", "check_approval_status", "track_topic", "get_current_time"} {
		assert.True(t, names[name], name)
	}
}

func TestRunToolCallThenText(t *testing.T) {
	client := &scriptedClient{steps: []func(*llm.GenerateRequest) (*llm.GenerateResponse, error){
		toolStep(llm.ToolCall{ID: "call_1", Name: "propose_action", Arguments: `{"action_type":"delete_file","description":"Delete config.json"}`}),
		textStep("Proposed, waiting for approval."),
	}}
	svc := New(client, newActions)

	events := drain(t, svc.Run(context.Background(), &protocol.RunInput{ThreadID: "t", RunID: "r"}))

	assert.EqualValues(t, []protocol.EventType{
		protocol.EventRunStarted,
		protocol.EventToolCallStart,
		protocol.EventToolCallArgs,
		protocol.EventToolCallEnd,
		protocol.EventToolCallResult,
		protocol.EventStateSnapshot,
		protocol.EventTextMessageStart,
		protocol.EventTextMessageContent,
		protocol.EventTextMessageEnd,
		protocol.EventRunFinished,
	}, eventTypes(events))

	start := findEvent(events, protocol.EventToolCallStart)
	assert.Equal(t, "call_1", start.ToolCallID)
	assert.Equal(t, "propose_action", start.ToolCallName)
	assert.NotEmpty(t, start.ParentMessageID)

	result := findEvent(events, protocol.EventToolCallResult)
	assert.Contains(t, result.Content, "Action ID")
	assert.Equal(t, "call_1", result.ToolCallID)

	snapshot := findEvent(events, protocol.EventStateSnapshot)
	assert.Equal(t, 1, len(snapshot.Snapshot.PendingActions))
	assert.True(t, snapshot.Snapshot.AwaitingApproval)

	// second model call sees the assistant tool call and its textual result
	second := client.requests[1]
	last := second.Messages[len(second.Messages)-1]
	assert.Equal(t, llm.RoleTool, last.Role)
	assert.Equal(t, "call_1", last.ToolCallID)
	assert.Contains(t, last.Content, "awaiting approval")
}

func TestRunExecutesApprovedState(t *testing.T) {
	payload, _ := json.Marshal(map[string]interface{}{
		"pending_actions": []map[string]interface{}{
			{"id": "aaaa0000", "action_type": "delete_file", "description": "Delete config.json"},
		},
		"approved_action_ids": []string{"aaaa0000"},
		"awaiting_approval":   true,
	})
	client := &scriptedClient{steps: []func(*llm.GenerateRequest) (*llm.GenerateResponse, error){
		toolStep(llm.ToolCall{ID: "call_1", Name: "execute_approved_actions", Arguments: `{}`}),
		textStep("Done."),
	}}
	svc := New(client, newActions)

	events := drain(t, svc.Run(context.Background(), &protocol.RunInput{ThreadID: "t", RunID: "r", State: payload}))

	result := findEvent(events, protocol.EventToolCallResult)
	assert.Contains(t, result.Content, "Executed delete_file: Delete config.json")
	snapshot := findEvent(events, protocol.EventStateSnapshot)
	assert.Equal(t, 0, len(snapshot.Snapshot.PendingActions))
	assert.False(t, snapshot.Snapshot.AwaitingApproval)
	assert.Equal(t, 1, len(snapshot.Snapshot.ExecutionResults))
}

func TestRunFrontendToolPassThrough(t *testing.T) {
	client := &scriptedClient{steps: []func(*llm.GenerateRequest) (*llm.GenerateResponse, error){
		toolStep(llm.ToolCall{ID: "call_9", Name: "confirm_dialog", Arguments: `{"title":"Sure?"}`}),
	}}
	svc := New(client, newActions)

	events := drain(t, svc.Run(context.Background(), &protocol.RunInput{
		ThreadID: "t",
		RunID:    "r",
		Tools:    []*protocol.ToolDescriptor{{Name: "confirm_dialog", Description: "Ask the user"}},
	}))

	assert.EqualValues(t, []protocol.EventType{
		protocol.EventRunStarted,
		protocol.EventToolCallStart,
		protocol.EventToolCallArgs,
		protocol.EventToolCallEnd,
		protocol.EventRunFinished,
	}, eventTypes(events))
	assert.Nil(t, findEvent(events, protocol.EventToolCallResult))

	names := map[string]bool{}
	for _, tool := range client.requests[0].Tools {
		names[tool.Name] = true
	}
	assert.True(t, names["confirm_dialog"])
}

func TestRunPolicyDeniedTool(t *testing.T) {
	client := &scriptedClient{steps: []func(*llm.GenerateRequest) (*llm.GenerateResponse, error){
		toolStep(llm.ToolCall{ID: "call_1", Name: "propose_action", Arguments: `{"action_type":"delete_file","description":"x"}`}),
		textStep("Cannot do that."),
	}}
	svc := New(client, newActions)
	ctx := policy.WithPolicy(context.Background(), &policy.Policy{Mode: policy.ModeAuto, BlockList: []string{"propose_action"}})

	events := drain(t, svc.Run(ctx, &protocol.RunInput{ThreadID: "t", RunID: "r"}))

	for _, tool := range client.requests[0].Tools {
		assert.NotEqual(t, "propose_action", tool.Name)
	}
	result := findEvent(events, protocol.EventToolCallResult)
	assert.Contains(t, result.Content, "not allowed")
	assert.Nil(t, findEvent(events, protocol.EventStateSnapshot))
	assert.Equal(t, protocol.EventRunFinished, events[len(events)-1].Type)
}

func TestRunUnknownTool(t *testing.T) {
	client := &scriptedClient{steps: []func(*llm.GenerateRequest) (*llm.GenerateResponse, error){
		toolStep(llm.ToolCall{ID: "call_1", Name: "launch_rocket", Arguments: `{}`}),
		textStep("Sorry."),
	}}
	svc := New(client, newActions)

	events := drain(t, svc.Run(context.Background(), &protocol.RunInput{ThreadID: "t", RunID: "r"}))
	result := findEvent(events, protocol.EventToolCallResult)
	assert.Contains(t, result.Content, "unknown tool")
	assert.Equal(t, protocol.EventRunFinished, events[len(events)-1].Type)
}

func TestRunModelError(t *testing.T) {
	client := &scriptedClient{steps: []func(*llm.GenerateRequest) (*llm.GenerateResponse, error){
		func(*llm.GenerateRequest) (*llm.GenerateResponse, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}}
	svc := New(client, newActions)

	events := drain(t, svc.Run(context.Background(), &protocol.RunInput{ThreadID: "t", RunID: "r"}))

	assert.Equal(t, protocol.EventRunError, events[len(events)-1].Type)
	assert.Contains(t, events[len(events)-1].Message, "connection refused")
	snapshot := findEvent(events, protocol.EventStateSnapshot)
	assert.NotNil(t, snapshot.Snapshot.ErrorMessage)
	assert.False(t, snapshot.Snapshot.IsProcessing)
}

func TestRunMaxSteps(t *testing.T) {
	step := toolStep(llm.ToolCall{ID: "call_1", Name: "track_topic", Arguments: `{"topic":"x"}`})
	client := &scriptedClient{steps: []func(*llm.GenerateRequest) (*llm.GenerateResponse, error){step, step, step}}
	svc := New(client, newActions, WithMaxSteps(2))

	events := drain(t, svc.Run(context.Background(), &protocol.RunInput{ThreadID: "t", RunID: "r"}))

	assert.Equal(t, protocol.EventRunError, events[len(events)-1].Type)
	assert.Equal(t, 2, len(client.requests))
}

func TestRunGeneratesIdentifiers(t *testing.T) {
	client := &scriptedClient{steps: []func(*llm.GenerateRequest) (*llm.GenerateResponse, error){textStep("hi")}}
	svc := New(client, newActions)

	events := drain(t, svc.Run(context.Background(), &protocol.RunInput{}))
	assert.NotEmpty(t, events[0].ThreadID)
	assert.NotEmpty(t, events[0].RunID)
}

func TestRunSerializesThread(t *testing.T) {
	var active, maxActive int32
	step := func(*llm.GenerateRequest) (*llm.GenerateResponse, error) {
		current := atomic.AddInt32(&active, 1)
		for {
			observed := atomic.LoadInt32(&maxActive)
			if current <= observed || atomic.CompareAndSwapInt32(&maxActive, observed, current) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return &llm.GenerateResponse{Content: "ok"}, nil
	}
	client := &scriptedClient{steps: []func(*llm.GenerateRequest) (*llm.GenerateResponse, error){step, step, step}}
	svc := New(client, newActions)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			drain(t, svc.Run(context.Background(), &protocol.RunInput{ThreadID: "same-thread"}))
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxActive))
}

func TestRunThreadBookkeeping(t *testing.T) {
	client := &scriptedClient{steps: []func(*llm.GenerateRequest) (*llm.GenerateResponse, error){
		textStep("first"),
		textStep("second"),
	}}
	svc := New(client, newActions)

	drain(t, svc.Run(context.Background(), &protocol.RunInput{ThreadID: "t", RunID: "r1"}))
	drain(t, svc.Run(context.Background(), &protocol.RunInput{ThreadID: "t", RunID: "r2"}))

	record, err := svc.threads.store.Load(context.Background(), "t")
	assert.NoError(t, err)
	assert.NotNil(t, record)
	assert.Equal(t, 2, record.Runs)
	assert.Equal(t, "r2", record.LastRunID)
}
