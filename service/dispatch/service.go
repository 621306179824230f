// Package dispatch drives a single agent turn: it reconciles incoming state,
// runs the model/tool-call loop and publishes protocol events onto a queue
// the transport drains.  Runs on the same thread are serialised; the event
// stream always terminates with RUN_FINISHED or RUN_ERROR.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/viant/agui/extension"
	"github.com/viant/agui/internal/idgen"
	"github.com/viant/agui/model/state"
	"github.com/viant/agui/model/types"
	"github.com/viant/agui/policy"
	"github.com/viant/agui/progress"
	"github.com/viant/agui/protocol"
	"github.com/viant/agui/service/executor"
	"github.com/viant/agui/service/llm"
	"github.com/viant/agui/service/messaging"
	"github.com/viant/agui/service/messaging/memory"
	"github.com/viant/agui/service/reconciler"
	"github.com/viant/agui/tracing"
)

// DefaultMaxSteps bounds the number of model calls per run.
const DefaultMaxSteps = 8

// ActionsFactory builds the per-run tool registry bound to the run's working
// document.  Registry services carry run-scoped state, so a fresh registry is
// constructed for every request.
type ActionsFactory func(document *state.Document) *extension.Actions

// Service dispatches agent runs.
type Service struct {
	client       llm.Client
	newActions   ActionsFactory
	executor     executor.Service
	reconciler   *reconciler.Service
	threads      *threads
	instructions string
	maxSteps     int
	queueConfig  memory.Config
}

// Option customises the dispatcher.
type Option func(*Service)

// WithInstructions sets the system prompt prepended to every run.
func WithInstructions(text string) Option {
	return func(s *Service) {
		s.instructions = text
	}
}

// WithMaxSteps overrides the model call budget per run.
func WithMaxSteps(maxSteps int) Option {
	return func(s *Service) {
		if maxSteps > 0 {
			s.maxSteps = maxSteps
		}
	}
}

// WithExecutor overrides the tool executor.
func WithExecutor(e executor.Service) Option {
	return func(s *Service) {
		s.executor = e
	}
}

// WithQueueConfig overrides the event queue configuration.
func WithQueueConfig(config memory.Config) Option {
	return func(s *Service) {
		s.queueConfig = config
	}
}

// New creates a dispatcher.
func New(client llm.Client, newActions ActionsFactory, options ...Option) *Service {
	ret := &Service{
		client:      client,
		newActions:  newActions,
		executor:    executor.NewService(),
		reconciler:  reconciler.New(),
		threads:     newThreads(),
		maxSteps:    DefaultMaxSteps,
		queueConfig: memory.DefaultConfig(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Run starts one agent turn.  Events stream onto the returned queue while
// the run executes; consumers read until a terminal event arrives.
func (s *Service) Run(ctx context.Context, input *protocol.RunInput) messaging.Queue[protocol.Event] {
	queue := memory.NewQueue[protocol.Event](s.queueConfig)
	go s.run(ctx, queue, input)
	return queue
}

func (s *Service) run(ctx context.Context, queue messaging.Queue[protocol.Event], input *protocol.RunInput) {
	threadID := input.ThreadID
	if threadID == "" {
		threadID = idgen.New()
	}
	runID := input.RunID
	if runID == "" {
		runID = idgen.New()
	}

	ctx, _ = progress.WithNewTracker(ctx, threadID, runID, nil)
	ctx, span := tracing.StartSpan(ctx, "agent.run", "SERVER")
	span.WithAttributes(map[string]string{"thread.id": threadID, "run.id": runID})
	var runErr error
	defer func() { tracing.EndSpan(span, runErr) }()

	record, err := s.threads.acquire(ctx, threadID)
	if err != nil {
		runErr = err
		_ = s.publish(ctx, queue, protocol.NewRunError(err.Error()))
		return
	}
	record.Runs++
	previousRunID := record.LastRunID
	record.LastRunID = runID
	defer record.mu.Unlock()

	attributes := map[string]string{"thread.runs": strconv.Itoa(record.Runs)}
	if previousRunID != "" {
		attributes["thread.previous_run_id"] = previousRunID
	}
	span.WithAttributes(attributes)

	if err := s.publish(ctx, queue, protocol.NewRunStarted(threadID, runID)); err != nil {
		runErr = err
		return
	}

	document := s.reconciler.Reconcile(input.State).Document
	actions := s.newActions(document)
	tools, frontend := mergeFrontendTools(Descriptors(ctx, actions), input.Tools)
	history := toModelMessages(s.instructions, input.Messages)

	for step := 0; step < s.maxSteps; step++ {
		progress.UpdateCtx(ctx, progress.Delta{ModelCalls: 1})
		response, err := s.client.Generate(ctx, &llm.GenerateRequest{Messages: history, Tools: tools})
		if err != nil {
			runErr = err
			document.SetError(err.Error())
			_ = s.publish(ctx, queue, protocol.NewStateSnapshot(document.Snapshot()))
			_ = s.publish(ctx, queue, protocol.NewRunError(err.Error()))
			return
		}

		if len(response.ToolCalls) == 0 {
			s.emitText(ctx, queue, response.Content)
			_ = s.publish(ctx, queue, protocol.NewRunFinished(threadID, runID))
			return
		}

		assistantID := idgen.New()
		history = append(history, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})
		for _, call := range response.ToolCalls {
			if frontend[call.Name] {
				// The UI owns this tool: surface the call and end the turn,
				// the outcome arrives with the next request.
				s.emitToolCall(ctx, queue, assistantID, call)
				_ = s.publish(ctx, queue, protocol.NewRunFinished(threadID, runID))
				return
			}
			content := s.invokeTool(ctx, queue, actions, assistantID, call)
			history = append(history, llm.Message{
				Role:       llm.RoleTool,
				Content:    content,
				ToolCallID: call.ID,
			})
		}
	}

	runErr = fmt.Errorf("run exceeded %d model calls without completing", s.maxSteps)
	_ = s.publish(ctx, queue, protocol.NewRunError(runErr.Error()))
}

func (s *Service) emitText(ctx context.Context, queue messaging.Queue[protocol.Event], content string) {
	messageID := idgen.New()
	_ = s.publish(ctx, queue, protocol.NewTextMessageStart(messageID))
	if content != "" {
		_ = s.publish(ctx, queue, protocol.NewTextMessageContent(messageID, content))
	}
	_ = s.publish(ctx, queue, protocol.NewTextMessageEnd(messageID))
}

func (s *Service) emitToolCall(ctx context.Context, queue messaging.Queue[protocol.Event], parentID string, call llm.ToolCall) {
	_ = s.publish(ctx, queue, protocol.NewToolCallStart(call.ID, call.Name, parentID))
	if call.Arguments != "" {
		_ = s.publish(ctx, queue, protocol.NewToolCallArgs(call.ID, call.Arguments))
	}
	_ = s.publish(ctx, queue, protocol.NewToolCallEnd(call.ID))
}

// invokeTool executes a backend tool call, emits its protocol events and
// returns the textual result fed back to the model.  Failures become result
// text so the model can recover instead of aborting the run.
func (s *Service) invokeTool(ctx context.Context, queue messaging.Queue[protocol.Event], actions *extension.Actions, parentID string, call llm.ToolCall) string {
	ctx, span := tracing.StartSpan(ctx, "agent.tool", "INTERNAL")
	span.WithAttributes(map[string]string{"tool.name": call.Name})
	var failure error
	defer func() { tracing.EndSpan(span, failure) }()

	progress.UpdateCtx(ctx, progress.Delta{ToolCalls: 1})
	s.emitToolCall(ctx, queue, parentID, call)

	content, snapshot, err := s.execute(ctx, actions, call)
	if err != nil {
		failure = err
		progress.UpdateCtx(ctx, progress.Delta{ToolFailures: 1})
		log.Printf("[dispatch] tool %v failed: %v", call.Name, err)
		content = fmt.Sprintf("Error: %v", err)
	}
	_ = s.publish(ctx, queue, protocol.NewToolCallResult(idgen.New(), call.ID, content))
	if snapshot != nil {
		progress.UpdateCtx(ctx, progress.Delta{Snapshots: 1})
		_ = s.publish(ctx, queue, protocol.NewStateSnapshot(snapshot))
	}
	return content
}

func (s *Service) execute(ctx context.Context, actions *extension.Actions, call llm.ToolCall) (string, *state.Document, error) {
	service, signature := actions.LookupMethod(call.Name)
	if service == nil || signature == nil || signature.Internal {
		return "", nil, fmt.Errorf("unknown tool %q", call.Name)
	}
	if pol := policy.FromContext(ctx); pol != nil && !pol.IsAllowed(call.Name) {
		return "", nil, fmt.Errorf("tool %q is not allowed", call.Name)
	}
	args := map[string]interface{}{}
	if strings.TrimSpace(call.Arguments) != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", nil, fmt.Errorf("invalid arguments for %v: %w", call.Name, err)
		}
	}
	output, err := s.executor.Execute(ctx, &executor.Invocation{Service: service, Method: call.Name, Args: args})
	if err != nil {
		return "", nil, err
	}
	content := ""
	if provider, ok := output.(types.ContentProvider); ok {
		content = provider.ResultContent()
	}
	var snapshot *state.Document
	if provider, ok := output.(types.SnapshotProvider); ok {
		snapshot = provider.StateSnapshot()
	}
	return content, snapshot, nil
}

func (s *Service) publish(ctx context.Context, queue messaging.Queue[protocol.Event], event *protocol.Event) error {
	if err := queue.Publish(ctx, event); err != nil {
		log.Printf("[dispatch] failed to publish %v event: %v", event.Type, err)
		return err
	}
	progress.UpdateCtx(ctx, progress.Delta{EventsEmitted: 1})
	return nil
}

// toModelMessages converts the UI conversation into model messages, with the
// system instructions prepended when configured.
func toModelMessages(instructions string, messages []*protocol.Message) []llm.Message {
	var ret []llm.Message
	if instructions != "" {
		ret = append(ret, llm.Message{Role: llm.RoleSystem, Content: instructions})
	}
	for _, message := range messages {
		if message == nil {
			continue
		}
		converted := llm.Message{
			Role:       message.Role,
			Content:    message.Content,
			ToolCallID: message.ToolCallID,
		}
		for _, call := range message.ToolCalls {
			if call == nil {
				continue
			}
			converted.ToolCalls = append(converted.ToolCalls, llm.ToolCall{
				ID:        call.ID,
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			})
		}
		ret = append(ret, converted)
	}
	return ret
}
