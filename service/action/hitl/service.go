package hitl

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/agui/internal/clock"
	"github.com/viant/agui/internal/idgen"
	"github.com/viant/agui/model/state"
	"github.com/viant/agui/model/types"
)

const Name = "hitl"

// Service exposes the human-in-the-loop approval tools to the agent.  Every
// instance is bound to the document of a single run – construct one per
// request, never share it across runs.
type Service struct {
	document *state.Document
}

// ProposeInput defines parameters for proposing a sensitive action.
type ProposeInput struct {
	ActionType  string `json:"action_type" description:"Type of action (delete_file, send_email, execute_code, modify_settings)"`
	Description string `json:"description" description:"Human-readable description of what will happen"`
	Details     string `json:"details,omitempty" description:"Optional extra details as a simple string"`
}

// TrackTopicInput defines parameters for tracking a conversation topic.
type TrackTopicInput struct {
	Topic string `json:"topic" description:"Topic the user is interested in"`
}

// ExecuteInput takes no parameters; execution scope is defined by the
// approved ids already present on the document.
type ExecuteInput struct{}

// StatusInput takes no parameters.
type StatusInput struct{}

// TimeInput takes no parameters.
type TimeInput struct{}

// Output is shared by all hitl tools.  Content is the text relayed to the
// model; Snapshot, when set, is emitted as a discrete STATE_SNAPSHOT event.
type Output struct {
	Snapshot *state.Document `json:"-"`
	Content  string          `json:"content"`
}

// ResultContent returns the text the model can relay to the user.
func (o *Output) ResultContent() string { return o.Content }

// StateSnapshot returns the snapshot to emit, or nil when the tool did not
// mutate the document.
func (o *Output) StateSnapshot() *state.Document { return o.Snapshot }

// New creates a hitl tool service bound to the supplied document.
func New(document *state.Document) *Service {
	if document == nil {
		document = state.NewDocument()
	}
	return &Service{document: document}
}

// Document returns the bound document.
func (s *Service) Document() *state.Document {
	return s.document
}

// Name returns the service name
func (s *Service) Name() string {
	return Name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "propose_action",
			Description: "Propose a sensitive action that requires user approval before it can be executed.",
			Input:       reflect.TypeOf(&ProposeInput{}),
			Output:      reflect.TypeOf(&Output{}),
		},
		{
			Name:        "execute_approved_actions",
			Description: "Execute all actions that have been approved by the user. Call this after the user has approved actions in the UI.",
			Input:       reflect.TypeOf(&ExecuteInput{}),
			Output:      reflect.TypeOf(&Output{}),
		},
		{
			Name:        "check_approval_status",
			Description: "Check the current status of pending actions and approvals.",
			Input:       reflect.TypeOf(&StatusInput{}),
			Output:      reflect.TypeOf(&Output{}),
		},
		{
			Name:        "track_topic",
			Description: "Track a topic the user is interested in (non-sensitive action).",
			Input:       reflect.TypeOf(&TrackTopicInput{}),
			Output:      reflect.TypeOf(&Output{}),
		},
		{
			Name:        "get_current_time",
			Description: "Get the current time (non-sensitive action).",
			Input:       reflect.TypeOf(&TimeInput{}),
			Output:      reflect.TypeOf(&Output{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "propose_action":
		return s.proposeAction, nil
	case "execute_approved_actions":
		return s.executeApprovedActions, nil
	case "check_approval_status":
		return s.checkApprovalStatus, nil
	case "track_topic":
		return s.trackTopic, nil
	case "get_current_time":
		return s.currentTime, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

// proposeAction allocates a fresh action id, appends the pending action and
// returns a confirmation instructing the human to decide via the state panel.
func (s *Service) proposeAction(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*ProposeInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	details := map[string]string{}
	if input.Details != "" {
		details["info"] = input.Details
	}
	action := &state.PendingAction{
		ID:          idgen.NewShort(),
		ActionType:  input.ActionType,
		Description: input.Description,
		Details:     details,
	}
	s.document.Propose(action)

	output.Snapshot = s.document.Snapshot()
	output.Content = fmt.Sprintf(`Action proposed and awaiting approval:

**Action ID:** %s
**Type:** %s
**Description:** %s

Please review this action in the Agent State panel and click Approve or Reject.`,
		action.ID, action.ActionType, action.Description)
	return nil
}

// executeApprovedActions simulates execution of every approved pending
// action.  With no approvals at all the document is left untouched and no
// snapshot is produced; unmatched approved ids are reported but not removed.
func (s *Service) executeApprovedActions(ctx context.Context, in, out interface{}) error {
	if _, ok := in.(*ExecuteInput); !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	if len(s.document.ApprovedActionIDs) == 0 {
		output.Content = "No actions have been approved yet. Please wait for user approval."
		return nil
	}
	results := s.document.ExecuteApproved()
	output.Snapshot = s.document.Snapshot()
	if len(results) == 0 {
		output.Content = "No matching approved actions found to execute."
		return nil
	}
	output.Content = "Executed approved actions:\n" + strings.Join(results, "\n")
	return nil
}

// checkApprovalStatus is a pure read – one status line per pending action,
// approved membership checked before rejected.
func (s *Service) checkApprovalStatus(ctx context.Context, in, out interface{}) error {
	if _, ok := in.(*StatusInput); !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	if len(s.document.PendingActions) == 0 {
		output.Content = "No pending actions."
		return nil
	}
	lines := []string{"**Pending Actions Status:**\n"}
	for _, action := range s.document.PendingActions {
		status := "PENDING"
		switch {
		case s.document.IsApproved(action.ID):
			status = "APPROVED"
		case s.document.IsRejected(action.ID):
			status = "REJECTED"
		}
		lines = append(lines, fmt.Sprintf("- [%s] %s: %s - %s", action.ID, action.ActionType, action.Description, status))
	}
	output.Content = strings.Join(lines, "\n")
	return nil
}

// trackTopic overwrites the last discussed topic.
func (s *Service) trackTopic(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*TrackTopicInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	s.document.TrackTopic(input.Topic)
	output.Snapshot = s.document.Snapshot()
	output.Content = fmt.Sprintf("Now tracking topic: %s (message #%d)", input.Topic, s.document.MessageCount)
	return nil
}

func (s *Service) currentTime(ctx context.Context, in, out interface{}) error {
	if _, ok := in.(*TimeInput); !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	output.Content = clock.Now().Format("2006-01-02 15:04:05")
	return nil
}

var _ types.Service = (*Service)(nil)
