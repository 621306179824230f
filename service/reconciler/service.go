// Package reconciler rebuilds the server-side working document from the
// state payload the remote UI embeds in each request.  The UI is the source
// of truth for approval decisions between turns (the server keeps nothing),
// so the only job here is safe deserialization with a deterministic
// fallback: a malformed payload degrades to state loss, never to a request
// failure.
package reconciler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/viant/agui/model/state"
)

// Result is the explicit two-branch outcome of reconciliation.  Fallback
// documents are fresh defaults; Reason records why the incoming payload was
// discarded so the degradation stays observable in logs and tests.
type Result struct {
	Document *state.Document
	Fallback bool
	Reason   string
}

// Service reconciles incoming state payloads.
type Service struct {
	logf func(format string, args ...interface{})
}

// New creates a reconciler service.
func New() *Service {
	return &Service{logf: log.Printf}
}

// payloadDocument mirrors state.Document with pointer fields so that absent
// keys are distinguishable from zero values where it matters.
type payloadDocument struct {
	MessageCount      *int             `json:"message_count"`
	LastTopic         *string          `json:"last_topic"`
	PendingActions    []*payloadAction `json:"pending_actions"`
	ApprovedActionIDs []string         `json:"approved_action_ids"`
	RejectedActionIDs []string         `json:"rejected_action_ids"`
	AwaitingApproval  *bool            `json:"awaiting_approval"`
	IsProcessing      *bool            `json:"is_processing"`
	ExecutionResults  []string         `json:"execution_results"`
	ErrorMessage      *string          `json:"error_message"`
}

type payloadAction struct {
	ID          *string                `json:"id"`
	ActionType  *string                `json:"action_type"`
	Description *string                `json:"description"`
	Details     map[string]interface{} `json:"details"`
}

// Reconcile builds the working document for a run.  An absent payload yields
// a fresh default document without counting as a fallback; any structural
// violation is logged and degrades to the same default.
func (s *Service) Reconcile(payload json.RawMessage) *Result {
	if len(payload) == 0 || bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		return &Result{Document: state.NewDocument()}
	}
	document, err := decode(payload)
	if err != nil {
		s.logf("[reconciler] using fresh state, failed to parse incoming payload: %v", err)
		return &Result{Document: state.NewDocument(), Fallback: true, Reason: err.Error()}
	}
	return &Result{Document: document}
}

func decode(payload json.RawMessage) (*state.Document, error) {
	var raw payloadDocument
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	document := state.NewDocument()
	if raw.MessageCount != nil {
		if *raw.MessageCount < 0 {
			return nil, fmt.Errorf("message_count must be non-negative, got %d", *raw.MessageCount)
		}
		document.MessageCount = *raw.MessageCount
	}
	if raw.LastTopic != nil {
		document.LastTopic = *raw.LastTopic
	}
	for i, action := range raw.PendingActions {
		if action == nil {
			return nil, fmt.Errorf("pending_actions[%d] is null", i)
		}
		decoded, err := decodeAction(action)
		if err != nil {
			return nil, fmt.Errorf("pending_actions[%d]: %w", i, err)
		}
		document.PendingActions = append(document.PendingActions, decoded)
	}
	if raw.ApprovedActionIDs != nil {
		document.ApprovedActionIDs = raw.ApprovedActionIDs
	}
	if raw.RejectedActionIDs != nil {
		document.RejectedActionIDs = raw.RejectedActionIDs
	}
	if raw.AwaitingApproval != nil {
		document.AwaitingApproval = *raw.AwaitingApproval
	}
	if raw.IsProcessing != nil {
		document.IsProcessing = *raw.IsProcessing
	}
	if raw.ExecutionResults != nil {
		document.ExecutionResults = raw.ExecutionResults
	}
	document.ErrorMessage = raw.ErrorMessage
	document.Dedupe()
	return document, nil
}

func decodeAction(action *payloadAction) (*state.PendingAction, error) {
	if action.ID == nil || action.ActionType == nil || action.Description == nil {
		return nil, fmt.Errorf("id, action_type and description are required")
	}
	details := map[string]string{}
	for key, value := range action.Details {
		scalar, err := asScalar(value)
		if err != nil {
			return nil, fmt.Errorf("details[%s]: %w", key, err)
		}
		details[key] = scalar
	}
	return &state.PendingAction{
		ID:          *action.ID,
		ActionType:  *action.ActionType,
		Description: *action.Description,
		Details:     details,
	}, nil
}

// asScalar accepts the closed set of scalar detail values (string, number,
// boolean) and renders them as strings; anything nested is a structural
// violation.
func asScalar(value interface{}) (string, error) {
	switch actual := value.(type) {
	case string:
		return actual, nil
	case float64:
		return strconv.FormatFloat(actual, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(actual), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", value)
	}
}
