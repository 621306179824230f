package state

import "fmt"

// Document is the state synchronized between the agent and the remote UI via
// the AG-UI protocol.  Field names are part of the wire contract and must
// match the frontend types exactly.
//
// Invariants maintained by the mutating methods:
//   - AwaitingApproval == (len(PendingActions) > 0)
//   - MessageCount only increases
//   - ExecutionResults is append-only
//   - an action leaves PendingActions exactly once, at execution time,
//     together with its id leaving ApprovedActionIDs
type Document struct {
	MessageCount      int              `json:"message_count"`
	LastTopic         string           `json:"last_topic"`
	PendingActions    []*PendingAction `json:"pending_actions"`
	ApprovedActionIDs []string         `json:"approved_action_ids"`
	RejectedActionIDs []string         `json:"rejected_action_ids"`
	AwaitingApproval  bool             `json:"awaiting_approval"`
	IsProcessing      bool             `json:"is_processing"`
	ExecutionResults  []string         `json:"execution_results"`
	ErrorMessage      *string          `json:"error_message"`
}

// NewDocument returns a fresh default document.  Slices are initialised so
// that the document always serializes with JSON arrays rather than nulls.
func NewDocument() *Document {
	return &Document{
		PendingActions:    []*PendingAction{},
		ApprovedActionIDs: []string{},
		RejectedActionIDs: []string{},
		ExecutionResults:  []string{},
	}
}

// Propose appends a new pending action and flags the document as awaiting
// approval.
func (d *Document) Propose(action *PendingAction) {
	d.PendingActions = append(d.PendingActions, action)
	d.AwaitingApproval = true
	d.MessageCount++
}

// TrackTopic overwrites the last discussed topic.
func (d *Document) TrackTopic(topic string) {
	d.LastTopic = topic
	d.MessageCount++
}

// IsApproved reports whether the UI approved the given action id.
func (d *Document) IsApproved(id string) bool {
	return contains(d.ApprovedActionIDs, id)
}

// IsRejected reports whether the UI rejected the given action id.
func (d *Document) IsRejected(id string) bool {
	return contains(d.RejectedActionIDs, id)
}

// ExecuteApproved simulates execution of every pending action whose id has
// been approved.  Executed actions are removed from both the pending list and
// the approved id set; their result lines are appended to ExecutionResults
// and returned.  Approved ids that never matched a pending action are left in
// place so that replayed approvals of already consumed ids stay no-ops.
// Calling the method again without new approvals therefore returns nil.
func (d *Document) ExecuteApproved() []string {
	var results []string
	executed := map[string]bool{}
	for _, action := range d.PendingActions {
		if !d.IsApproved(action.ID) {
			continue
		}
		result := fmt.Sprintf("Executed %s: %s", action.ActionType, action.Description)
		results = append(results, result)
		d.ExecutionResults = append(d.ExecutionResults, result)
		executed[action.ID] = true
	}
	if len(executed) == 0 {
		return nil
	}
	pending := d.PendingActions[:0]
	for _, action := range d.PendingActions {
		if !executed[action.ID] {
			pending = append(pending, action)
		}
	}
	d.PendingActions = pending
	approved := d.ApprovedActionIDs[:0]
	for _, id := range d.ApprovedActionIDs {
		if !executed[id] {
			approved = append(approved, id)
		}
	}
	d.ApprovedActionIDs = approved
	d.AwaitingApproval = len(d.PendingActions) > 0
	return results
}

// SetError records an error message on the document and clears the
// processing flag so the UI does not keep showing a busy indicator.
func (d *Document) SetError(message string) {
	d.ErrorMessage = &message
	d.IsProcessing = false
}

// Snapshot returns a deep copy suitable for emission as a discrete protocol
// event while the original keeps mutating.
func (d *Document) Snapshot() *Document {
	ret := *d
	ret.PendingActions = make([]*PendingAction, len(d.PendingActions))
	for i, action := range d.PendingActions {
		ret.PendingActions[i] = action.Clone()
	}
	ret.ApprovedActionIDs = append([]string{}, d.ApprovedActionIDs...)
	ret.RejectedActionIDs = append([]string{}, d.RejectedActionIDs...)
	ret.ExecutionResults = append([]string{}, d.ExecutionResults...)
	if d.ErrorMessage != nil {
		message := *d.ErrorMessage
		ret.ErrorMessage = &message
	}
	return &ret
}

// Dedupe removes duplicated approval/rejection ids keeping first-seen order.
// The UI controls those lists and may resubmit the same id on repeated
// clicks; membership is a set semantics concern, not a sequence one.
func (d *Document) Dedupe() {
	d.ApprovedActionIDs = dedupe(d.ApprovedActionIDs)
	d.RejectedActionIDs = dedupe(d.RejectedActionIDs)
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
