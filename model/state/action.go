package state

// Well-known action types proposed by the agent.  The set is open – the model
// may propose any free-form type and the document accepts it verbatim; the
// constants merely name the values the default instructions steer towards.
const (
	ActionDeleteFile     = "delete_file"
	ActionSendEmail      = "send_email"
	ActionExecuteCode    = "execute_code"
	ActionModifySettings = "modify_settings"
)

// PendingAction represents a proposed, not yet approved or rejected unit of
// work.  Once created an action is immutable; only its membership in the
// document lists changes.
type PendingAction struct {
	ID          string            `json:"id"`
	ActionType  string            `json:"action_type"`
	Description string            `json:"description"`
	Details     map[string]string `json:"details"`
}

// Clone returns a deep copy of the action.
func (a *PendingAction) Clone() *PendingAction {
	if a == nil {
		return nil
	}
	ret := *a
	if a.Details != nil {
		ret.Details = make(map[string]string, len(a.Details))
		for k, v := range a.Details {
			ret.Details[k] = v
		}
	}
	return &ret
}
