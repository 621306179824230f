package types

import "github.com/viant/agui/model/state"

// ContentProvider is implemented by tool outputs that carry text the model
// can relay to the user.
type ContentProvider interface {
	ResultContent() string
}

// SnapshotProvider is implemented by tool outputs that carry a state snapshot
// to be emitted as a discrete protocol event.  A nil snapshot means the tool
// did not mutate the document.
type SnapshotProvider interface {
	StateSnapshot() *state.Document
}
