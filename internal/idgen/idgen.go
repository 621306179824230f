package idgen

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a new globally unique identifier as string. It is implemented
// as a thin wrapper so tests can stub it.

var NewFunc = func() string { return uuid.New().String() }

func New() string { return NewFunc() }

// NewShort returns a compact 8 hex character identifier used for
// human-facing action ids. Collision probability within a single document is
// negligible at this length.
func NewShort() string {
	id := strings.ReplaceAll(NewFunc(), "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return id
}
