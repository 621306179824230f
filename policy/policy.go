// Package policy provides a simple, optional per-run tool gate that can be
// attached to a run via context.  It is deliberately decoupled from the rest
// of the engine so that using it is entirely opt-in – runs that do not embed
// the Policy in their context keep the original "allow everything"
// behaviour.

package policy

import (
	"context"
	"strings"
)

// Tool exposure modes recognised by the dispatcher.
const (
	ModeAuto = "auto" // offer and execute tools automatically (default)
	ModeDeny = "deny" // keep backend tools away from the model entirely
)

// Policy represents the tool gating settings for the current run.
//
//   - Mode controls the high-level behaviour (auto / deny).
//   - AllowList, BlockList allow coarse per-tool filtering regardless of
//     Mode.
//
// A nil *Policy means "offer everything" and is therefore the zero-cost
// default.
type Policy struct {
	Mode      string   // auto / deny           (default = auto)
	AllowList []string // whitelist (empty => all)
	BlockList []string // blacklist
}

// Config represents the declarative, serialisable part of a Policy.
type Config struct {
	Mode      string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		Mode:      p.Mode,
		AllowList: append([]string(nil), p.AllowList...),
		BlockList: append([]string(nil), p.BlockList...),
	}
}

// FromConfig converts a stored Config back to a runtime Policy.
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:      c.Mode,
		AllowList: append([]string(nil), c.AllowList...),
		BlockList: append([]string(nil), c.BlockList...),
	}
}

// IsAllowed evaluates Mode and the AllowList / BlockList for the given tool
// name.  Both lists match by exact string comparison (case-insensitive).
func (p *Policy) IsAllowed(tool string) bool {
	if p == nil {
		return true
	}
	if p.Mode == ModeDeny {
		return false
	}

	normalized := strings.ToLower(tool)

	// BlockList has priority.
	for _, b := range p.BlockList {
		if normalized == strings.ToLower(b) {
			return false
		}
	}

	// AllowList – if empty everything is allowed, otherwise only the listed
	// entries.
	if len(p.AllowList) == 0 {
		return true
	}
	for _, a := range p.AllowList {
		if normalized == strings.ToLower(a) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts (*Policy, ok).
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
