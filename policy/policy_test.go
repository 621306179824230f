package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowed(t *testing.T) {
	type testCase struct {
		name     string
		policy   *Policy
		tool     string
		expected bool
	}

	tests := []testCase{
		{name: "nil policy allows", policy: nil, tool: "propose_action", expected: true},
		{name: "deny mode blocks everything", policy: &Policy{Mode: ModeDeny}, tool: "track_topic", expected: false},
		{name: "block list has priority", policy: &Policy{AllowList: []string{"propose_action"}, BlockList: []string{"propose_action"}}, tool: "propose_action", expected: false},
		{name: "empty allow list allows", policy: &Policy{}, tool: "track_topic", expected: true},
		{name: "allow list filters", policy: &Policy{AllowList: []string{"track_topic"}}, tool: "propose_action", expected: false},
		{name: "allow list match is case-insensitive", policy: &Policy{AllowList: []string{"Track_Topic"}}, tool: "track_topic", expected: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.policy.IsAllowed(tc.tool))
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	p := &Policy{Mode: ModeAuto, BlockList: []string{"propose_action"}}
	ctx := WithPolicy(context.Background(), p)
	assert.Equal(t, p, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
}

func TestConfigRoundTrip(t *testing.T) {
	p := &Policy{Mode: ModeAuto, AllowList: []string{"a"}, BlockList: []string{"b"}}
	assert.EqualValues(t, p, FromConfig(ToConfig(p)))
	assert.Nil(t, ToConfig(nil))
	assert.Nil(t, FromConfig(nil))
}
