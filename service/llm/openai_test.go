package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOpenAIRequiresModel(t *testing.T) {
	_, err := NewOpenAI(context.Background(), &OpenAIConfig{})
	assert.Error(t, err)
	_, err = NewOpenAI(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewOpenAI(t *testing.T) {
	client, err := NewOpenAI(context.Background(), &OpenAIConfig{
		Model:   "llama4-scout",
		BaseURL: "http://localhost:8000/v1",
		APIKey:  "not-needed",
	})
	assert.NoError(t, err)
	assert.NotNil(t, client)
	assert.Equal(t, "llama4-scout", client.model)
}

func TestToMessageParam(t *testing.T) {
	type testCase struct {
		name    string
		message Message
	}

	tests := []testCase{
		{name: "system", message: Message{Role: RoleSystem, Content: "be helpful"}},
		{name: "user", message: Message{Role: RoleUser, Content: "hello"}},
		{name: "tool", message: Message{Role: RoleTool, Content: "done", ToolCallID: "call_1"}},
		{name: "assistant text", message: Message{Role: RoleAssistant, Content: "hi"}},
		{name: "assistant tool calls", message: Message{Role: RoleAssistant, ToolCalls: []ToolCall{
			{ID: "call_1", Name: "track_topic", Arguments: `{"topic":"travel"}`},
		}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			param := toMessageParam(tc.message)
			switch tc.message.Role {
			case RoleSystem:
				assert.NotNil(t, param.OfSystem)
			case RoleUser:
				assert.NotNil(t, param.OfUser)
			case RoleTool:
				assert.NotNil(t, param.OfTool)
				assert.Equal(t, "call_1", param.OfTool.ToolCallID)
			default:
				assert.NotNil(t, param.OfAssistant)
				if len(tc.message.ToolCalls) > 0 {
					assert.Equal(t, 1, len(param.OfAssistant.ToolCalls))
					assert.Equal(t, "call_1", param.OfAssistant.ToolCalls[0].ID)
					assert.Equal(t, "track_topic", param.OfAssistant.ToolCalls[0].Function.Name)
					assert.Equal(t, `{"topic":"travel"}`, param.OfAssistant.ToolCalls[0].Function.Arguments)
				}
			}
		})
	}
}
