package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIConfig configures the OpenAI-compatible client.  BaseURL allows
// pointing at local inference servers that speak the same chat completions
// API.  APIKeySecretURL, when set, takes precedence over APIKey and is
// resolved through scy.
type OpenAIConfig struct {
	Model           string
	BaseURL         string
	APIKey          string
	APIKeySecretURL string
}

// OpenAI implements Client over the chat completions API.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates an OpenAI-compatible client.
func NewOpenAI(ctx context.Context, config *OpenAIConfig) (*OpenAI, error) {
	if config == nil || config.Model == "" {
		return nil, fmt.Errorf("model name was empty")
	}
	apiKey, err := resolveAPIKey(ctx, config.APIKey, config.APIKeySecretURL)
	if err != nil {
		return nil, err
	}
	options := []option.RequestOption{option.WithAPIKey(apiKey)}
	if config.BaseURL != "" {
		options = append(options, option.WithBaseURL(config.BaseURL))
	}
	return &OpenAI{client: openai.NewClient(options...), model: config.Model}, nil
}

// Generate performs one chat completion call.
func (s *OpenAI) Generate(ctx context.Context, request *GenerateRequest) (*GenerateResponse, error) {
	params := openai.ChatCompletionNewParams{Model: openai.ChatModel(s.model)}
	for _, message := range request.Messages {
		params.Messages = append(params.Messages, toMessageParam(message))
	}
	for _, tool := range request.Tools {
		params.Tools = append(params.Tools, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters:  openai.FunctionParameters(tool.Parameters),
			},
		})
	}
	completion, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}
	message := completion.Choices[0].Message
	response := &GenerateResponse{Content: message.Content}
	for _, call := range message.ToolCalls {
		response.ToolCalls = append(response.ToolCalls, ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return response, nil
}

func toMessageParam(message Message) openai.ChatCompletionMessageParamUnion {
	switch message.Role {
	case RoleSystem:
		return openai.SystemMessage(message.Content)
	case RoleUser:
		return openai.UserMessage(message.Content)
	case RoleTool:
		return openai.ToolMessage(message.Content, message.ToolCallID)
	default:
		assistant := openai.ChatCompletionAssistantMessageParam{}
		if message.Content != "" {
			assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{OfString: openai.String(message.Content)}
		}
		for _, call := range message.ToolCalls {
			assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallParam{
				ID: call.ID,
				Function: openai.ChatCompletionMessageToolCallFunctionParam{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			})
		}
		return openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant}
	}
}
