package openai

import (
	"context"
	"errors"
	"fmt"
	"io"

	"thinkboard-be/pkg/llm"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	ModelName string
	Client    *openai.Client
}

// Ensure OpenAIProvider implements LLMProvider
var _ llm.LLMProvider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, modelName string) *OpenAIProvider {
	return &OpenAIProvider{
		ModelName: modelName,
		Client:    openai.NewClient(apiKey),
	}
}

// NewOpenAICompatibleProvider targets any OpenAI-compatible endpoint
// (vLLM, LM Studio, proxies) by overriding the base URL.
func NewOpenAICompatibleProvider(apiKey, baseURL, modelName string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenAIProvider{
		ModelName: modelName,
		Client:    openai.NewClientWithConfig(cfg),
	}
}

func (o *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	resp, err := o.Client.CreateChatCompletion(ctx, o.buildRequest(history, nil, opts))
	if err != nil {
		return "", fmt.Errorf("openai chat failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	// Reuse Chat for simplicity as most new LLMs are chat-optimized
	return o.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func (o *OpenAIProvider) ChatWithTools(ctx context.Context, history []llm.Message, tools []llm.ToolDefinition, opts ...llm.Option) (*llm.Response, error) {
	resp, err := o.Client.CreateChatCompletion(ctx, o.buildRequest(history, tools, opts))
	if err != nil {
		return nil, fmt.Errorf("openai chat with tools failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai chat with tools: empty choices")
	}

	choice := resp.Choices[0].Message
	result := &llm.Response{
		Content: choice.Content,
		Usage: &llm.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	for _, tc := range choice.ToolCalls {
		result.ToolCalls = append(result.ToolCalls, llm.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: []byte(tc.Function.Arguments),
		})
	}

	return result, nil
}

func (o *OpenAIProvider) StreamChat(ctx context.Context, history []llm.Message, chunks chan<- string, opts ...llm.Option) error {
	req := o.buildRequest(history, nil, opts)
	req.Stream = true

	stream, err := o.Client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return fmt.Errorf("openai stream creation failed: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("openai stream recv failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		content := resp.Choices[0].Delta.Content
		if content == "" {
			continue
		}
		select {
		case chunks <- content:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (o *OpenAIProvider) buildRequest(history []llm.Message, tools []llm.ToolDefinition, opts []llm.Option) openai.ChatCompletionRequest {
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	model := o.ModelName
	if options.Model != "" {
		model = options.Model
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    convertMessages(history),
		Temperature: float32(options.Temperature),
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}
	if options.JSONOutput {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	for _, t := range tools {
		req.Tools = append(req.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	return req
}

func convertMessages(history []llm.Message) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		// Map legacy "model" role if a client sends it
		if role == "model" {
			role = llm.RoleAssistant
		}
		oaiMsg := openai.ChatCompletionMessage{
			Role:       role,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
		for _, tc := range msg.ToolCalls {
			oaiMsg.ToolCalls = append(oaiMsg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: string(tc.Arguments),
				},
			})
		}
		messages[i] = oaiMsg
	}
	return messages
}
