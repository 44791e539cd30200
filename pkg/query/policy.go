package query

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/soundprediction/ontograph/pkg/llm"
)

// Policy decides the next step of a query: either a set of tool calls or a
// final assistant message. It is the only part of the orchestrator that
// talks to a language model, which keeps the control loop testable.
type Policy interface {
	Decide(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error)
}

// OpenAIPolicy implements Policy with OpenAI-style function calling.
type OpenAIPolicy struct {
	client *openai.Client
	model  string
}

// NewOpenAIPolicy creates a policy backed by OpenAI or a compatible service.
func NewOpenAIPolicy(apiKey string, cfg llm.Config) (*OpenAIPolicy, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("query model name is required")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIPolicy{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}, nil
}

// Decide sends the conversation and returns the assistant's next message.
// Transport failures surface as *llm.UnavailableError so callers can treat
// them as retryable.
func (p *OpenAIPolicy) Decide(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error) {
	req := openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: messages,
		Tools:    tools,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return openai.ChatCompletionMessage{}, &llm.UnavailableError{Model: p.model, Err: err}
	}
	if len(resp.Choices) == 0 {
		return openai.ChatCompletionMessage{}, llm.NewEmptyResponseError("no choices returned from query model")
	}
	return resp.Choices[0].Message, nil
}
