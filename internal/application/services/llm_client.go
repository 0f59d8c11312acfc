package services

import (
	"context"
	"os"

	"github.com/sashabaranov/go-openai"

	"github.com/atlaserp/backend/pkg/errors"
)

// LLMClient is the text-generation collaborator behind the agents'
// chat capability. Opaque string in, string out.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient implements LLMClient over the OpenAI chat API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient reads OPENAI_API_KEY and OPENAI_MODEL from the
// environment. A missing key is not fatal here; Generate fails with an
// upstream error so the agent endpoints degrade instead of crashing.
func NewOpenAIClient() *OpenAIClient {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClient{
		client: openai.NewClient(os.Getenv("OPENAI_API_KEY")),
		model:  model,
	}
}

func (o *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a business analytics assistant for an ERP suite."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", errors.NewUpstreamError("openai", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.NewUpstreamError("openai", nil)
	}
	return resp.Choices[0].Message.Content, nil
}
