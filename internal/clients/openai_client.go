package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const translatePrompt = "Translate the user's text to English. " +
	"Reply with the translation only. If the text is already English, repeat it unchanged."

type OpenAIClient struct {
	Client *openai.Client
	Model  string
}

// NewOpenAIClient builds a chat client. An empty baseURL keeps the public
// OpenAI endpoint.
func NewOpenAIClient(apiKey, model, baseURL string) (*OpenAIClient, error) {
	if apiKey == "" {
		slog.Error("[OpenAIClient] Missing OPENAI_API_KEY in environment variables")
		return nil, errors.New("missing OPENAI_API_KEY")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	slog.Info("[OpenAIClient] OpenAI client initialized",
		slog.String("model", model))
	return &OpenAIClient{
		Client: openai.NewClientWithConfig(cfg),
		Model:  model,
	}, nil
}

func (o *OpenAIClient) Name() string {
	return OPENAI_BACKEND
}

func (o *OpenAIClient) Translate(ctx context.Context, text string) (string, error) {
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: translatePrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyTranslation
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", ErrEmptyTranslation
	}
	return translated, nil
}

func (o *OpenAIClient) HealthCheck(ctx context.Context) error {
	if _, err := o.Client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models failed: %w", err)
	}
	return nil
}
