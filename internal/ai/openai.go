package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// openaiModel calls an OpenAI-compatible chat completions API.
type openaiModel struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func newOpenAIModel(baseURL, token, model string, maxTokens int) (*openaiModel, error) {
	if token == "" {
		return nil, fmt.Errorf("api_token required for openai provider")
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	cfg := openai.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &openaiModel{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (m *openaiModel) Text(ctx context.Context, prompt string) (Completion, error) {
	return m.complete(ctx, []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: prompt},
	})
}

func (m *openaiModel) Vision(ctx context.Context, prompt string, images []string) (Completion, error) {
	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: prompt},
	}
	for _, uri := range images {
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: uri, Detail: openai.ImageURLDetailAuto},
		})
	}
	return m.complete(ctx, parts)
}

func (m *openaiModel) complete(ctx context.Context, parts []openai.ChatMessagePart) (Completion, error) {
	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     m.model,
		MaxTokens: m.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
	})
	if err != nil {
		return Completion{}, classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return Completion{}, ErrEmptyResponse
	}

	return Completion{
		Content: resp.Choices[0].Message.Content,
		Tokens:  resp.Usage.TotalTokens,
	}, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusRequestEntityTooLarge {
		return fmt.Errorf("%w: %v", ErrPayloadTooLarge, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusRequestEntityTooLarge {
		return fmt.Errorf("%w: %v", ErrPayloadTooLarge, err)
	}
	return err
}
