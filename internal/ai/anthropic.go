package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// anthropicModel calls the Anthropic Messages API.
// Only text documents are supported; Vision reports ErrUnsupportedInput.
type anthropicModel struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

func newAnthropicModel(baseURL, token, model string, maxTokens int) (*anthropicModel, error) {
	if token == "" {
		return nil, fmt.Errorf("api_token required for anthropic provider")
	}
	if model == "" {
		model = defaultAnthropicModel
	}

	opts := []anthropicopt.RequestOption{anthropicopt.WithAPIKey(token)}
	if baseURL != "" {
		opts = append(opts, anthropicopt.WithBaseURL(baseURL))
	}
	cl := anthropic.NewClient(opts...)

	return &anthropicModel{
		client:    &cl,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (m *anthropicModel) Text(ctx context.Context, prompt string) (Completion, error) {
	msg, err := m.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(m.model),
		MaxTokens: int64(m.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusRequestEntityTooLarge {
			return Completion{}, fmt.Errorf("%w: %v", ErrPayloadTooLarge, err)
		}
		return Completion{}, err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	if sb.Len() == 0 {
		return Completion{}, ErrEmptyResponse
	}

	return Completion{
		Content: sb.String(),
		Tokens:  int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
	}, nil
}

func (m *anthropicModel) Vision(ctx context.Context, prompt string, images []string) (Completion, error) {
	return Completion{}, fmt.Errorf("%w: anthropic backend is text only", ErrUnsupportedInput)
}
