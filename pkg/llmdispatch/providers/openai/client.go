// Package openai adapts the llmdispatch.Provider contract onto the
// official github.com/openai/openai-go Chat Completions client.
package openai

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/bvquist1400/mission-control/pkg/llmdispatch"
	"github.com/bvquist1400/mission-control/pkg/models"
)

// ChatClient captures the subset of the openai-go client used here.
type ChatClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Client implements llmdispatch.Provider via OpenAI Chat Completions.
type Client struct {
	chat   ChatClient
	apiKey string
}

// New constructs a Client from an API key. An empty key yields a Client
// that reports Configured() == false so the dispatcher skips it cleanly.
func New(apiKey string) *Client {
	c := &Client{apiKey: apiKey}
	if apiKey != "" {
		oc := openai.NewClient(option.WithAPIKey(apiKey))
		c.chat = &oc.Chat.Completions
	}
	return c
}

func (c *Client) Name() models.LLMProvider { return models.ProviderOpenAI }

func (c *Client) Configured() bool { return c.apiKey != "" && c.chat != nil }

func (c *Client) Generate(ctx context.Context, req llmdispatch.GenerateRequest) (llmdispatch.GenerateResult, error) {
	if !c.Configured() {
		return llmdispatch.GenerateResult{}, errors.New("openai: not configured")
	}

	messages := []openai.ChatCompletionMessageParamUnion{}
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.UserPrompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.ModelID),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	resp, err := c.chat.New(ctx, params)
	if err != nil {
		return llmdispatch.GenerateResult{}, err
	}
	if len(resp.Choices) == 0 {
		return llmdispatch.GenerateResult{}, errors.New("openai: empty choices")
	}

	return llmdispatch.GenerateResult{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
	}, nil
}
