// Package anthropic adapts the llmdispatch.Provider contract onto the
// Anthropic Messages API via github.com/anthropics/anthropic-sdk-go.
package anthropic

import (
	"context"
	"errors"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/bvquist1400/mission-control/pkg/llmdispatch"
	"github.com/bvquist1400/mission-control/pkg/models"
)

// MessagesClient captures the subset of the Anthropic SDK used here, so
// tests can substitute a fake without hitting the network.
type MessagesClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Client implements llmdispatch.Provider on top of Anthropic Claude.
type Client struct {
	msg    MessagesClient
	apiKey string
}

// New constructs a Client from an API key. An empty key yields a Client
// that reports Configured() == false so the dispatcher skips it cleanly.
func New(apiKey string) *Client {
	c := &Client{apiKey: apiKey}
	if apiKey != "" {
		ac := sdk.NewClient(option.WithAPIKey(apiKey))
		c.msg = &ac.Messages
	}
	return c
}

func (c *Client) Name() models.LLMProvider { return models.ProviderAnthropic }

func (c *Client) Configured() bool { return c.apiKey != "" && c.msg != nil }

func (c *Client) Generate(ctx context.Context, req llmdispatch.GenerateRequest) (llmdispatch.GenerateResult, error) {
	if !c.Configured() {
		return llmdispatch.GenerateResult{}, errors.New("anthropic: not configured")
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(req.ModelID),
		MaxTokens: int64(req.MaxTokens),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.UserPrompt)),
		},
	}
	if req.SystemPrompt != "" {
		params.System = []sdk.TextBlockParam{{Text: req.SystemPrompt}}
	}
	if req.Temperature > 0 {
		params.Temperature = sdk.Float(req.Temperature)
	}

	msg, err := c.msg.New(ctx, params)
	if err != nil {
		return llmdispatch.GenerateResult{}, err
	}

	var text string
	for _, block := range msg.Content {
		if tb := block.AsText(); tb.Text != "" {
			text += tb.Text
		}
	}

	return llmdispatch.GenerateResult{
		Text:         text,
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
	}, nil
}
