package recognize

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mgpai22/babel/internal/video"
)

// implements Recognizer using Anthropic Claude vision
type AnthropicRecognizer struct {
	client  anthropic.Client
	model   anthropic.Model
	options Options
	prompt  string
}

func NewAnthropicRecognizer(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*AnthropicRecognizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	model := anthropic.Model(opts.Model)
	if opts.Model == "" {
		model = anthropic.ModelClaudeHaiku4_5
	}

	return &AnthropicRecognizer{
		client:  client,
		model:   model,
		options: opts,
		prompt:  BuildPrompt(opts),
	}, nil
}

func (r *AnthropicRecognizer) Recognize(
	ctx context.Context,
	frame video.Frame,
) ([]string, error) {
	data, mime, err := readFrame(frame)
	if err != nil {
		return nil, err
	}

	message, err := r.client.Messages.New(
		ctx,
		anthropic.MessageNewParams{
			Model:     r.model,
			MaxTokens: 1024,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(
					anthropic.NewImageBlockBase64(mime, base64.StdEncoding.EncodeToString(data)),
					anthropic.NewTextBlock(r.prompt),
				),
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("recognition failed: %w", err)
	}

	return r.parseResponse(message)
}

func (r *AnthropicRecognizer) parseResponse(message *anthropic.Message) ([]string, error) {
	if message == nil || len(message.Content) == 0 {
		return nil, fmt.Errorf("empty response from Anthropic")
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText += block.Text
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text in Anthropic response")
	}

	return parseTextBlocks(responseText)
}

func (r *AnthropicRecognizer) Close() error {
	return nil
}
