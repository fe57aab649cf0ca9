package recognize

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mgpai22/babel/internal/video"
)

// implements Recognizer using OpenAI Chat Completions with image input
type OpenAIRecognizer struct {
	client  openai.Client
	model   string
	options Options
	prompt  string
}

func NewOpenAIRecognizer(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAIRecognizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" {
		model = "gpt-5-mini"
	}

	return &OpenAIRecognizer{
		client:  client,
		model:   model,
		options: opts,
		prompt:  BuildPrompt(opts),
	}, nil
}

func (r *OpenAIRecognizer) Recognize(
	ctx context.Context,
	frame video.Frame,
) ([]string, error) {
	data, mime, err := readFrame(frame)
	if err != nil {
		return nil, err
	}

	imageURL := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)

	completion, err := r.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
					openai.TextContentPart(r.prompt),
					openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
						URL: imageURL,
					}),
				}),
			},
			Model: r.model,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("recognition failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	responseText := completion.Choices[0].Message.Content
	if responseText == "" {
		return nil, fmt.Errorf("no text in OpenAI response")
	}

	return parseTextBlocks(responseText)
}

func (r *OpenAIRecognizer) Close() error {
	return nil
}
