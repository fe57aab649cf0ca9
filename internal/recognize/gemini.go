package recognize

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/mgpai22/babel/internal/video"
)

// implements Recognizer using Google Gemini vision
type GeminiRecognizer struct {
	client  *genai.Client
	model   string
	options Options
	prompt  string
}

func NewGeminiRecognizer(ctx context.Context, apiKey string, opts Options) (*GeminiRecognizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiRecognizer{
		client:  client,
		model:   model,
		options: opts,
		prompt:  BuildPrompt(opts),
	}, nil
}

// reads the text on a single frame
func (r *GeminiRecognizer) Recognize(ctx context.Context, frame video.Frame) ([]string, error) {
	data, mime, err := readFrame(frame)
	if err != nil {
		return nil, err
	}

	parts := []*genai.Part{
		genai.NewPartFromText(r.prompt),
		genai.NewPartFromBytes(data, mime),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	result, err := r.client.Models.GenerateContent(ctx, r.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("recognition failed: %w", err)
	}

	return r.parseResponse(result)
}

func (r *GeminiRecognizer) parseResponse(result *genai.GenerateContentResponse) ([]string, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var responseText string
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				responseText += part.Text
			}
		}
		if responseText != "" {
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text in Gemini response")
	}

	return parseTextBlocks(responseText)
}

func (r *GeminiRecognizer) Close() error {
	return nil
}
