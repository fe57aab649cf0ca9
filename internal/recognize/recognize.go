package recognize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/babel/internal/language"
	"github.com/mgpai22/babel/internal/video"
)

// Recognizer reads the text printed on a single frame. It returns the text
// blocks in reading order, or none when the frame carries no text.
type Recognizer interface {
	Recognize(ctx context.Context, frame video.Frame) ([]string, error)
}

// recognition service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// recognition options
type Options struct {
	Language string // language code of the printed text
	Model    string
	Prompt   string
}

// creates Recognizer based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Recognizer, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiRecognizer(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAIRecognizer(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicRecognizer(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported recognition provider: %s", provider)
	}
}

// BuildPrompt creates the text recognition prompt for vision models
func BuildPrompt(opts Options) string {
	var sb strings.Builder

	sb.WriteString("This image is a single frame from a silent film. ")
	sb.WriteString("Read any intertitle or printed text visible in it, exactly as written. ")
	if opts.Language != "" {
		sb.WriteString(fmt.Sprintf("The text is in %s. ", language.DisplayName(opts.Language)))
	}
	sb.WriteString("Group the text into paragraphs the way a reader would and list them in reading order. ")
	sb.WriteString("Include frame counters, timecodes and studio marks if you see them. ")
	sb.WriteString("Do not translate, correct or describe the image. ")

	if opts.Prompt != "" {
		sb.WriteString(opts.Prompt)
		sb.WriteString(" ")
	}

	sb.WriteString("Format your response as a JSON array of strings, one per paragraph. ")
	sb.WriteString("If the frame has no text, return []. ")
	sb.WriteString("Return ONLY the JSON array, no other text or markdown formatting.")

	return sb.String()
}

// loads the frame image and its MIME type
func readFrame(frame video.Frame) ([]byte, string, error) {
	data, err := os.ReadFile(frame.Path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read frame %d: %w", frame.Index, err)
	}
	return data, mimeType(frame.Path), nil
}

func mimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
