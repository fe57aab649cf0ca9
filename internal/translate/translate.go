package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mgpai22/babel/internal/language"
)

// single text item to translate
type TranslationItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// translated text item
type TranslationResult struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// interface for text translation
type Translator interface {
	Translate(
		ctx context.Context,
		items []TranslationItem,
	) ([]TranslationResult, error)
}

// optional interface for translators that support concurrent batch processing
type ConcurrentTranslator interface {
	Translator
	TranslateWithConcurrency(
		ctx context.Context,
		items []TranslationItem,
		concurrency int,
	) ([]TranslationResult, error)
}

// translation service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

const DefaultBatchSize = 50

type Options struct {
	InputLanguage  string
	TargetLanguage string
	Model          string
	Prompt         string
	BatchSize      int // items per API request (default 50)
}

func (o Options) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

// creates Translator based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}

	switch provider {
	case ProviderGemini:
		return NewGeminiTranslator(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranslator(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicTranslator(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
}

// TranslateTexts translates texts one-to-one and in order. The translator
// must return exactly one non-blank result for every index in
// 0..len(texts)-1; anything else is an error and nothing is returned.
func TranslateTexts(
	ctx context.Context,
	tr Translator,
	texts []string,
	concurrency int,
) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}

	items := make([]TranslationItem, len(texts))
	for i, text := range texts {
		items[i] = TranslationItem{Index: i, Text: text}
	}

	var (
		results []TranslationResult
		err     error
	)
	if ct, ok := tr.(ConcurrentTranslator); ok && concurrency > 1 {
		results, err = ct.TranslateWithConcurrency(ctx, items, concurrency)
	} else {
		results, err = tr.Translate(ctx, items)
	}
	if err != nil {
		return nil, err
	}

	if len(results) != len(texts) {
		return nil, fmt.Errorf("expected %d translations, got %d", len(texts), len(results))
	}

	out := make([]string, len(texts))
	seen := make([]bool, len(texts))
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(texts) {
			return nil, fmt.Errorf("translation index %d out of range", r.Index)
		}
		if seen[r.Index] {
			return nil, fmt.Errorf("duplicate translation for index %d", r.Index)
		}
		seen[r.Index] = true
		text := strings.TrimSpace(r.Text)
		// a blank answer would drop the intertitle from the output
		if text == "" && strings.TrimSpace(texts[r.Index]) != "" {
			return nil, fmt.Errorf("empty translation for index %d", r.Index)
		}
		out[r.Index] = text
	}

	return out, nil
}

// BuildPrompt creates the translation prompt for LLM providers
func BuildPrompt(opts Options, items []TranslationItem) string {
	var sb strings.Builder

	target := language.DisplayName(opts.TargetLanguage)
	if opts.InputLanguage != "" {
		sb.WriteString(fmt.Sprintf(
			"Translate the following %s silent film intertitles to %s.\n\n",
			language.DisplayName(opts.InputLanguage),
			target,
		))
	} else {
		sb.WriteString(fmt.Sprintf(
			"Translate the following silent film intertitles to %s.\n\n",
			target,
		))
	}

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString(
		"1. Translate ONLY the text content, preserving the meaning and tone.\n",
	)
	sb.WriteString(
		"2. The texts come from OCR and may contain small recognition errors; translate the intended text.\n",
	)
	sb.WriteString("3. Translate every item, even if it looks like a name or a single word.\n")
	sb.WriteString("4. Return ONLY a JSON array with the same structure.\n")
	sb.WriteString("5. Each object must have 'index' and 'text' fields.\n")
	sb.WriteString(
		"6. The 'index' values must match the input indices exactly.\n",
	)
	sb.WriteString("7. Do not add any explanation or markdown formatting.\n\n")

	if opts.Prompt != "" {
		sb.WriteString(
			fmt.Sprintf("Additional instructions: %s\n\n", opts.Prompt),
		)
	}

	sb.WriteString("Input JSON:\n")

	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)

	sb.WriteString("\n\nOutput the translated JSON array only:")

	return sb.String()
}
