package translate

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFactoryReturnsGeminiTranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "Japanese"}
	translator, err := Factory(ctx, ProviderGemini, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory(ProviderGemini) returned error: %v", err)
	}
	if _, ok := translator.(*GeminiTranslator); !ok {
		t.Errorf("expected *GeminiTranslator, got %T", translator)
	}
}

func TestFactoryReturnsOpenAITranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "Spanish"}
	translator, err := Factory(ctx, ProviderOpenAI, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory(ProviderOpenAI) returned error: %v", err)
	}
	if _, ok := translator.(*OpenAITranslator); !ok {
		t.Errorf("expected *OpenAITranslator, got %T", translator)
	}
}

func TestFactoryReturnsAnthropicTranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "en"}
	translator, err := Factory(ctx, ProviderAnthropic, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory(ProviderAnthropic) returned error: %v", err)
	}
	if _, ok := translator.(*AnthropicTranslator); !ok {
		t.Errorf("expected *AnthropicTranslator, got %T", translator)
	}
}

func TestFactoryRequiresAPIKey(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "en"}
	for _, p := range []Provider{ProviderGemini, ProviderOpenAI, ProviderAnthropic} {
		if _, err := Factory(ctx, p, "", opts); err == nil {
			t.Errorf("Factory(%s) without key should fail", p)
		}
	}
}

func TestFactoryRequiresTargetLanguage(t *testing.T) {
	ctx := context.Background()
	opts := Options{} // no TargetLanguage
	_, err := Factory(ctx, ProviderGemini, "fake-key", opts)
	if err == nil {
		t.Error("expected error for missing target language")
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "French"}
	_, err := Factory(ctx, Provider("unknown"), "fake-key", opts)
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestGeminiTranslatorImplementsConcurrentTranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "Korean"}
	translator, err := Factory(ctx, ProviderGemini, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory error: %v", err)
	}
	if _, ok := translator.(ConcurrentTranslator); !ok {
		t.Error("GeminiTranslator should implement ConcurrentTranslator")
	}
}

func TestOpenAITranslatorImplementsConcurrentTranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "German"}
	translator, err := Factory(ctx, ProviderOpenAI, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory error: %v", err)
	}
	if _, ok := translator.(ConcurrentTranslator); !ok {
		t.Error("OpenAITranslator should implement ConcurrentTranslator")
	}
}

// returns canned results and records whether the concurrent path was used
type fakeTranslator struct {
	results    func(items []TranslationItem) []TranslationResult
	err        error
	concurrent bool
}

func (f *fakeTranslator) Translate(ctx context.Context, items []TranslationItem) ([]TranslationResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results(items), nil
}

func (f *fakeTranslator) TranslateWithConcurrency(ctx context.Context, items []TranslationItem, concurrency int) ([]TranslationResult, error) {
	f.concurrent = true
	return f.Translate(ctx, items)
}

func echoUpper(items []TranslationItem) []TranslationResult {
	out := make([]TranslationResult, len(items))
	for i, item := range items {
		out[i] = TranslationResult{Index: item.Index, Text: " " + strings.ToUpper(item.Text) + " "}
	}
	return out
}

func TestTranslateTexts(t *testing.T) {
	fake := &fakeTranslator{results: func(items []TranslationItem) []TranslationResult {
		out := echoUpper(items)
		// providers may answer out of order
		out[0], out[2] = out[2], out[0]
		return out
	}}

	got, err := TranslateTexts(context.Background(), fake, []string{"un", "deux", "trois"}, 3)
	if err != nil {
		t.Fatalf("TranslateTexts: %v", err)
	}
	if diff := cmp.Diff([]string{"UN", "DEUX", "TROIS"}, got); diff != "" {
		t.Errorf("TranslateTexts mismatch (-want +got):\n%s", diff)
	}
	if !fake.concurrent {
		t.Error("expected concurrent path for concurrency > 1")
	}
}

func TestTranslateTextsSequential(t *testing.T) {
	fake := &fakeTranslator{results: echoUpper}
	if _, err := TranslateTexts(context.Background(), fake, []string{"un"}, 1); err != nil {
		t.Fatalf("TranslateTexts: %v", err)
	}
	if fake.concurrent {
		t.Error("concurrency 1 should use Translate")
	}
}

func TestTranslateTextsEmpty(t *testing.T) {
	fake := &fakeTranslator{err: errors.New("should not be called")}
	got, err := TranslateTexts(context.Background(), fake, nil, 3)
	if err != nil {
		t.Fatalf("TranslateTexts: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestTranslateTextsContractViolations(t *testing.T) {
	tests := []struct {
		name    string
		results func(items []TranslationItem) []TranslationResult
	}{
		{
			name: "too few",
			results: func(items []TranslationItem) []TranslationResult {
				return echoUpper(items)[:1]
			},
		},
		{
			name: "too many",
			results: func(items []TranslationItem) []TranslationResult {
				return append(echoUpper(items), TranslationResult{Index: 2, Text: "extra"})
			},
		},
		{
			name: "duplicate index",
			results: func(items []TranslationItem) []TranslationResult {
				return []TranslationResult{{Index: 0, Text: "A"}, {Index: 0, Text: "B"}}
			},
		},
		{
			name: "blank translation",
			results: func(items []TranslationItem) []TranslationResult {
				return []TranslationResult{{Index: 0, Text: "A"}, {Index: 1, Text: "  "}}
			},
		},
		{
			name: "index out of range",
			results: func(items []TranslationItem) []TranslationResult {
				return []TranslationResult{{Index: 0, Text: "A"}, {Index: 5, Text: "B"}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTranslator{results: tt.results}
			got, err := TranslateTexts(context.Background(), fake, []string{"a", "b"}, 1)
			if err == nil {
				t.Fatalf("expected error, got %v", got)
			}
			if got != nil {
				t.Errorf("expected no partial output, got %v", got)
			}
		})
	}
}

func TestTranslateTextsPropagatesError(t *testing.T) {
	boom := errors.New("rate limited")
	fake := &fakeTranslator{err: boom}
	if _, err := TranslateTexts(context.Background(), fake, []string{"a"}, 1); !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}

// Integration test: only runs if OPENAI_API_KEY is set
func TestOpenAITranslatorIntegration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set; skipping integration test")
	}

	ctx := context.Background()
	opts := Options{InputLanguage: "fr", TargetLanguage: "en"}
	translator, err := NewOpenAITranslator(ctx, apiKey, opts)
	if err != nil {
		t.Fatalf("NewOpenAITranslator error: %v", err)
	}

	items := []TranslationItem{
		{Index: 0, Text: "LA NUIT TOMBE SUR LA VILLE"},
		{Index: 1, Text: "Adieu"},
	}

	results, err := translator.Translate(ctx, items)
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Text == "" {
			t.Errorf("result index %d has empty text", r.Index)
		}
	}
}
