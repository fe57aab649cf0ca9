package translate

import (
	"strings"
	"testing"
)

func TestExtractTranslationResults(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   bool
	}{
		{
			name: "plain valid array",
			input: `[
				{"index": 0, "text": "The city of the future"},
				{"index": 1, "text": "Twenty years later"}
			]`,
			wantCount: 2,
		},
		{
			name: "preamble with valid array",
			input: `Here are the intertitles:
			[{"index": 0, "text": "Night falls"}]`,
			wantCount: 1,
		},
		{
			name: "valid array with trailing text",
			input: `[{"index": 0, "text": "The end"}]
			Let me know if you need more.`,
			wantCount: 1,
		},
		{
			name:      "wrapper object with results key",
			input:     `{"results": [{"index": 0, "text": "Morning"}]}`,
			wantCount: 1,
		},
		{
			name:      "wrapper object with unknown key",
			input:     `{"intertitles": [{"index": 0, "text": "Evening"}]}`,
			wantCount: 1,
		},
		{
			name:    "empty array",
			input:   `[]`,
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			input:   `I could not read these intertitles.`,
			wantErr: true,
		},
		{
			name:    "invalid JSON",
			input:   `[{"index": 0, "text": "cut off`,
			wantErr: true,
		},
		{
			name:    "array with empty text",
			input:   `[{"index": 0, "text": ""}]`,
			wantErr: true,
		},
		{
			name:      "invalid escape in text",
			input:     `[{"index": 0, "text": "Act one\Nthe house"}]`,
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := extractTranslationResults(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != tt.wantCount {
				t.Errorf("got %d results, want %d", len(results), tt.wantCount)
			}
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON",
			input: `[{"index": 0, "text": "hello"}]`,
			want:  `[{"index": 0, "text": "hello"}]`,
		},
		{
			name:  "json code fence",
			input: "```json\n[{\"index\": 0, \"text\": \"hello\"}]\n```",
			want:  `[{"index": 0, "text": "hello"}]`,
		},
		{
			name:  "surrounding whitespace",
			input: "  \n```\n[]\n```\n  ",
			want:  `[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONResponse(tt.input); got != tt.want {
				t.Errorf("cleanJSONResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseResultsCountMismatch(t *testing.T) {
	_, err := parseResults("Gemini", `[{"index": 0, "text": "one"}]`, 2)
	if err == nil || !strings.Contains(err.Error(), "expected 2 results, got 1") {
		t.Errorf("parseResults error = %v", err)
	}
	if _, err := parseResults("Gemini", "", 1); err == nil {
		t.Error("expected error for empty response")
	}
}

func TestTruncateStringKeepsRunes(t *testing.T) {
	got := truncateString("été éternel", 3)
	if got != "été..." {
		t.Errorf("truncateString = %q", got)
	}
	if got := truncateString("court", 10); got != "court" {
		t.Errorf("truncateString short = %q", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	opts := Options{
		InputLanguage:  "fr",
		TargetLanguage: "en",
	}

	items := []TranslationItem{
		{Index: 0, Text: "LA VILLE ENDORMIE"},
		{Index: 1, Text: "Au revoir"},
	}

	prompt := BuildPrompt(opts, items)

	if !strings.Contains(prompt, "French silent film intertitles") {
		t.Error("prompt should name the input language")
	}
	if !strings.Contains(prompt, "to English") {
		t.Error("prompt should name the target language")
	}
	if !strings.Contains(prompt, "LA VILLE ENDORMIE") {
		t.Error("prompt should contain input text")
	}
	if !strings.Contains(prompt, `"index": 1`) {
		t.Error("prompt should contain index")
	}
}

func TestBuildPromptWithoutInputLanguage(t *testing.T) {
	prompt := BuildPrompt(Options{TargetLanguage: "Spanish"}, []TranslationItem{{Index: 0, Text: "Hello"}})

	if strings.Contains(prompt, "English") {
		t.Error("prompt should not contain input language when not specified")
	}
	if !strings.Contains(prompt, "to Spanish") {
		t.Error("prompt should contain target language")
	}
}
