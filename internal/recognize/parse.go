package recognize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var jsonBlockRegex = regexp.MustCompile("```(?:json)?\\s*")

// removes markdown formatting from the response
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// textBlock accepts both plain strings and {"text": "..."} objects
type textBlock string

func (b *textBlock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*b = textBlock(s)
		return nil
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*b = textBlock(obj.Text)
	return nil
}

// parses a model reply into text blocks. An empty array is a valid answer
// meaning the frame has no text.
func parseTextBlocks(responseText string) ([]string, error) {
	text := cleanJSONResponse(responseText)
	if text == "" {
		return nil, fmt.Errorf("empty response")
	}

	for i := 0; i < len(text); i++ {
		if text[i] != '[' && text[i] != '{' {
			continue
		}
		decoder := json.NewDecoder(strings.NewReader(text[i:]))
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			continue
		}
		if blocks, ok := tryExtractBlocks(raw); ok {
			return blocks, nil
		}
	}

	return nil, fmt.Errorf("no text block array found in response (response: %s)", truncateString(text, 200))
}

func tryExtractBlocks(raw json.RawMessage) ([]string, bool) {
	var blocks []textBlock
	if err := json.Unmarshal(raw, &blocks); err == nil {
		return compact(blocks), true
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, false
	}
	for _, key := range []string{"text", "texts", "paragraphs", "blocks", "lines"} {
		if fieldRaw, ok := wrapper[key]; ok {
			if err := json.Unmarshal(fieldRaw, &blocks); err == nil {
				return compact(blocks), true
			}
		}
	}
	return nil, false
}

func compact(blocks []textBlock) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if s := strings.TrimSpace(string(b)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
