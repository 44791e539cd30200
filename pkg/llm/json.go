package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"
)

// UnmarshalResponse parses JSON out of a model response into target. Model
// output is frequently malformed: wrapped in markdown fences, surrounded by
// prose, or truncated. Parsing runs repair first, then falls back to
// extracting the outermost JSON value from the text.
func UnmarshalResponse(content string, target any) error {
	content = stripMarkdownFences(content)

	candidate := content
	if repaired, err := jsonrepair.JSONRepair(content); err == nil {
		candidate = repaired
	}

	if err := json.Unmarshal([]byte(candidate), target); err == nil {
		return nil
	}

	// Extraction runs on the original text: repair of prose-wrapped
	// content can destroy the embedded JSON.
	extracted, ok := extractJSON(content)
	if !ok {
		return fmt.Errorf("no JSON value found in response")
	}

	if repaired, err := jsonrepair.JSONRepair(extracted); err == nil {
		extracted = repaired
	}

	if err := json.Unmarshal([]byte(extracted), target); err != nil {
		return fmt.Errorf("failed to parse response JSON: %w", err)
	}
	return nil
}

// stripMarkdownFences removes a surrounding ```json ... ``` block if present.
func stripMarkdownFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// extractJSON finds the outermost JSON object or array embedded in text.
func extractJSON(s string) (string, bool) {
	start := strings.IndexAny(s, "[{")
	if start == -1 {
		return "", false
	}

	var end int
	if s[start] == '[' {
		end = strings.LastIndex(s, "]")
	} else {
		end = strings.LastIndex(s, "}")
	}
	if end <= start {
		return "", false
	}
	return s[start : end+1], true
}
