package gemini

import (
	"encoding/json"
	"fmt"
	"strings"
)

// basic safety limits to avoid pathological model outputs
const (
	maxPayloadLen = 64 * 1024
	maxErrSnippet = 200
)

// stripCodeFences removes a surrounding markdown code block, which the
// model emits despite being told not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// drop the language tag line
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractJSONObject pulls the outermost {...} span out of free text.
func extractJSONObject(s string) (string, error) {
	if len(s) > maxPayloadLen {
		return "", fmt.Errorf("payload too large")
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in payload: %s", safeSnippet(s))
	}
	return s[start : end+1], nil
}

// decodeJSONPayload strips fences, extracts the object span and unmarshals
// into v. Every model response goes through here before validation.
func decodeJSONPayload(raw string, v any) error {
	obj, err := extractJSONObject(stripCodeFences(raw))
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return fmt.Errorf("unmarshal model payload: %w", err)
	}
	return nil
}

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	return s[:maxErrSnippet]
}
