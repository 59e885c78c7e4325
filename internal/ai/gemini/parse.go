package gemini

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// parseResponse decodes the JSON object in a model reply. A fenced json block
// anywhere in the reply wins; otherwise the whole reply is tried. Anything that
// is not a JSON object ends up as {"raw": reply}.
func parseResponse(raw string) map[string]any {
	candidate := extractJSON(raw)
	if match := fencedJSON.FindStringSubmatch(raw); match != nil {
		candidate = match[1]
	}

	var decoded any
	if err := json.Unmarshal([]byte(candidate), &decoded); err == nil {
		if object, ok := decoded.(map[string]any); ok {
			return object
		}
	}

	return map[string]any{"raw": raw}
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
