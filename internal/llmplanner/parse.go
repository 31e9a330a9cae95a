package llmplanner

import (
	"encoding/json"
	"strings"
)

// stripCodeFences removes a surrounding ```json ... ``` or ``` ... ```
// fence if present, per §4.6's "strips code fences if present".
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx != -1 && !strings.HasPrefix(strings.TrimSpace(s[:idx]), "{") {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Parse attempts to decode the oracle's raw text as a Draft. On parse
// failure it returns false rather than an error: the caller is expected
// to fall back to Fallback() per §4.6, not to propagate a parse error.
func Parse(raw string) (*Draft, bool) {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return nil, false
	}

	var draft Draft
	if err := json.Unmarshal([]byte(cleaned), &draft); err != nil {
		return nil, false
	}
	if draft.Destination == "" && len(draft.Days) == 0 {
		return nil, false
	}
	return &draft, true
}
