package capability

import (
	"encoding/json"
	"strings"

	"studybuddy-be/internal/pkg/logger"
)

// SanitizeResponse strips the markdown code fences models like to wrap
// JSON payloads in. The opening fence may carry a language tag. Empty or
// whitespace-only input sanitizes to "".
func SanitizeResponse(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	if strings.HasPrefix(text, "```") {
		rest := text[3:]
		if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
			// Drop the fence line including any language tag.
			tag := strings.TrimSpace(rest[:idx])
			if tag == "" || isFenceTag(tag) {
				rest = rest[idx+1:]
			}
		} else {
			rest = strings.TrimSpace(rest)
			// Single-line payload like "```json{...}```".
			rest = strings.TrimPrefix(rest, "json")
		}
		text = rest
	}

	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")

	return strings.TrimSpace(text)
}

func isFenceTag(tag string) bool {
	for _, r := range tag {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// ParseJSON unmarshals text into T, returning fallback() on any parse
// failure. The fallback factory is invoked lazily so callers pay for
// fallback construction only when parsing actually fails. Never panics.
func ParseJSON[T any](log logger.ILogger, text string, fallback func() T) T {
	var out T
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		if log != nil {
			log.Warn("capability", "structured response is not valid JSON, using fallback", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return fallback()
	}
	return out
}
