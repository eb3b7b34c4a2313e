package service

import (
	"encoding/json"
	"strings"
	"time"
)

func GetExpiresAt(expiresIn int) time.Time {
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}

// ExtractAPIError pulls a human-readable message out of a failed platform
// response: a JSON "error" field (string or Graph-style object), then a
// "message" field, falling back to the raw body text.
func ExtractAPIError(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "empty response body"
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return trimmed
	}

	for _, key := range []string{"error", "message"} {
		raw, ok := envelope[key]
		if !ok {
			continue
		}

		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}

		var obj struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
			return obj.Message
		}
	}

	return trimmed
}
