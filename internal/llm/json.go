package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrEmptyResponse is returned when the model produced nothing to decode.
var ErrEmptyResponse = errors.New("empty LLM response")

// DecodeJSON unmarshals a model response into v, tolerating markdown code
// fences and chatter around the outermost JSON object.
func DecodeJSON(text string, v any) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyResponse
	}

	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		endIdx := len(lines) - 1
		for i := len(lines) - 1; i > 0; i-- {
			if strings.TrimSpace(lines[i]) == "```" {
				endIdx = i
				break
			}
		}
		if endIdx < 1 {
			endIdx = 1
		}
		text = strings.Join(lines[1:endIdx], "\n")
	}

	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		text = text[start : end+1]
	}

	return json.Unmarshal([]byte(text), v)
}
