package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/resume-fixer/internal/ai"
	"github.com/spigell/resume-fixer/internal/resume"
)

var feedbackKeys = []string{"overallScore", "ATS", "toneAndStyle", "content", "structure", "skills"}

func parseFeedback(raw string) (*resume.Feedback, error) {
	data, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	if !hasAnyKey(data, feedbackKeys...) {
		return nil, errors.New("gemini response does not contain feedback")
	}

	var feedback resume.Feedback
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &feedback,
	})
	if err != nil {
		return nil, fmt.Errorf("create feedback decoder: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode feedback: %w", err)
	}

	feedback.Normalize()
	return &feedback, nil
}

func parseFix(raw string) (*ai.FixResult, error) {
	data, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	result := &ai.FixResult{
		Improved:        coerceString(data["improved"]),
		Explanation:     coerceString(data["explanation"]),
		OriginalSnippet: coerceString(data["originalSnippet"]),
		Raw:             raw,
	}

	if result.Improved == "" {
		return nil, errors.New("gemini response has no improved text")
	}

	return result, nil
}

func decodeObject(raw string) (map[string]any, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}
	if data == nil {
		return nil, errors.New("parse gemini response: not a json object")
	}

	return data, nil
}

// extractJSON strips Markdown code fences and any chatter around the outermost JSON object.
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
	raw = strings.TrimSpace(raw)

	if !strings.HasPrefix(raw, "{") {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start != -1 && end > start {
			raw = raw[start : end+1]
		}
	}

	return raw
}

func hasAnyKey(data map[string]any, keys ...string) bool {
	for _, key := range keys {
		if _, ok := data[key]; ok {
			return true
		}
	}
	return false
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
