package counselor

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/career-interviewer/internal/career"
)

func parseSuggestions(raw string) ([]career.Suggestion, error) {
	cleaned := extractJSON(raw)

	var payload any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}

	var items []any
	switch val := payload.(type) {
	case []any:
		items = val
	case map[string]any:
		if nested, ok := val["suggestions"].([]any); ok {
			items = nested
		} else {
			items = []any{val}
		}
	default:
		return nil, fmt.Errorf("parse suggestions: unexpected %T payload", payload)
	}

	suggestions := make([]career.Suggestion, 0, len(items))
	for idx, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("suggestion %d: unexpected %T entry", idx, item)
		}

		s, err := decodeSuggestion(entry)
		if err != nil {
			return nil, fmt.Errorf("suggestion %d: %w", idx, err)
		}
		suggestions = append(suggestions, s)
	}

	return suggestions, nil
}

func decodeSuggestion(entry map[string]any) (career.Suggestion, error) {
	var s career.Suggestion

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       flattenToString,
		WeaklyTypedInput: true,
		Result:           &s,
		TagName:          "mapstructure",
	})
	if err != nil {
		return s, fmt.Errorf("create decoder: %w", err)
	}

	if err := decoder.Decode(normalizeKeys(entry)); err != nil {
		return s, fmt.Errorf("decode suggestion: %w", err)
	}

	s.Occupation = strings.TrimSpace(s.Occupation)
	s.Skills = strings.TrimSpace(s.Skills)
	s.Reasoning = strings.TrimSpace(s.Reasoning)
	s.GrowthPotential = strings.TrimSpace(s.GrowthPotential)
	s.SalaryRange = strings.TrimSpace(s.SalaryRange)

	return s, nil
}

// normalizeKeys maps loosely named keys ("Occupation title", "growth
// potential", "key_skills") onto the canonical field names.
func normalizeKeys(entry map[string]any) map[string]any {
	out := make(map[string]any, len(entry))
	for key, value := range entry {
		normalized := strings.ToLower(strings.TrimSpace(key))
		normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)

		switch normalized {
		case "occupation", "occupation_title", "title", "career", "role":
			normalized = "occupation"
		case "skills", "key_skills", "key_skills_needed", "skills_needed":
			normalized = "skills"
		case "reasoning", "brief_reasoning", "reason":
			normalized = "reasoning"
		case "growth_potential", "growth":
			normalized = "growth_potential"
		case "salary_range", "typical_salary_range", "salary":
			normalized = "salary_range"
		default:
			continue
		}

		if _, exists := out[normalized]; !exists {
			out[normalized] = value
		}
	}
	return out
}

// flattenToString renders lists and objects destined for string fields as
// comma separated text.
func flattenToString(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}

	switch from.Kind() {
	case reflect.Slice, reflect.Array:
		items, ok := data.([]any)
		if !ok {
			return data, nil
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if text := coerceString(item); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, ", "), nil
	case reflect.Map:
		return coerceString(data), nil
	default:
		return data, nil
	}
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
	raw = strings.TrimSpace(raw)

	// Models sometimes wrap the payload in prose.
	start := strings.IndexAny(raw, "[{")
	if start >= 0 {
		closer := "]"
		if raw[start] == '{' {
			closer = "}"
		}
		if end := strings.LastIndex(raw, closer); end > start {
			raw = raw[start : end+1]
		}
	}

	return raw
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
