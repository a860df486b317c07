// Package extract parses the semi-structured text formats the model is
// asked to produce. Parsing is deterministic; only the upstream model text
// is not. Each format is a small grammar with explicit skip rules: lines
// that do not parse are dropped, never fatal.
package extract

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoStructure is returned when no brace-delimited JSON object could be
// located in the text.
var ErrNoStructure = errors.New("no json object found in text")

// Condition is one entry of the pipe-delimited triage list.
type Condition struct {
	Name        string `json:"name"`
	Confidence  string `json:"confidence"`
	Description string `json:"description"`
}

// JSONObject locates and parses a single top-level JSON object inside text
// that may be wrapped in prose or markdown code fences. The object spans
// from the first '{' to the last '}' in the cleaned text.
func JSONObject(text string) (map[string]any, error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return nil, ErrNoStructure
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &out); err != nil {
		return nil, ErrNoStructure
	}
	return out, nil
}

// JSONInto is JSONObject decoded into a caller-supplied struct.
func JSONInto(text string, v any) error {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return ErrNoStructure
	}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), v); err != nil {
		return ErrNoStructure
	}
	return nil
}

// PipeConditions parses up to max lines of the form
// "name|confidence|description". Lines yielding fewer than three fields are
// skipped; extra fields are folded into the description. Partial or empty
// results are valid output.
func PipeConditions(text string, max int) []Condition {
	conditions := make([]Condition, 0, max)
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(conditions) == max {
			break
		}
		parts := strings.Split(line, "|")
		if len(parts) < 3 {
			continue
		}
		conditions = append(conditions, Condition{
			Name:        strings.TrimSpace(parts[0]),
			Confidence:  strings.TrimSpace(parts[1]),
			Description: strings.TrimSpace(strings.Join(parts[2:], "|")),
		})
	}
	return conditions
}

// PrefixedLines returns the trimmed remainders of lines starting with the
// marker prefix, truncated to the first max matches.
func PrefixedLines(text, prefix string, max int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		out = append(out, strings.TrimSpace(strings.TrimPrefix(line, prefix)))
		if len(out) == max {
			break
		}
	}
	return out
}
