package service

import (
	"encoding/json"

	"codecoach/internal/common"
	"codecoach/internal/domain/model"
)

// extractProblemRecord finds the first well-formed JSON object embedded in a
// free-text model reply. Candidates are brace-balanced substrings taken in
// order of appearance; malformed candidates are skipped, not raised.
func extractProblemRecord(text string) (*model.ProblemRecord, error) {
	for _, candidate := range scanObjects(text) {
		record := &model.ProblemRecord{}
		if err := json.Unmarshal([]byte(candidate), record); err == nil {
			return record, nil
		}
	}
	return nil, common.ErrNoValidJSON
}

// scanObjects returns every top-level {...} substring with balanced braces.
// Braces inside JSON strings (including escaped quotes) do not count toward
// the balance.
func scanObjects(text string) []string {
	var objects []string

	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue // stray closing brace
			}
			depth--
			if depth == 0 {
				objects = append(objects, text[start:i+1])
			}
		}
	}

	return objects
}
