package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractObject unmarshals the first balanced JSON object found in content
// into v. Model replies often wrap the object in prose or code fences, so
// the extraction scans for matching braces instead of trusting the whole
// reply; when no balanced object is found the full content is tried as-is.
func extractObject(content string, v any) error {
	content = strings.TrimSpace(content)

	start, end := -1, -1
	depth := 0
	inString := false
	escaped := false
	for i, r := range content {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if inString {
				continue
			}
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if inString {
				continue
			}
			depth--
			if depth == 0 && start != -1 {
				end = i + 1
			}
		}
		if end != -1 {
			break
		}
	}

	if start != -1 && end != -1 {
		if err := json.Unmarshal([]byte(content[start:end]), v); err != nil {
			return fmt.Errorf("unmarshal extracted object: %w", err)
		}
		return nil
	}
	if err := json.Unmarshal([]byte(content), v); err != nil {
		return fmt.Errorf("no json object found: %w", err)
	}
	return nil
}
