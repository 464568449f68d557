package recognition

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseScanJSON parses the JSON a recognition backend returns. Vision models
// wrap output in markdown fences or surround it with prose despite the prompt,
// so everything outside the outermost object is discarded.
func parseScanJSON(text string) (*ScanResult, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}
	text = text[startIdx : endIdx+1]

	var result ScanResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	if result.Fields == nil {
		result.Fields = make(map[FieldKey]string)
	}
	for key, value := range result.Fields {
		result.Fields[key] = strings.TrimSpace(value)
	}

	if !result.Success && result.ErrorMessage == "" {
		result.ErrorMessage = "recognition backend reported failure"
	}

	return &result, nil
}
