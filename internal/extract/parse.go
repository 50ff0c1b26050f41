// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"strings"
)

const previewChars = 500

// parseOutcome classifies an oracle answer.
type parseOutcome int

const (
	parsedObject parseOutcome = iota
	parseFailed
	noObject
)

// parseResponse extracts the JSON object spanning the first '{' through the
// last '}' of text. On parseFailed the error message is returned.
func parseResponse(text string) (map[string]any, parseOutcome, string) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, noObject, ""
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil, parseFailed, err.Error()
	}
	return obj, parsedObject, ""
}
