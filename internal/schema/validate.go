// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pdiddy/tieout/pkg/types"
)

const datePattern = `^\d{4}-\d{2}-\d{2}$`

// JSONSchema returns the JSON-Schema (draft 2020-12 subset) that a
// normalized object for t must satisfy. No field is required; the oracle
// may legitimately omit anything.
func JSONSchema(t types.DocumentType) map[string]any {
	s := For(t)
	props := map[string]any{
		KeyComplianceItems: stringListProp(),
		KeyIssuesFound:     stringListProp(),
	}
	for _, f := range s.Fields {
		props[f.Name] = kindProp(f.Kind)
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

func kindProp(k Kind) map[string]any {
	switch k {
	case KindNumber, KindRate:
		return map[string]any{"type": "number"}
	case KindDate:
		return map[string]any{"type": "string", "pattern": datePattern}
	case KindBool:
		return map[string]any{"type": "boolean"}
	case KindStringList:
		return stringListProp()
	case KindShareCounts:
		return map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"common":    map[string]any{"type": "number", "minimum": 0},
				"preferred": map[string]any{"type": "number", "minimum": 0},
			},
		}
	case KindShareholders:
		return map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"name":       map[string]any{"type": "string"},
					"shares":     map[string]any{"type": "number"},
					"percentage": map[string]any{"type": "number"},
					"class":      map[string]any{"type": "string"},
				},
			},
		}
	}
	return map[string]any{"type": "string"}
}

func stringListProp() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}

var (
	compiledMu sync.Mutex
	compiled   = map[types.DocumentType]*jsonschema.Schema{}
)

func compile(t types.DocumentType) (*jsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()
	if s, ok := compiled[t]; ok {
		return s, nil
	}

	b, err := json.Marshal(JSONSchema(t))
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	s, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	compiled[t] = s
	return s, nil
}

// Validate checks a normalized object against JSONSchema(t).
func Validate(t types.DocumentType, normalized map[string]any) error {
	s, err := compile(For(t).Type)
	if err != nil {
		return err
	}
	data, err := json.Marshal(normalized)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
