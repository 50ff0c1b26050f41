// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/tieout/pkg/types"
)

var errNotCoercible = errors.New("not coercible")

// nullish are placeholder answers treated as absent.
var nullish = map[string]bool{
	"":              true,
	"null":          true,
	"nil":           true,
	"n/a":           true,
	"na":            true,
	"none":          true,
	"unknown":       true,
	"not specified": true,
	"not provided":  true,
	"not found":     true,
	"not available": true,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan. 2, 2006",
	"2 January 2006",
	"January 2006",
	time.RFC3339,
}

var numberCleaner = strings.NewReplacer("$", "", "usd", "", ",", "", " ", "", "shares", "", "per share", "")

var multipliers = []struct {
	suffix string
	factor float64
}{
	{"billion", 1e9},
	{"million", 1e6},
	{"thousand", 1e3},
	{"mm", 1e6},
	{"b", 1e9},
	{"m", 1e6},
	{"k", 1e3},
}

// Normalize coerces the oracle's raw object to the schema for t. Fields the
// schema knows are coerced to their kind; nulls and placeholder answers are
// dropped. Unknown keys and values that cannot be coerced are returned in
// extra, the latter with a warning. compliance_items and issues_found are
// normalized as lists and kept in normalized.
func Normalize(t types.DocumentType, obj map[string]any) (normalized, extra map[string]any, warnings []string) {
	s := For(t)
	normalized = make(map[string]any)
	extra = make(map[string]any)

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := obj[key]
		spec, known := s.Field(key)
		if !known {
			if key == KeyComplianceItems || key == KeyIssuesFound {
				spec = FieldSpec{Name: key, Kind: KindStringList}
			} else {
				if !isNullish(raw) {
					extra[key] = raw
				}
				continue
			}
		}
		if isNullish(raw) {
			continue
		}

		v, leftovers, err := coerce(spec.Kind, raw)
		if err != nil {
			extra[key] = raw
			warnings = append(warnings, fmt.Sprintf("%s: cannot use %s as %s", key, preview(raw), spec.Kind))
			continue
		}
		for sub, val := range leftovers {
			extra[key+"."+sub] = val
		}
		if v != nil {
			normalized[key] = v
		}
	}
	return normalized, extra, warnings
}

// coerce converts raw to kind. A nil value with a nil error means the value
// normalized to nothing (an empty list, for example).
func coerce(kind Kind, raw any) (any, map[string]any, error) {
	switch kind {
	case KindNumber:
		f, err := toNumber(raw, false)
		return f, nil, err
	case KindRate:
		f, err := toNumber(raw, true)
		return f, nil, err
	case KindDate:
		d, err := toDate(raw)
		return d, nil, err
	case KindBool:
		b, err := toBool(raw)
		return b, nil, err
	case KindString, KindText:
		s, err := toString(raw)
		return s, nil, err
	case KindStringList:
		l, err := StringList(raw)
		if err != nil || len(l) == 0 {
			return nil, nil, err
		}
		return l, nil, nil
	case KindShareCounts:
		return toShareCounts(raw)
	case KindShareholders:
		l, err := toShareholders(raw)
		if err != nil || len(l) == 0 {
			return nil, nil, err
		}
		return l, nil, nil
	}
	return nil, nil, errNotCoercible
}

func isNullish(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return nullish[strings.ToLower(strings.TrimSpace(t))]
	}
	return false
}

func toNumber(v any, rate bool) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	case string:
		return parseNumber(t, rate)
	}
	return 0, errNotCoercible
}

// parseNumber accepts "1,500,000", "$2.00", "20%", "$10M" and similar.
func parseNumber(s string, rate bool) (float64, error) {
	clean := numberCleaner.Replace(strings.ToLower(strings.TrimSpace(s)))
	if clean == "" {
		return 0, errNotCoercible
	}

	if strings.HasSuffix(clean, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(clean, "%"), 64)
		if err != nil {
			return 0, errNotCoercible
		}
		if rate {
			return f / 100, nil
		}
		return f, nil
	}

	factor := 1.0
	for _, m := range multipliers {
		if strings.HasSuffix(clean, m.suffix) {
			clean = strings.TrimSuffix(clean, m.suffix)
			factor = m.factor
			break
		}
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, errNotCoercible
	}
	return f * factor, nil
}

// ParseDate parses s in any of the accepted layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func toDate(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errNotCoercible
	}
	d, ok := ParseDate(s)
	if !ok {
		return "", errNotCoercible
	}
	return d.Format("2006-01-02"), nil
}

func toBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y":
			return true, nil
		case "false", "no", "n":
			return false, nil
		}
	}
	return false, errNotCoercible
}

func toString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(t), nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	}
	return "", errNotCoercible
}

// StringList coerces a list, or a single string, to a list of strings.
// Null entries are skipped; object entries are kept as compact JSON.
func StringList(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return t, nil
	case string:
		if isNullish(t) {
			return nil, nil
		}
		return []string{strings.TrimSpace(t)}, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if isNullish(item) {
				continue
			}
			if s, err := toString(item); err == nil {
				out = append(out, s)
				continue
			}
			data, err := json.Marshal(item)
			if err != nil {
				return nil, errNotCoercible
			}
			out = append(out, string(data))
		}
		return out, nil
	}
	return nil, errNotCoercible
}

func toShareCounts(v any) (any, map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, nil, errNotCoercible
	}
	out := make(map[string]any)
	var leftovers map[string]any
	for k, raw := range m {
		key := strings.ToLower(strings.TrimSpace(k))
		if key != "common" && key != "preferred" {
			if leftovers == nil {
				leftovers = make(map[string]any)
			}
			leftovers[k] = raw
			continue
		}
		if isNullish(raw) {
			continue
		}
		f, err := toNumber(raw, false)
		if err != nil {
			return nil, nil, err
		}
		out[key] = f
	}
	if len(out) == 0 {
		return nil, leftovers, nil
	}
	return out, leftovers, nil
}

func toShareholders(v any) ([]any, error) {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case map[string]any:
		items = []any{t}
	default:
		return nil, errNotCoercible
	}

	out := make([]any, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, errNotCoercible
		}
		holder := make(map[string]any)
		for _, key := range []string{"name", "class"} {
			if raw, ok := m[key]; ok && !isNullish(raw) {
				s, err := toString(raw)
				if err != nil {
					return nil, err
				}
				holder[key] = s
			}
		}
		for _, key := range []string{"shares", "percentage"} {
			if raw, ok := m[key]; ok && !isNullish(raw) {
				f, err := toNumber(raw, false)
				if err != nil {
					return nil, err
				}
				holder[key] = f
			}
		}
		if len(holder) > 0 {
			out = append(out, holder)
		}
	}
	return out, nil
}

func preview(v any) string {
	s := fmt.Sprintf("%v", v)
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return fmt.Sprintf("%q", s)
}
