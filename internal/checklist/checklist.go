// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package checklist loads the due-diligence checklist and evaluates its
// rules against the extracted document records.
package checklist

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/tieout/pkg/types"
)

//go:embed default.yaml
var defaultYAML []byte

// Default returns the embedded canonical checklist.
func Default() (types.Checklist, error) {
	c, err := Parse(defaultYAML)
	if err != nil {
		return types.Checklist{}, fmt.Errorf("embedded checklist: %w", err)
	}
	return c, nil
}

// Load reads and validates a checklist file. An empty path returns Default.
func Load(path string) (types.Checklist, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Checklist{}, fmt.Errorf("reading checklist %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return types.Checklist{}, fmt.Errorf("checklist %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates checklist YAML.
func Parse(data []byte) (types.Checklist, error) {
	var c types.Checklist
	if err := yaml.Unmarshal(data, &c); err != nil {
		return types.Checklist{}, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := Validate(c); err != nil {
		return types.Checklist{}, err
	}
	return c, nil
}

// Validate reports every structural problem: empty groups, blank or
// duplicate rule descriptions, and unknown check kinds.
func Validate(c types.Checklist) error {
	var errs []error
	if len(c.Sections) == 0 {
		errs = append(errs, errors.New("no sections"))
	}

	seen := make(map[string]string)
	for _, sec := range c.Sections {
		if sec.Name == "" {
			errs = append(errs, errors.New("section with empty name"))
		}
		if len(sec.Subsections) == 0 {
			errs = append(errs, fmt.Errorf("section %q has no subsections", sec.Name))
		}
		for _, sub := range sec.Subsections {
			where := sec.Name + " / " + sub.Name
			if sub.Name == "" {
				errs = append(errs, fmt.Errorf("section %q has a subsection with empty name", sec.Name))
			}
			if len(sub.Rules) == 0 {
				errs = append(errs, fmt.Errorf("%s has no rules", where))
			}
			for _, r := range sub.Rules {
				if r.Description == "" {
					errs = append(errs, fmt.Errorf("%s has a rule with empty description", where))
					continue
				}
				if prev, dup := seen[r.Description]; dup {
					errs = append(errs, fmt.Errorf("duplicate rule %q in %s (first in %s)", r.Description, where, prev))
				}
				seen[r.Description] = where
				if !r.Check.Valid() {
					errs = append(errs, fmt.Errorf("rule %q: unknown check %q", r.Description, r.Check))
				}
			}
		}
	}
	return errors.Join(errs...)
}
