// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discrepancy tracks failed checklist rules across repeated runs.
package discrepancy

import (
	"sync"

	"github.com/pdiddy/tieout/pkg/types"
)

// Collector accumulates one discrepancy per failed rule. A rule that fails
// again on a later run is not added twice.
type Collector struct {
	mu      sync.Mutex
	items   []types.Discrepancy
	tracked map[string]bool
}

// New creates an empty collector.
func New() *Collector {
	return &Collector{tracked: make(map[string]bool)}
}

// Collect appends a discrepancy for every failed verdict whose rule is not
// yet tracked and returns the accumulated list. Section and subsection are
// taken from c when it knows the rule.
func (col *Collector) Collect(verdicts []types.Verdict, c types.Checklist) []types.Discrepancy {
	col.mu.Lock()
	defer col.mu.Unlock()

	for _, v := range verdicts {
		if v.Outcome != types.OutcomeFail || col.tracked[v.RuleID] {
			continue
		}
		section, subsection := v.Section, v.Subsection
		if r, ok := c.Rule(v.RuleID); ok {
			section, subsection = r.Section, r.Subsection
		}
		col.items = append(col.items, types.Discrepancy{
			Type:           types.DiscrepancyComplianceFailure,
			RuleID:         v.RuleID,
			Section:        section,
			Subsection:     subsection,
			Severity:       types.SeverityHigh,
			Recommendation: v.Explanation,
		})
		col.tracked[v.RuleID] = true
	}
	return col.list()
}

// List returns a copy of the accumulated discrepancies.
func (col *Collector) List() []types.Discrepancy {
	col.mu.Lock()
	defer col.mu.Unlock()
	return col.list()
}

func (col *Collector) list() []types.Discrepancy {
	return append([]types.Discrepancy(nil), col.items...)
}

// Len returns the number of tracked discrepancies.
func (col *Collector) Len() int {
	col.mu.Lock()
	defer col.mu.Unlock()
	return len(col.items)
}

// Reset forgets every tracked discrepancy.
func (col *Collector) Reset() {
	col.mu.Lock()
	defer col.mu.Unlock()
	col.items = nil
	col.tracked = make(map[string]bool)
}
