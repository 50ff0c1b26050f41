// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package checklist

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/tieout/internal/schema"
	"github.com/pdiddy/tieout/pkg/types"
)

// SafeHarborDays is how long a 409A valuation stays current.
const SafeHarborDays = 365

// ManualReviewExplanation is the explanation for rules without an automated check.
const ManualReviewExplanation = "Requires manual review - no automated check defined"

// Engine evaluates checklist rules against a snapshot of document records.
// It holds no state between calls.
type Engine struct {
	now    func() time.Time
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock fixes the engine's notion of today.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the engine's logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine using the wall clock unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now, logger: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Run evaluates every rule of c in section, subsection, rule order.
func (e *Engine) Run(c types.Checklist, records []types.DocumentRecord) []types.Verdict {
	rules := c.Rules()
	out := make([]types.Verdict, 0, len(rules))
	var counts types.Counts
	for _, r := range rules {
		v := e.Evaluate(r, records)
		counts.Add(v.Outcome)
		out = append(out, v)
	}
	e.logger.Debug("checklist.run",
		zap.Int("rules", counts.Total),
		zap.Int("pass", counts.Pass),
		zap.Int("fail", counts.Fail),
		zap.Int("needs_review", counts.NeedsReview),
		zap.Int("documents", len(records)))
	return out
}

// Evaluate runs the check assigned to rule.
func (e *Engine) Evaluate(rule types.ChecklistRule, records []types.DocumentRecord) types.Verdict {
	var outcome types.Outcome
	var explanation string
	var docs []string

	switch rule.Check {
	case types.Check409AValuation:
		outcome, explanation, docs = e.valuation409A(records)
	case types.CheckBoardApproval:
		outcome, explanation, docs = boardApproval(records)
	case types.CheckCapTableXRef:
		outcome, explanation, docs = capTableCrossReference(records)
	case types.CheckAuthorizedShare:
		outcome, explanation, docs = present(records,
			func(r types.DocumentRecord) bool { return r.Fields.Has("authorized_shares") },
			"Authorized shares documented in: %s",
			"No authorized share information found")
	case types.CheckPricing:
		outcome, explanation, docs = present(records,
			func(r types.DocumentRecord) bool {
				return r.Fields.Has("price_per_share") && r.Fields.Has("total_consideration")
			},
			"Pricing data found in: %s",
			"No pricing/valuation data found for verification")
	case types.CheckCharterFiling:
		outcome, explanation, docs = present(records,
			func(r types.DocumentRecord) bool { return r.Type == types.DocCharter },
			"Charter documentation found: %s",
			"No charter/incorporation documents uploaded")
	case types.CheckConversionTerms:
		outcome, explanation, docs = present(records,
			func(r types.DocumentRecord) bool { return r.Fields.Has("conversion_triggers", "conversion_terms") },
			"Conversion terms found in: %s",
			"No conversion terms documentation found")
	case types.CheckVesting:
		outcome, explanation, docs = present(records,
			func(r types.DocumentRecord) bool { return r.Fields.Has("vesting_schedule", "acceleration_provisions") },
			"Vesting documentation found in: %s",
			"No vesting schedule documentation found")
	default:
		outcome, explanation = types.OutcomeNeedsReview, ManualReviewExplanation
	}

	return types.Verdict{
		RuleID:      rule.ID(),
		Section:     rule.Section,
		Subsection:  rule.Subsection,
		Check:       rule.Check,
		Outcome:     outcome,
		Explanation: explanation,
		Documents:   docs,
	}
}

// present passes when match holds for at least one record.
func present(records []types.DocumentRecord, match func(types.DocumentRecord) bool, found, missing string) (types.Outcome, string, []string) {
	var ids []string
	for _, r := range records {
		if match(r) {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) == 0 {
		return types.OutcomeFail, missing, nil
	}
	ids = sortedUnique(ids)
	return types.OutcomePass, fmt.Sprintf(found, strings.Join(ids, ", ")), ids
}

func boardApproval(records []types.DocumentRecord) (types.Outcome, string, []string) {
	return present(records, func(r types.DocumentRecord) bool {
		if r.Fields.Has("board_approval_date", "board_approval_reference") {
			return true
		}
		for _, note := range r.ComplianceNotes {
			if strings.Contains(strings.ToLower(note), "board approval") {
				return true
			}
		}
		return false
	}, "Board approval found in: %s", "No board approval documentation found")
}

func capTableCrossReference(records []types.DocumentRecord) (types.Outcome, string, []string) {
	hasCapTable := false
	for _, r := range records {
		if r.Type == types.DocCapTable {
			hasCapTable = true
			break
		}
	}
	if !hasCapTable {
		return types.OutcomeNeedsReview, "No cap table document uploaded for comparison", nil
	}

	var ids []string
	for _, r := range records {
		if r.Fields.Has("shares_purchased", "shares_granted") {
			ids = append(ids, r.ID)
		}
	}
	ids = sortedUnique(ids)
	if len(ids) >= 2 {
		return types.OutcomePass,
			fmt.Sprintf("Share data found in %d documents for cross-reference: %s", len(ids), strings.Join(ids, ", ")),
			ids
	}
	return types.OutcomeNeedsReview, "Insufficient data for cap table cross-reference", ids
}

// valuation409A uses the latest 409A date. Grant dates stand in when no
// record carries a valuation date.
func (e *Engine) valuation409A(records []types.DocumentRecord) (types.Outcome, string, []string) {
	latest, ids := latestDate(records, "valuation_409a_date")
	proxy := ""
	if len(ids) == 0 {
		latest, ids = latestDate(records, "grant_date")
		proxy = " (no 409A valuation date found; using grant date)"
	}
	if len(ids) == 0 {
		return types.OutcomeNeedsReview, "No 409A valuation dates found in documents", nil
	}

	now := e.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(today.Sub(latest).Hours() / 24)
	dated := latest.Format("2006-01-02")
	cite := strings.Join(ids, ", ")

	if days <= SafeHarborDays {
		return types.OutcomePass,
			fmt.Sprintf("409A valuation current (dated %s, %d days ago)%s in: %s", dated, days, proxy, cite), ids
	}
	return types.OutcomeFail,
		fmt.Sprintf("409A valuation stale (dated %s, %d days ago)%s in: %s", dated, days, proxy, cite), ids
}

// latestDate returns the latest parseable value of key and the records
// that carry any parseable value for it.
func latestDate(records []types.DocumentRecord, key string) (time.Time, []string) {
	var latest time.Time
	var ids []string
	for _, r := range records {
		s, ok := r.Fields.String(key)
		if !ok {
			continue
		}
		d, ok := schema.ParseDate(s)
		if !ok {
			continue
		}
		ids = append(ids, r.ID)
		if d.After(latest) {
			latest = d
		}
	}
	return latest, sortedUnique(ids)
}

func sortedUnique(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	sort.Strings(ids)
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}
