// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package checklist

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/tieout/pkg/types"
)

var fixedNow = time.Date(2024, 6, 30, 15, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func fixedEngine() *Engine {
	return NewEngine(WithClock(func() time.Time { return fixedNow }))
}

func rule(kind types.CheckKind) types.ChecklistRule {
	return types.ChecklistRule{
		Section:     "Capitalization Audit",
		Subsection:  "Test",
		Description: "rule for " + string(kind),
		Check:       kind,
	}
}

func grantRecord(id, grantDate, valuationDate string) types.DocumentRecord {
	f := &types.OptionGrantFields{SharesGranted: ptr(50000.0)}
	if grantDate != "" {
		f.GrantDate = ptr(grantDate)
	}
	if valuationDate != "" {
		f.Valuation409ADate = ptr(valuationDate)
	}
	return types.DocumentRecord{ID: id, Type: types.DocOption, Fields: types.ExtractedFields{OptionGrant: f}}
}

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	require.Len(t, c.Sections, 1)
	assert.Equal(t, "Capitalization Audit", c.Sections[0].Name)
	assert.Len(t, c.Sections[0].Subsections, 7)
	assert.Len(t, c.Rules(), 36)

	r, ok := c.Rule("409A valuation in place within 1-year safe harbor")
	require.True(t, ok)
	assert.Equal(t, types.Check409AValuation, r.Check)
	assert.Equal(t, "Option Pool Verification", r.Subsection)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no sections", "name: empty\n", "no sections"},
		{"empty subsection", `
sections:
  - name: A
    subsections:
      - name: B
        rules: []
`, "has no rules"},
		{"duplicate description", `
sections:
  - name: A
    subsections:
      - name: B
        rules:
          - {description: Same, check: pricing}
      - name: C
        rules:
          - {description: Same, check: vesting}
`, "duplicate rule"},
		{"unknown check", `
sections:
  - name: A
    subsections:
      - name: B
        rules:
          - {description: Rule, check: guesswork}
`, "unknown check"},
		{"bad yaml", "sections: [", "parsing YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Len(t, c.Rules(), 36)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: Short
sections:
  - name: Audit
    subsections:
      - name: Pricing
        rules:
          - description: Price checked
            check: pricing
`), 0o644))
	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Short", c.Name)
	assert.Len(t, c.Rules(), 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEvaluate_409A(t *testing.T) {
	e := fixedEngine()

	tests := []struct {
		name        string
		records     []types.DocumentRecord
		want        types.Outcome
		contains    string
		wantDocsIDs []string
	}{
		{
			name: "current uses the latest date",
			records: []types.DocumentRecord{
				grantRecord("old.pdf", "", "2022-01-01"),
				grantRecord("new.pdf", "", "2024-01-15"),
			},
			want:        types.OutcomePass,
			contains:    "409A valuation current (dated 2024-01-15, 167 days ago)",
			wantDocsIDs: []string{"new.pdf", "old.pdf"},
		},
		{
			name:        "stale",
			records:     []types.DocumentRecord{grantRecord("grant.pdf", "", "2023-01-15")},
			want:        types.OutcomeFail,
			contains:    "409A valuation stale (dated 2023-01-15, 532 days ago)",
			wantDocsIDs: []string{"grant.pdf"},
		},
		{
			name:        "grant date stands in",
			records:     []types.DocumentRecord{grantRecord("grant.pdf", "2024-03-01", "")},
			want:        types.OutcomePass,
			contains:    "using grant date",
			wantDocsIDs: []string{"grant.pdf"},
		},
		{
			name:     "no dates",
			records:  []types.DocumentRecord{{ID: "memo.txt", Type: types.DocOther}},
			want:     types.OutcomeNeedsReview,
			contains: "No 409A valuation dates found in documents",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := e.Evaluate(rule(types.Check409AValuation), tt.records)
			assert.Equal(t, tt.want, v.Outcome)
			assert.Contains(t, v.Explanation, tt.contains)
			assert.Equal(t, tt.wantDocsIDs, v.Documents)
		})
	}
}

func TestEvaluate_409ABoundary(t *testing.T) {
	e := fixedEngine()
	exactly := fixedNow.AddDate(0, 0, -SafeHarborDays).Format("2006-01-02")
	v := e.Evaluate(rule(types.Check409AValuation), []types.DocumentRecord{grantRecord("g", "", exactly)})
	assert.Equal(t, types.OutcomePass, v.Outcome, v.Explanation)

	dayLater := fixedNow.AddDate(0, 0, -SafeHarborDays-1).Format("2006-01-02")
	v = e.Evaluate(rule(types.Check409AValuation), []types.DocumentRecord{grantRecord("g", "", dayLater)})
	assert.Equal(t, types.OutcomeFail, v.Outcome, v.Explanation)
}

func TestEvaluate_BoardApproval(t *testing.T) {
	e := fixedEngine()

	viaField := types.DocumentRecord{ID: "consent.pdf", Fields: types.ExtractedFields{
		BoardConsent: &types.BoardConsentFields{BoardApprovalDate: ptr("2024-01-10")},
	}}
	viaNote := types.DocumentRecord{ID: "spa.pdf", ComplianceNotes: []string{"Board Approval obtained on closing"}}
	nothing := types.DocumentRecord{ID: "memo.txt"}

	v := e.Evaluate(rule(types.CheckBoardApproval), []types.DocumentRecord{viaNote, nothing, viaField})
	assert.Equal(t, types.OutcomePass, v.Outcome)
	assert.Equal(t, "Board approval found in: consent.pdf, spa.pdf", v.Explanation)
	assert.Equal(t, []string{"consent.pdf", "spa.pdf"}, v.Documents)

	v = e.Evaluate(rule(types.CheckBoardApproval), []types.DocumentRecord{nothing})
	assert.Equal(t, types.OutcomeFail, v.Outcome)
	assert.Equal(t, "No board approval documentation found", v.Explanation)
}

func TestEvaluate_CapTableCrossReference(t *testing.T) {
	e := fixedEngine()
	capTable := types.DocumentRecord{ID: "cap.xlsx", Type: types.DocCapTable}
	purchase := types.DocumentRecord{ID: "spa.pdf", Type: types.DocStockPurchase, Fields: types.ExtractedFields{
		Purchase: &types.PurchaseFields{SharesPurchased: ptr(1500000.0)},
	}}
	grant := grantRecord("grant.pdf", "", "")

	v := e.Evaluate(rule(types.CheckCapTableXRef), []types.DocumentRecord{purchase, grant})
	assert.Equal(t, types.OutcomeNeedsReview, v.Outcome)
	assert.Equal(t, "No cap table document uploaded for comparison", v.Explanation)

	v = e.Evaluate(rule(types.CheckCapTableXRef), []types.DocumentRecord{capTable, purchase})
	assert.Equal(t, types.OutcomeNeedsReview, v.Outcome)
	assert.Equal(t, "Insufficient data for cap table cross-reference", v.Explanation)

	v = e.Evaluate(rule(types.CheckCapTableXRef), []types.DocumentRecord{capTable, purchase, grant})
	assert.Equal(t, types.OutcomePass, v.Outcome)
	assert.Contains(t, v.Explanation, "Share data found in 2 documents for cross-reference")
	assert.Equal(t, []string{"grant.pdf", "spa.pdf"}, v.Documents)
}

func TestEvaluate_PresenceChecks(t *testing.T) {
	e := fixedEngine()
	charter := types.DocumentRecord{ID: "charter.pdf", Type: types.DocCharter, Fields: types.ExtractedFields{
		Charter: &types.CharterFields{AuthorizedShares: &types.ShareCounts{Common: ptr(10000000.0)}},
	}}
	pricedSPA := types.DocumentRecord{ID: "spa.pdf", Type: types.DocStockPurchase, Fields: types.ExtractedFields{
		Purchase: &types.PurchaseFields{PricePerShare: ptr(1.5), TotalConsideration: ptr(2250000.0)},
	}}
	halfPriced := types.DocumentRecord{ID: "half.pdf", Fields: types.ExtractedFields{
		Purchase: &types.PurchaseFields{PricePerShare: ptr(1.5)},
	}}
	safe := types.DocumentRecord{ID: "safe.pdf", Fields: types.ExtractedFields{
		Extra: map[string]any{"conversion_terms": "Converts at next equity round"},
	}}
	vesting := types.DocumentRecord{ID: "grant.pdf", Fields: types.ExtractedFields{
		OptionGrant: &types.OptionGrantFields{AccelerationProvisions: []string{"double trigger"}},
	}}
	all := []types.DocumentRecord{charter, pricedSPA, halfPriced, safe, vesting}
	empty := []types.DocumentRecord{{ID: "memo.txt"}}

	tests := []struct {
		kind    types.CheckKind
		pass    string
		fail    string
		records []types.DocumentRecord
	}{
		{types.CheckAuthorizedShare, "Authorized shares documented in: charter.pdf", "No authorized share information found", all},
		{types.CheckPricing, "Pricing data found in: spa.pdf", "No pricing/valuation data found for verification", all},
		{types.CheckCharterFiling, "Charter documentation found: charter.pdf", "No charter/incorporation documents uploaded", all},
		{types.CheckConversionTerms, "Conversion terms found in: safe.pdf", "No conversion terms documentation found", all},
		{types.CheckVesting, "Vesting documentation found in: grant.pdf", "No vesting schedule documentation found", all},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			v := e.Evaluate(rule(tt.kind), tt.records)
			assert.Equal(t, types.OutcomePass, v.Outcome)
			assert.Equal(t, tt.pass, v.Explanation)

			v = e.Evaluate(rule(tt.kind), empty)
			assert.Equal(t, types.OutcomeFail, v.Outcome)
			assert.Equal(t, tt.fail, v.Explanation)
			assert.Empty(t, v.Documents)
		})
	}
}

func TestEvaluate_ManualReview(t *testing.T) {
	v := fixedEngine().Evaluate(rule(types.CheckManualReview), nil)
	assert.Equal(t, types.OutcomeNeedsReview, v.Outcome)
	assert.Equal(t, ManualReviewExplanation, v.Explanation)
}

func TestRun_OrderAndIdempotence(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	records := []types.DocumentRecord{
		grantRecord("grant.pdf", "2024-03-01", "2024-01-15"),
		{ID: "charter.pdf", Type: types.DocCharter},
	}

	e := fixedEngine()
	first := e.Run(c, records)
	second := e.Run(c, records)
	assert.Equal(t, first, second)

	require.Len(t, first, 36)
	for i, r := range c.Rules() {
		assert.Equal(t, r.ID(), first[i].RuleID)
		assert.Equal(t, r.Subsection, first[i].Subsection)
	}
	assert.Equal(t, types.OutcomePass, first[0].Outcome, first[0].Explanation)
}

func TestRun_EmptyRecords(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	for _, v := range fixedEngine().Run(c, nil) {
		assert.NotEqual(t, types.OutcomePass, v.Outcome, v.RuleID)
	}
}
