// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/tieout/internal/extract"
	"github.com/pdiddy/tieout/internal/store"
	"github.com/pdiddy/tieout/pkg/types"
)

var fixedNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

const (
	rule409A     = "409A valuation in place within 1-year safe harbor"
	ruleCharter  = "Charter properly approved and filed with state"
	ruleBoard    = "Board approved option grants with proper strike prices"
	ruleXRef     = "Stock option agreements match cap table terms"
	ruleVesting  = "Vesting schedules and acceleration terms documented"
	rulePricing  = "Preferred stock price maps to pre-money valuation correctly"
	ruleManual   = "Plan addresses option treatment on change of control"
	ruleAuthShrs = "Sufficient shares authorized to cover all issuances"
)

var cannedAnswers = map[types.DocumentType]string{
	types.DocCharter: `Here is the data: {"authorized_shares": {"common": "12,000,000", "preferred": 3000000},
		"par_value": "$0.0001", "incorporation_date": "January 15, 2022", "state_of_incorporation": "Delaware",
		"board_size": "3 to 9", "compliance_items": ["Charter filed with Delaware"], "issues_found": []}`,
	types.DocStockPurchase: `{"purchaser_name": "Acme Ventures LP", "shares_purchased": 1500000, "price_per_share": 2.0,
		"total_consideration": "$3,000,000", "purchase_date": "2023-03-15", "share_class": "Series A Preferred",
		"board_approval_reference": "Resolutions adopted March 10, 2023",
		"compliance_items": ["Board approval obtained before issuance"], "issues_found": []}`,
	types.DocOption: `{"grantee_name": "David Rodriguez", "shares_granted": 75000, "exercise_price": 1.25,
		"grant_date": "June 1, 2023", "vesting_schedule": "25% after one year, then monthly over 36 months",
		"board_approval_date": "2023-05-25", "valuation_409a_date": "April 15, 2023",
		"acceleration_provisions": ["50% single trigger on change in control"],
		"compliance_items": ["Board approval documented"], "issues_found": []}`,
	types.DocCapTable: `{"total_common_outstanding": 5500000, "total_preferred_outstanding": 2000000,
		"option_pool_size": 1000000, "options_granted": 425000,
		"major_shareholders": [{"name": "Sarah Johnson", "shares": 3000000, "percentage": 32.1, "class": "Common"}],
		"compliance_items": [], "issues_found": ["SAFE conversion not reflected"]}`,
}

// cannedOracle answers from a table keyed by document type.
type cannedOracle struct {
	answers map[types.DocumentType]string
	calls   atomic.Int32
}

func (o *cannedOracle) Name() string { return "Canned" }

func (o *cannedOracle) Extract(_ context.Context, req extract.Request) (string, error) {
	o.calls.Add(1)
	if a, ok := o.answers[req.DocumentType]; ok {
		return a, nil
	}
	return `{"document_summary": "nothing notable"}`, nil
}

type failingOracle struct{}

func (failingOracle) Name() string { return "Failing" }
func (failingOracle) Extract(context.Context, extract.Request) (string, error) {
	return "", errors.New("connection refused")
}

func newSession(t *testing.T, o extract.Oracle, opts ...Option) *Session {
	t.Helper()
	cfg := types.PipelineConfig{AI: types.AIConfig{MaxRetries: 1}}
	all := append([]Option{WithOracle(o), WithClock(func() time.Time { return fixedNow })}, opts...)
	s, err := New(context.Background(), cfg, all...)
	require.NoError(t, err)
	return s
}

func verdictFor(t *testing.T, vs []types.Verdict, rule string) types.Verdict {
	t.Helper()
	for _, v := range vs {
		if v.RuleID == rule {
			return v
		}
	}
	t.Fatalf("no verdict for %q", rule)
	return types.Verdict{}
}

func TestNew_Defaults(t *testing.T) {
	s := newSession(t, nil)
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.HasOracle())
	assert.Len(t, s.Checklist().Rules(), 36)
	assert.Equal(t, types.DefaultConcurrency, s.Config().Extraction.Concurrency)
}

func TestNew_NoAPIKeyLeavesOracleUnset(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	s, err := New(context.Background(), types.PipelineConfig{})
	require.NoError(t, err)
	assert.False(t, s.HasOracle())
}

func TestNew_BadChecklistFile(t *testing.T) {
	cfg := types.PipelineConfig{Checklist: types.ChecklistConfig{File: filepath.Join(t.TempDir(), "missing.yaml")}}
	_, err := New(context.Background(), cfg, WithOracle(nil))
	assert.Error(t, err)
}

func TestAddDocument(t *testing.T) {
	s := newSession(t, nil)
	rec, err := s.AddDocument("uploads/Board_Consent_2024.pdf", "UNANIMOUS WRITTEN CONSENT OF THE BOARD")
	require.NoError(t, err)

	assert.Equal(t, "Board_Consent_2024.pdf", rec.ID)
	assert.Equal(t, types.DocBoardConsent, rec.Type)
	assert.Equal(t, 6, rec.WordCount)
	assert.Equal(t, fixedNow, rec.UploadedAt)

	_, err = s.AddDocument("other/Board_Consent_2024.pdf", "again")
	assert.ErrorIs(t, err, store.ErrDuplicateDocument)
}

func TestLoadSamples(t *testing.T) {
	s := newSession(t, nil)
	recs, err := s.LoadSamples()
	require.NoError(t, err)
	require.Len(t, recs, 4)

	want := map[string]types.DocumentType{
		"DelCorp_Certificate_of_Incorporation.pdf": types.DocCharter,
		"Series_A_Stock_Purchase_Agreement.pdf":    types.DocStockPurchase,
		"Employee_Option_Grant_2023.pdf":           types.DocOption,
		"Current_Cap_Table_Q2_2024.xlsx":           types.DocCapTable,
	}
	for _, r := range s.Records() {
		assert.Equal(t, want[r.ID], r.Type, r.ID)
		assert.False(t, r.Reclassified(), r.ID)
		assert.NotEmpty(t, r.RawText)
	}
}

func TestPipeline_Samples(t *testing.T) {
	oracle := &cannedOracle{answers: cannedAnswers}
	s := newSession(t, oracle)
	_, err := s.LoadSamples()
	require.NoError(t, err)

	var out bytes.Buffer
	sum, err := s.Analyze(context.Background(), &out, false)
	require.NoError(t, err)
	assert.Equal(t, AnalysisSummary{Extracted: 4}, sum)
	assert.Contains(t, out.String(), "Analysis summary: 4 extracted, 0 degraded, 0 skipped (total: 4)")

	vs := s.RunChecklist()
	require.Len(t, vs, 36)

	assert.Equal(t, types.OutcomePass, verdictFor(t, vs, ruleCharter).Outcome)
	assert.Equal(t, types.OutcomePass, verdictFor(t, vs, ruleAuthShrs).Outcome)
	assert.Equal(t, types.OutcomePass, verdictFor(t, vs, rulePricing).Outcome)
	assert.Equal(t, types.OutcomeNeedsReview, verdictFor(t, vs, ruleManual).Outcome)

	board := verdictFor(t, vs, ruleBoard)
	assert.Equal(t, types.OutcomePass, board.Outcome)
	assert.Equal(t, []string{"Employee_Option_Grant_2023.pdf", "Series_A_Stock_Purchase_Agreement.pdf"}, board.Documents)

	xref := verdictFor(t, vs, ruleXRef)
	assert.Equal(t, types.OutcomePass, xref.Outcome, xref.Explanation)

	v409 := verdictFor(t, vs, rule409A)
	assert.Equal(t, types.OutcomeFail, v409.Outcome)
	assert.Contains(t, v409.Explanation, "dated 2023-04-15, 442 days ago")

	fails := 0
	for _, v := range vs {
		if v.Outcome == types.OutcomeFail {
			fails++
		}
	}
	assert.Len(t, s.Discrepancies(), fails)

	r := s.Report()
	assert.Equal(t, s.ID, r.SessionID)
	assert.Equal(t, 4, r.Summary.DocumentCount)
	assert.InDelta(t, extract.ConfidenceResponded, r.Summary.MeanConfidence, 1e-9)
	assert.Equal(t, fails, r.Summary.DiscrepancyCount)
}

func TestRunChecklist_IdempotentAndDeduplicated(t *testing.T) {
	s := newSession(t, &cannedOracle{answers: cannedAnswers})
	_, err := s.LoadSamples()
	require.NoError(t, err)
	_, err = s.Analyze(context.Background(), io.Discard, false)
	require.NoError(t, err)

	first := s.RunChecklist()
	n := len(s.Discrepancies())
	second := s.RunChecklist()

	assert.Equal(t, first, second)
	assert.Equal(t, second, s.Verdicts())
	assert.Len(t, s.Discrepancies(), n)

	seen := map[string]bool{}
	for _, d := range s.Discrepancies() {
		assert.False(t, seen[d.RuleID], "duplicate discrepancy for %q", d.RuleID)
		seen[d.RuleID] = true
	}
}

func TestValuation409A_EndToEnd(t *testing.T) {
	date := func(days int) string { return fixedNow.AddDate(0, 0, -days).Format("2006-01-02") }
	tests := []struct {
		name    string
		answer  string
		want    types.Outcome
		snippet string
	}{
		{"recent", `{"valuation_409a_date": "` + date(30) + `"}`, types.OutcomePass, "30 days ago"},
		{"stale", `{"valuation_409a_date": "` + date(400) + `"}`, types.OutcomeFail, "400 days ago"},
		{"absent", `{"grantee_name": "Employee 1"}`, types.OutcomeNeedsReview, "No 409A valuation dates found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, &cannedOracle{answers: map[types.DocumentType]string{types.DocOption: tt.answer}})
			_, err := s.AddDocument("option_grant.pdf", "STOCK OPTION GRANT")
			require.NoError(t, err)
			_, err = s.Analyze(context.Background(), io.Discard, false)
			require.NoError(t, err)

			v := verdictFor(t, s.RunChecklist(), rule409A)
			assert.Equal(t, tt.want, v.Outcome, v.Explanation)
			assert.Contains(t, v.Explanation, tt.snippet)
		})
	}
}

func TestAnalyze_OracleUnavailable(t *testing.T) {
	s := newSession(t, nil)
	_, err := s.LoadSamples()
	require.NoError(t, err)

	var out bytes.Buffer
	sum, err := s.Analyze(context.Background(), &out, false)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Degraded)
	assert.True(t, sum.HasDegraded())
	assert.Contains(t, out.String(), "degraded:  DelCorp_Certificate_of_Incorporation.pdf")

	for _, r := range s.Records() {
		assert.True(t, r.Extracted)
		assert.Zero(t, r.Confidence)
		assert.NotEmpty(t, r.IssuesNoted)
	}

	vs := s.RunChecklist()
	require.Len(t, vs, 36)
	assert.Equal(t, types.OutcomePass, verdictFor(t, vs, ruleCharter).Outcome, "type-based checks still run")
	assert.Equal(t, types.OutcomeFail, verdictFor(t, vs, ruleVesting).Outcome)
}

func TestAnalyze_OracleErrorDegradesOnlyThatSession(t *testing.T) {
	s := newSession(t, failingOracle{})
	_, err := s.AddDocument("warrant.pdf", "WARRANT AGREEMENT")
	require.NoError(t, err)

	sum, err := s.Analyze(context.Background(), io.Discard, false)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Degraded)

	rec, err := s.Record("warrant.pdf")
	require.NoError(t, err)
	assert.Contains(t, rec.Fields.APIError, "connection refused")
}

func TestAnalyze_SkipsExtractedUnlessForced(t *testing.T) {
	oracle := &cannedOracle{answers: cannedAnswers}
	s := newSession(t, oracle)
	_, err := s.LoadSamples()
	require.NoError(t, err)

	_, err = s.Analyze(context.Background(), io.Discard, false)
	require.NoError(t, err)
	sum, err := s.Analyze(context.Background(), io.Discard, false)
	require.NoError(t, err)
	assert.Equal(t, AnalysisSummary{Skipped: 4}, sum)
	assert.EqualValues(t, 4, oracle.calls.Load())

	sum, err = s.Analyze(context.Background(), io.Discard, true)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Extracted)
	assert.EqualValues(t, 8, oracle.calls.Load())
}

func TestAnalyze_ConcurrentMatchesSequential(t *testing.T) {
	run := func(concurrency int) []types.DocumentRecord {
		cfg := types.PipelineConfig{Extraction: types.ExtractionConfig{Concurrency: concurrency}}
		s, err := New(context.Background(), cfg,
			WithOracle(&cannedOracle{answers: cannedAnswers}),
			WithClock(func() time.Time { return fixedNow }))
		require.NoError(t, err)
		_, err = s.LoadSamples()
		require.NoError(t, err)
		_, err = s.Analyze(context.Background(), io.Discard, false)
		require.NoError(t, err)
		return s.Records()
	}
	assert.Equal(t, run(1), run(4))
}

func TestAnalyze_CancelledContext(t *testing.T) {
	s := newSession(t, &cannedOracle{answers: cannedAnswers})
	_, err := s.LoadSamples()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Analyze(ctx, io.Discard, false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReclassify_MarksForReextraction(t *testing.T) {
	oracle := &cannedOracle{answers: cannedAnswers}
	s := newSession(t, oracle)
	_, err := s.AddDocument("memo.txt", "Minutes of the meeting")
	require.NoError(t, err)
	_, err = s.Analyze(context.Background(), io.Discard, false)
	require.NoError(t, err)

	require.NoError(t, s.Reclassify("memo.txt", types.DocOption))
	rec, _ := s.Record("memo.txt")
	assert.True(t, rec.Reclassified())
	assert.False(t, rec.Extracted)

	sum, err := s.Analyze(context.Background(), io.Discard, false)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Extracted)
	rec, _ = s.Record("memo.txt")
	assert.True(t, rec.Fields.Has("shares_granted"))

	assert.ErrorIs(t, s.Reclassify("missing", types.DocOption), store.ErrUnknownDocument)
	assert.ErrorIs(t, s.Reclassify("memo.txt", "Term Sheet"), types.ErrUnknownDocumentType)
}

func TestIngest(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteSamples(dir)
	require.NoError(t, err)
	require.Len(t, paths, 4)

	s := newSession(t, nil)
	recs, err := s.Ingest(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, "DelCorp_Certificate_of_Incorporation.txt", recs[0].ID)
	assert.Equal(t, types.DocCharter, recs[0].Type)
	assert.Equal(t, types.DocCapTable, recs[3].Type)

	_, err = s.Ingest(context.Background(), []string{filepath.Join(dir, "missing.pdf")})
	assert.Error(t, err)

	_, err = s.Ingest(context.Background(), paths[:1])
	assert.ErrorIs(t, err, store.ErrDuplicateDocument)
}

func TestWriteSamples(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "samples")
	paths, err := WriteSamples(dir)
	require.NoError(t, err)
	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}
}

func TestReset(t *testing.T) {
	s := newSession(t, &cannedOracle{answers: cannedAnswers})
	_, err := s.LoadSamples()
	require.NoError(t, err)
	_, err = s.Analyze(context.Background(), io.Discard, false)
	require.NoError(t, err)
	s.RunChecklist()
	require.NotEmpty(t, s.Discrepancies())

	id := s.ID
	s.Reset()
	assert.Empty(t, s.Records())
	assert.Empty(t, s.Verdicts())
	assert.Empty(t, s.Discrepancies())
	assert.Equal(t, id, s.ID)
	assert.Len(t, s.Checklist().Rules(), 36)

	_, err = s.LoadSamples()
	assert.NoError(t, err, "samples can be reloaded after reset")
}

func TestAnalyze_Logs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := newSession(t, &cannedOracle{answers: cannedAnswers}, WithLogger(zap.New(core)))
	_, err := s.LoadSamples()
	require.NoError(t, err)
	_, err = s.Analyze(context.Background(), io.Discard, false)
	require.NoError(t, err)

	done := logs.FilterMessage("session.analyze.done").All()
	require.Len(t, done, 1)
	assert.EqualValues(t, 4, done[0].ContextMap()["extracted"])
}
