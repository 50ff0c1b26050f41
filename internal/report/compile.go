// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report aggregates a tie-out run into a summary and writes it out
// as Markdown, JSON, YAML or an Excel workbook.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/tieout/pkg/types"
)

// diagnosticKeys are flattened field names that describe the extraction
// rather than the document.
var diagnosticKeys = map[string]bool{
	"parsing_error":        true,
	"raw_response_preview": true,
	"raw_response":         true,
	"api_error":            true,
}

// Compile aggregates records, verdicts and discrepancies. It performs no
// I/O and does not render anything.
func Compile(records []types.DocumentRecord, verdicts []types.Verdict, discrepancies []types.Discrepancy) types.Summary {
	s := types.Summary{
		DocumentCount:     len(records),
		DocumentTypeCount: make(map[types.DocumentType]int),
		DiscrepancyCount:  len(discrepancies),
		Verdicts:          append([]types.Verdict(nil), verdicts...),
		Discrepancies:     append([]types.Discrepancy(nil), discrepancies...),
	}

	var confidence float64
	for _, r := range records {
		s.DocumentTypeCount[r.Type]++
		confidence += r.Confidence
		s.Documents = append(s.Documents, documentSummary(r))
	}
	if len(records) > 0 {
		s.MeanConfidence = confidence / float64(len(records))
	}

	s.Sections = sections(verdicts)
	for _, v := range verdicts {
		s.Counts.Add(v.Outcome)
	}
	s.ComplianceScore = s.Counts.Score()
	s.Risk = RiskFor(len(discrepancies), s.ComplianceScore)
	return s
}

// RiskFor maps a discrepancy count and compliance score to a risk tier.
func RiskFor(discrepancies int, score float64) types.RiskTier {
	switch {
	case discrepancies == 0 && score >= 95:
		return types.RiskExcellent
	case discrepancies <= 2 && score >= 85:
		return types.RiskLow
	case discrepancies <= 5 && score >= 70:
		return types.RiskMedium
	default:
		return types.RiskHigh
	}
}

// sections groups verdicts by section and subsection in order of first
// appearance, which is checklist order for engine output.
func sections(verdicts []types.Verdict) []types.SectionSummary {
	var out []types.SectionSummary
	secIdx := make(map[string]int)
	subIdx := make(map[string]int)

	for _, v := range verdicts {
		i, ok := secIdx[v.Section]
		if !ok {
			i = len(out)
			secIdx[v.Section] = i
			out = append(out, types.SectionSummary{Name: v.Section})
		}
		sec := &out[i]
		sec.Counts.Add(v.Outcome)

		key := v.Section + "\x00" + v.Subsection
		j, ok := subIdx[key]
		if !ok {
			j = len(sec.Subsections)
			subIdx[key] = j
			sec.Subsections = append(sec.Subsections, types.SubsectionSummary{Name: v.Subsection})
		}
		sec.Subsections[j].Counts.Add(v.Outcome)
	}

	for i := range out {
		out[i].Score = out[i].Counts.Score()
		for j := range out[i].Subsections {
			sub := &out[i].Subsections[j]
			sub.Score = sub.Counts.Score()
		}
	}
	return out
}

func documentSummary(r types.DocumentRecord) types.DocumentSummary {
	n := 0
	for _, k := range r.Fields.Keys() {
		if !diagnosticKeys[k] {
			n++
		}
	}
	return types.DocumentSummary{
		ID:              r.ID,
		FileName:        r.FileName,
		Type:            r.Type,
		Reclassified:    r.Reclassified(),
		Confidence:      r.Confidence,
		FieldCount:      n,
		ComplianceNotes: append([]string(nil), r.ComplianceNotes...),
		IssuesNoted:     append([]string(nil), r.IssuesNoted...),
	}
}

// NewID returns a report id of the form CTTO-<yyyymmdd-hhmmss>-<8 hex>.
func NewID(at time.Time) string {
	short := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("CTTO-%s-%s", at.UTC().Format("20060102-150405"), short)
}

// New wraps a summary in a report envelope generated at at.
func New(sessionID string, at time.Time, s types.Summary) types.Report {
	return types.Report{
		ID:          NewID(at),
		SessionID:   sessionID,
		GeneratedAt: at.UTC(),
		Summary:     s,
	}
}
