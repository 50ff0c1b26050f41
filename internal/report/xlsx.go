// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/tieout/pkg/types"
)

const (
	sheetSummary       = "Summary"
	sheetChecklist     = "Checklist"
	sheetDiscrepancies = "Discrepancies"
	sheetDocuments     = "Documents"
)

// sheetWriter appends rows to one worksheet.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func (s *sheetWriter) write(values ...any) {
	s.row++
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, s.row)
		_ = s.f.SetCellValue(s.sheet, cell, v)
	}
}

// WriteXLSX writes r as a workbook with Summary, Checklist, Discrepancies
// and Documents sheets.
func WriteXLSX(w io.Writer, r types.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("xlsx sheet %s: %w", sheetSummary, err)
	}
	for _, name := range []string{sheetChecklist, sheetDiscrepancies, sheetDocuments} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("xlsx sheet %s: %w", name, err)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}

	s := r.Summary

	sum := &sheetWriter{f: f, sheet: sheetSummary}
	sum.write("Metric", "Value")
	sum.write("Report ID", r.ID)
	sum.write("Session ID", r.SessionID)
	sum.write("Generated At", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	sum.write("Documents Analyzed", s.DocumentCount)
	sum.write("Rules Checked", s.Counts.Total)
	sum.write("Passed", s.Counts.Pass)
	sum.write("Failed", s.Counts.Fail)
	sum.write("Needs Review", s.Counts.NeedsReview)
	sum.write("Compliance Score (%)", round1(s.ComplianceScore))
	sum.write("Mean Confidence (%)", round1(s.MeanConfidence*100))
	sum.write("Discrepancies", s.DiscrepancyCount)
	sum.write("Risk", strings.ToUpper(string(s.Risk)))
	sum.row++
	sum.write("Section", "Subsection", "Passed", "Total", "Score (%)")
	for _, sec := range s.Sections {
		for _, sub := range sec.Subsections {
			sum.write(sec.Name, sub.Name, sub.Counts.Pass, sub.Counts.Total, round1(sub.Score))
		}
	}

	cl := &sheetWriter{f: f, sheet: sheetChecklist}
	cl.write("Section", "Subsection", "Rule", "Check", "Outcome", "Explanation", "Documents")
	for _, v := range s.Verdicts {
		cl.write(v.Section, v.Subsection, v.RuleID, string(v.Check), v.Outcome.Label(), v.Explanation, strings.Join(v.Documents, ", "))
	}

	ds := &sheetWriter{f: f, sheet: sheetDiscrepancies}
	ds.write("#", "Type", "Rule", "Section", "Subsection", "Severity", "Recommendation")
	for i, d := range s.Discrepancies {
		ds.write(i+1, d.Type, d.RuleID, d.Section, d.Subsection, d.Severity, d.Recommendation)
	}

	docs := &sheetWriter{f: f, sheet: sheetDocuments}
	docs.write("Document", "Type", "Reclassified", "Confidence (%)", "Fields", "Compliance Notes", "Issues")
	for _, d := range s.Documents {
		docs.write(d.FileName, string(d.Type), d.Reclassified, round1(d.Confidence*100), d.FieldCount,
			strings.Join(d.ComplianceNotes, "; "), strings.Join(d.IssuesNoted, "; "))
	}

	_ = f.SetCellStyle(sheetSummary, "A1", "B1", bold)
	_ = f.SetCellStyle(sheetChecklist, "A1", "G1", bold)
	_ = f.SetCellStyle(sheetDiscrepancies, "A1", "G1", bold)
	_ = f.SetCellStyle(sheetDocuments, "A1", "G1", bold)

	_ = f.SetColWidth(sheetSummary, "A", "B", 28)
	_ = f.SetColWidth(sheetChecklist, "A", "B", 26)
	_ = f.SetColWidth(sheetChecklist, "C", "C", 60)
	_ = f.SetColWidth(sheetChecklist, "F", "F", 80)
	_ = f.SetColWidth(sheetDiscrepancies, "C", "C", 60)
	_ = f.SetColWidth(sheetDiscrepancies, "G", "G", 80)
	_ = f.SetColWidth(sheetDocuments, "A", "B", 30)

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
