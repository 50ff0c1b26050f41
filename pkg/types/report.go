// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RiskTier is the overall risk label of a tie-out.
type RiskTier string

const (
	RiskExcellent RiskTier = "excellent"
	RiskLow       RiskTier = "low"
	RiskMedium    RiskTier = "medium"
	RiskHigh      RiskTier = "high"
)

// Counts tallies verdict outcomes.
type Counts struct {
	Total       int `json:"total" yaml:"total"`
	Pass        int `json:"pass" yaml:"pass"`
	Fail        int `json:"fail" yaml:"fail"`
	NeedsReview int `json:"needs_review" yaml:"needs_review"`
}

// Add records one outcome.
func (c *Counts) Add(o Outcome) {
	c.Total++
	switch o {
	case OutcomePass:
		c.Pass++
	case OutcomeFail:
		c.Fail++
	case OutcomeNeedsReview:
		c.NeedsReview++
	}
}

// Score returns pass/total as a percentage, 0 when there are no verdicts.
func (c Counts) Score() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Pass) / float64(c.Total) * 100
}

// SubsectionSummary is the per-subsection breakdown.
type SubsectionSummary struct {
	Name   string  `json:"name" yaml:"name"`
	Counts Counts  `json:"counts" yaml:"counts"`
	Score  float64 `json:"score" yaml:"score"`
}

// SectionSummary is the per-section breakdown.
type SectionSummary struct {
	Name        string              `json:"name" yaml:"name"`
	Counts      Counts              `json:"counts" yaml:"counts"`
	Score       float64             `json:"score" yaml:"score"`
	Subsections []SubsectionSummary `json:"subsections" yaml:"subsections"`
}

// DocumentSummary is one row of the analyzed-documents table.
type DocumentSummary struct {
	ID              string       `json:"id" yaml:"id"`
	FileName        string       `json:"file_name" yaml:"file_name"`
	Type            DocumentType `json:"document_type" yaml:"document_type"`
	Reclassified    bool         `json:"reclassified" yaml:"reclassified"`
	Confidence      float64      `json:"extraction_confidence" yaml:"extraction_confidence"`
	FieldCount      int          `json:"field_count" yaml:"field_count"`
	ComplianceNotes []string     `json:"compliance_notes,omitempty" yaml:"compliance_notes,omitempty"`
	IssuesNoted     []string     `json:"issues_noted,omitempty" yaml:"issues_noted,omitempty"`
}

// Summary is the pure aggregation of a session's records, verdicts and
// discrepancies.
type Summary struct {
	DocumentCount     int                  `json:"document_count" yaml:"document_count"`
	DocumentTypeCount map[DocumentType]int `json:"document_type_count" yaml:"document_type_count"`
	Counts            Counts               `json:"counts" yaml:"counts"`
	ComplianceScore   float64              `json:"compliance_score" yaml:"compliance_score"`
	MeanConfidence    float64              `json:"mean_confidence" yaml:"mean_confidence"`
	DiscrepancyCount  int                  `json:"discrepancy_count" yaml:"discrepancy_count"`
	Risk              RiskTier             `json:"risk" yaml:"risk"`
	Sections          []SectionSummary     `json:"sections" yaml:"sections"`
	Documents         []DocumentSummary    `json:"documents" yaml:"documents"`
	Verdicts          []Verdict            `json:"verdicts" yaml:"verdicts"`
	Discrepancies     []Discrepancy        `json:"discrepancies" yaml:"discrepancies"`
}

// Report wraps a Summary with identity and generation metadata for export.
type Report struct {
	ID          string    `json:"report_id" yaml:"report_id"`
	SessionID   string    `json:"session_id" yaml:"session_id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Summary     Summary   `json:"summary" yaml:"summary"`
}
