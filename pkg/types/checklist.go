// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CheckKind names the automated check a checklist rule is evaluated with.
// Kinds are assigned when the checklist is authored, never inferred from the
// rule text.
type CheckKind string

const (
	Check409AValuation   CheckKind = "409a_valuation"
	CheckBoardApproval   CheckKind = "board_approval"
	CheckCapTableXRef    CheckKind = "cap_table_cross_reference"
	CheckAuthorizedShare CheckKind = "authorized_shares"
	CheckPricing         CheckKind = "pricing"
	CheckCharterFiling   CheckKind = "charter_filing"
	CheckConversionTerms CheckKind = "conversion_terms"
	CheckVesting         CheckKind = "vesting"
	CheckManualReview    CheckKind = "manual_review"
)

// CheckKinds lists every known kind.
var CheckKinds = []CheckKind{
	Check409AValuation,
	CheckBoardApproval,
	CheckCapTableXRef,
	CheckAuthorizedShare,
	CheckPricing,
	CheckCharterFiling,
	CheckConversionTerms,
	CheckVesting,
	CheckManualReview,
}

// Valid reports whether k is a known check kind.
func (k CheckKind) Valid() bool {
	for _, known := range CheckKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Checklist is the hierarchical due-diligence definition:
// sections contain subsections, subsections contain rules.
type Checklist struct {
	Name     string    `json:"name" yaml:"name"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// Section groups subsections under a heading such as "Capitalization Audit".
type Section struct {
	Name        string       `json:"name" yaml:"name"`
	Subsections []Subsection `json:"subsections" yaml:"subsections"`
}

// Subsection groups related rules such as "Option Pool Verification".
type Subsection struct {
	Name  string     `json:"name" yaml:"name"`
	Rules []RuleSpec `json:"rules" yaml:"rules"`
}

// RuleSpec is a rule as authored in the checklist file.
type RuleSpec struct {
	Description string    `json:"description" yaml:"description"`
	Check       CheckKind `json:"check" yaml:"check"`
}

// ChecklistRule is a rule placed in its section and subsection. The
// description is the rule's identity.
type ChecklistRule struct {
	Section     string    `json:"section" yaml:"section"`
	Subsection  string    `json:"subsection" yaml:"subsection"`
	Description string    `json:"description" yaml:"description"`
	Check       CheckKind `json:"check" yaml:"check"`
}

// ID returns the rule's identity key.
func (r ChecklistRule) ID() string { return r.Description }

// Rules flattens the checklist in section, subsection, rule order.
func (c Checklist) Rules() []ChecklistRule {
	var out []ChecklistRule
	for _, sec := range c.Sections {
		for _, sub := range sec.Subsections {
			for _, r := range sub.Rules {
				out = append(out, ChecklistRule{
					Section:     sec.Name,
					Subsection:  sub.Name,
					Description: r.Description,
					Check:       r.Check,
				})
			}
		}
	}
	return out
}

// Rule looks up a rule by its identity key.
func (c Checklist) Rule(id string) (ChecklistRule, bool) {
	for _, r := range c.Rules() {
		if r.ID() == id {
			return r, true
		}
	}
	return ChecklistRule{}, false
}

// Outcome is the result of evaluating one rule.
type Outcome string

const (
	OutcomePass        Outcome = "pass"
	OutcomeFail        Outcome = "fail"
	OutcomeNeedsReview Outcome = "needs_review"
)

// Label returns the display form used in reports.
func (o Outcome) Label() string {
	switch o {
	case OutcomePass:
		return "PASS"
	case OutcomeFail:
		return "FAIL"
	case OutcomeNeedsReview:
		return "NEEDS REVIEW"
	}
	return string(o)
}

// Verdict is the outcome of one rule against the current store snapshot.
type Verdict struct {
	RuleID      string    `json:"rule_id" yaml:"rule_id"`
	Section     string    `json:"section" yaml:"section"`
	Subsection  string    `json:"subsection" yaml:"subsection"`
	Check       CheckKind `json:"check" yaml:"check"`
	Outcome     Outcome   `json:"outcome" yaml:"outcome"`
	Explanation string    `json:"explanation" yaml:"explanation"`
	Documents   []string  `json:"documents,omitempty" yaml:"documents,omitempty"`
}

// DiscrepancyComplianceFailure is the only discrepancy type produced today.
const DiscrepancyComplianceFailure = "Compliance Failure"

// SeverityHigh is assigned to every compliance failure.
const SeverityHigh = "High"

// Discrepancy is a failed rule tracked for remediation.
type Discrepancy struct {
	Type           string `json:"type" yaml:"type"`
	RuleID         string `json:"rule_id" yaml:"rule_id"`
	Section        string `json:"section" yaml:"section"`
	Subsection     string `json:"subsection" yaml:"subsection"`
	Severity       string `json:"severity" yaml:"severity"`
	Recommendation string `json:"recommendation" yaml:"recommendation"`
}
