// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schema holds the per-document-type extraction schemas: the fields
// the oracle is asked for, how each field is coerced when the answer comes
// back, and the JSON-Schema the coerced answer must satisfy.
package schema

import "github.com/pdiddy/tieout/pkg/types"

// Kind is the value shape a field is coerced to.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	// KindRate is a number where "20%" means 0.2.
	KindRate
	KindDate
	KindBool
	KindStringList
	// KindText accepts a string or a number and stores a string.
	KindText
	KindShareCounts
	KindShareholders
)

// String returns the kind name used in warnings.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindRate:
		return "rate"
	case KindDate:
		return "date"
	case KindBool:
		return "boolean"
	case KindStringList:
		return "list"
	case KindText:
		return "text"
	case KindShareCounts:
		return "share counts"
	case KindShareholders:
		return "shareholders"
	}
	return "unknown"
}

// Keys every schema carries in addition to its own fields.
const (
	KeyComplianceItems = "compliance_items"
	KeyIssuesFound     = "issues_found"
)

// FieldSpec describes one field requested from the oracle.
type FieldSpec struct {
	Name string
	Kind Kind
	// Placeholder is the JSON value shown in the prompt skeleton.
	Placeholder string
	Description string
}

// Schema is the extraction contract for one document type.
type Schema struct {
	Type types.DocumentType
	// Role opens the prompt.
	Role string
	// LookFor is an optional hint line placed before the instruction.
	LookFor string
	// Instruction precedes the JSON skeleton.
	Instruction string
	Fields      []FieldSpec
	// ComplianceHints seed the compliance_items array in the skeleton.
	ComplianceHints []string
	// ComplianceHint replaces ComplianceHints with a single description.
	ComplianceHint string
	IssuesHint     string
	// Focus closes the prompt.
	Focus string
}

// Field returns the spec for name.
func (s Schema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// FieldNames returns the schema's own field names in prompt order.
func (s Schema) FieldNames() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

const (
	phNumber   = "<number>"
	phDate     = `"YYYY-MM-DD"`
	phBool     = "true/false"
	phList     = `["list"]`
	phDecimal  = "<decimal>"
	extractAll = "Extract and return ONLY a valid JSON object:"
)

var registry = map[types.DocumentType]Schema{
	types.DocCharter: {
		Type:        types.DocCharter,
		Role:        "You are a legal expert analyzing a Certificate of Incorporation for cap table tie-out purposes.",
		Instruction: "Extract the following information and return ONLY a valid JSON object:",
		Fields: []FieldSpec{
			{Name: "authorized_shares", Kind: KindShareCounts, Placeholder: `{"common": <number>, "preferred": <number>}`, Description: "authorized share counts by class"},
			{Name: "par_value", Kind: KindNumber, Placeholder: phNumber},
			{Name: "incorporation_date", Kind: KindDate, Placeholder: phDate},
			{Name: "state_of_incorporation", Kind: KindString, Placeholder: `"state"`},
			{Name: "share_classes", Kind: KindStringList, Placeholder: `["list of share classes"]`},
			{Name: "board_size", Kind: KindText, Placeholder: `<number or "variable">`},
			{Name: "special_provisions", Kind: KindStringList, Placeholder: phList},
		},
		ComplianceHints: []string{
			"Charter filed with Secretary of State",
			"Share classes properly defined",
			"Board composition requirements specified",
		},
		IssuesHint: "list any missing or problematic items",
		Focus:      "authorized share counts, par values, share class definitions, and any governance provisions.",
	},
	types.DocStockPurchase: {
		Type:        types.DocStockPurchase,
		Role:        "You are a legal expert analyzing a Stock Purchase Agreement for cap table tie-out.",
		Instruction: extractAll,
		Fields: []FieldSpec{
			{Name: "purchaser_name", Kind: KindString, Placeholder: `"investor name"`},
			{Name: "shares_purchased", Kind: KindNumber, Placeholder: phNumber},
			{Name: "price_per_share", Kind: KindNumber, Placeholder: phNumber},
			{Name: "total_consideration", Kind: KindNumber, Placeholder: phNumber},
			{Name: "purchase_date", Kind: KindDate, Placeholder: phDate},
			{Name: "share_class", Kind: KindString, Placeholder: `"class type"`},
			{Name: "closing_conditions", Kind: KindStringList, Placeholder: phList},
			{Name: "board_approval_reference", Kind: KindText, Placeholder: `"reference or date"`},
			{Name: "preemptive_rights_waiver", Kind: KindBool, Placeholder: phBool},
		},
		ComplianceHints: []string{
			"Board approval documented",
			"Purchase price calculated correctly",
			"Closing conditions satisfied",
		},
		IssuesHint: "list any compliance concerns",
		Focus:      "share quantities, pricing, board approvals, and closing mechanics.",
	},
	types.DocOption: {
		Type:        types.DocOption,
		Role:        "You are analyzing a Stock Option Grant for cap table compliance.",
		Instruction: extractAll,
		Fields: []FieldSpec{
			{Name: "grantee_name", Kind: KindString, Placeholder: `"employee name"`},
			{Name: "shares_granted", Kind: KindNumber, Placeholder: phNumber},
			{Name: "exercise_price", Kind: KindNumber, Placeholder: phNumber},
			{Name: "grant_date", Kind: KindDate, Placeholder: phDate},
			{Name: "vesting_schedule", Kind: KindText, Placeholder: `"description"`},
			{Name: "vesting_cliff", Kind: KindText, Placeholder: `"period"`},
			{Name: "expiration_date", Kind: KindDate, Placeholder: phDate},
			{Name: "board_approval_date", Kind: KindDate, Placeholder: phDate},
			{Name: "valuation_409a_date", Kind: KindDate, Placeholder: phDate},
			{Name: "acceleration_provisions", Kind: KindStringList, Placeholder: phList},
		},
		ComplianceHints: []string{
			"Board approval documented",
			"409A valuation current",
			"Exercise price equals FMV",
			"Vesting schedule compliant",
		},
		IssuesHint: "list compliance issues",
		Focus:      "exercise prices, 409A compliance, board approvals, and vesting terms.",
	},
	types.DocWarrant: {
		Type:        types.DocWarrant,
		Role:        "You are analyzing a Warrant Agreement for cap table tie-out.",
		Instruction: extractAll,
		Fields: []FieldSpec{
			{Name: "warrant_holder", Kind: KindString, Placeholder: `"holder name"`},
			{Name: "shares_underlying", Kind: KindNumber, Placeholder: phNumber},
			{Name: "exercise_price", Kind: KindNumber, Placeholder: phNumber},
			{Name: "issue_date", Kind: KindDate, Placeholder: phDate},
			{Name: "expiration_date", Kind: KindDate, Placeholder: phDate},
			{Name: "exercise_period", Kind: KindText, Placeholder: `"description"`},
			{Name: "anti_dilution_provisions", Kind: KindStringList, Placeholder: phList},
			{Name: "termination_provisions", Kind: KindStringList, Placeholder: phList},
			{Name: "cashless_exercise", Kind: KindBool, Placeholder: phBool},
		},
		ComplianceHints: []string{
			"Board approval documented",
			"Exercise terms clearly defined",
			"Expiration date specified",
			"Termination provisions included",
		},
		IssuesHint: "list any issues",
		Focus:      "exercise mechanics, termination rights, and anti-dilution protections.",
	},
	types.DocConvertible: {
		Type:        types.DocConvertible,
		Role:        "You are analyzing a SAFE or Convertible Note for cap table analysis.",
		Instruction: extractAll,
		Fields: []FieldSpec{
			{Name: "investor_name", Kind: KindString, Placeholder: `"investor"`},
			{Name: "investment_amount", Kind: KindNumber, Placeholder: phNumber},
			{Name: "valuation_cap", Kind: KindNumber, Placeholder: phNumber},
			{Name: "discount_rate", Kind: KindRate, Placeholder: phDecimal},
			{Name: "issue_date", Kind: KindDate, Placeholder: phDate},
			{Name: "conversion_triggers", Kind: KindStringList, Placeholder: phList},
			{Name: "mfn_provision", Kind: KindBool, Placeholder: phBool},
			{Name: "pro_rata_rights", Kind: KindBool, Placeholder: phBool},
			{Name: "information_rights", Kind: KindBool, Placeholder: phBool},
			{Name: "side_letter_provisions", Kind: KindStringList, Placeholder: phList},
		},
		ComplianceHints: []string{
			"Investment amount confirmed",
			"Conversion mechanics defined",
			"Valuation cap specified",
			"Discount rate documented",
		},
		IssuesHint: "list issues",
		Focus:      "conversion mechanics, valuation caps, discounts, and investor rights.",
	},
	types.DocCapTable: {
		Type:        types.DocCapTable,
		Role:        "You are analyzing a Cap Table for completeness and accuracy.",
		Instruction: extractAll,
		Fields: []FieldSpec{
			{Name: "total_common_outstanding", Kind: KindNumber, Placeholder: phNumber},
			{Name: "total_preferred_outstanding", Kind: KindNumber, Placeholder: phNumber},
			{Name: "option_pool_size", Kind: KindNumber, Placeholder: phNumber},
			{Name: "options_granted", Kind: KindNumber, Placeholder: phNumber},
			{Name: "options_available", Kind: KindNumber, Placeholder: phNumber},
			{Name: "fully_diluted_shares", Kind: KindNumber, Placeholder: phNumber},
			{Name: "major_shareholders", Kind: KindShareholders, Placeholder: `[
        {"name": "name", "shares": <number>, "percentage": <decimal>, "class": "class"}
    ]`},
			{Name: "share_classes", Kind: KindStringList, Placeholder: `["list of classes"]`},
			{Name: "last_update_date", Kind: KindDate, Placeholder: phDate},
		},
		ComplianceHints: []string{
			"All share classes accounted for",
			"Option pool properly allocated",
			"Ownership percentages calculated",
			"Recent update confirmed",
		},
		IssuesHint: "list discrepancies or missing data",
		Focus:      "share counts, ownership percentages, option pools, and data completeness.",
	},
	types.DocValuation409A: {
		Type:        types.DocValuation409A,
		Role:        "You are analyzing a 409A Valuation Report for option pricing compliance.",
		Instruction: extractAll,
		Fields: []FieldSpec{
			{Name: "valuation_409a_date", Kind: KindDate, Placeholder: phDate},
			{Name: "fair_market_value", Kind: KindNumber, Placeholder: phNumber},
			{Name: "valuation_provider", Kind: KindString, Placeholder: `"firm name"`},
			{Name: "effective_period", Kind: KindText, Placeholder: `"description"`},
			{Name: "valuation_method", Kind: KindText, Placeholder: `"method"`},
		},
		ComplianceHints: []string{
			"Valuation within 12-month safe harbor",
			"Independent appraiser identified",
			"Fair market value per common share stated",
		},
		IssuesHint: "list any issues",
		Focus:      "valuation date, fair market value, and safe harbor status.",
	},
	types.DocBoardConsent: {
		Type:        types.DocBoardConsent,
		Role:        "You are analyzing a Board Consent or Resolution for cap table tie-out.",
		Instruction: extractAll,
		Fields: []FieldSpec{
			{Name: "board_approval_date", Kind: KindDate, Placeholder: phDate},
			{Name: "resolutions", Kind: KindStringList, Placeholder: phList},
			{Name: "approved_issuances", Kind: KindStringList, Placeholder: `["list of approved issuances"]`},
			{Name: "directors_present", Kind: KindStringList, Placeholder: `["list of directors"]`},
			{Name: "unanimous", Kind: KindBool, Placeholder: phBool},
		},
		ComplianceHints: []string{
			"Board approval documented",
			"Issuances specifically approved",
			"Quorum or unanimity confirmed",
		},
		IssuesHint: "list any issues",
		Focus:      "approval dates, approved issuances, and director participation.",
	},
	types.DocOther: {
		Type:        types.DocOther,
		Role:        "Analyze this legal document for any capitalization-related information.",
		LookFor:     "shares, equity, ownership, options, warrants, convertible instruments, valuations, board approvals.",
		Instruction: "Return ONLY a valid JSON object:",
		Fields: []FieldSpec{
			{Name: "document_summary", Kind: KindText, Placeholder: `"brief description"`},
			{Name: "capitalization_mentions", Kind: KindStringList, Placeholder: `["list relevant mentions"]`},
			{Name: "key_terms", Kind: KindStringList, Placeholder: `["important terms found"]`},
			{Name: "dates_mentioned", Kind: KindStringList, Placeholder: `["YYYY-MM-DD"]`},
		},
		ComplianceHint: "relevant compliance points",
		IssuesHint:     "potential concerns",
	},
}

// For returns the schema for t. Unknown types get the Other schema.
func For(t types.DocumentType) Schema {
	if s, ok := registry[t]; ok {
		return s
	}
	return registry[types.DocOther]
}
