// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"sort"
)

// ExtractedFields is the typed record the extractor builds from the oracle's
// JSON answer. Exactly one variant is populated for a successful parse,
// chosen by the document type at extraction time. Keys the schema does not
// know, or values that could not be coerced to the schema's kind, land in
// Extra.
type ExtractedFields struct {
	Charter      *CharterFields      `json:"charter,omitempty" yaml:"charter,omitempty"`
	Purchase     *PurchaseFields     `json:"purchase,omitempty" yaml:"purchase,omitempty"`
	OptionGrant  *OptionGrantFields  `json:"option_grant,omitempty" yaml:"option_grant,omitempty"`
	Warrant      *WarrantFields      `json:"warrant,omitempty" yaml:"warrant,omitempty"`
	Convertible  *ConvertibleFields  `json:"convertible,omitempty" yaml:"convertible,omitempty"`
	CapTable     *CapTableFields     `json:"cap_table,omitempty" yaml:"cap_table,omitempty"`
	Valuation    *ValuationFields    `json:"valuation,omitempty" yaml:"valuation,omitempty"`
	BoardConsent *BoardConsentFields `json:"board_consent,omitempty" yaml:"board_consent,omitempty"`
	General      *GeneralFields      `json:"general,omitempty" yaml:"general,omitempty"`

	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`

	// Diagnostics recorded when the oracle answer could not be used as-is.
	ParsingError       string `json:"parsing_error,omitempty" yaml:"parsing_error,omitempty"`
	RawResponsePreview string `json:"raw_response_preview,omitempty" yaml:"raw_response_preview,omitempty"`
	RawResponse        string `json:"raw_response,omitempty" yaml:"raw_response,omitempty"`
	APIError           string `json:"api_error,omitempty" yaml:"api_error,omitempty"`
}

// ShareCounts is the authorized share split in a charter.
type ShareCounts struct {
	Common    *float64 `json:"common,omitempty" yaml:"common,omitempty"`
	Preferred *float64 `json:"preferred,omitempty" yaml:"preferred,omitempty"`
}

// Shareholder is one row of a cap table's major holders.
type Shareholder struct {
	Name       string   `json:"name,omitempty" yaml:"name,omitempty"`
	Shares     *float64 `json:"shares,omitempty" yaml:"shares,omitempty"`
	Percentage *float64 `json:"percentage,omitempty" yaml:"percentage,omitempty"`
	Class      string   `json:"class,omitempty" yaml:"class,omitempty"`
}

type CharterFields struct {
	AuthorizedShares     *ShareCounts `json:"authorized_shares,omitempty" yaml:"authorized_shares,omitempty"`
	ParValue             *float64     `json:"par_value,omitempty" yaml:"par_value,omitempty"`
	IncorporationDate    *string      `json:"incorporation_date,omitempty" yaml:"incorporation_date,omitempty"`
	StateOfIncorporation *string      `json:"state_of_incorporation,omitempty" yaml:"state_of_incorporation,omitempty"`
	ShareClasses         []string     `json:"share_classes,omitempty" yaml:"share_classes,omitempty"`
	BoardSize            *string      `json:"board_size,omitempty" yaml:"board_size,omitempty"`
	SpecialProvisions    []string     `json:"special_provisions,omitempty" yaml:"special_provisions,omitempty"`
}

type PurchaseFields struct {
	PurchaserName          *string  `json:"purchaser_name,omitempty" yaml:"purchaser_name,omitempty"`
	SharesPurchased        *float64 `json:"shares_purchased,omitempty" yaml:"shares_purchased,omitempty"`
	PricePerShare          *float64 `json:"price_per_share,omitempty" yaml:"price_per_share,omitempty"`
	TotalConsideration     *float64 `json:"total_consideration,omitempty" yaml:"total_consideration,omitempty"`
	PurchaseDate           *string  `json:"purchase_date,omitempty" yaml:"purchase_date,omitempty"`
	ShareClass             *string  `json:"share_class,omitempty" yaml:"share_class,omitempty"`
	ClosingConditions      []string `json:"closing_conditions,omitempty" yaml:"closing_conditions,omitempty"`
	BoardApprovalReference *string  `json:"board_approval_reference,omitempty" yaml:"board_approval_reference,omitempty"`
	PreemptiveRightsWaiver *bool    `json:"preemptive_rights_waiver,omitempty" yaml:"preemptive_rights_waiver,omitempty"`
}

type OptionGrantFields struct {
	GranteeName            *string  `json:"grantee_name,omitempty" yaml:"grantee_name,omitempty"`
	SharesGranted          *float64 `json:"shares_granted,omitempty" yaml:"shares_granted,omitempty"`
	ExercisePrice          *float64 `json:"exercise_price,omitempty" yaml:"exercise_price,omitempty"`
	GrantDate              *string  `json:"grant_date,omitempty" yaml:"grant_date,omitempty"`
	VestingSchedule        *string  `json:"vesting_schedule,omitempty" yaml:"vesting_schedule,omitempty"`
	VestingCliff           *string  `json:"vesting_cliff,omitempty" yaml:"vesting_cliff,omitempty"`
	ExpirationDate         *string  `json:"expiration_date,omitempty" yaml:"expiration_date,omitempty"`
	BoardApprovalDate      *string  `json:"board_approval_date,omitempty" yaml:"board_approval_date,omitempty"`
	Valuation409ADate      *string  `json:"valuation_409a_date,omitempty" yaml:"valuation_409a_date,omitempty"`
	AccelerationProvisions []string `json:"acceleration_provisions,omitempty" yaml:"acceleration_provisions,omitempty"`
}

type WarrantFields struct {
	WarrantHolder          *string  `json:"warrant_holder,omitempty" yaml:"warrant_holder,omitempty"`
	SharesUnderlying       *float64 `json:"shares_underlying,omitempty" yaml:"shares_underlying,omitempty"`
	ExercisePrice          *float64 `json:"exercise_price,omitempty" yaml:"exercise_price,omitempty"`
	IssueDate              *string  `json:"issue_date,omitempty" yaml:"issue_date,omitempty"`
	ExpirationDate         *string  `json:"expiration_date,omitempty" yaml:"expiration_date,omitempty"`
	ExercisePeriod         *string  `json:"exercise_period,omitempty" yaml:"exercise_period,omitempty"`
	AntiDilutionProvisions []string `json:"anti_dilution_provisions,omitempty" yaml:"anti_dilution_provisions,omitempty"`
	TerminationProvisions  []string `json:"termination_provisions,omitempty" yaml:"termination_provisions,omitempty"`
	CashlessExercise       *bool    `json:"cashless_exercise,omitempty" yaml:"cashless_exercise,omitempty"`
}

type ConvertibleFields struct {
	InvestorName         *string  `json:"investor_name,omitempty" yaml:"investor_name,omitempty"`
	InvestmentAmount     *float64 `json:"investment_amount,omitempty" yaml:"investment_amount,omitempty"`
	ValuationCap         *float64 `json:"valuation_cap,omitempty" yaml:"valuation_cap,omitempty"`
	DiscountRate         *float64 `json:"discount_rate,omitempty" yaml:"discount_rate,omitempty"`
	IssueDate            *string  `json:"issue_date,omitempty" yaml:"issue_date,omitempty"`
	ConversionTriggers   []string `json:"conversion_triggers,omitempty" yaml:"conversion_triggers,omitempty"`
	MFNProvision         *bool    `json:"mfn_provision,omitempty" yaml:"mfn_provision,omitempty"`
	ProRataRights        *bool    `json:"pro_rata_rights,omitempty" yaml:"pro_rata_rights,omitempty"`
	InformationRights    *bool    `json:"information_rights,omitempty" yaml:"information_rights,omitempty"`
	SideLetterProvisions []string `json:"side_letter_provisions,omitempty" yaml:"side_letter_provisions,omitempty"`
}

type CapTableFields struct {
	TotalCommonOutstanding    *float64      `json:"total_common_outstanding,omitempty" yaml:"total_common_outstanding,omitempty"`
	TotalPreferredOutstanding *float64      `json:"total_preferred_outstanding,omitempty" yaml:"total_preferred_outstanding,omitempty"`
	OptionPoolSize            *float64      `json:"option_pool_size,omitempty" yaml:"option_pool_size,omitempty"`
	OptionsGranted            *float64      `json:"options_granted,omitempty" yaml:"options_granted,omitempty"`
	OptionsAvailable          *float64      `json:"options_available,omitempty" yaml:"options_available,omitempty"`
	FullyDilutedShares        *float64      `json:"fully_diluted_shares,omitempty" yaml:"fully_diluted_shares,omitempty"`
	MajorShareholders         []Shareholder `json:"major_shareholders,omitempty" yaml:"major_shareholders,omitempty"`
	ShareClasses              []string      `json:"share_classes,omitempty" yaml:"share_classes,omitempty"`
	LastUpdateDate            *string       `json:"last_update_date,omitempty" yaml:"last_update_date,omitempty"`
}

type ValuationFields struct {
	Valuation409ADate *string  `json:"valuation_409a_date,omitempty" yaml:"valuation_409a_date,omitempty"`
	FairMarketValue   *float64 `json:"fair_market_value,omitempty" yaml:"fair_market_value,omitempty"`
	ValuationProvider *string  `json:"valuation_provider,omitempty" yaml:"valuation_provider,omitempty"`
	EffectivePeriod   *string  `json:"effective_period,omitempty" yaml:"effective_period,omitempty"`
	ValuationMethod   *string  `json:"valuation_method,omitempty" yaml:"valuation_method,omitempty"`
}

type BoardConsentFields struct {
	BoardApprovalDate *string  `json:"board_approval_date,omitempty" yaml:"board_approval_date,omitempty"`
	Resolutions       []string `json:"resolutions,omitempty" yaml:"resolutions,omitempty"`
	ApprovedIssuances []string `json:"approved_issuances,omitempty" yaml:"approved_issuances,omitempty"`
	DirectorsPresent  []string `json:"directors_present,omitempty" yaml:"directors_present,omitempty"`
	Unanimous         *bool    `json:"unanimous,omitempty" yaml:"unanimous,omitempty"`
}

type GeneralFields struct {
	DocumentSummary        *string  `json:"document_summary,omitempty" yaml:"document_summary,omitempty"`
	CapitalizationMentions []string `json:"capitalization_mentions,omitempty" yaml:"capitalization_mentions,omitempty"`
	KeyTerms               []string `json:"key_terms,omitempty" yaml:"key_terms,omitempty"`
	DatesMentioned         []string `json:"dates_mentioned,omitempty" yaml:"dates_mentioned,omitempty"`
}

// variants returns the populated typed variants.
func (f ExtractedFields) variants() []any {
	var out []any
	if f.Charter != nil {
		out = append(out, f.Charter)
	}
	if f.Purchase != nil {
		out = append(out, f.Purchase)
	}
	if f.OptionGrant != nil {
		out = append(out, f.OptionGrant)
	}
	if f.Warrant != nil {
		out = append(out, f.Warrant)
	}
	if f.Convertible != nil {
		out = append(out, f.Convertible)
	}
	if f.CapTable != nil {
		out = append(out, f.CapTable)
	}
	if f.Valuation != nil {
		out = append(out, f.Valuation)
	}
	if f.BoardConsent != nil {
		out = append(out, f.BoardConsent)
	}
	if f.General != nil {
		out = append(out, f.General)
	}
	return out
}

// Flatten merges the typed variants, Extra and diagnostics into a single
// map keyed by the oracle's field names. Typed values win over Extra.
func (f ExtractedFields) Flatten() map[string]any {
	out := make(map[string]any)
	for _, v := range f.variants() {
		data, err := json.Marshal(v)
		if err != nil {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		for k, val := range m {
			out[k] = val
		}
	}
	for k, v := range f.Extra {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	diag := map[string]string{
		"parsing_error":        f.ParsingError,
		"raw_response_preview": f.RawResponsePreview,
		"raw_response":         f.RawResponse,
		"api_error":            f.APIError,
	}
	for k, v := range diag {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Value looks up a field by its oracle name in the typed variants first and
// then in Extra.
func (f ExtractedFields) Value(key string) (any, bool) {
	v, ok := f.Flatten()[key]
	return v, ok
}

// Has reports whether any of keys is populated.
func (f ExtractedFields) Has(keys ...string) bool {
	flat := f.Flatten()
	for _, k := range keys {
		if _, ok := flat[k]; ok {
			return true
		}
	}
	return false
}

// String returns the string value of key, if it holds one.
func (f ExtractedFields) String(key string) (string, bool) {
	v, ok := f.Value(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Keys returns the sorted populated field names.
func (f ExtractedFields) Keys() []string {
	flat := f.Flatten()
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsEmpty reports whether nothing was extracted.
func (f ExtractedFields) IsEmpty() bool {
	return len(f.Flatten()) == 0
}

// Clone returns a deep copy.
func (f ExtractedFields) Clone() ExtractedFields {
	data, err := json.Marshal(f)
	if err != nil {
		return f
	}
	var out ExtractedFields
	if err := json.Unmarshal(data, &out); err != nil {
		return f
	}
	return out
}
