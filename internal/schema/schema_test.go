// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/tieout/pkg/types"
)

func TestFor_EveryType(t *testing.T) {
	for _, dt := range types.DocumentTypes {
		s := For(dt)
		assert.Equal(t, dt, s.Type, "schema type for %s", dt)
		assert.NotEmpty(t, s.Role, "role for %s", dt)
		assert.NotEmpty(t, s.Fields, "fields for %s", dt)
		assert.NotEmpty(t, s.IssuesHint, "issues hint for %s", dt)
	}
}

func TestFor_UnknownFallsBackToOther(t *testing.T) {
	assert.Equal(t, types.DocOther, For("Term Sheet").Type)
}

func TestFor_OptionFields(t *testing.T) {
	s := For(types.DocOption)
	assert.Equal(t, []string{
		"grantee_name", "shares_granted", "exercise_price", "grant_date",
		"vesting_schedule", "vesting_cliff", "expiration_date",
		"board_approval_date", "valuation_409a_date", "acceleration_provisions",
	}, s.FieldNames())

	f, ok := s.Field("valuation_409a_date")
	require.True(t, ok)
	assert.Equal(t, KindDate, f.Kind)
}

func TestNormalize_Lenient(t *testing.T) {
	obj := map[string]any{
		"shares_purchased":         "1,500,000",
		"price_per_share":          "$2.00",
		"total_consideration":      3000000.0,
		"purchase_date":            "March 15, 2022",
		"preemptive_rights_waiver": "yes",
		"closing_conditions":       "Board approval obtained",
		"share_class":              nil,
		"purchaser_name":           "N/A",
		"investor_notes":           "follow up",
	}

	normalized, extra, warnings := Normalize(types.DocStockPurchase, obj)

	assert.Empty(t, warnings)
	assert.InDelta(t, 1500000.0, normalized["shares_purchased"], 0.001)
	assert.InDelta(t, 2.0, normalized["price_per_share"], 0.001)
	assert.InDelta(t, 3000000.0, normalized["total_consideration"], 0.001)
	assert.Equal(t, "2022-03-15", normalized["purchase_date"])
	assert.Equal(t, true, normalized["preemptive_rights_waiver"])
	assert.Equal(t, []string{"Board approval obtained"}, normalized["closing_conditions"])
	assert.NotContains(t, normalized, "share_class")
	assert.NotContains(t, normalized, "purchaser_name")
	assert.Equal(t, map[string]any{"investor_notes": "follow up"}, extra)
}

func TestNormalize_NumberForms(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
		want  float64
	}{
		{"commas", "investment_amount", "1,250,000", 1250000},
		{"millions suffix", "valuation_cap", "$10M", 10000000},
		{"long suffix", "valuation_cap", "8 million", 8000000},
		{"rate percent", "discount_rate", "20%", 0.2},
		{"rate decimal", "discount_rate", 0.15, 0.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalized, _, warnings := Normalize(types.DocConvertible, map[string]any{tt.field: tt.value})
			assert.Empty(t, warnings)
			assert.InDelta(t, tt.want, normalized[tt.field], 0.0001)
		})
	}
}

func TestNormalize_DateForms(t *testing.T) {
	for _, in := range []string{"2024-01-15", "January 15, 2024", "Jan 15, 2024", "01/15/2024", "2024/01/15"} {
		normalized, _, warnings := Normalize(types.DocOption, map[string]any{"grant_date": in})
		assert.Empty(t, warnings, in)
		assert.Equal(t, "2024-01-15", normalized["grant_date"], in)
	}
}

func TestNormalize_UncoercibleMovesToExtra(t *testing.T) {
	normalized, extra, warnings := Normalize(types.DocStockPurchase, map[string]any{
		"shares_purchased": "lots",
		"purchase_date":    "upon closing",
	})

	assert.Empty(t, normalized)
	assert.Equal(t, "lots", extra["shares_purchased"])
	assert.Equal(t, "upon closing", extra["purchase_date"])
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "purchase_date")
	assert.Contains(t, warnings[1], "shares_purchased")
}

func TestNormalize_ImplicitLists(t *testing.T) {
	normalized, extra, _ := Normalize(types.DocWarrant, map[string]any{
		KeyComplianceItems: []any{"Board approval documented", nil},
		KeyIssuesFound:     "Expiration date missing",
	})
	assert.Empty(t, extra)
	assert.Equal(t, []string{"Board approval documented"}, normalized[KeyComplianceItems])
	assert.Equal(t, []string{"Expiration date missing"}, normalized[KeyIssuesFound])
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(types.DocCharter, map[string]any{
		"par_value":          0.0001,
		"incorporation_date": "2021-01-01",
		"authorized_shares":  map[string]any{"common": 10000000.0},
		"share_classes":      []string{"Common", "Series A Preferred"},
	}))

	assert.Error(t, Validate(types.DocCharter, map[string]any{"par_value": "abc"}))
	assert.Error(t, Validate(types.DocCharter, map[string]any{"incorporation_date": "Jan 2021"}))
	assert.Error(t, Validate(types.DocCharter, map[string]any{"surprise": 1}))
}

func TestJSONSchema_Shape(t *testing.T) {
	js := JSONSchema(types.DocCapTable)
	assert.Equal(t, "object", js["type"])
	assert.Equal(t, false, js["additionalProperties"])

	props, ok := js["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "major_shareholders")
	assert.Contains(t, props, KeyComplianceItems)
	assert.Contains(t, props, KeyIssuesFound)
	assert.NotContains(t, js, "required")
}

func TestDecode_Charter(t *testing.T) {
	fields, warnings := Decode(types.DocCharter, map[string]any{
		"authorized_shares": map[string]any{
			"common":      "10,000,000",
			"preferred":   2000000.0,
			"series_seed": 500000.0,
		},
		"state_of_incorporation": "Delaware",
		"board_size":             5.0,
		KeyComplianceItems:       []any{"Charter filed with Secretary of State"},
	})

	assert.Empty(t, warnings)
	require.NotNil(t, fields.Charter)
	require.NotNil(t, fields.Charter.AuthorizedShares)
	require.NotNil(t, fields.Charter.AuthorizedShares.Common)
	assert.InDelta(t, 10000000.0, *fields.Charter.AuthorizedShares.Common, 0.001)
	assert.Equal(t, "Delaware", *fields.Charter.StateOfIncorporation)
	assert.Equal(t, "5", *fields.Charter.BoardSize)
	assert.Equal(t, 500000.0, fields.Extra["authorized_shares.series_seed"])
	assert.False(t, fields.Has(KeyComplianceItems))
	assert.True(t, fields.Has("authorized_shares"))
}

func TestDecode_CapTable(t *testing.T) {
	fields, warnings := Decode(types.DocCapTable, map[string]any{
		"fully_diluted_shares": "8,400,000",
		"major_shareholders": []any{
			map[string]any{"name": "Founder A", "shares": 3000000.0, "percentage": "35.7%", "class": "Common"},
			map[string]any{"name": "Acme Ventures", "shares": "1,500,000", "class": "Series A Preferred"},
		},
	})

	assert.Empty(t, warnings)
	require.NotNil(t, fields.CapTable)
	require.Len(t, fields.CapTable.MajorShareholders, 2)
	assert.Equal(t, "Founder A", fields.CapTable.MajorShareholders[0].Name)
	assert.InDelta(t, 35.7, *fields.CapTable.MajorShareholders[0].Percentage, 0.001)
	assert.InDelta(t, 1500000.0, *fields.CapTable.MajorShareholders[1].Shares, 0.001)
	assert.Nil(t, fields.CapTable.MajorShareholders[1].Percentage)
}

func TestDecode_Other(t *testing.T) {
	fields, warnings := Decode(types.DocOther, map[string]any{
		"document_summary": "Minutes of annual meeting",
		"dates_mentioned":  []any{"2024-01-01"},
	})

	assert.Empty(t, warnings)
	require.NotNil(t, fields.General)
	assert.Equal(t, "Minutes of annual meeting", *fields.General.DocumentSummary)
	assert.Equal(t, []string{"2024-01-01"}, fields.General.DatesMentioned)
	assert.Nil(t, fields.Charter)
}

func TestDecode_EmptyObject(t *testing.T) {
	fields, warnings := Decode(types.DocWarrant, map[string]any{})
	assert.Empty(t, warnings)
	assert.True(t, fields.IsEmpty())
}

func TestStringList(t *testing.T) {
	got, err := StringList([]any{"a", 2.0, true, map[string]any{"k": "v"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "2", "true", `{"k":"v"}`}, got)

	got, err = StringList("single")
	require.NoError(t, err)
	assert.Equal(t, []string{"single"}, got)

	_, err = StringList(42.0)
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("June 30, 2024")
	require.True(t, ok)
	assert.Equal(t, "2024-06-30", d.Format("2006-01-02"))

	_, ok = ParseDate("sometime")
	assert.False(t, ok)
}
