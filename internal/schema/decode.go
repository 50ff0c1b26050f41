// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import (
	"encoding/json"
	"fmt"

	"github.com/pdiddy/tieout/pkg/types"
)

// Decode normalizes obj, validates it and decodes it into the typed variant
// for t. compliance_items and issues_found are not part of the result; read
// them from obj with StringList. If validation fails the normalized values
// are kept in Extra so nothing the oracle said is lost.
func Decode(t types.DocumentType, obj map[string]any) (types.ExtractedFields, []string) {
	t = For(t).Type
	normalized, extra, warnings := Normalize(t, obj)

	var fields types.ExtractedFields
	if len(extra) > 0 {
		fields.Extra = extra
	}

	if err := Validate(t, normalized); err != nil {
		warnings = append(warnings, err.Error())
		fields.Extra = mergeExtra(fields.Extra, normalized)
		return fields, warnings
	}

	delete(normalized, KeyComplianceItems)
	delete(normalized, KeyIssuesFound)
	if len(normalized) == 0 {
		return fields, warnings
	}

	data, err := json.Marshal(normalized)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("marshal fields: %v", err))
		fields.Extra = mergeExtra(fields.Extra, normalized)
		return fields, warnings
	}
	if err := decodeVariant(t, data, &fields); err != nil {
		warnings = append(warnings, fmt.Sprintf("decode fields: %v", err))
		fields = types.ExtractedFields{Extra: mergeExtra(fields.Extra, normalized)}
	}
	return fields, warnings
}

func decodeVariant(t types.DocumentType, data []byte, f *types.ExtractedFields) error {
	switch t {
	case types.DocCharter:
		f.Charter = &types.CharterFields{}
		return json.Unmarshal(data, f.Charter)
	case types.DocStockPurchase:
		f.Purchase = &types.PurchaseFields{}
		return json.Unmarshal(data, f.Purchase)
	case types.DocOption:
		f.OptionGrant = &types.OptionGrantFields{}
		return json.Unmarshal(data, f.OptionGrant)
	case types.DocWarrant:
		f.Warrant = &types.WarrantFields{}
		return json.Unmarshal(data, f.Warrant)
	case types.DocConvertible:
		f.Convertible = &types.ConvertibleFields{}
		return json.Unmarshal(data, f.Convertible)
	case types.DocCapTable:
		f.CapTable = &types.CapTableFields{}
		return json.Unmarshal(data, f.CapTable)
	case types.DocValuation409A:
		f.Valuation = &types.ValuationFields{}
		return json.Unmarshal(data, f.Valuation)
	case types.DocBoardConsent:
		f.BoardConsent = &types.BoardConsentFields{}
		return json.Unmarshal(data, f.BoardConsent)
	default:
		f.General = &types.GeneralFields{}
		return json.Unmarshal(data, f.General)
	}
}

func mergeExtra(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
	return dst
}
