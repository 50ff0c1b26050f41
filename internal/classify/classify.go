// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns a document type from a file name and the opening
// text of a document. Matching is case-insensitive substring search over a
// fixed priority table; the file name is consulted before the content.
package classify

import (
	"strings"

	"github.com/pdiddy/tieout/pkg/types"
)

// contentWindow is how much of the text the content pass inspects.
const contentWindow = 1000

// rule binds a document type to the keywords that identify it.
type rule struct {
	docType types.DocumentType
	names   []string
	phrases []string
}

// rules is ordered by priority. Charter beats cap table when a name carries
// both "certificate" and "capitalization".
var rules = []rule{
	{
		docType: types.DocCharter,
		names:   []string{"charter", "incorporation", "certificate", "articles"},
		phrases: []string{"certificate of incorporation", "articles of incorporation"},
	},
	{
		docType: types.DocStockPurchase,
		names:   []string{"stock", "purchase", "spa", "investment"},
		phrases: []string{"stock purchase agreement"},
	},
	{
		docType: types.DocOption,
		names:   []string{"option", "grant", "equity"},
		phrases: []string{"stock option"},
	},
	{
		docType: types.DocWarrant,
		names:   []string{"warrant"},
		phrases: []string{"warrant agreement"},
	},
	{
		docType: types.DocConvertible,
		names:   []string{"safe", "convertible"},
		phrases: []string{"simple agreement", "convertible promissory note"},
	},
	{
		docType: types.DocCapTable,
		names:   []string{"cap", "table", "ownership", "capitalization"},
		phrases: []string{"capitalization table"},
	},
	{
		docType: types.DocValuation409A,
		names:   []string{"409a", "valuation"},
		phrases: []string{"409a valuation report"},
	},
	{
		docType: types.DocBoardConsent,
		names:   []string{"board", "consent", "resolution"},
		phrases: []string{"unanimous written consent"},
	},
}

// Classify returns the document type for fileName and rawText. It is total
// and deterministic; documents that match nothing are Other.
func Classify(fileName, rawText string) types.DocumentType {
	name := strings.ToLower(fileName)
	for _, r := range rules {
		if containsAny(name, r.names) {
			return r.docType
		}
	}

	head := strings.ToLower(prefix(rawText, contentWindow))
	for _, r := range rules {
		if containsAny(head, r.phrases) {
			return r.docType
		}
	}

	return types.DocOther
}

// Keywords returns the file-name keywords and content phrases registered
// for t, in match order. Other has none.
func Keywords(t types.DocumentType) (names, phrases []string) {
	for _, r := range rules {
		if r.docType == t {
			return append([]string(nil), r.names...), append([]string(nil), r.phrases...)
		}
	}
	return nil, nil
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
