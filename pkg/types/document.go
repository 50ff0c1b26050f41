// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DocumentType is the closed classification tag of an uploaded document.
type DocumentType string

const (
	DocCharter       DocumentType = "Charter Document"
	DocStockPurchase DocumentType = "Stock Purchase Agreement"
	DocOption        DocumentType = "Option Agreement"
	DocWarrant       DocumentType = "Warrant Agreement"
	DocConvertible   DocumentType = "Convertible Instrument"
	DocCapTable      DocumentType = "Cap Table"
	DocValuation409A DocumentType = "409A Valuation"
	DocBoardConsent  DocumentType = "Board Consent/Resolution"
	DocOther         DocumentType = "Other Legal Document"
)

// ErrUnknownDocumentType is returned by ParseDocumentType for labels outside
// the closed set.
var ErrUnknownDocumentType = errors.New("unknown document type")

// DocumentTypes lists every tag in display order.
var DocumentTypes = []DocumentType{
	DocCharter,
	DocStockPurchase,
	DocOption,
	DocWarrant,
	DocConvertible,
	DocCapTable,
	DocValuation409A,
	DocBoardConsent,
	DocOther,
}

var documentTypeAliases = map[string]DocumentType{
	"charter":       DocCharter,
	"spa":           DocStockPurchase,
	"purchase":      DocStockPurchase,
	"option":        DocOption,
	"warrant":       DocWarrant,
	"convertible":   DocConvertible,
	"safe":          DocConvertible,
	"cap-table":     DocCapTable,
	"captable":      DocCapTable,
	"409a":          DocValuation409A,
	"board-consent": DocBoardConsent,
	"board":         DocBoardConsent,
	"other":         DocOther,
}

// Valid reports whether t is one of the closed set of tags.
func (t DocumentType) Valid() bool {
	for _, known := range DocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseDocumentType accepts a full label ("Cap Table") or a short alias
// ("cap-table"), case-insensitively.
func ParseDocumentType(s string) (DocumentType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, t := range DocumentTypes {
		if strings.ToLower(string(t)) == key {
			return t, nil
		}
	}
	if t, ok := documentTypeAliases[key]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDocumentType, s)
}

// DocumentRecord is one uploaded document with its classification and the
// structured data the oracle extracted from it.
type DocumentRecord struct {
	// ID is derived from the file name and unique within a session.
	ID string `json:"id" yaml:"id"`

	// FileName is the name the document was uploaded under.
	FileName string `json:"file_name" yaml:"file_name"`

	// RawText is the plain text produced by the text extractor.
	RawText string `json:"-" yaml:"-"`

	// Type is the current classification; a human override replaces it.
	Type DocumentType `json:"document_type" yaml:"document_type"`

	// AutoType is the classifier's answer at upload time.
	AutoType DocumentType `json:"auto_type" yaml:"auto_type"`

	CharCount int `json:"char_count" yaml:"char_count"`
	WordCount int `json:"word_count" yaml:"word_count"`

	UploadedAt time.Time `json:"uploaded_at" yaml:"uploaded_at"`

	// Extracted reports whether an extraction attempt has completed.
	Extracted bool `json:"extracted" yaml:"extracted"`

	Fields          ExtractedFields `json:"extracted_fields" yaml:"extracted_fields"`
	ComplianceNotes []string        `json:"compliance_notes" yaml:"compliance_notes"`
	IssuesNoted     []string        `json:"issues_noted" yaml:"issues_noted"`

	// Confidence is 0 when the oracle could not be used and a fixed high
	// value whenever it responded.
	Confidence float64 `json:"extraction_confidence" yaml:"extraction_confidence"`

	// RawResponse preserves the oracle's full answer for manual audit.
	RawResponse string `json:"raw_response,omitempty" yaml:"raw_response,omitempty"`
}

// Reclassified reports whether a human override changed the type.
func (r DocumentRecord) Reclassified() bool {
	return r.AutoType != "" && r.Type != r.AutoType
}

// Clone returns a deep copy safe to hand out of the document store.
func (r DocumentRecord) Clone() DocumentRecord {
	out := r
	out.ComplianceNotes = cloneStrings(r.ComplianceNotes)
	out.IssuesNoted = cloneStrings(r.IssuesNoted)
	out.Fields = r.Fields.Clone()
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
