// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textextract turns uploaded files into plain text for
// classification and extraction. Extract never fails: unreadable or
// unsupported content produces a short placeholder text instead.
package textextract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

// Format is a supported input format.
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatXLSX    Format = "xlsx"
	FormatText    Format = "text"
	FormatUnknown Format = ""
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var extFormats = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
	".xlsx": FormatXLSX,
	".xlsm": FormatXLSX,
	".txt":  FormatText,
	".csv":  FormatText,
	".md":   FormatText,
}

// Extractor converts file contents to text.
type Extractor struct {
	Logger *zap.Logger
}

// New returns an Extractor. A nil logger discards output.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{Logger: logger}
}

// Detect returns the format of a file from its extension, falling back to
// content sniffing. The second value is the detected MIME type.
func Detect(name string, data []byte) (Format, string) {
	if f, ok := extFormats[strings.ToLower(filepath.Ext(name))]; ok {
		return f, ""
	}

	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is(mimePDF):
		return FormatPDF, mtype.String()
	case mtype.Is(mimeDOCX):
		return FormatDOCX, mtype.String()
	case mtype.Is(mimeXLSX):
		return FormatXLSX, mtype.String()
	}
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return FormatText, mtype.String()
		}
	}
	return FormatUnknown, mtype.String()
}

// Extract returns the text of a file named name.
func (e *Extractor) Extract(ctx context.Context, name string, data []byte) string {
	log := e.logger().With(zap.String("file", name))
	format, mime := Detect(name, data)

	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = extractPDF(ctx, name, data)
		if err != nil {
			log.Warn("textextract.pdf_error", zap.Error(err))
			return fmt.Sprintf("PDF processing error: %v", err)
		}
		if text == "" {
			return "Could not extract text from PDF"
		}
	case FormatDOCX:
		text, err = extractDOCX(data)
		if err != nil {
			log.Warn("textextract.docx_error", zap.Error(err))
			return fmt.Sprintf("DOCX processing error: %v", err)
		}
		if text == "" {
			return "No text content found in document"
		}
	case FormatXLSX:
		text, err = extractXLSX(data)
		if err != nil {
			log.Warn("textextract.xlsx_error", zap.Error(err))
			return fmt.Sprintf("Excel processing error: %v", err)
		}
		if text == "" {
			return "No data found in Excel file"
		}
	case FormatText:
		text = decodeText(data)
	default:
		log.Warn("textextract.unsupported", zap.String("mime", mime))
		return fmt.Sprintf("Unsupported file type: %s", mime)
	}

	log.Debug("textextract.done", zap.String("format", string(format)), zap.Int("chars", utf8.RuneCountInString(text)))
	return text
}

// ExtractFile reads path and extracts its text. Only the read can fail.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return e.Extract(ctx, filepath.Base(path), data), nil
}

// decodeText reads data as UTF-8, falling back to Latin-1.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "")
	}
	return string(out)
}

func (e *Extractor) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
