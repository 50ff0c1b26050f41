// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textextract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	"github.com/cloudwego/eino/components/document/parser"
)

// extractPDF returns the text of each page under a "--- Page N ---" marker.
// Pages without text are skipped.
func extractPDF(ctx context.Context, name string, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	p, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: true})
	if err != nil {
		return "", fmt.Errorf("creating PDF parser: %w", err)
	}

	docs, err := p.Parse(ctx, bytes.NewReader(data), parser.WithURI(name))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, doc := range docs {
		if doc == nil || strings.TrimSpace(doc.Content) == "" {
			continue
		}
		fmt.Fprintf(&b, "\n--- Page %d ---\n%s\n", i+1, doc.Content)
	}
	return b.String(), nil
}
