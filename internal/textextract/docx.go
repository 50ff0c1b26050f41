// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textextract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const documentPart = "word/document.xml"

// documentXML represents the parts of word/document.xml we read.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
		Tables     []table     `xml:"tbl"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

type table struct {
	Rows []tableRow `xml:"tr"`
}

type tableRow struct {
	Cells []tableCell `xml:"tc"`
}

type tableCell struct {
	Paragraphs []paragraph `xml:"p"`
}

func (p paragraph) text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Text {
			b.WriteString(t.Content)
		}
	}
	return b.String()
}

func (c tableCell) text() string {
	lines := make([]string, len(c.Paragraphs))
	for i, p := range c.Paragraphs {
		lines[i] = p.text()
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// extractDOCX returns the non-blank body paragraphs followed by each table,
// one row per line with cells joined by " | ".
func extractDOCX(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening archive: %w", err)
	}

	var content []byte
	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("opening %s: %w", documentPart, err)
		}
		content, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", documentPart, err)
		}
		break
	}
	if content == nil {
		return "", errors.New("missing " + documentPart)
	}

	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("parsing %s: %w", documentPart, err)
	}

	var b strings.Builder
	for _, p := range doc.Body.Paragraphs {
		if t := p.text(); strings.TrimSpace(t) != "" {
			b.WriteString(t)
			b.WriteString("\n")
		}
	}
	for _, tbl := range doc.Body.Tables {
		b.WriteString("\n--- Table ---\n")
		for _, row := range tbl.Rows {
			cells := make([]string, len(row.Cells))
			for i, c := range row.Cells {
				cells[i] = c.text()
			}
			line := strings.Join(cells, " | ")
			if strings.TrimSpace(strings.ReplaceAll(line, "|", "")) != "" {
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}
	return b.String(), nil
}
