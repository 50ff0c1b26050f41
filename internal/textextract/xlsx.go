// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textextract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractXLSX renders every sheet as a header line followed by one line per
// non-empty row, each cell labelled with its column header.
func extractXLSX(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("reading sheet %s: %w", sheet, err)
		}
		fmt.Fprintf(&b, "\n=== Sheet: %s ===\n", sheet)

		var headers []string
		if len(rows) > 0 {
			headers = make([]string, len(rows[0]))
			for i, h := range rows[0] {
				if h == "" {
					h = fmt.Sprintf("Col_%d", i)
				}
				headers[i] = h
			}
			fmt.Fprintf(&b, "Headers: %s\n", strings.Join(headers, " | "))
		}

		for i := 1; i < len(rows); i++ {
			var cells []string
			for j, v := range rows[i] {
				if v == "" {
					continue
				}
				header := fmt.Sprintf("Col_%d", j)
				if j < len(headers) {
					header = headers[j]
				}
				cells = append(cells, header+": "+v)
			}
			if len(cells) > 0 {
				fmt.Fprintf(&b, "Row %d: %s\n", i+1, strings.Join(cells, " | "))
			}
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
