// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/tieout/pkg/types"
)

// Format is an export format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatXLSX     Format = "xlsx"
)

// BaseName is the file name, without extension, of every export.
const BaseName = "tieout-report"

var formatAliases = map[string]Format{
	"markdown": FormatMarkdown,
	"md":       FormatMarkdown,
	"json":     FormatJSON,
	"yaml":     FormatYAML,
	"yml":      FormatYAML,
	"xlsx":     FormatXLSX,
	"excel":    FormatXLSX,
}

// ParseFormat accepts a format name or one of its common aliases.
func ParseFormat(s string) (Format, error) {
	f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown report format %q", s)
	}
	return f, nil
}

// Ext returns the file extension for f.
func (f Format) Ext() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatYAML:
		return ".yaml"
	}
	return "." + string(f)
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r types.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteYAML writes r as YAML.
func WriteYAML(w io.Writer, r types.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// Write renders r in format f.
func Write(w io.Writer, f Format, r types.Report) error {
	switch f {
	case FormatMarkdown:
		return WriteMarkdown(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatXLSX:
		return WriteXLSX(w, r)
	}
	return fmt.Errorf("unknown report format %q", f)
}

// Export writes r to dir once per format as tieout-report.<ext> and returns
// the written paths. Duplicate formats are written once.
func Export(dir string, formats []string, r types.Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	var paths []string
	done := make(map[Format]bool)
	for _, name := range formats {
		f, err := ParseFormat(name)
		if err != nil {
			return paths, err
		}
		if done[f] {
			continue
		}
		done[f] = true

		var buf bytes.Buffer
		if err := Write(&buf, f, r); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, BaseName+f.Ext())
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
