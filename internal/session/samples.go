// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pdiddy/tieout/pkg/types"
)

//go:embed samples/*.txt
var sampleFS embed.FS

// Sample is a bundled demonstration document. Its text is what the raw-text
// extractor would produce for the named file.
type Sample struct {
	FileName string
	Type     types.DocumentType
	Text     string
}

// sampleFiles maps each embedded text file to the upload name it stands for.
var sampleFiles = []struct {
	file, name string
	docType    types.DocumentType
}{
	{"DelCorp_Certificate_of_Incorporation.txt", "DelCorp_Certificate_of_Incorporation.pdf", types.DocCharter},
	{"Series_A_Stock_Purchase_Agreement.txt", "Series_A_Stock_Purchase_Agreement.pdf", types.DocStockPurchase},
	{"Employee_Option_Grant_2023.txt", "Employee_Option_Grant_2023.pdf", types.DocOption},
	{"Current_Cap_Table_Q2_2024.txt", "Current_Cap_Table_Q2_2024.xlsx", types.DocCapTable},
}

// Samples returns the bundled demonstration documents.
func Samples() ([]Sample, error) {
	out := make([]Sample, 0, len(sampleFiles))
	for _, f := range sampleFiles {
		data, err := sampleFS.ReadFile(path.Join("samples", f.file))
		if err != nil {
			return nil, fmt.Errorf("reading sample %s: %w", f.file, err)
		}
		out = append(out, Sample{FileName: f.name, Type: f.docType, Text: string(data)})
	}
	return out, nil
}

// LoadSamples adds the demonstration documents to the session.
func (s *Session) LoadSamples() ([]types.DocumentRecord, error) {
	samples, err := Samples()
	if err != nil {
		return nil, err
	}
	var out []types.DocumentRecord
	for _, sm := range samples {
		rec, err := s.AddDocument(sm.FileName, sm.Text)
		if err != nil {
			return out, fmt.Errorf("loading sample %s: %w", sm.FileName, err)
		}
		if rec.Type != sm.Type {
			if err := s.store.SetType(rec.ID, sm.Type); err != nil {
				return out, err
			}
			rec.Type = sm.Type
		}
		out = append(out, rec)
	}
	return out, nil
}

// WriteSamples writes the demonstration documents to dir as text files and
// returns their paths.
func WriteSamples(dir string) ([]string, error) {
	samples, err := Samples()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}
	var paths []string
	for _, sm := range samples {
		base := strings.TrimSuffix(sm.FileName, filepath.Ext(sm.FileName))
		p := filepath.Join(dir, base+".txt")
		if err := os.WriteFile(p, []byte(sm.Text), 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
