// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"

	"github.com/pdiddy/tieout/internal/schema"
)

// extractionPromptTmpl asks the oracle for a single JSON object shaped by
// the document type's schema.
var extractionPromptTmpl = template.Must(template.New("extraction").Funcs(template.FuncMap{
	"quote": strconv.Quote,
}).Parse(`{{.Schema.Role}}

Document: {{.FileName}}
Content: {{.Content}}
{{if .Schema.LookFor}}
Look for: {{.Schema.LookFor}}
{{end}}
{{.Schema.Instruction}}
{
{{- range .Schema.Fields}}
    "{{.Name}}": {{.Placeholder}},
{{- end}}
{{- if .Schema.ComplianceHints}}
    "compliance_items": [
{{- range $i, $h := .Schema.ComplianceHints}}{{if $i}},{{end}}
        {{quote $h}}
{{- end}}
    ],
{{- else}}
    "compliance_items": [{{quote .Schema.ComplianceHint}}],
{{- end}}
    "issues_found": [{{quote .Schema.IssuesHint}}]
}
{{if .Schema.Focus}}
Focus on: {{.Schema.Focus}}
{{end}}`))

type promptData struct {
	Schema   schema.Schema
	FileName string
	Content  string
}

// renderPrompt executes the extraction prompt template for one document.
func renderPrompt(s schema.Schema, fileName, content string) (string, error) {
	var buf bytes.Buffer
	data := promptData{Schema: s, FileName: fileName, Content: content}
	if err := extractionPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()) + "\n", nil
}

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
