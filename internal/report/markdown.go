// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/template"

	"github.com/pdiddy/tieout/pkg/types"
)

var markdownFuncs = template.FuncMap{
	"pct":  func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	"frac": func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	"upper": func(r types.RiskTier) string {
		return strings.ToUpper(string(r))
	},
	"cell": func(s string) string { return strings.ReplaceAll(s, "|", `\|`) },
	"inc":  func(i int) int { return i + 1 },
	"join": strings.Join,
	"verdictsFor": func(vs []types.Verdict, section, subsection string) []types.Verdict {
		var out []types.Verdict
		for _, v := range vs {
			if v.Section == section && v.Subsection == subsection {
				out = append(out, v)
			}
		}
		return out
	},
}

var markdownTmpl = template.Must(template.New("report").Funcs(markdownFuncs).Parse(`# Cap Table Tie-Out Analysis Report

**Report ID:** {{.ID}}  
**Session:** {{.SessionID}}  
**Generated:** {{.GeneratedAt.Format "January 02, 2006 15:04 MST"}}

---

## Executive Summary

- **Documents Analyzed:** {{.Summary.DocumentCount}}
- **Compliance Items Passed:** {{.Summary.Counts.Pass}}/{{.Summary.Counts.Total}} ({{pct .Summary.ComplianceScore}})
- **Failed:** {{.Summary.Counts.Fail}}
- **Needs Review:** {{.Summary.Counts.NeedsReview}}
- **Issues Identified:** {{.Summary.DiscrepancyCount}}
- **Mean Extraction Confidence:** {{frac .Summary.MeanConfidence}}
- **Overall Risk Level:** {{upper .Summary.Risk}}

## Documents
{{if .Summary.Documents}}
| Document | Type | Confidence | Fields | Issues |
|---|---|---|---|---|
{{range .Summary.Documents}}| {{cell .FileName}}{{if .Reclassified}} (reclassified){{end}} | {{.Type}} | {{frac .Confidence}} | {{.FieldCount}} | {{cell (join .IssuesNoted "; ")}} |
{{end}}{{else}}
No documents were analyzed.
{{end}}
---

## Detailed Compliance Analysis
{{range $sec := .Summary.Sections}}
### {{$sec.Name}}
{{range $sub := $sec.Subsections}}
#### {{$sub.Name}}
{{range verdictsFor $.Summary.Verdicts $sec.Name $sub.Name}}
- **{{.Outcome.Label}}**: {{.RuleID}}  
  _{{.Explanation}}_
{{end}}
**{{$sub.Name}} Score: {{$sub.Counts.Pass}}/{{$sub.Counts.Total}} ({{pct $sub.Score}})**
{{end}}{{end}}
{{- if .Summary.Discrepancies}}
---

## Critical Issues Requiring Attention

{{len .Summary.Discrepancies}} issues require attention before closing.
{{range $i, $d := .Summary.Discrepancies}}
### Issue #{{inc $i}}: {{$d.Type}}

**Description:** {{$d.RuleID}}  
**Section:** {{$d.Section}} / {{$d.Subsection}}  
**Severity:** {{$d.Severity}}  
**Recommendation:** {{$d.Recommendation}}
{{end}}{{end}}
---

This analysis is based on automated document processing and should be verified by legal counsel.
`))

// WriteMarkdown renders r as a Markdown report.
func WriteMarkdown(w io.Writer, r types.Report) error {
	if err := markdownTmpl.Execute(w, r); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
