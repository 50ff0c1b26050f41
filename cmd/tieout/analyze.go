// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/tieout/internal/report"
	"github.com/pdiddy/tieout/internal/session"
	"github.com/pdiddy/tieout/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Run the full tie-out pipeline and write a report",
	Long: `Analyze classifies each file, extracts its key terms with the configured
language model, evaluates the due-diligence checklist against the extracted
records and writes the report to the output directory.

Documents that cannot be read as text or that the model cannot analyze are
kept at confidence 0 and the run continues. Without an API key every
document degrades this way; checks that depend only on document types
still run.`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	useSample, _ := cmd.Flags().GetBool("sample")
	overrides, _ := cmd.Flags().GetStringArray("reclassify")
	if len(args) == 0 && !useSample {
		return errors.New("no documents: pass files or --sample")
	}

	cfg := pipelineConfig()
	s, err := session.New(cmd.Context(), cfg, session.WithLogger(logger))
	if err != nil {
		return err
	}
	if !s.HasOracle() {
		fmt.Fprintf(os.Stderr, "warning: no API key for %s; documents will not be analyzed\n", cfg.AI.Provider)
	}

	if useSample {
		if _, err := s.LoadSamples(); err != nil {
			return err
		}
	}
	if _, err := s.Ingest(cmd.Context(), args); err != nil {
		return err
	}
	for _, o := range overrides {
		id, t, err := parseOverride(o)
		if err != nil {
			return err
		}
		if err := s.Reclassify(id, t); err != nil {
			return fmt.Errorf("reclassify %s: %w", id, err)
		}
	}

	for _, r := range s.Records() {
		fmt.Fprintf(os.Stdout, "%-45s  %s\n", r.ID, r.Type)
	}
	fmt.Fprintln(os.Stdout)

	if _, err := s.Analyze(cmd.Context(), os.Stdout, false); err != nil {
		return err
	}
	s.RunChecklist()

	r := s.Report()
	sum := r.Summary
	fmt.Fprintf(os.Stdout, "\nChecklist: %d passed, %d failed, %d need review (score %.1f%%)\n",
		sum.Counts.Pass, sum.Counts.Fail, sum.Counts.NeedsReview, sum.ComplianceScore)
	fmt.Fprintf(os.Stdout, "Discrepancies: %d  Risk: %s\n", sum.DiscrepancyCount, strings.ToUpper(string(sum.Risk)))

	paths, err := report.Export(cfg.Report.OutputDir, cfg.Report.Formats, r)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(os.Stdout, "wrote: %s\n", p)
	}
	return nil
}

// parseOverride splits an id=type override. The type may be a full label
// or a short alias such as "board-consent".
func parseOverride(s string) (string, types.DocumentType, error) {
	id, label, ok := strings.Cut(s, "=")
	if !ok || id == "" || label == "" {
		return "", "", fmt.Errorf("invalid --reclassify %q: want id=type", s)
	}
	t, err := types.ParseDocumentType(label)
	if err != nil {
		return "", "", err
	}
	return id, t, nil
}

func init() {
	analyzeCmd.Flags().Bool("sample", false, "include the bundled demonstration documents")
	analyzeCmd.Flags().String("output-dir", types.DefaultOutputDir, "directory for report files")
	analyzeCmd.Flags().StringSlice("format", []string{"markdown", "json"}, "report formats: markdown, json, yaml, xlsx")
	analyzeCmd.Flags().StringArray("reclassify", nil, "override a document type as id=type (repeatable)")
	analyzeCmd.Flags().Int("concurrency", types.DefaultConcurrency, "documents extracted in parallel")
	analyzeCmd.Flags().String("provider", types.DefaultProvider, "oracle provider: anthropic, openai, or ollama")
	analyzeCmd.Flags().String("model", types.DefaultModel, "model identifier")

	_ = viper.BindPFlag("report.output_dir", analyzeCmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("report.formats", analyzeCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("extraction.concurrency", analyzeCmd.Flags().Lookup("concurrency"))
	_ = viper.BindPFlag("ai.provider", analyzeCmd.Flags().Lookup("provider"))
	_ = viper.BindPFlag("ai.model", analyzeCmd.Flags().Lookup("model"))

	rootCmd.AddCommand(analyzeCmd)
}
