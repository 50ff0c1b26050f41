// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tieout/internal/classify"
	"github.com/pdiddy/tieout/internal/store"
	"github.com/pdiddy/tieout/internal/textextract"
)

var classifyCmd = &cobra.Command{
	Use:   "classify files...",
	Short: "Print the detected document type of each file",
	Long: `Classify extracts the text of each file and prints the document type
the classifier assigns from the file name and the opening text. No model
is called.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

type classification struct {
	ID   string `json:"id"`
	Type string `json:"document_type"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	text := textextract.New(logger)

	var out []classification
	for _, p := range args {
		content, err := text.ExtractFile(cmd.Context(), p)
		if err != nil {
			return err
		}
		out = append(out, classification{ID: store.IDFor(p), Type: string(classify.Classify(p, content))})
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(os.Stdout, "%-45s  %s\n", "Document", "Type")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 72))
	for _, c := range out {
		fmt.Fprintf(os.Stdout, "%-45s  %s\n", c.ID, c.Type)
	}
	return nil
}

func init() {
	classifyCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(classifyCmd)
}
