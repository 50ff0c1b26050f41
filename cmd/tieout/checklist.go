// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/tieout/internal/checklist"
)

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Print the due-diligence checklist and its check kinds",
	Long: `Checklist prints every rule of the configured checklist grouped by
section and subsection, with the automated check each rule runs.
Rules marked manual_review always need a human decision.`,
	RunE: runChecklist,
}

func runChecklist(cmd *cobra.Command, args []string) error {
	c, err := checklist.Load(viper.GetString("checklist.file"))
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}

	fmt.Fprintf(os.Stdout, "%s\n", c.Name)
	for _, sec := range c.Sections {
		fmt.Fprintf(os.Stdout, "\n%s\n", sec.Name)
		for _, sub := range sec.Subsections {
			fmt.Fprintf(os.Stdout, "\n  %s\n", sub.Name)
			for _, r := range sub.Rules {
				fmt.Fprintf(os.Stdout, "    %-26s %s\n", "["+string(r.Check)+"]", r.Description)
			}
		}
	}
	fmt.Fprintf(os.Stdout, "\n%d rules\n", len(c.Rules()))
	return nil
}

func init() {
	checklistCmd.Flags().Bool("json", false, "output the checklist as JSON")
	rootCmd.AddCommand(checklistCmd)
}
