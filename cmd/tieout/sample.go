// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tieout/internal/session"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write the bundled demonstration documents to disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		paths, err := session.WriteSamples(dir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(os.Stdout, "wrote: %s\n", p)
		}
		return nil
	},
}

func init() {
	sampleCmd.Flags().String("dir", "samples", "directory to write the documents to")
	rootCmd.AddCommand(sampleCmd)
}
