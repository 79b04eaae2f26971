// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics [params]",
	Short: "Compute collaboration analytics for an organization",
	Long: `Analytics aggregates the profiles for the query exactly as search does and
reports the collaboration graph, key researchers by centrality, collaboration
by year, works by type, top researchers, co-authorship links and the
enrichment gaps of the source records.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := queryFromCommand(cmd, args)
		if err != nil {
			return err
		}
		engine, _, err := newEngine(nil)
		if err != nil {
			return err
		}
		defer engine.Close()

		a, err := engine.Analyze(cmd.Context(), q)
		if err != nil {
			return err
		}
		return writeOutput(cmd, a)
	},
}

func init() {
	addQueryFlags(analyticsCmd)
	rootCmd.AddCommand(analyticsCmd)
}
