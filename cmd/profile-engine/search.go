// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [params]",
	Short: "Aggregate the researcher profiles of an organization",
	Long: `Search finds every ORCID record affiliated with the organization described
by the query, assembles a unified profile for each and prints them with
work count, total citations and h-index.

The query is given with flags or as a parameter string:

  profile-engine search --institution-id 6752
  profile-engine search "ringgold=6752&orgname=Brown%20University"

Values within one clause are OR-ed with "|"; different clauses are AND-ed.
Identifiers that could not be assembled are listed after the profiles.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	q, err := queryFromCommand(cmd, args)
	if err != nil {
		return err
	}
	engine, _, err := newEngine(nil)
	if err != nil {
		return err
	}
	defer engine.Close()

	res, err := engine.Run(cmd.Context(), q)
	if err != nil {
		return err
	}
	return writeOutput(cmd, res)
}

func init() {
	addQueryFlags(searchCmd)
	rootCmd.AddCommand(searchCmd)
}
