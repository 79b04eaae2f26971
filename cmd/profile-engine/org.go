// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var orgCmd = &cobra.Command{
	Use:   "org <name>",
	Short: "Look up an organization in the ROR registry",
	Long: `Org resolves an organization name to its ROR record, including the GRID id
that can be used with --grid-id.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, err := newEngine(nil)
		if err != nil {
			return err
		}
		defer engine.Close()

		org, err := engine.LookupOrganization(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return writeOutput(cmd, org)
	},
}

func init() {
	rootCmd.AddCommand(orgCmd)
}
