// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use:   "key [params]",
	Short: "Print the canonical cache key for a query",
	Long: `Key prints the canonical form of a query. The same string is the cache key
and the q parameter sent to the ORCID search API.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := queryFromCommand(cmd, args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), q.Key())
		return nil
	},
}

func init() {
	addQueryFlags(keyCmd)
	rootCmd.AddCommand(keyCmd)
}
