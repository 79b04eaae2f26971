// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/profile-engine/internal/query"
)

// queryFlags maps CLI flags onto query parameter names.
var queryFlags = []struct {
	flag, param, usage string
}{
	{"institution-id", "institutionId", "Ringgold institution id (pipe-separated for OR)"},
	{"grid-id", "gridId", "GRID id (pipe-separated for OR)"},
	{"email-domain", "emailDomain", "email domain such as brown.edu (pipe-separated for OR)"},
	{"org-name", "organizationName", "affiliation organization name (pipe-separated for OR)"},
}

func addQueryFlags(cmd *cobra.Command) {
	for _, f := range queryFlags {
		cmd.Flags().StringArray(f.flag, nil, f.usage)
	}
}

// queryFromCommand builds the query from flags and an optional positional
// parameter string such as "ringgold=5678&orgname=Brown%20University".
func queryFromCommand(cmd *cobra.Command, args []string) (query.Query, error) {
	v := url.Values{}
	if len(args) > 0 {
		parsed, err := url.ParseQuery(strings.TrimPrefix(args[0], "?"))
		if err != nil {
			return query.Query{}, err
		}
		v = parsed
	}
	for _, f := range queryFlags {
		values, _ := cmd.Flags().GetStringArray(f.flag)
		v[f.param] = append(v[f.param], values...)
	}
	return query.FromValues(v)
}
