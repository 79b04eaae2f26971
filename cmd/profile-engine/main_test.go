// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/profile-engine/internal/secrets"
	"github.com/pdiddy/profile-engine/pkg/types"
)

func TestQueryFromCommand_Flags(t *testing.T) {
	cmd := &cobra.Command{}
	addQueryFlags(cmd)
	require.NoError(t, cmd.Flags().Set("org-name", "Brown University"))
	require.NoError(t, cmd.Flags().Set("institution-id", "6752"))

	q, err := queryFromCommand(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "ringgold-org-id:6752%20AND%20affiliation-org-name:%22Brown%20University%22", q.Key())
}

func TestQueryFromCommand_ParamString(t *testing.T) {
	cmd := &cobra.Command{}
	addQueryFlags(cmd)

	q, err := queryFromCommand(cmd, []string{"?ringgold=1|2"})
	require.NoError(t, err)
	assert.Equal(t, "(ringgold-org-id:1%20OR%20ringgold-org-id:2)", q.Key())
}

func TestQueryFromCommand_Empty(t *testing.T) {
	cmd := &cobra.Command{}
	addQueryFlags(cmd)

	_, err := queryFromCommand(cmd, nil)
	assert.ErrorContains(t, err, "query is empty")
}

func TestLoadConfig_DefaultsAndEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("PROFILE_ENGINE_CACHE_REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("PROFILE_ENGINE_FETCHER_MIN_INTERVAL", "250ms")

	initConfig()
	loadedSecrets = map[string]string{secrets.ORCIDToken: "tok"}
	t.Cleanup(func() { loadedSecrets = nil })

	cfg, err := loadConfig()
	require.NoError(t, err)

	def := types.DefaultEngineConfig()
	assert.Equal(t, def.Registry.BaseURL, cfg.Registry.BaseURL)
	assert.Equal(t, def.Fetcher.Timeout, cfg.Fetcher.Timeout)
	assert.Equal(t, types.CacheSQLite, cfg.Cache.Backend)
	assert.Equal(t, "redis://localhost:6379/2", cfg.Cache.RedisURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Fetcher.MinInterval)
	assert.Equal(t, "tok", cfg.Registry.Token)
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "profile-engine dev\n", buf.String())
}
