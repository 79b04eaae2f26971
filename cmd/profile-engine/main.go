// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the profile-engine CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/profile-engine/internal/aggregate"
	"github.com/pdiddy/profile-engine/internal/errors"
	"github.com/pdiddy/profile-engine/internal/logger"
	"github.com/pdiddy/profile-engine/internal/secrets"
	"github.com/pdiddy/profile-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the profile-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "profile-engine",
	Short: "Aggregate researcher profiles for an organization",
	Long: `profile-engine finds the researchers affiliated with an organization in the
ORCID registry, assembles a profile for each from ORCID, Crossref, DataCite
and an optional institutional repository, and computes publication and
collaboration metrics over the result.

Results are cached per canonical query for 24 hours by default.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(viper.GetBool("log.json"), viper.GetString("log.level")); err != nil {
			return err
		}
		s, err := secrets.Load(secrets.DefaultDir, logger.Logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Logger.Debugw("loaded secrets", "keys", keys)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./profile-engine.yaml or ~/.config/profile-engine/profile-engine.yaml)")
	pf.Bool("log-json", false, "write logs as JSON")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("cache", "", "cache backend: sqlite, redis, memory, none")
	pf.StringP("format", "o", aggregate.FormatTable, "output format: table, json, yaml")

	viper.BindPFlag("log.json", pf.Lookup("log-json"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("cache.backend", pf.Lookup("cache"))
}

func initConfig() {
	registerDefaults("", reflect.ValueOf(types.DefaultEngineConfig()))

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("profile-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "profile-engine"))
		}
	}

	viper.SetEnvPrefix("PROFILE_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Logger.Infow("using config file", "path", viper.ConfigFileUsed())
	}
}

// registerDefaults declares every config key with its default so that
// AutomaticEnv can override keys absent from the config file.
func registerDefaults(prefix string, rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		tag := strings.Split(f.Tag.Get("mapstructure"), ",")
		if slices.Contains(tag[1:], "squash") {
			registerDefaults(prefix, rv.Field(i))
			continue
		}
		key := tag[0]
		if prefix != "" {
			key = prefix + "." + key
		}
		if f.Type.Kind() == reflect.Struct {
			registerDefaults(key, rv.Field(i))
			continue
		}
		viper.SetDefault(key, rv.Field(i).Interface())
	}
}

// loadConfig returns the effective configuration with secrets applied.
func loadConfig() (types.EngineConfig, error) {
	cfg := types.DefaultEngineConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "decoding configuration")
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = types.CacheSQLite
	}
	secrets.Apply(&cfg, loadedSecrets)
	return cfg, nil
}

// newEngine builds the engine from the effective configuration. Metrics go
// to reg when it is not nil.
func newEngine(reg prometheus.Registerer) (*aggregate.Engine, types.EngineConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	e, err := aggregate.New(cfg, reg, logger.Logger)
	if err != nil {
		return nil, cfg, err
	}
	return e, cfg, nil
}

// writeOutput renders v in the --format selected on the command line.
func writeOutput(cmd *cobra.Command, v any) error {
	format, _ := cmd.Flags().GetString("format")
	return aggregate.Write(cmd.OutOrStdout(), format, v)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if hint := errors.FlattenHints(err); hint != "" {
			os.Stderr.WriteString("hint: " + hint + "\n")
		}
		os.Exit(1)
	}
}
