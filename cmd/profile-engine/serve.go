// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/profile-engine/internal/api"
	"github.com/pdiddy/profile-engine/internal/errors"
	"github.com/pdiddy/profile-engine/internal/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the aggregation API over HTTP",
	Long: `Serve exposes the engine over HTTP:

  GET /api/search?institutionId=6752
  GET /api/analytics?gridId=grid.40263.33
  GET /api/organizations?name=Brown%20University
  GET /health
  GET /metrics`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	engine, cfg, err := newEngine(reg)
	if err != nil {
		return err
	}
	defer engine.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(engine, reg, logger.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		logger.Logger.Infow("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Logger.Infow("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :4000)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}
