// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Vaishnav14220/chem-canvas-sub005/internal/metrics"
	"github.com/Vaishnav14220/chem-canvas-sub005/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the prediction operations over HTTP",
	Long: `Serve exposes predictions, structures, confidence summaries, canonical
entities, pairwise error matrices and batch fetches under /api/v1, and
Prometheus metrics under /metrics. All requests share one client, so the
rate limit and cache apply across callers.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("port", "8080", "listen port or address")
	if err := viper.BindPFlag("port", serveCmd.Flags().Lookup("port")); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	m := metrics.NewManager()
	af := newIntegrator(cmd, m)
	cfg := af.Config()
	logger.Info("prediction client ready",
		slog.String("base_url", cfg.BaseURL),
		slog.Duration("rate_limit_interval", cfg.RateLimitInterval),
		slog.Int("max_attempts", cfg.MaxAttempts),
		slog.Bool("cache_enabled", cfg.CacheEnabled),
		slog.Duration("cache_ttl", cfg.CacheTTL),
	)
	srv := server.New(af,
		server.WithLogger(logger),
		server.WithMetricsHandler(m.Handler()),
		server.WithVersion(version),
	)
	return srv.ListenAndServe(cmd.Context(), server.Addr(viper.GetString("port")))
}
