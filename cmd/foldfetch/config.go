// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Vaishnav14220/chem-canvas-sub005/internal/alphafold"
	"github.com/Vaishnav14220/chem-canvas-sub005/internal/archive"
	"github.com/Vaishnav14220/chem-canvas-sub005/internal/metrics"
	"github.com/Vaishnav14220/chem-canvas-sub005/internal/report"
	"github.com/Vaishnav14220/chem-canvas-sub005/internal/secrets"
	"github.com/Vaishnav14220/chem-canvas-sub005/pkg/types"
)

func defaultBaseURL() string {
	return types.DefaultBaseURL
}

// clientConfig reads the client settings from flags, environment, config
// file and secrets, in that order of precedence. Unset values keep their
// defaults.
func clientConfig(cmd *cobra.Command) types.ClientConfig {
	cfg := types.DefaultClientConfig()
	if v := viper.GetString("base_url"); v != "" {
		cfg.BaseURL = v
	}
	if v := viper.GetString("api_key"); v != "" {
		cfg.APIKey = v
	}
	if v := viper.GetString("user_agent"); v != "" {
		cfg.UserAgent = v
	}
	if v := viper.GetDuration("timeout"); v > 0 {
		cfg.Timeout = v
	}
	if v := viper.GetDuration("cache_ttl"); v > 0 {
		cfg.CacheTTL = v
	}
	// Negative disables throttling.
	if v := viper.GetDuration("rate_limit_interval"); v != 0 {
		cfg.RateLimitInterval = v
	}
	if v := viper.GetInt("max_attempts"); v > 0 {
		cfg.MaxAttempts = v
	}
	noCache, _ := cmd.Flags().GetBool("no-cache")
	cfg.CacheEnabled = viper.GetBool("cache_enabled") && !noCache
	return secrets.Apply(cfg, loadedSecrets)
}

// newIntegrator builds the prediction client for one command run.
func newIntegrator(cmd *cobra.Command, m *metrics.Manager) *alphafold.Integrator {
	return alphafold.New(clientConfig(cmd),
		alphafold.WithLogger(logger),
		alphafold.WithMetrics(m),
	)
}

func outputFormat() (report.Format, error) {
	return report.ParseFormat(viper.GetString("output"))
}

func openArchive() (*archive.Store, error) {
	path := viper.GetString("archive_path")
	if path == "" {
		path = archive.DefaultPath
	}
	return archive.Open(path)
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}
