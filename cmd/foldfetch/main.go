// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the foldfetch CLI.
// It fetches structural predictions, coordinate files, confidence
// summaries and canonical entities, archives batch results locally, and can
// serve the same operations over HTTP.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Vaishnav14220/chem-canvas-sub005/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is built from --log-level before any subcommand runs.
var logger = slog.New(slog.DiscardHandler)

// rootCmd is the base command for the foldfetch CLI.
var rootCmd = &cobra.Command{
	Use:   "foldfetch",
	Short: "Fetch and normalize structural predictions",
	Long: `foldfetch is a client for an AlphaFold-style structural prediction
service. It throttles every request through one rate limiter, retries when
the service answers 429, caches results, and reshapes inconsistent remote
records into one stable prediction model.

Each operation is a subcommand: predictions, structure, summary, batch,
entity, and pae. The archive subcommands list and export predictions saved
by batch --archive; serve exposes the same operations over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetString("log_level"))
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(viper.GetString("secrets_dir"), logger)
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
			logger.Debug("loaded secrets", slog.Any("keys", keys))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./foldfetch.yaml or ~/.config/foldfetch/foldfetch.yaml)")
	pf.String("base-url", "", "prediction API root (default "+defaultBaseURL()+")")
	pf.String("api-key", "", "API key sent as x-api-key (default: .secrets/structure-api-key)")
	pf.Duration("timeout", 0, "HTTP request timeout (default 60s)")
	pf.Duration("rate-limit", 0, "minimum interval between requests (default 250ms)")
	pf.Int("max-attempts", 0, "attempts per request when rate limited (default 3)")
	pf.Duration("cache-ttl", 0, "how long fetched records stay cached (default 720h)")
	pf.Bool("no-cache", false, "disable the in-memory cache")
	pf.StringP("format", "f", "table", "output format: table, json, or yaml")
	pf.String("log-level", "warn", "log level: debug, info, warn, or error")
	pf.String("secrets-dir", ".secrets/", "directory of secret files")
	pf.String("archive-path", "", "archive database (default archive/predictions.db)")

	for key, flag := range map[string]string{
		"base_url":            "base-url",
		"api_key":             "api-key",
		"timeout":             "timeout",
		"rate_limit_interval": "rate-limit",
		"max_attempts":        "max-attempts",
		"cache_ttl":           "cache-ttl",
		"output":              "format",
		"log_level":           "log-level",
		"secrets_dir":         "secrets-dir",
		"archive_path":        "archive-path",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
	viper.SetDefault("cache_enabled", true)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("foldfetch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "foldfetch"))
		}
	}

	viper.SetEnvPrefix("FOLDFETCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
