// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Vaishnav14220/chem-canvas-sub005/internal/report"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <id>",
	Short: "Summarize per-residue confidence of the first prediction",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	sum, err := newIntegrator(cmd, nil).ConfidenceSummary(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("summarizing confidence: %w", err)
	}
	return report.Write(cmd.OutOrStdout(), format, sum, func(w io.Writer) {
		report.SummaryTable(w, args[0], sum)
	})
}
