// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Vaishnav14220/chem-canvas-sub005/internal/report"
)

var paeCmd = &cobra.Command{
	Use:   "pae <id>",
	Short: "Fetch the predicted aligned error matrix",
	Args:  cobra.ExactArgs(1),
	RunE:  runPAE,
}

func init() {
	rootCmd.AddCommand(paeCmd)
}

func runPAE(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	m, err := newIntegrator(cmd, nil).FetchPairwiseError(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetching pairwise error: %w", err)
	}
	return report.Write(cmd.OutOrStdout(), format, m, func(w io.Writer) {
		report.MatrixTable(w, args[0], m)
	})
}
