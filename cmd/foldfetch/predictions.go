// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Vaishnav14220/chem-canvas-sub005/internal/report"
)

var predictionsCmd = &cobra.Command{
	Use:   "predictions <id>",
	Short: "List the normalized predictions for an identifier",
	Long: `Predictions fetches every prediction record the service holds for a
UniProt accession or entry id and prints them in the stable prediction
model, whatever schema the service answered with.`,
	Args: cobra.ExactArgs(1),
	RunE: runPredictions,
}

func init() {
	rootCmd.AddCommand(predictionsCmd)
}

func runPredictions(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	preds, err := newIntegrator(cmd, nil).FetchPredictions(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetching predictions: %w", err)
	}
	return report.Write(cmd.OutOrStdout(), format, preds, func(w io.Writer) {
		report.PredictionsTable(w, preds)
	})
}
