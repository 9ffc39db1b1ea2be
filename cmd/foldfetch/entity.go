// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Vaishnav14220/chem-canvas-sub005/internal/report"
)

var entityCmd = &cobra.Command{
	Use:   "entity <id>",
	Short: "Build the canonical entity for an identifier",
	Long: `Entity downloads the primary structure of the first prediction and
projects it into the canonical entity shape consumed by viewers and editors.
The entity id is derived from the entry id and model version, so repeated
runs produce the same id.`,
	Args: cobra.ExactArgs(1),
	RunE: runEntity,
}

func init() {
	rootCmd.AddCommand(entityCmd)
}

func runEntity(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	e, err := newIntegrator(cmd, nil).ToCanonicalEntity(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("building entity: %w", err)
	}
	if e == nil {
		return fmt.Errorf("no structure available for %s", args[0])
	}
	return report.Write(cmd.OutOrStdout(), format, e, func(w io.Writer) {
		report.EntityTable(w, e)
	})
}
