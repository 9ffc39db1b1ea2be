// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Vaishnav14220/chem-canvas-sub005/internal/report"
	"github.com/Vaishnav14220/chem-canvas-sub005/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch [ids...]",
	Short: "Fetch predictions or structures for many identifiers",
	Long: `Batch processes identifiers one after another, in the order given, through
the shared rate limiter. A failing identifier is reported and the batch
continues. Without --structure-format each item yields its predictions; with
it each item yields a coordinate file, and a missing one counts as a failure.

Identifiers come from the arguments and, with --ids-file, from a file with
one identifier per line (- reads stdin; blank lines and # comments are
ignored). With --archive the fetched predictions are saved to the local
archive.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("ids-file", "", "file of identifiers, one per line (- for stdin)")
	batchCmd.Flags().String("structure-format", "", "fetch structures in this format (pdb or cif) instead of predictions")
	batchCmd.Flags().Bool("archive", false, "save fetched predictions to the archive")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	ids := append([]string(nil), args...)
	if path, _ := cmd.Flags().GetString("ids-file"); path != "" {
		fromFile, err := readIDs(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}
		ids = append(ids, fromFile...)
	}
	if len(ids) == 0 {
		return fmt.Errorf("provide one or more identifiers (arguments or --ids-file)")
	}

	var structureFormat types.StructureFormat
	if raw, _ := cmd.Flags().GetString("structure-format"); raw != "" {
		f, err := types.ParseStructureFormat(raw)
		if err != nil {
			return err
		}
		structureFormat = f
	}
	format, err := outputFormat()
	if err != nil {
		return err
	}

	results := newIntegrator(cmd, nil).BatchFetch(cmd.Context(), ids, structureFormat)

	if save, _ := cmd.Flags().GetBool("archive"); save {
		if err := archiveResults(cmd, results); err != nil {
			return err
		}
	}

	if err := report.Write(cmd.OutOrStdout(), format, results, func(w io.Writer) {
		report.BatchTable(w, results)
	}); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d identifier(s) failed", failed)
	}
	return nil
}

func archiveResults(cmd *cobra.Command, results []types.BatchResult) error {
	var preds []types.Prediction
	for _, r := range results {
		switch {
		case r.Structure != nil:
			preds = append(preds, r.Structure.Prediction)
		default:
			preds = append(preds, r.Predictions...)
		}
	}

	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Save(cmd.Context(), preds)
	if err != nil {
		return fmt.Errorf("archiving predictions: %w", err)
	}
	logger.Info("archived predictions",
		slog.Int("inserted", summary.Inserted), slog.Int("updated", summary.Updated))
	return nil
}

// readIDs reads identifiers one per line from path, or from stdin for "-".
func readIDs(stdin io.Reader, path string) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening ids file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var ids []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading ids: %w", err)
	}
	return ids, nil
}
