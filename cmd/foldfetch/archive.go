// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Vaishnav14220/chem-canvas-sub005/internal/archive"
	"github.com/Vaishnav14220/chem-canvas-sub005/internal/report"
	"github.com/Vaishnav14220/chem-canvas-sub005/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "List, show, or export predictions saved by batch --archive",
	Long: `Archive reads the local SQLite archive of normalized predictions. Every
model version of an entry is kept; list and export accept the same
filters, and get shows the latest saved version of one entry.`,
}

// --- get subcommand ---

var archiveGetCmd = &cobra.Command{
	Use:   "get <entry-id>",
	Short: "Show the latest archived version of an entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveGet,
}

func runArchiveGet(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Get(cmd.Context(), args[0])
	if errors.Is(err, archive.ErrNotFound) {
		return fmt.Errorf("%s is not in the archive; run batch --archive first", args[0])
	}
	if err != nil {
		return err
	}

	return report.Write(cmd.OutOrStdout(), format, entry, func(w io.Writer) {
		report.PredictionsTable(w, []types.Prediction{entry.Prediction})
		fmt.Fprintf(w, "fetched at %s\n", entry.FetchedAt.Format(time.RFC3339))
	})
}

// --- list subcommand ---

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived predictions",
	RunE:  runArchiveList,
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), listOptsFromFlags(cmd))
	if err != nil {
		return err
	}

	return report.Write(cmd.OutOrStdout(), format, entries, func(w io.Writer) {
		preds := make([]types.Prediction, len(entries))
		for i, e := range entries {
			preds[i] = e.Prediction
		}
		report.PredictionsTable(w, preds)
	})
}

// --- export subcommand ---

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export archived predictions as YAML or JSON",
	Long: `Export writes the archived predictions (or a filtered subset) as YAML
(default) or JSON, to stdout or to --out.`,
	RunE: runArchiveExport,
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	var buf strings.Builder
	opts := listOptsFromFlags(cmd)
	switch format {
	case report.FormatJSON:
		err = store.ExportJSON(cmd.Context(), &buf, opts)
	default:
		err = store.ExportYAML(cmd.Context(), &buf, opts)
	}
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), buf.String())
		return err
	}
	if err := writeFileAtomic(out, []byte(buf.String())); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
	return nil
}

// --- shared helpers ---

func listOptsFromFlags(cmd *cobra.Command) archive.ListOptions {
	accession, _ := cmd.Flags().GetString("accession")
	organism, _ := cmd.Flags().GetString("organism")
	limit, _ := cmd.Flags().GetInt("limit")
	return archive.ListOptions{
		Accession: accession,
		Organism:  organism,
		Limit:     limit,
	}
}

func init() {
	// Filters shared by list and export.
	archiveCmd.PersistentFlags().String("accession", "", "filter by UniProt accession")
	archiveCmd.PersistentFlags().String("organism", "", "filter by organism (substring, case-insensitive)")
	archiveCmd.PersistentFlags().Int("limit", 0, "maximum entries (0 = all)")

	archiveExportCmd.Flags().String("out", "", "write the export to this path instead of stdout")

	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveGetCmd)
	archiveCmd.AddCommand(archiveExportCmd)

	rootCmd.AddCommand(archiveCmd)
}
