// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Vaishnav14220/chem-canvas-sub005/internal/report"
	"github.com/Vaishnav14220/chem-canvas-sub005/pkg/types"
)

var structureCmd = &cobra.Command{
	Use:   "structure <id>",
	Short: "Download the coordinate file of the first prediction",
	Long: `Structure downloads the PDB (default) or mmCIF file of the first
prediction for an identifier. When the preferred format is missing the
other one is used; the reported format always reflects the file actually
downloaded.

With --out the coordinate text is written to a file (atomically, through a
temporary file and rename); otherwise a description is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runStructure,
}

func init() {
	structureCmd.Flags().String("structure-format", "pdb", "preferred coordinate format: pdb or cif")
	structureCmd.Flags().String("out", "", "write the coordinate file to this path (- for stdout)")

	rootCmd.AddCommand(structureCmd)
}

func runStructure(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetString("structure-format")
	pref, err := types.ParseStructureFormat(raw)
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("out")
	format, err := outputFormat()
	if err != nil {
		return err
	}

	doc, err := newIntegrator(cmd, nil).FetchStructure(cmd.Context(), args[0], pref)
	if err != nil {
		return fmt.Errorf("fetching structure: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("no structure available for %s", args[0])
	}

	switch out {
	case "":
		return report.Write(cmd.OutOrStdout(), format, doc, func(w io.Writer) {
			report.StructureTable(w, doc)
		})
	case "-":
		_, err := io.WriteString(cmd.OutOrStdout(), doc.Data)
		return err
	default:
		if err := writeFileAtomic(out, []byte(doc.Data)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %d bytes)\n", out, doc.Format, len(doc.Data))
		return nil
	}
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming to %s: %w", path, err)
	}
	return nil
}
