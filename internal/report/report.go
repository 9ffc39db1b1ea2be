// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders predictions, structures, summaries, batch results,
// and entities for humans (aligned tables) or machines (JSON, YAML).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/Vaishnav14220/chem-canvas-sub005/pkg/types"
)

// Format selects an output rendering.
type Format string

// Supported output formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts table, json, yaml, and yml. An empty string means table.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q: use table, json, or yaml", s)
	}
}

// Write renders v as JSON or YAML, or calls table for FormatTable.
func Write(w io.Writer, f Format, v any, table func(io.Writer)) error {
	switch f {
	case FormatJSON:
		return JSON(w, v)
	case FormatYAML:
		return YAML(w, v)
	default:
		table(w)
		return nil
	}
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as a YAML document.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// PredictionsTable writes one row per prediction.
func PredictionsTable(w io.Writer, preds []types.Prediction) {
	if len(preds) == 0 {
		fmt.Fprintln(w, "No predictions found.")
		return
	}

	fmt.Fprintf(w, "%-22s  %-10s  %-36s  %-24s  %-7s  %s\n",
		"Entry", "Accession", "Name", "Organism", "Version", "Residues")
	fmt.Fprintln(w, strings.Repeat("-", 115))

	for _, p := range preds {
		fmt.Fprintf(w, "%-22s  %-10s  %-36s  %-24s  %-7s  %d\n",
			truncate(p.EntryID, 22), p.AccessionID, truncate(p.DisplayName, 36),
			truncate(p.Organism, 24), p.StructureVersion, residues(p))
	}

	fmt.Fprintf(w, "\n%d predictions\n", len(preds))
}

// StructureTable writes a one-line description of a downloaded structure.
func StructureTable(w io.Writer, doc *types.StructureDocument) {
	if doc == nil {
		fmt.Fprintln(w, "No structure available.")
		return
	}
	fmt.Fprintf(w, "%s  %s  %d bytes  %s\n",
		doc.Prediction.EntryID, doc.Format, len(doc.Data), doc.URL)
}

// SummaryTable writes a confidence summary with its band counts.
func SummaryTable(w io.Writer, id string, s *types.ConfidenceSummary) {
	if s == nil {
		fmt.Fprintf(w, "No confidence data for %s.\n", id)
		return
	}
	fmt.Fprintf(w, "%s: mean %.2f, %d of %d residues >= 90\n",
		id, s.Mean, s.HighConfidenceResidues, s.TotalResidues)
	fmt.Fprintf(w, "  very high (>=90)  %d\n", s.Bands.VeryHigh)
	fmt.Fprintf(w, "  confident (70-90) %d\n", s.Bands.Confident)
	fmt.Fprintf(w, "  low (50-70)       %d\n", s.Bands.Low)
	fmt.Fprintf(w, "  very low (<50)    %d\n", s.Bands.VeryLow)
}

// BatchTable writes one row per batch item, in input order.
func BatchTable(w io.Writer, results []types.BatchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No identifiers given.")
		return
	}

	fmt.Fprintf(w, "%-14s  %-6s  %s\n", "ID", "Status", "Detail")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	failed := 0
	for _, r := range results {
		status, detail := "ok", ""
		switch {
		case r.Failed():
			status, detail = "failed", r.Error
			failed++
		case r.Structure != nil:
			detail = fmt.Sprintf("%s structure, %d bytes", r.Structure.Format, len(r.Structure.Data))
		default:
			detail = fmt.Sprintf("%d predictions", len(r.Predictions))
		}
		fmt.Fprintf(w, "%-14s  %-6s  %s\n", truncate(r.ID, 14), status, detail)
	}

	fmt.Fprintf(w, "\n%d items, %d failed\n", len(results), failed)
}

// EntityTable writes the identifying fields of an entity.
func EntityTable(w io.Writer, e *types.Entity) {
	if e == nil {
		fmt.Fprintln(w, "No entity available.")
		return
	}
	fmt.Fprintf(w, "ID:        %s\n", e.ID)
	fmt.Fprintf(w, "Kind:      %s\n", e.Kind)
	fmt.Fprintf(w, "Name:      %s\n", e.Name)
	if e.Organism != "" {
		fmt.Fprintf(w, "Organism:  %s\n", e.Organism)
	}
	fmt.Fprintf(w, "Accession: %s\n", e.Identifiers["accession"])
	fmt.Fprintf(w, "Entry:     %s\n", e.Identifiers["entry"])
	fmt.Fprintf(w, "Version:   %s\n", e.Version)
	fmt.Fprintf(w, "Structure: %s (%d bytes)\n", e.Structure.Format, len(e.Structure.Data))
	if e.Confidence != nil {
		fmt.Fprintf(w, "Mean pLDDT: %.2f\n", e.Confidence.Mean)
	}
}

// MatrixTable describes a pairwise error matrix without printing every cell.
func MatrixTable(w io.Writer, id string, m [][]float64) {
	if len(m) == 0 {
		fmt.Fprintf(w, "No pairwise error data for %s.\n", id)
		return
	}
	cols, peak := 0, 0.0
	for _, row := range m {
		cols = max(cols, len(row))
		for _, v := range row {
			peak = max(peak, v)
		}
	}
	fmt.Fprintf(w, "%s: %d x %d matrix, max %.2f\n", id, len(m), cols, peak)
}

func residues(p types.Prediction) int {
	switch {
	case p.Sequence != "":
		return len(p.Sequence)
	case p.SequenceRange != nil:
		return p.SequenceRange.End - p.SequenceRange.Start + 1
	default:
		return len(p.Confidence)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
