// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the prediction client,
// its archive, and its outer surfaces (CLI and HTTP).
package types

import (
	"fmt"
	"path"
	"slices"
	"strings"
)

// StructureFormat identifies a coordinate file format.
type StructureFormat string

const (
	// FormatPDB is the primary coordinate format.
	FormatPDB StructureFormat = "pdb"
	// FormatCIF is the alternate (mmCIF) coordinate format.
	FormatCIF StructureFormat = "cif"
)

// Alternate returns the other coordinate format.
func (f StructureFormat) Alternate() StructureFormat {
	if f == FormatCIF {
		return FormatPDB
	}
	return FormatCIF
}

// ParseStructureFormat accepts "pdb"/"primary" and "cif"/"mmcif"/"alternate",
// case-insensitively. An empty string means the primary format.
func ParseStructureFormat(s string) (StructureFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pdb", "primary":
		return FormatPDB, nil
	case "cif", "mmcif", "alternate":
		return FormatCIF, nil
	default:
		return "", fmt.Errorf("unknown structure format %q (want pdb or cif)", s)
	}
}

// FormatFromURL derives the coordinate format from a URL's file extension.
// The second return value is false when the extension is not recognised.
func FormatFromURL(rawURL string) (StructureFormat, bool) {
	p := rawURL
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".pdb", ".ent":
		return FormatPDB, true
	case ".cif", ".mmcif":
		return FormatCIF, true
	default:
		return "", false
	}
}

// SequenceRange is the inclusive residue span a prediction covers.
type SequenceRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Prediction is one normalized structural record from the remote service.
type Prediction struct {
	// EntryID is the remote record id (e.g. "AF-P69905-F1").
	EntryID string `json:"entry_id" yaml:"entry_id"`

	// AccessionID is the stable cross-version identifier (e.g. "P69905").
	AccessionID string `json:"accession_id" yaml:"accession_id"`

	Sequence         string         `json:"sequence,omitempty" yaml:"sequence,omitempty"`
	SequenceChecksum string         `json:"sequence_checksum,omitempty" yaml:"sequence_checksum,omitempty"`
	SequenceRange    *SequenceRange `json:"sequence_range,omitempty" yaml:"sequence_range,omitempty"`
	DisplayName      string         `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Organism         string         `json:"organism,omitempty" yaml:"organism,omitempty"`

	// StructureVersion and ReleasedAt are passed through as the service
	// reports them; neither is parsed.
	StructureVersion string `json:"structure_version,omitempty" yaml:"structure_version,omitempty"`
	ReleasedAt       string `json:"released_at,omitempty" yaml:"released_at,omitempty"`

	StructureFileURL          string `json:"structure_file_url,omitempty" yaml:"structure_file_url,omitempty"`
	AlternateStructureFileURL string `json:"alternate_structure_file_url,omitempty" yaml:"alternate_structure_file_url,omitempty"`
	MetadataURL               string `json:"metadata_url,omitempty" yaml:"metadata_url,omitempty"`
	PairwiseErrorURL          string `json:"pairwise_error_url,omitempty" yaml:"pairwise_error_url,omitempty"`

	// Confidence is the per-residue confidence sequence, 0-100 by convention.
	Confidence []float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`

	// PairwiseError is the predicted aligned error matrix. Rows may be
	// ragged when the upstream data is.
	PairwiseError [][]float64 `json:"pairwise_error,omitempty" yaml:"pairwise_error,omitempty"`

	// Extra holds remote fields this client does not interpret.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Clone returns a deep copy of p. Slices, the sequence range, and Extra
// (including nested JSON objects and arrays) are copied.
func (p Prediction) Clone() Prediction {
	if p.SequenceRange != nil {
		r := *p.SequenceRange
		p.SequenceRange = &r
	}
	p.Confidence = slices.Clone(p.Confidence)
	p.PairwiseError = CloneMatrix(p.PairwiseError)
	if p.Extra != nil {
		p.Extra = cloneValue(p.Extra).(map[string]any)
	}
	return p
}

// ClonePredictions deep-copies every prediction in ps. A nil slice stays nil
// and an empty slice stays empty.
func ClonePredictions(ps []Prediction) []Prediction {
	if ps == nil {
		return nil
	}
	out := make([]Prediction, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}

// CloneMatrix deep-copies a ragged matrix.
func CloneMatrix(m [][]float64) [][]float64 {
	if m == nil {
		return nil
	}
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = slices.Clone(row)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// StructureURL returns the resource URL for format, or "" when absent.
func (p Prediction) StructureURL(format StructureFormat) string {
	if format == FormatCIF {
		return p.AlternateStructureFileURL
	}
	return p.StructureFileURL
}

// StructureDocument is downloaded coordinate text plus its detected format.
type StructureDocument struct {
	// Data is the raw PDB or mmCIF text.
	Data string `json:"data" yaml:"data"`

	// Format is detected from the URL, not from the caller's preference.
	Format StructureFormat `json:"format" yaml:"format"`

	URL        string     `json:"url" yaml:"url"`
	Prediction Prediction `json:"prediction" yaml:"prediction"`
}

// Clone returns a deep copy of d.
func (d StructureDocument) Clone() StructureDocument {
	d.Prediction = d.Prediction.Clone()
	return d
}

// ConfidenceBands counts residues in the conventional pLDDT bands.
type ConfidenceBands struct {
	VeryHigh  int `json:"very_high" yaml:"very_high"` // >= 90
	Confident int `json:"confident" yaml:"confident"` // 70 to 90
	Low       int `json:"low" yaml:"low"`             // 50 to 70
	VeryLow   int `json:"very_low" yaml:"very_low"`   // < 50
}

// ConfidenceSummary aggregates a prediction's confidence sequence.
type ConfidenceSummary struct {
	Mean                   float64         `json:"mean" yaml:"mean"`
	HighConfidenceResidues int             `json:"high_confidence_residues" yaml:"high_confidence_residues"`
	TotalResidues          int             `json:"total_residues" yaml:"total_residues"`
	Bands                  ConfidenceBands `json:"bands" yaml:"bands"`
}

// BatchResult is the outcome for one identifier of a batch fetch. Exactly
// one of Predictions, Structure, or Error is set.
type BatchResult struct {
	ID          string             `json:"id" yaml:"id"`
	Predictions []Prediction       `json:"predictions,omitempty" yaml:"predictions,omitempty"`
	Structure   *StructureDocument `json:"structure,omitempty" yaml:"structure,omitempty"`
	Error       string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the item carries an error.
func (r BatchResult) Failed() bool {
	return r.Error != ""
}
