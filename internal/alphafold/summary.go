// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package alphafold

import "github.com/Vaishnav14220/chem-canvas-sub005/pkg/types"

// Confidence thresholds of the conventional pLDDT bands.
const (
	HighConfidenceThreshold = 90.0
	confidentThreshold      = 70.0
	lowThreshold            = 50.0
)

// Summarize aggregates a per-residue confidence sequence. It returns nil for
// an empty sequence.
func Summarize(confidence []float64) *types.ConfidenceSummary {
	if len(confidence) == 0 {
		return nil
	}

	s := &types.ConfidenceSummary{TotalResidues: len(confidence)}
	var sum float64
	for _, c := range confidence {
		sum += c
		switch {
		case c >= HighConfidenceThreshold:
			s.HighConfidenceResidues++
			s.Bands.VeryHigh++
		case c >= confidentThreshold:
			s.Bands.Confident++
		case c >= lowThreshold:
			s.Bands.Low++
		default:
			s.Bands.VeryLow++
		}
	}
	s.Mean = sum / float64(len(confidence))
	return s
}
