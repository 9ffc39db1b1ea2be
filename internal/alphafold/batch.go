// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package alphafold

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Vaishnav14220/chem-canvas-sub005/pkg/types"
)

// EntitySource is the Source of every entity this package builds.
const EntitySource = "alphafold"

// entityNamespace seeds the deterministic entity ids.
var entityNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://alphafold.ebi.ac.uk/entry"))

// BatchFetch processes ids one after another, in order, and returns one
// result per id. A failing id never stops the batch; its error message is
// recorded on its own result. An empty format asks for predictions; any
// other format asks for a structure document, and a missing structure is
// reported as that id's error.
func (i *Integrator) BatchFetch(ctx context.Context, ids []string, format types.StructureFormat) []types.BatchResult {
	results := make([]types.BatchResult, 0, len(ids))
	for _, id := range ids {
		r := types.BatchResult{ID: id}
		if format == "" {
			preds, err := i.FetchPredictions(ctx, id)
			if err != nil {
				r.Error = err.Error()
			} else {
				r.Predictions = preds
			}
		} else {
			doc, err := i.FetchStructure(ctx, id, format)
			switch {
			case err != nil:
				r.Error = err.Error()
			case doc == nil:
				r.Error = fmt.Sprintf("no %s structure available for %s", format, id)
			default:
				r.Structure = doc
			}
		}

		if r.Failed() {
			i.logger.WarnContext(ctx, "batch item failed", slog.String("id", id), slog.String("error", r.Error))
		}
		results = append(results, r)
	}
	return results
}

// ToCanonicalEntity projects the primary structure of id into an Entity.
// It returns nil, nil when no structure is available.
func (i *Integrator) ToCanonicalEntity(ctx context.Context, id string) (*types.Entity, error) {
	doc, err := i.FetchStructure(ctx, id, types.FormatPDB)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return NewEntity(doc), nil
}

// NewEntity builds the canonical entity for a downloaded structure.
func NewEntity(doc *types.StructureDocument) *types.Entity {
	p := doc.Prediction

	name := p.DisplayName
	if name == "" {
		name = p.AccessionID
	}

	ids := map[string]string{
		"accession": p.AccessionID,
		"entry":     p.EntryID,
	}
	if IsUniProtAccession(p.AccessionID) {
		ids["uniprot"] = p.AccessionID
	}
	if p.SequenceChecksum != "" {
		ids["sequence_checksum"] = p.SequenceChecksum
	}

	links := make(map[string]string)
	for key, link := range map[string]string{
		"structure":           p.StructureFileURL,
		"alternate_structure": p.AlternateStructureFileURL,
		"metadata":            p.MetadataURL,
		"pairwise_error":      p.PairwiseErrorURL,
	} {
		if link != "" {
			links[key] = link
		}
	}

	return &types.Entity{
		ID:          uuid.NewSHA1(entityNamespace, []byte(p.EntryID+"@"+p.StructureVersion)).String(),
		Kind:        types.EntityKindProteinStructure,
		Source:      EntitySource,
		Name:        name,
		Organism:    p.Organism,
		Identifiers: ids,
		Sequence:    p.Sequence,
		Structure: types.StructureData{
			Format: doc.Format,
			URL:    doc.URL,
			Data:   doc.Data,
		},
		Confidence: Summarize(p.Confidence),
		Version:    p.StructureVersion,
		ReleasedAt: p.ReleasedAt,
		Links:      links,
	}
}
