// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package alphafold

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Vaishnav14220/chem-canvas-sub005/internal/normalize"
	"github.com/Vaishnav14220/chem-canvas-sub005/pkg/types"
)

// FetchPredictions returns the normalized predictions for id. An invalid id
// fails with ErrInvalidIdentifier before any request is made. A cached list
// (including an empty one) is returned without touching the network; remote
// failures are returned and never cached.
func (i *Integrator) FetchPredictions(ctx context.Context, id string) ([]types.Prediction, error) {
	id, err := ValidateIdentifier(id)
	if err != nil {
		return nil, err
	}

	if preds, ok := i.predictions.Get(id); ok {
		i.metrics.ObserveCacheLookup(cachePredictions, true)
		i.logger.DebugContext(ctx, "predictions cache hit", slog.String("id", id))
		return types.ClonePredictions(preds), nil
	}
	i.metrics.ObserveCacheLookup(cachePredictions, false)

	var payload any
	if err := i.client.GetJSON(ctx, i.predictionURL(id), &payload); err != nil {
		return nil, fmt.Errorf("fetching predictions for %s: %w", id, err)
	}

	preds := normalize.Predictions(payload)
	i.predictions.Set(id, types.ClonePredictions(preds))
	i.logger.InfoContext(ctx, "fetched predictions",
		slog.String("id", id), slog.Int("count", len(preds)))
	return preds, nil
}

// FetchStructure downloads the coordinate file of the first prediction for
// id. The preferred format is tried first and the other format second; an
// empty format means PDB. It returns nil, nil when there is no prediction or
// neither URL is present. The returned document's Format comes from the
// URL's extension, not from the preference.
func (i *Integrator) FetchStructure(ctx context.Context, id string, format types.StructureFormat) (*types.StructureDocument, error) {
	if format == "" {
		format = types.FormatPDB
	}

	preds, err := i.FetchPredictions(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(preds) == 0 {
		return nil, nil
	}
	p := preds[0]

	from := format
	link := p.StructureURL(from)
	if link == "" {
		from = format.Alternate()
		link = p.StructureURL(from)
	}
	if link == "" {
		i.logger.DebugContext(ctx, "no structure file", slog.String("id", id))
		return nil, nil
	}

	if doc, ok := i.structures.Get(link); ok {
		i.metrics.ObserveCacheLookup(cacheStructures, true)
		doc = doc.Clone()
		return &doc, nil
	}
	i.metrics.ObserveCacheLookup(cacheStructures, false)

	data, err := i.client.GetText(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("fetching structure for %s: %w", id, err)
	}

	detected, ok := types.FormatFromURL(link)
	if !ok {
		detected = from
	}
	doc := types.StructureDocument{
		Data:       data,
		Format:     detected,
		URL:        link,
		Prediction: p,
	}
	i.structures.Set(link, doc.Clone())
	i.logger.InfoContext(ctx, "fetched structure",
		slog.String("id", id), slog.String("format", string(detected)), slog.Int("bytes", len(data)))
	return &doc, nil
}

// ConfidenceSummary summarizes the confidence sequence of the first
// prediction for id. It returns nil, nil when there is no prediction or the
// sequence is empty.
func (i *Integrator) ConfidenceSummary(ctx context.Context, id string) (*types.ConfidenceSummary, error) {
	preds, err := i.FetchPredictions(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(preds) == 0 {
		return nil, nil
	}
	return Summarize(preds[0].Confidence), nil
}

// FetchPairwiseError returns the predicted aligned error matrix of the first
// prediction for id. An inline matrix is used as is; otherwise the matrix is
// downloaded from the prediction's pairwise error URL and cached. It returns
// nil, nil when neither is available.
func (i *Integrator) FetchPairwiseError(ctx context.Context, id string) ([][]float64, error) {
	preds, err := i.FetchPredictions(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(preds) == 0 {
		return nil, nil
	}
	p := preds[0]
	if len(p.PairwiseError) > 0 {
		return p.PairwiseError, nil
	}
	if p.PairwiseErrorURL == "" {
		return nil, nil
	}

	if matrix, ok := i.pairwise.Get(p.PairwiseErrorURL); ok {
		i.metrics.ObserveCacheLookup(cachePairwise, true)
		return types.CloneMatrix(matrix), nil
	}
	i.metrics.ObserveCacheLookup(cachePairwise, false)

	var payload any
	if err := i.client.GetJSON(ctx, p.PairwiseErrorURL, &payload); err != nil {
		return nil, fmt.Errorf("fetching pairwise error for %s: %w", id, err)
	}
	matrix := normalize.PairwiseError(payload)
	i.pairwise.Set(p.PairwiseErrorURL, types.CloneMatrix(matrix))
	return matrix, nil
}
