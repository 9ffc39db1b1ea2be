// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns loosely typed remote prediction records into
// types.Prediction. It is the only place that handles untyped JSON: the
// service has renamed fields across API versions and leaves many of them
// out, so every field except the two identifiers is best-effort.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/Vaishnav14220/chem-canvas-sub005/pkg/types"
)

// Record is one remote object as decoded from JSON.
type Record map[string]any

// Field aliases in priority order. The first alias holding a usable value
// wins.
var (
	entryAliases         = []string{"entryId", "entry_id", "modelEntityId", "id"}
	accessionAliases     = []string{"uniprotAccession", "uniprot_accession", "accession", "accessionId"}
	sequenceAliases      = []string{"uniprotSequence", "sequence"}
	checksumAliases      = []string{"sequenceChecksum", "uniprotChecksum"}
	rangeStartAliases    = []string{"uniprotStart", "sequenceStart"}
	rangeEndAliases      = []string{"uniprotEnd", "sequenceEnd"}
	nameAliases          = []string{"uniprotDescription", "description", "displayName", "gene"}
	organismAliases      = []string{"organismScientificName", "organism", "organismName"}
	versionAliases       = []string{"latestVersion", "modelVersion", "version"}
	releasedAliases      = []string{"modelCreatedDate", "releaseDate", "createdDate"}
	primaryURLAliases    = []string{"pdbUrl", "pdb_url"}
	alternateURLAliases  = []string{"cifUrl", "cif_url", "mmcifUrl"}
	metadataURLAliases   = []string{"metadataUrl", "metadata_url", "amAnnotationsUrl"}
	pairwiseURLAliases   = []string{"paeDocUrl", "pae_doc_url", "paeUrl"}
	confidenceAliases    = []string{"confidenceScore", "plddt", "perResidueConfidence", "confidence"}
	pairwiseErrorAliases = []string{"predicted_aligned_error", "predictedAlignedError", "pae"}
)

// knownKeys holds every alias; anything else in a record goes to Extra.
var knownKeys = func() map[string]bool {
	m := make(map[string]bool)
	for _, list := range [][]string{
		entryAliases, accessionAliases, sequenceAliases, checksumAliases,
		rangeStartAliases, rangeEndAliases, nameAliases, organismAliases,
		versionAliases, releasedAliases, primaryURLAliases, alternateURLAliases,
		metadataURLAliases, pairwiseURLAliases, confidenceAliases, pairwiseErrorAliases,
	} {
		for _, k := range list {
			m[k] = true
		}
	}
	return m
}()

// Prediction converts one record. It reports false only when the entry id
// or the accession id is missing; every other field degrades silently.
func Prediction(raw Record) (types.Prediction, bool) {
	p := types.Prediction{
		EntryID:     raw.str(entryAliases...),
		AccessionID: raw.str(accessionAliases...),
	}
	if p.EntryID == "" || p.AccessionID == "" {
		return types.Prediction{}, false
	}

	p.Sequence = raw.str(sequenceAliases...)
	p.SequenceChecksum = raw.str(checksumAliases...)
	p.DisplayName = raw.str(nameAliases...)
	p.Organism = raw.str(organismAliases...)
	p.StructureVersion = raw.str(versionAliases...)
	p.ReleasedAt = raw.str(releasedAliases...)
	p.StructureFileURL = raw.str(primaryURLAliases...)
	p.AlternateStructureFileURL = raw.str(alternateURLAliases...)
	p.MetadataURL = raw.str(metadataURLAliases...)
	p.PairwiseErrorURL = raw.str(pairwiseURLAliases...)

	start, okStart := raw.integer(rangeStartAliases...)
	end, okEnd := raw.integer(rangeEndAliases...)
	if okStart && okEnd {
		p.SequenceRange = &types.SequenceRange{Start: start, End: end}
	}

	if v, ok := raw.first(confidenceAliases...); ok {
		p.Confidence = Numbers(v)
	}
	if v, ok := raw.first(pairwiseErrorAliases...); ok {
		p.PairwiseError = Matrix(v)
	}

	for k, v := range raw {
		if knownKeys[k] {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[k] = v
	}
	return p, true
}

// Predictions normalizes a response payload that is either a list of
// records or a single record. Invalid elements are dropped. The result is
// never nil, so an empty response can still be cached.
func Predictions(payload any) []types.Prediction {
	out := make([]types.Prediction, 0)
	switch v := payload.(type) {
	case []any:
		for _, item := range v {
			if p, ok := asRecord(item).prediction(); ok {
				out = append(out, p)
			}
		}
	case map[string]any, Record:
		if p, ok := asRecord(v).prediction(); ok {
			out = append(out, p)
		}
	}
	return out
}

func (r Record) prediction() (types.Prediction, bool) {
	if r == nil {
		return types.Prediction{}, false
	}
	return Prediction(r)
}

func asRecord(v any) Record {
	switch m := v.(type) {
	case Record:
		return m
	case map[string]any:
		return Record(m)
	default:
		return nil
	}
}

// first returns the value of the first alias present with a non-nil value.
func (r Record) first(aliases ...string) (any, bool) {
	for _, k := range aliases {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// str returns the first alias that renders to a non-empty string.
func (r Record) str(aliases ...string) string {
	for _, k := range aliases {
		if s, ok := toString(r[k]); ok && s != "" {
			return s
		}
	}
	return ""
}

// integer returns the first alias holding a whole number.
func (r Record) integer(aliases ...string) (int, bool) {
	for _, k := range aliases {
		f, ok := toNumber(r[k])
		if ok && f == float64(int(f)) {
			return int(f), true
		}
	}
	return 0, false
}

// clean trims and NFC-normalizes remote text.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
