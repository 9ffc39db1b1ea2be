// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// EntityKindProteinStructure is the Kind of entities built from predictions.
const EntityKindProteinStructure = "protein-structure"

// StructureData is the coordinate payload carried by an Entity.
type StructureData struct {
	Format StructureFormat `json:"format" yaml:"format"`
	URL    string          `json:"url" yaml:"url"`
	Data   string          `json:"data" yaml:"data"`
}

// Entity is the canonical molecule/entity shape handed to downstream
// consumers such as viewers and editors.
type Entity struct {
	// ID is a deterministic UUID derived from the entry id and version, so
	// the same prediction always maps to the same entity.
	ID string `json:"id" yaml:"id"`

	Kind        string             `json:"kind" yaml:"kind"`
	Source      string             `json:"source" yaml:"source"`
	Name        string             `json:"name" yaml:"name"`
	Organism    string             `json:"organism,omitempty" yaml:"organism,omitempty"`
	Identifiers map[string]string  `json:"identifiers" yaml:"identifiers"`
	Sequence    string             `json:"sequence,omitempty" yaml:"sequence,omitempty"`
	Structure   StructureData      `json:"structure" yaml:"structure"`
	Confidence  *ConfidenceSummary `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Version     string             `json:"version,omitempty" yaml:"version,omitempty"`
	ReleasedAt  string             `json:"released_at,omitempty" yaml:"released_at,omitempty"`
	Links       map[string]string  `json:"links,omitempty" yaml:"links,omitempty"`
}
