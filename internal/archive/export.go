// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes the archived entries matching opts to w as YAML.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, opts ListOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes the archived entries matching opts to w as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer, opts ListOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func (s *Store) exportEntries(ctx context.Context, opts ListOptions) ([]Entry, error) {
	entries, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}
