// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: structure-api-key, contact-email.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Vaishnav14220/chem-canvas-sub005/pkg/types"
)

// Recognised key files.
const (
	// KeyStructureAPIKey is sent to the prediction service as x-api-key.
	KeyStructureAPIKey = "structure-api-key"
	// KeyContactEmail is added to the User-Agent so the service operators
	// can reach whoever runs the client.
	KeyContactEmail = "contact-email"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings but do not abort.
func Load(dir string, logger *slog.Logger) (map[string]string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", slog.String("name", name), slog.Any("error", err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply fills cfg from s. An API key already set in cfg wins over the
// secret. A contact email is appended to the User-Agent as a mailto comment.
func Apply(cfg types.ClientConfig, s map[string]string) types.ClientConfig {
	if cfg.APIKey == "" {
		cfg.APIKey = s[KeyStructureAPIKey]
	}
	if email := s[KeyContactEmail]; email != "" && !strings.Contains(cfg.UserAgent, email) {
		ua := cfg.UserAgent
		if ua == "" {
			ua = types.DefaultUserAgent
		}
		cfg.UserAgent = fmt.Sprintf("%s (mailto:%s)", ua, email)
	}
	return cfg
}
