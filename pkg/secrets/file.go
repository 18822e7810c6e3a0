// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

package secrets

import (
	"context"
	"fmt"
	"os"

	"github.com/TaurusAlpha/aws-lambda-ssl-pinning/pkg/pinning"
)

// FileSource loads the reference configuration from a local JSON file with
// the same payload shape as the stored secret. Used by operator tooling;
// the file is re-read on every Load.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed source. The path is required.
func NewFileSource(path string) (*FileSource, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path required", ErrInvalidSource)
	}
	return &FileSource{path: path}, nil
}

// Load reads and parses the reference configuration file.
func (s *FileSource) Load(_ context.Context) (*pinning.ReferenceConfig, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}

	cfg, err := pinning.ParseReferenceConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	return cfg, nil
}
