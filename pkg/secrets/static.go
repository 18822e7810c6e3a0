// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

package secrets

import (
	"context"
	"fmt"

	"github.com/TaurusAlpha/aws-lambda-ssl-pinning/pkg/pinning"
)

// StaticSource serves a fixed reference configuration from memory. Useful
// for embedding the evaluator in a process that manages its own
// configuration, and for tests.
type StaticSource struct {
	cfg *pinning.ReferenceConfig
}

// NewStaticSource creates a source returning cfg from every Load.
func NewStaticSource(cfg *pinning.ReferenceConfig) (*StaticSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config required", ErrInvalidSource)
	}
	return &StaticSource{cfg: cfg}, nil
}

// Load returns a copy of the held configuration, so a caller can never
// mutate the source's view.
func (s *StaticSource) Load(_ context.Context) (*pinning.ReferenceConfig, error) {
	out := *s.cfg
	return &out, nil
}
