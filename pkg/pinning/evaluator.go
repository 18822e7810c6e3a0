// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

package pinning

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Position names for the three pinned chain slots, in chain order.
var positionNames = [3]string{"server", "intermediate", "root"}

// EvaluatorConfig configures the pinning evaluator.
type EvaluatorConfig struct {
	// Source yields the reference configuration per evaluation. Required.
	Source ConfigSource

	// Fetcher retrieves live chains. If nil, NewTLSFetcher(nil) is used.
	Fetcher ChainFetcher

	// Logger for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Evaluator produces Allow/Deny decisions by comparing a live certificate
// chain against the pinned reference. It holds no mutable state; a single
// Evaluator may serve concurrent evaluations.
type Evaluator struct {
	source  ConfigSource
	fetcher ChainFetcher
	logger  *slog.Logger
}

// NewEvaluator creates an evaluator. The config source is required; the
// fetcher and logger default.
func NewEvaluator(cfg *EvaluatorConfig) (*Evaluator, error) {
	if cfg == nil || cfg.Source == nil {
		return nil, fmt.Errorf("%w: config source required", ErrInvalidConfig)
	}

	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = NewTLSFetcher(nil)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Evaluator{
		source:  cfg.Source,
		fetcher: fetcher,
		logger:  logger.With("component", "pinning_evaluator"),
	}, nil
}

// Evaluate runs one authorization check: load the reference, fetch the live
// chain, compare the three pinned positions, and map the outcome to a
// Decision. Every failure path resolves to a Deny; Evaluate never returns
// an error and never panics, because the caller needs a decision more than
// it needs diagnostics. Detail goes to the logger.
func (e *Evaluator) Evaluate(ctx context.Context, principalID, resource string) Decision {
	cfg, err := e.source.Load(ctx)
	if err != nil {
		// Without a trusted reference the caller identity is not echoed
		// back either; the fallback literal takes its place.
		e.logger.Error("reference configuration unavailable", "error", err)
		return Decision{PrincipalID: FallbackPrincipalID, Effect: EffectDeny, Resource: resource}
	}

	cfg = cfg.Normalized()
	if err := cfg.Validate(); err != nil {
		e.logger.Error("reference configuration invalid", "error", err)
		return Decision{PrincipalID: FallbackPrincipalID, Effect: EffectDeny, Resource: resource}
	}

	e.logger.Info("retrieving certificate chain", "url", cfg.URL, "port", cfg.Port)

	chain, err := e.fetcher.FetchChain(ctx, cfg.URL, cfg.Port)
	if err != nil {
		e.logger.Error("chain fetch failed", "url", cfg.URL, "port", cfg.Port, "error", err)
		return Decision{PrincipalID: principalID, Effect: EffectDeny, Resource: resource}
	}
	if len(chain) == 0 {
		e.logger.Error("no certificates received", "url", cfg.URL, "port", cfg.Port)
		return Decision{PrincipalID: principalID, Effect: EffectDeny, Resource: resource}
	}

	effect := EffectAllow
	if err := CompareChain(cfg, chain); err != nil {
		e.logger.Info("chain comparison failed", "url", cfg.URL, "error", err)
		effect = EffectDeny
	}

	return Decision{PrincipalID: principalID, Effect: effect, Resource: resource}
}

// CompareChain compares the live chain against the pinned reference at the
// three pinned positions (chain index 0..2). Both sides are normalized by
// whitespace stripping, so the comparison is insensitive to PEM
// re-formatting. A position matches only with a genuine non-empty equality:
// an empty pin or an absent chain position never authorizes. Chain entries
// beyond index 2 are ignored.
//
// Returns nil when all three positions match, otherwise an ErrChainMismatch
// naming the failed positions.
func CompareChain(cfg *ReferenceConfig, chain []string) error {
	cfg = cfg.Normalized()
	pins := [3]string{cfg.ServerCert, cfg.IntermediateCert, cfg.RootCert}

	var failed []string
	for i, pin := range pins {
		if !matchPosition(pin, chain, i) {
			failed = append(failed, positionNames[i])
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%w: %s", ErrChainMismatch, strings.Join(failed, ", "))
	}
	return nil
}

// matchPosition reports whether the pinned value equals the chain entry at
// idx after normalization. An empty pin or a chain shorter than idx+1 is a
// mismatch.
func matchPosition(pin string, chain []string, idx int) bool {
	if pin == "" || len(chain) <= idx {
		return false
	}
	return pin == StripWhitespace(chain[idx])
}
