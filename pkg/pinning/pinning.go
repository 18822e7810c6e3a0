// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

// Package pinning decides whether to trust a network peer by comparing the
// TLS certificate chain it presents at connection time against a chain of
// certificates previously pinned by an operator.
//
// The package has two moving parts:
//
//   - ChainFetcher: opens a TCP connection to the target, performs a TLS
//     handshake, and returns the presented certificate chain as PEM text,
//     leaf first. TLSFetcher is the production implementation.
//
//   - Evaluator: loads the pinned ReferenceConfig from a ConfigSource,
//     fetches the live chain, and compares the first three chain positions
//     (server, intermediate, root) against the pinned values using exact
//     string equality after whitespace normalization. The result is an
//     Allow/Deny Decision; every failure path resolves to Deny.
//
// Pinning here is exact-content comparison, not cryptographic path
// validation. Certificate issuance, rotation, and revocation checking are
// out of scope.
package pinning

import "context"

// FallbackPrincipalID is the principal recorded on a Decision when the
// reference configuration cannot be loaded and the true caller identity is
// therefore not trusted enough to echo back.
const FallbackPrincipalID = "user"

// Effect is the outcome of an authorization evaluation.
type Effect string

const (
	// EffectAllow grants access. Produced only when all three pinned
	// positions match the live chain.
	EffectAllow Effect = "Allow"

	// EffectDeny refuses access. Produced on any mismatch, missing pin,
	// connectivity failure, or configuration failure.
	EffectDeny Effect = "Deny"
)

// Decision is the output of a single evaluation: who asked, what they asked
// for, and whether they may have it. It carries no diagnostic detail; that
// belongs in the logs.
type Decision struct {
	// PrincipalID identifies the caller, typically its source IP address.
	PrincipalID string

	// Effect is Allow or Deny.
	Effect Effect

	// Resource is the opaque resource identifier supplied by the caller,
	// echoed back unchanged (e.g. an API Gateway method ARN).
	Resource string
}

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool {
	return d.Effect == EffectAllow
}

// ConfigSource yields the pinned reference configuration for an evaluation.
// Implementations live in pkg/secrets; the evaluator only needs the lookup.
type ConfigSource interface {
	// Load returns the current reference configuration. The returned
	// config must already be normalized; the evaluator re-normalizes
	// defensively either way.
	Load(ctx context.Context) (*ReferenceConfig, error)
}

// ChainFetcher retrieves the certificate chain a live server presents
// during a TLS handshake. Implementations must be safe for concurrent use.
type ChainFetcher interface {
	// FetchChain connects to host:port, performs a TLS handshake, and
	// returns the presented chain as PEM-encoded certificates in handshake
	// order (leaf first). A handshake that yields no certificates is an
	// ErrEmptyChain; any dial or protocol failure is an ErrConnectivity.
	FetchChain(ctx context.Context, host string, port int) ([]string, error)
}
