// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

package pinning

import "errors"

var (
	// ErrInvalidConfig indicates the reference configuration is missing,
	// unparsable, or missing required fields.
	ErrInvalidConfig = errors.New("pinning: invalid reference configuration")

	// ErrSourceUnavailable indicates the configuration source could not be
	// queried (store error, missing secret).
	ErrSourceUnavailable = errors.New("pinning: configuration source unavailable")

	// ErrConnectivity indicates the target could not be reached or the TLS
	// handshake failed (DNS failure, connection refused, timeout).
	ErrConnectivity = errors.New("pinning: connection failed")

	// ErrEmptyChain indicates the handshake succeeded but the server
	// presented no certificates.
	ErrEmptyChain = errors.New("pinning: server presented no certificates")

	// ErrChainMismatch indicates the live chain was retrieved but one or
	// more pinned positions failed comparison. This is a decision outcome,
	// not a fault; it exists so callers can distinguish a mismatch deny
	// from an infrastructure deny.
	ErrChainMismatch = errors.New("pinning: certificate chain mismatch")
)
