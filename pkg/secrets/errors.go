// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

package secrets

import "errors"

var (
	// ErrInvalidSource indicates a source was constructed with missing or
	// invalid required fields.
	ErrInvalidSource = errors.New("secrets: invalid source configuration")

	// ErrLookupFailed indicates the backing store could not produce the
	// secret value.
	ErrLookupFailed = errors.New("secrets: lookup failed")
)
