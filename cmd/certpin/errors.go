// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

package main

import "errors"

// Exit codes for the CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitDenied indicates an evaluation completed and the decision was Deny.
	ExitDenied = 1

	// ExitConfigError indicates a configuration or input validation error.
	ExitConfigError = 2
)

// Sentinel errors for CLI operations.
var (
	// ErrInvalidInput is returned when required input parameters are missing or invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFetchFailed is returned when a live chain could not be retrieved.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrDenied is returned by check when the evaluation decision is Deny.
	ErrDenied = errors.New("access denied")

	// ErrFileOperation is returned when a file read or write operation fails.
	ErrFileOperation = errors.New("file operation failed")
)
