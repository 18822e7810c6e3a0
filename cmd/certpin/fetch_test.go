// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

package main

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_MissingHost(t *testing.T) {
	cmd := fetchCmd
	cmd.Flags().Set("host", "")

	err := runFetch(cmd, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFetch_InvalidTimeout(t *testing.T) {
	cmd := fetchCmd
	cmd.Flags().Set("host", "127.0.0.1")
	cmd.Flags().Set("timeout", "0s")

	err := runFetch(cmd, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	cmd.Flags().Set("timeout", "5s")
}

func TestFetch_Success(t *testing.T) {
	server := startPinnedServer(t)
	read := captureOutput(t)

	cmd := fetchCmd
	cmd.Flags().Set("host", server.host)
	cmd.Flags().Set("port", strconv.Itoa(server.port))
	cmd.Flags().Set("ca-file", server.caFile)
	cmd.Flags().Set("timeout", "5s")
	defer cmd.Flags().Set("ca-file", "")

	err := runFetch(cmd, nil)
	require.NoError(t, err)

	out := string(read())
	// Leaf, intermediate, and the trust-store root.
	assert.Equal(t, 3, strings.Count(out, "BEGIN CERTIFICATE"))
}

func TestFetch_UntrustedServer(t *testing.T) {
	// Without --ca-file the system roots apply; the test CA is unknown to
	// them, so the handshake fails.
	server := startPinnedServer(t)

	cmd := fetchCmd
	cmd.Flags().Set("host", server.host)
	cmd.Flags().Set("port", strconv.Itoa(server.port))
	cmd.Flags().Set("ca-file", "")
	cmd.Flags().Set("timeout", "5s")

	err := runFetch(cmd, nil)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestFetch_ConnectionRefused(t *testing.T) {
	cmd := fetchCmd
	cmd.Flags().Set("host", "127.0.0.1")
	cmd.Flags().Set("port", strconv.Itoa(closedPort(t)))
	cmd.Flags().Set("ca-file", "")
	cmd.Flags().Set("timeout", "1s")

	err := runFetch(cmd, nil)
	assert.ErrorIs(t, err, ErrFetchFailed)
}
