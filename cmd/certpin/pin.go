// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/TaurusAlpha/aws-lambda-ssl-pinning/pkg/pinning"
)

var pinCmd = &cobra.Command{
	Use:   "pin",
	Short: "Capture a server's chain as a reference configuration",
	Long: `Connect to a server and record the first three positions of its verified
certificate chain (server, intermediate, root) as a reference configuration
JSON payload, ready to store as the authorizer secret.

A chain shorter than three positions leaves the missing pins empty; an empty
pin never authorizes, so complete the configuration before relying on it.`,
	RunE: runPin,
}

func init() {
	pinCmd.Flags().String("host", "", "target hostname")
	pinCmd.Flags().Int("port", pinning.DefaultPort, "target TCP port")
	pinCmd.Flags().Duration("timeout", pinning.DefaultFetchTimeout, "dial and handshake timeout")
	pinCmd.Flags().String("dns-server", "", "explicit DNS server for target resolution (e.g., 10.0.0.2:53)")
	pinCmd.Flags().String("ca-file", "", "PEM bundle of trust roots for the handshake (default: system roots)")
}

func runPin(cmd *cobra.Command, args []string) error {
	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")

	chain, err := fetchLiveChain(cmd)
	if err != nil {
		return err
	}

	if len(chain) < 3 {
		slog.Warn("chain has fewer than three positions; reference will be incomplete", "length", len(chain))
	}

	cfg, err := pinning.NewReferenceConfig(host, port,
		chainPosition(chain, 0), chainPosition(chain, 1), chainPosition(chain, 2))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	payload, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileOperation, err)
	}
	payload = append(payload, '\n')

	slog.Info("captured reference configuration", "url", cfg.URL, "port", cfg.Port, "chain_length", len(chain))

	return writeOutput(payload)
}

// chainPosition returns the chain entry at idx, or empty when the chain is
// shorter.
func chainPosition(chain []string, idx int) string {
	if len(chain) <= idx {
		return ""
	}
	return chain[idx]
}
